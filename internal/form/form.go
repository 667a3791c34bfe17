// Package form is a headless model of the admin dashboard forms: values,
// per-field errors and a submission state machine driven by the same rule
// sets the services enforce.
package form

import (
	"context"
	"errors"
	"sync"

	"storefront-admin/internal/validation"
)

// State is the lifecycle position of a form
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
)

var (
	ErrInvalid    = errors.New("form has invalid fields")
	ErrSubmitting = errors.New("form is already submitting")
)

// SubmitFunc sends the form values to an upsert operation
type SubmitFunc[T any] func(ctx context.Context, values T) error

// Form holds the values of T together with their validation errors.
// It is safe for concurrent use.
type Form[T any] struct {
	mu      sync.Mutex
	values  T
	rules   *validation.RuleSet[T]
	errors  map[string]validation.Errors
	state   State
	message string
}

// New creates an idle form seeded with initial values
func New[T any](initial T, rules *validation.RuleSet[T]) *Form[T] {
	return &Form[T]{
		values: initial,
		rules:  rules,
		errors: make(map[string]validation.Errors),
		state:  StateIdle,
	}
}

// Set applies mutate to the values and re-validates field. While a submit is
// in flight the state stays submitting so the gate remains closed.
func (f *Form[T]) Set(field string, mutate func(*T)) validation.Errors {
	f.mu.Lock()
	defer f.mu.Unlock()

	mutate(&f.values)
	submitting := f.state == StateSubmitting
	if !submitting {
		f.state = StateValidating
	}
	errs := f.rules.ValidateField(f.values, field)
	if len(errs) == 0 {
		delete(f.errors, field)
	} else {
		f.errors[field] = errs
	}
	if !submitting {
		f.state = StateIdle
		f.message = ""
	}
	return errs
}

// Submit validates every field and, when the form is valid, hands the values
// to submit. A failed submit returns the form to idle with the error kept in
// Message and the values kept for a retry.
func (f *Form[T]) Submit(ctx context.Context, submit SubmitFunc[T]) error {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return ErrSubmitting
	}

	f.state = StateValidating
	f.setAll(f.rules.Validate(f.values))
	if len(f.errors) > 0 {
		f.state = StateIdle
		f.mu.Unlock()
		return ErrInvalid
	}

	f.state = StateSubmitting
	f.message = ""
	values := f.values
	f.mu.Unlock()

	err := submit(ctx, values)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		// Field errors returned by the server land on their fields.
		var fields validation.Errors
		if errors.As(err, &fields) {
			f.setAll(fields)
		}
		f.state = StateIdle
		f.message = err.Error()
		return err
	}
	f.state = StateSuccess
	return nil
}

func (f *Form[T]) setAll(err error) {
	clear(f.errors)
	var fields validation.Errors
	if !errors.As(err, &fields) {
		return
	}
	for _, fe := range fields {
		key := topLevel(fe.Field)
		f.errors[key] = append(f.errors[key], fe)
	}
}

// topLevel maps "variants[0].name" to "variants"
func topLevel(field string) string {
	for i, r := range field {
		if r == '[' || r == '.' {
			return field[:i]
		}
	}
	return field
}

// Values returns a copy of the current values
func (f *Form[T]) Values() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values
}

func (f *Form[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Message is the error shown after a failed submission
func (f *Form[T]) Message() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.message
}

// Errors lists the current field errors in rule set order
func (f *Form[T]) Errors() validation.Errors {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out validation.Errors
	for _, name := range f.rules.Fields() {
		out = append(out, f.errors[name]...)
	}
	return out
}

// FieldError returns the first message reported for field
func (f *Form[T]) FieldError(field string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	errs := f.errors[topLevel(field)]
	if fe, ok := errs.Field(field); ok {
		return fe.Message, true
	}
	return "", false
}

func (f *Form[T]) Valid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errors) == 0
}
