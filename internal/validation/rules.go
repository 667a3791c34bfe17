// Package validation holds the declarative rule sets for every editable
// entity. A rule set is an ordered list of fields; each field is an ordered
// list of predicate+message pairs evaluated until the first failure.
package validation

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// Rule is a single predicate with the message reported when it fails
type Rule[V any] struct {
	Check   func(V) bool
	Message string
}

// FieldError names the field that failed and the first failing message
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the ordered list of failing fields
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the error recorded for name, if any
func (e Errors) Field(name string) (FieldError, bool) {
	for _, fe := range e {
		if fe.Field == name {
			return fe, true
		}
	}
	return FieldError{}, false
}

// FieldRules validates one named field of T
type FieldRules[T any] struct {
	Name     string
	validate func(v T, prefix string) Errors
}

// Field binds an accessor and its ordered rules to a field name
func Field[T, V any](name string, get func(T) V, rules ...Rule[V]) FieldRules[T] {
	return FieldRules[T]{
		Name: name,
		validate: func(v T, prefix string) Errors {
			value := get(v)
			for _, r := range rules {
				if !r.Check(value) {
					return Errors{{Field: prefix + name, Message: r.Message}}
				}
			}
			return nil
		},
	}
}

// Dive validates every element of a slice field with a nested rule set.
// Element errors are reported as name[i].field.
func Dive[T, E any](name string, get func(T) []E, rs *RuleSet[E]) FieldRules[T] {
	return FieldRules[T]{
		Name: name,
		validate: func(v T, prefix string) Errors {
			var errs Errors
			for i, elem := range get(v) {
				errs = append(errs, rs.validate(elem, fmt.Sprintf("%s%s[%d].", prefix, name, i))...)
			}
			return errs
		},
	}
}

// RuleSet is the ordered collection of field rules for T
type RuleSet[T any] struct {
	fields []FieldRules[T]
}

// NewRuleSet builds a rule set evaluated in the given field order
func NewRuleSet[T any](fields ...FieldRules[T]) *RuleSet[T] {
	return &RuleSet[T]{fields: fields}
}

// Validate runs every field and returns nil when v is valid
func (rs *RuleSet[T]) Validate(v T) error {
	if errs := rs.validate(v, ""); len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateField runs the rules of a single field, including nested fields
// when the field dives into a slice.
func (rs *RuleSet[T]) ValidateField(v T, name string) Errors {
	var errs Errors
	for _, f := range rs.fields {
		if f.Name == name {
			errs = append(errs, f.validate(v, "")...)
		}
	}
	return errs
}

// Fields lists the field names in evaluation order
func (rs *RuleSet[T]) Fields() []string {
	names := make([]string, 0, len(rs.fields))
	for _, f := range rs.fields {
		if !slices.Contains(names, f.Name) {
			names = append(names, f.Name)
		}
	}
	return names
}

func (rs *RuleSet[T]) validate(v T, prefix string) Errors {
	var errs Errors
	for _, f := range rs.fields {
		errs = append(errs, f.validate(v, prefix)...)
	}
	return errs
}

// Required fails on empty or whitespace-only strings
func Required(msg string) Rule[string] {
	return Rule[string]{Check: func(s string) bool { return strings.TrimSpace(s) != "" }, Message: msg}
}

// MinLen counts runes, not bytes
func MinLen(n int, msg string) Rule[string] {
	return Rule[string]{Check: func(s string) bool { return utf8.RuneCountInString(s) >= n }, Message: msg}
}

func MaxLen(n int, msg string) Rule[string] {
	return Rule[string]{Check: func(s string) bool { return utf8.RuneCountInString(s) <= n }, Message: msg}
}

func Matches(re *regexp.Regexp, msg string) Rule[string] {
	return Rule[string]{Check: re.MatchString, Message: msg}
}

// NotMatches fails when re matches anywhere in the value
func NotMatches(re *regexp.Regexp, msg string) Rule[string] {
	return Rule[string]{Check: func(s string) bool { return !re.MatchString(s) }, Message: msg}
}

func Email(msg string) Rule[string] {
	return Rule[string]{Check: func(s string) bool { return validate.Var(s, "required,email") == nil }, Message: msg}
}

// HTTPURL accepts absolute http(s) URLs
func HTTPURL(msg string) Rule[string] {
	return Rule[string]{Check: func(s string) bool { return validate.Var(s, "required,http_url") == nil }, Message: msg}
}

// NotNilUUID fails on the zero UUID
func NotNilUUID(msg string) Rule[uuid.UUID] {
	return Rule[uuid.UUID]{Check: func(id uuid.UUID) bool { return id != uuid.Nil }, Message: msg}
}

func Min[N cmp.Ordered](min N, msg string) Rule[N] {
	return Rule[N]{Check: func(n N) bool { return n >= min }, Message: msg}
}

func Max[N cmp.Ordered](max N, msg string) Rule[N] {
	return Rule[N]{Check: func(n N) bool { return n <= max }, Message: msg}
}

func MinItems[E any](n int, msg string) Rule[[]E] {
	return Rule[[]E]{Check: func(s []E) bool { return len(s) >= n }, Message: msg}
}

func MaxItems[E any](n int, msg string) Rule[[]E] {
	return Rule[[]E]{Check: func(s []E) bool { return len(s) <= n }, Message: msg}
}

// Every fails unless pred holds for each element
func Every[E any](pred func(E) bool, msg string) Rule[[]E] {
	return Rule[[]E]{
		Check: func(s []E) bool {
			for _, e := range s {
				if !pred(e) {
					return false
				}
			}
			return true
		},
		Message: msg,
	}
}

// Valid adapts a type's own Valid method into a rule
func Valid[V interface{ Valid() bool }](msg string) Rule[V] {
	return Rule[V]{Check: func(v V) bool { return v.Valid() }, Message: msg}
}
