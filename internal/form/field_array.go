package form

import (
	"slices"

	"github.com/google/uuid"
)

// Entry is one element of a FieldArray. Key stays the same while the entry
// moves through appends and removals.
type Entry[T any] struct {
	Key   string
	Value T
}

// FieldArray is an ordered list of sub-forms, such as the variants, sizes or
// specs of a product.
type FieldArray[T any] struct {
	entries  []Entry[T]
	onChange func([]T)
}

// NewFieldArray wraps initial values; onChange receives the whole array after
// every modification and may be nil.
func NewFieldArray[T any](initial []T, onChange func([]T)) *FieldArray[T] {
	a := &FieldArray[T]{onChange: onChange}
	for _, v := range initial {
		a.entries = append(a.entries, Entry[T]{Key: uuid.NewString(), Value: v})
	}
	return a
}

// Append adds v at the end and returns its key
func (a *FieldArray[T]) Append(v T) string {
	key := uuid.NewString()
	a.entries = append(a.entries, Entry[T]{Key: key, Value: v})
	a.changed()
	return key
}

// Remove deletes the entry with key and reports whether it existed
func (a *FieldArray[T]) Remove(key string) bool {
	i := a.index(key)
	if i < 0 {
		return false
	}
	a.entries = slices.Delete(a.entries, i, i+1)
	a.changed()
	return true
}

// Update replaces the value stored under key
func (a *FieldArray[T]) Update(key string, v T) bool {
	i := a.index(key)
	if i < 0 {
		return false
	}
	a.entries[i].Value = v
	a.changed()
	return true
}

func (a *FieldArray[T]) Get(key string) (T, bool) {
	if i := a.index(key); i >= 0 {
		return a.entries[i].Value, true
	}
	var zero T
	return zero, false
}

func (a *FieldArray[T]) Entries() []Entry[T] {
	return slices.Clone(a.entries)
}

func (a *FieldArray[T]) Values() []T {
	values := make([]T, len(a.entries))
	for i, e := range a.entries {
		values[i] = e.Value
	}
	return values
}

func (a *FieldArray[T]) Len() int { return len(a.entries) }

func (a *FieldArray[T]) index(key string) int {
	return slices.IndexFunc(a.entries, func(e Entry[T]) bool { return e.Key == key })
}

func (a *FieldArray[T]) changed() {
	if a.onChange != nil {
		a.onChange(a.Values())
	}
}
