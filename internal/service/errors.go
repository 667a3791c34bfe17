package service

import (
	"errors"
	"fmt"

	"storefront-admin/internal/repository"
	"storefront-admin/internal/validation"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrUnauthorized    = errors.New("not allowed to perform this action")
	ErrNotFound        = errors.New("resource not found")
)

// ValidationError carries the failing fields of an input
type ValidationError struct {
	Fields validation.Errors
}

func (e *ValidationError) Error() string {
	return e.Fields.Error()
}

func (e *ValidationError) Unwrap() error { return e.Fields }

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: validation.Errors{{Field: field, Message: message}}}
}

// ConflictError reports that another record already uses the value of Field
type ConflictError struct {
	Entity string
	Field  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("A %s with the same %s already exists", e.Entity, e.Field)
}

// OperationError wraps an unexpected persistence failure
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// validate runs a rule set and converts its errors
func validate[T any](rs *validation.RuleSet[T], v T) error {
	err := rs.Validate(v)
	if err == nil {
		return nil
	}
	var fields validation.Errors
	if errors.As(err, &fields) {
		return &ValidationError{Fields: fields}
	}
	return err
}

// storageError maps repository failures onto the service taxonomy
func storageError(entity, op string, err error) error {
	var dup *repository.DuplicateError
	switch {
	case errors.As(err, &dup):
		return &ConflictError{Entity: entity, Field: dup.Field}
	case errors.Is(err, repository.ErrStoreNotOwned):
		return ErrUnauthorized
	case errors.Is(err, repository.ErrCategoryNotFound),
		errors.Is(err, repository.ErrSubCategoryNotFound),
		errors.Is(err, repository.ErrStoreNotFound),
		errors.Is(err, repository.ErrProductNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	default:
		return &OperationError{Op: op, Err: err}
	}
}
