package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFormat         = errors.New("invalid format")
	ErrInvalidMonth          = errors.New("invalid month")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidCustomInterval = errors.New("custom interval must be at least 1 day")
	ErrSameCategory          = errors.New("source and destination category are the same")
	ErrLocked                = errors.New("transaction is reconciled and locked")
	ErrSessionActive         = errors.New("a reconciliation session is already active for this account")
	ErrNonzeroDifference     = errors.New("reconciliation difference is not zero")
	ErrAccountArchived       = errors.New("account is archived")
	ErrNotFound              = errors.New("not found")
)

// NotFoundError reports an unknown entity reference with enough context
// to redisplay an editable form.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NewNotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ValidationError carries the offending field and value alongside the
// underlying sentinel so callers can match with errors.Is.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field, value string, err error) error {
	return &ValidationError{Field: field, Value: value, Err: err}
}
