package core

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyTitle     = errors.New("empty title")
	ErrTitleTooLong   = fmt.Errorf("title too long (max %d characters)", maxTitleLength)
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNegativeBudget = errors.New("budget cannot be negative")
	ErrInvalidDate    = errors.New("invalid date")

	// ErrNotFound is returned by single-record reads. Deletes never return it.
	ErrNotFound = errors.New("expense not found")

	// ErrStore matches any StoreError via errors.Is.
	ErrStore = errors.New("store failure")
)

// ValidationError reports bad input to a write operation. Writes that fail
// validation never reach the store.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StoreError reports a backing-store failure. Store errors are returned
// unrecovered; the ledger never retries.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// StoreFailure wraps err as a StoreError for op. A nil err stays nil.
func StoreFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
