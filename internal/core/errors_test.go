package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestStoreFailure(t *testing.T) {
	if StoreFailure("insert", nil) != nil {
		t.Fatalf("nil error should stay nil")
	}

	cause := errors.New("disk I/O error")
	err := fmt.Errorf("add expense: %w", StoreFailure("insert", cause))

	if !errors.Is(err, ErrStore) {
		t.Fatalf("expected errors.Is(err, ErrStore)")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be reachable")
	}
	var se *StoreError
	if !errors.As(err, &se) || se.Op != "insert" {
		t.Fatalf("expected StoreError with op insert, got %v", err)
	}
	if IsValidation(err) {
		t.Fatalf("store error must not be a validation error")
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "amount", Err: ErrInvalidAmount}
	if err.Error() != "invalid amount: invalid amount" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if errors.Is(err, ErrStore) {
		t.Fatalf("validation error must not match ErrStore")
	}
}
