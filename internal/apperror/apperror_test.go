package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{"NotFound wraps ErrNotFound", NotFound("workspace not found"), ErrNotFound, true},
		{"ValidationFailed wraps ErrValidation", ValidationFailed("email", "invalid email address"), ErrValidation, true},
		{"Conflict wraps ErrConflict", Conflict("email already exists"), ErrConflict, true},
		{"Unauthorized wraps ErrUnauthorized", Unauthorized("invalid password"), ErrUnauthorized, true},
		{"Forbidden wraps ErrForbidden", Forbidden("insufficient permission"), ErrForbidden, true},
		{"Internal wraps ErrInternal", Internal(errors.New("disk full"), "owner role not found"), ErrInternal, true},
		{"NotFound does NOT match ErrConflict", NotFound("member not found"), ErrConflict, false},
		{"Forbidden does NOT match ErrUnauthorized", Forbidden("insufficient permission"), ErrUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorsAs(t *testing.T) {
	err := ValidationFailed("name", "name is required")

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As failed to extract *AppError")
	}
	if appErr.Field != "name" {
		t.Errorf("Field = %q, want %q", appErr.Field, "name")
	}
	if appErr.Message != "name is required" {
		t.Errorf("Message = %q, want %q", appErr.Message, "name is required")
	}
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	// Callers add context with %w; the taxonomy must survive the wrapping.
	err := fmt.Errorf("registering user: %w", Conflict("email already exists"))

	if !errors.Is(err, ErrConflict) {
		t.Error("wrapped error lost its ErrConflict identity")
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("wrapped error lost its *AppError")
	}
	if appErr.Message != "email already exists" {
		t.Errorf("Message = %q, want %q", appErr.Message, "email already exists")
	}
}

func TestInternalPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause, "could not load role")

	if !errors.Is(err, cause) {
		t.Error("Internal dropped its cause from the error chain")
	}
	if !errors.Is(err, ErrInternal) {
		t.Error("Internal error does not match ErrInternal")
	}
}
