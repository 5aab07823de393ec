package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("mongo connection failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if !errors.Is(wrapped, originalErr) {
		t.Errorf("expected errors.Is to unwrap to original error")
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "rdv not found",
			},
			expected: "NOT_FOUND: rdv not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("mongo connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: mongo connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSlotUnavailable(t *testing.T) {
	err := SlotUnavailable("slot 10:00 is no longer available")

	if err.Code != CodeSlotUnavailable {
		t.Errorf("expected code %s, got %s", CodeSlotUnavailable, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Service")
	if got := AsAppError(appErr); got != appErr {
		t.Errorf("expected AsAppError to return the same *AppError")
	}

	plain := errors.New("boom")
	converted := AsAppError(plain)
	if converted.Code != CodeInternal {
		t.Errorf("expected plain error to convert to %s, got %s", CodeInternal, converted.Code)
	}
	if !errors.Is(converted, plain) {
		t.Errorf("expected converted error to wrap the original")
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Rdv", "abc123")

	if err.Details["id"] != "abc123" {
		t.Errorf("expected id detail 'abc123', got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Rdv" {
		t.Errorf("expected resource detail 'Rdv', got %v", err.Details["resource"])
	}
}
