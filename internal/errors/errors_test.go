package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "test error")
	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "test error" {
		t.Errorf("expected message 'test error', got %s", err.Message)
	}
	if err.Err != nil {
		t.Errorf("expected nil wrapped error, got %v", err.Err)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("original error")
	err := Wrap(originalErr, CodeDatabase, "database operation failed")

	if err.Code != CodeDatabase {
		t.Errorf("expected code %s, got %s", CodeDatabase, err.Code)
	}
	if err.Message != "database operation failed" {
		t.Errorf("expected message 'database operation failed', got %s", err.Message)
	}
	if err.Err != originalErr {
		t.Errorf("expected wrapped error to be original error")
	}
}

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "error without wrapped error",
			err:      New(CodeValidation, "validation failed"),
			expected: "[VALIDATION_ERROR] validation failed",
		},
		{
			name:     "error with wrapped error",
			err:      Wrap(errors.New("inner"), CodeDatabase, "db error"),
			expected: "[DATABASE_ERROR] db error: inner",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	originalErr := errors.New("original")
	err := Wrap(originalErr, CodeDatabase, "wrapped")

	if unwrapped := err.Unwrap(); unwrapped != originalErr {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, originalErr)
	}
}

func TestAppErrorWithContext(t *testing.T) {
	err := New(CodeValidation, "test").
		WithContext("field", "email").
		WithContext("value", "invalid")

	if len(err.Context) != 2 {
		t.Errorf("expected 2 context items, got %d", len(err.Context))
	}
	if err.Context["field"] != "email" {
		t.Errorf("expected field context 'email', got %v", err.Context["field"])
	}
	if err.Context["value"] != "invalid" {
		t.Errorf("expected value context 'invalid', got %v", err.Context["value"])
	}
}

func TestValidationError(t *testing.T) {
	err := ValidationError("invalid input")
	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
}

func TestDatabaseError(t *testing.T) {
	originalErr := errors.New("connection failed")
	err := DatabaseError("failed to connect", originalErr)
	if err.Code != CodeDatabase {
		t.Errorf("expected code %s, got %s", CodeDatabase, err.Code)
	}
	if err.Err != originalErr {
		t.Errorf("expected wrapped error to be original error")
	}
}

func TestUnauthorizedError(t *testing.T) {
	err := UnauthorizedError("invalid session token")
	if err.Code != CodeUnauthorized {
		t.Errorf("expected code %s, got %s", CodeUnauthorized, err.Code)
	}
}

func TestConflictError(t *testing.T) {
	err := ConflictError("email already registered")
	if err.Code != CodeConflict {
		t.Errorf("expected code %s, got %s", CodeConflict, err.Code)
	}
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("watchlist entry", "abc-123")
	if err.Code != CodeNotFound {
		t.Errorf("expected code %s, got %s", CodeNotFound, err.Code)
	}
	if err.Message != "watchlist entry not found: abc-123" {
		t.Errorf("unexpected message: %s", err.Message)
	}
}

func TestExternalServiceError(t *testing.T) {
	originalErr := errors.New("timeout")
	err := ExternalServiceError("tmdb", "service timeout", originalErr)
	if err.Code != CodeExternalService {
		t.Errorf("expected code %s, got %s", CodeExternalService, err.Code)
	}
	if err.Context["service"] != "tmdb" {
		t.Errorf("expected service context 'tmdb', got %v", err.Context["service"])
	}
}

func TestConfigError(t *testing.T) {
	t.Run("with wrapped error", func(t *testing.T) {
		originalErr := errors.New("file not found")
		err := ConfigError("config load failed", originalErr)
		if err.Code != CodeConfig {
			t.Errorf("expected code %s, got %s", CodeConfig, err.Code)
		}
		if err.Err != originalErr {
			t.Errorf("expected wrapped error to be original error")
		}
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := ConfigError("missing required field", nil)
		if err.Code != CodeConfig {
			t.Errorf("expected code %s, got %s", CodeConfig, err.Code)
		}
		if err.Err != nil {
			t.Errorf("expected nil wrapped error, got %v", err.Err)
		}
	})
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "validation error",
			err:      ValidationError("invalid"),
			expected: http.StatusBadRequest,
		},
		{
			name:     "unauthorized",
			err:      UnauthorizedError("no session"),
			expected: http.StatusUnauthorized,
		},
		{
			name:     "not found",
			err:      NotFoundError("title", "42"),
			expected: http.StatusNotFound,
		},
		{
			name:     "conflict",
			err:      ConflictError("duplicate"),
			expected: http.StatusConflict,
		},
		{
			name:     "service unavailable",
			err:      Wrap(errors.New("down"), CodeServiceUnavailable, "unavailable"),
			expected: http.StatusBadGateway,
		},
		{
			name:     "rate limited",
			err:      Wrap(errors.New("429"), CodeRateLimited, "rate limited"),
			expected: http.StatusTooManyRequests,
		},
		{
			name:     "standard error",
			err:      errors.New("boom"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.expected {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{
			name:     "app error",
			err:      ValidationError("test"),
			expected: CodeValidation,
		},
		{
			name:     "wrapped app error",
			err:      DatabaseError("test", errors.New("inner")),
			expected: CodeDatabase,
		},
		{
			name:     "standard error",
			err:      errors.New("standard"),
			expected: CodeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}
