package errors

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "basic error",
			err:      New(ErrCodeConnectionFailed, "Connection failed"),
			expected: "[MART1001] ERROR: Connection failed",
		},
		{
			name: "error with suggestions",
			err: New(ErrCodeConnectionFailed, "Connection failed").
				WithSuggestions("Check network", "Verify credentials"),
			expected: "[MART1001] ERROR: Connection failed\nSuggestions:\n  1. Check network\n  2. Verify credentials",
		},
		{
			name: "error with context",
			err: New(ErrCodeConnectionFailed, "Connection failed").
				WithContext("host", "warehouse.internal").
				WithContext("port", 5432),
			expected: "[MART1001] ERROR: Connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != ErrCodeConnectionFailed {
				t.Errorf("Expected code %s, got %s", ErrCodeConnectionFailed, tt.err.Code)
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	baseErr := fmt.Errorf("database connection refused")

	appErr := Wrap(baseErr, ErrCodeConnectionFailed, "Failed to connect to warehouse")

	if appErr.Cause != baseErr {
		t.Error("Wrapped error should contain original error as cause")
	}

	if appErr.Code != ErrCodeConnectionFailed {
		t.Errorf("Expected code %s, got %s", ErrCodeConnectionFailed, appErr.Code)
	}
}

func TestReferentialError(t *testing.T) {
	err := ReferentialError("order", 42, "user", 7)

	if err.Code != ErrCodeReferentialViolation {
		t.Errorf("Expected code %s, got %s", ErrCodeReferentialViolation, err.Code)
	}
	if err.Context["parent"] != "user" {
		t.Errorf("Expected parent context 'user', got %v", err.Context["parent"])
	}
	if err.Recoverable {
		t.Error("Referential violations must not be marked recoverable")
	}
}

func TestRetryLogic(t *testing.T) {
	attempts := 0
	maxAttempts := 3

	config := &RetryConfig{
		MaxRetries:   maxAttempts - 1,
		InitialDelay: 10 * time.Millisecond,
		MaxDelay:     100 * time.Millisecond,
		Multiplier:   2.0,
		Jitter:       false,
		RetryableError: func(err error) bool {
			return true
		},
	}

	ctx := context.Background()

	// Test successful retry
	err := Retry(ctx, config, func(ctx context.Context) error {
		attempts++
		if attempts < maxAttempts {
			return New(ErrCodeConnectionTimeout, "timeout")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Expected success after retries, got %v", err)
	}
	if attempts != maxAttempts {
		t.Errorf("Expected %d attempts, got %d", maxAttempts, attempts)
	}

	// Test non-retryable error stops immediately
	attempts = 0
	config.RetryableError = func(err error) bool { return false }

	err = Retry(ctx, config, func(ctx context.Context) error {
		attempts++
		return New(ErrCodeConfigInvalid, "bad config")
	})

	if err == nil {
		t.Error("Expected error for non-retryable failure")
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt for non-retryable error, got %d", attempts)
	}
}

func TestCircuitBreaker(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, 50*time.Millisecond)
	ctx := context.Background()

	failing := func() error { return New(ErrCodeConnectionFailed, "boom") }

	// Trip the breaker
	_ = cb.Execute(ctx, failing)
	_ = cb.Execute(ctx, failing)

	if cb.GetState() != "open" {
		t.Errorf("Expected open state after failures, got %s", cb.GetState())
	}

	// Calls while open should be rejected
	err := cb.Execute(ctx, func() error { return nil })
	if err == nil {
		t.Error("Expected rejection while circuit is open")
	}

	// After the reset timeout the breaker goes half-open and can recover
	time.Sleep(60 * time.Millisecond)
	err = cb.Execute(ctx, func() error { return nil })
	if err != nil {
		t.Errorf("Expected success in half-open state, got %v", err)
	}
	if cb.GetState() != "closed" {
		t.Errorf("Expected closed state after recovery, got %s", cb.GetState())
	}
}

func TestNewErrorHandler(t *testing.T) {
	handler, err := NewErrorHandler(ErrorHandlerConfig{MaxLogEntries: 5})
	if err != nil {
		t.Fatalf("Failed to construct handler: %v", err)
	}
	defer handler.Close()
	handler.logWriter = discardWriter{}

	handler.Handle(New(ErrCodeSQLExecution, "statement failed"))

	summary := handler.GetErrorSummary()
	if summary["total_errors"] != 1 {
		t.Errorf("Expected 1 logged error, got %v", summary["total_errors"])
	}
}

func TestTransactionHandler(t *testing.T) {
	handler := &ErrorHandler{
		logWriter: discardWriter{},
		errorLog:  make([]ErrorLogEntry, 0),
		config:    ErrorHandlerConfig{MaxLogEntries: 10},
	}

	rolledBack := false
	th := handler.NewTransactionHandler(nil, func() error {
		rolledBack = true
		return nil
	})

	err := th.Execute(func() error {
		return New(ErrCodeSQLExecution, "statement failed")
	})

	if err == nil {
		t.Error("Expected error to propagate")
	}
	if !rolledBack {
		t.Error("Expected rollback on failure")
	}

	th = handler.NewTransactionHandler(nil, func() error {
		t.Error("Rollback must not run on success")
		return nil
	})
	if err := th.Execute(func() error { return nil }); err != nil {
		t.Errorf("Expected success, got %v", err)
	}
}

func TestErrorCodes(t *testing.T) {
	err := New(ErrCodeReferenceDuplicate, "duplicate city")
	if got := GetErrorCode(err); got != ErrCodeReferenceDuplicate {
		t.Errorf("Expected %s, got %s", ErrCodeReferenceDuplicate, got)
	}

	plain := fmt.Errorf("plain error")
	if got := GetErrorCode(plain); got != ErrCodeInternal {
		t.Errorf("Expected %s for plain error, got %s", ErrCodeInternal, got)
	}
}

func TestErrorSeverity(t *testing.T) {
	err := ValidationError("stock", -1, "must not be negative")

	if err.Severity != SeverityWarning {
		t.Errorf("Expected warning severity, got %s", err.Severity)
	}
	if !IsRecoverable(err) {
		t.Error("Validation errors should be recoverable")
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func BenchmarkErrorCreation(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = New(ErrCodeSQLExecution, "benchmark error").
			WithContext("iteration", i)
	}
}
