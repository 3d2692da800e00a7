package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Warehouse connection errors (1xxx)
	ErrCodeConnectionFailed     ErrorCode = "MART1001"
	ErrCodeConnectionTimeout    ErrorCode = "MART1002"
	ErrCodeAuthenticationFailed ErrorCode = "MART1003"
	ErrCodeNetworkUnavailable   ErrorCode = "MART1004"
	ErrCodeInitialization       ErrorCode = "MART1005"

	// Configuration errors (2xxx)
	ErrCodeConfigNotFound   ErrorCode = "MART2001"
	ErrCodeConfigInvalid    ErrorCode = "MART2002"
	ErrCodeConfigMissing    ErrorCode = "MART2003"
	ErrCodeConfigPermission ErrorCode = "MART2004"

	// Reference data errors (3xxx)
	ErrCodeReferenceNotFound  ErrorCode = "MART3001"
	ErrCodeReferenceDuplicate ErrorCode = "MART3002"
	ErrCodeReferenceSync      ErrorCode = "MART3003"
	ErrCodeReferenceFormat    ErrorCode = "MART3004"

	// Warehouse SQL errors (4xxx)
	ErrCodeSQLExecution      ErrorCode = "MART4001"
	ErrCodeSQLPermission     ErrorCode = "MART4002"
	ErrCodeSQLTimeout        ErrorCode = "MART4003"
	ErrCodeSQLTransaction    ErrorCode = "MART4004"
	ErrCodeSQLObjectNotFound ErrorCode = "MART4005"
	ErrCodeNoResults         ErrorCode = "MART4006"
	ErrCodePublishFailed     ErrorCode = "MART4007"

	// File system errors (5xxx)
	ErrCodeFileNotFound   ErrorCode = "MART5001"
	ErrCodeFilePermission ErrorCode = "MART5002"
	ErrCodeFileOperation  ErrorCode = "MART5003"

	// Input contract and validation errors (6xxx)
	ErrCodeValidationFailed     ErrorCode = "MART6001"
	ErrCodeInvalidInput         ErrorCode = "MART6002"
	ErrCodeRequiredField        ErrorCode = "MART6003"
	ErrCodeReferentialViolation ErrorCode = "MART6004"

	// Security errors (7xxx)
	ErrCodeSecurityViolation ErrorCode = "MART7001"
	ErrCodeEncryptionFailed  ErrorCode = "MART7002"

	// Rollback errors (8xxx)
	ErrCodeRollbackFailed     ErrorCode = "MART8001"
	ErrCodeNoPreviousSnapshot ErrorCode = "MART8002"

	// System errors (9xxx)
	ErrCodeInternal           ErrorCode = "MART9001"
	ErrCodeTimeout            ErrorCode = "MART9002"
	ErrCodeResourceExhausted  ErrorCode = "MART9003"
	ErrCodeServiceUnavailable ErrorCode = "MART9004"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL" // System failure, requires immediate attention
	SeverityError    ErrorSeverity = "ERROR"    // Operation failed, but system continues
	SeverityWarning  ErrorSeverity = "WARNING"  // Operation succeeded with issues
	SeverityInfo     ErrorSeverity = "INFO"     // Informational, not an error
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Recoverable bool
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:        code,
		Message:     message,
		Severity:    SeverityError,
		Context:     make(map[string]interface{}),
		Stack:       captureStack(),
		Timestamp:   time.Now(),
		Recoverable: false,
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	// If wrapping another AppError, inherit some properties
	if ae, ok := err.(*AppError); ok {
		for k, v := range ae.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// AsRecoverable marks the error as recoverable
func (e *AppError) AsRecoverable() *AppError {
	e.Recoverable = true
	return e
}

// captureStack captures the current stack trace
func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// ConnectionError creates a warehouse connection error
func ConnectionError(message string, cause error) *AppError {
	return Wrap(cause, ErrCodeConnectionFailed, message).
		WithSeverity(SeverityError).
		WithSuggestions(
			"Check your network connection",
			"Verify the warehouse host and port are reachable",
			"Check firewall settings",
		)
}

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Run 'martforge setup' to reconfigure",
			"Refer to the configuration documentation",
		)
}

// SQLError creates an SQL execution error
func SQLError(message string, query string, cause error) *AppError {
	err := Wrap(cause, ErrCodeSQLExecution, message).
		WithContext("query", truncateString(query, 200))

	if strings.Contains(message, "permission") || strings.Contains(message, "access denied") {
		err.Code = ErrCodeSQLPermission
		_ = err.WithSuggestions(
			"Check user grants in the warehouse",
			"Verify the role has privileges on the raw and marts schemas",
			"Contact your warehouse administrator",
		)
	} else if strings.Contains(message, "timeout") {
		err.Code = ErrCodeSQLTimeout
		_ = err.WithSuggestions(
			"Increase the query timeout setting",
			"Check warehouse load before retrying",
		)
	}

	return err
}

// ValidationError creates an input-contract validation error
func ValidationError(field string, value interface{}, reason string) *AppError {
	return New(ErrCodeValidationFailed, fmt.Sprintf("Validation failed for %s: %s", field, reason)).
		WithContext("field", field).
		WithContext("value", value).
		WithSeverity(SeverityWarning).
		AsRecoverable()
}

// ReferentialError creates a referential-violation error for a row that
// references a missing parent entity. These are surfaced, never corrected.
func ReferentialError(entity string, id interface{}, parent string, parentID interface{}) *AppError {
	return New(ErrCodeReferentialViolation,
		fmt.Sprintf("%s %v references missing %s %v", entity, id, parent, parentID)).
		WithContext("entity", entity).
		WithContext("id", id).
		WithContext("parent", parent).
		WithContext("parent_id", parentID).
		WithSuggestions(
			"Check the extraction layer delivered consistent snapshots",
			"Re-run extraction before retrying the pipeline",
		)
}

// IsRecoverable checks if an error is recoverable
func IsRecoverable(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Recoverable
	}
	return false
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

// truncateString truncates a string to maxLen characters
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
