package types

import "fmt"

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeClassification ErrorType = "classification"
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypeAuthorization  ErrorType = "authorization"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeConflict       ErrorType = "conflict"
	ErrorTypeInternal       ErrorType = "internal"
	ErrorTypeExternal       ErrorType = "external"
	ErrorTypeTimeout        ErrorType = "timeout"
)

// TriageError represents a structured error in the triage system
type TriageError struct {
	Type    ErrorType              `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *TriageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *TriageError) Unwrap() error {
	return e.Cause
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	te, ok := err.(*TriageError)
	return ok && te.Type == ErrorTypeValidation
}

// IsClassification reports whether err is a classification error
func IsClassification(err error) bool {
	te, ok := err.(*TriageError)
	return ok && te.Type == ErrorTypeClassification
}

// NewValidationError creates a new validation error
func NewValidationError(code, message string, details map[string]interface{}) *TriageError {
	return &TriageError{
		Type:    ErrorTypeValidation,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewClassificationError creates a new classification error. Classification
// failures are a distinct user-visible condition, never conflated with a
// successful low-confidence result.
func NewClassificationError(code, message string, cause error) *TriageError {
	return &TriageError{
		Type:    ErrorTypeClassification,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(code, message string) *TriageError {
	return &TriageError{
		Type:    ErrorTypeNotFound,
		Code:    code,
		Message: message,
	}
}

// NewAuthenticationError creates a new authentication error
func NewAuthenticationError(code, message string) *TriageError {
	return &TriageError{
		Type:    ErrorTypeAuthentication,
		Code:    code,
		Message: message,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(code, message string) *TriageError {
	return &TriageError{
		Type:    ErrorTypeConflict,
		Code:    code,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(code, message string, cause error) *TriageError {
	return &TriageError{
		Type:    ErrorTypeInternal,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Common error codes
const (
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeUnknownRiskLevel     = "UNKNOWN_RISK_LEVEL"
	ErrCodeClassificationFailed = "CLASSIFICATION_FAILED"
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeConflict             = "CONFLICT"
	ErrCodeInternalError        = "INTERNAL_ERROR"
	ErrCodeTimeout              = "TIMEOUT"
)
