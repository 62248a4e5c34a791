package types

import "fmt"

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeAuthorization  ErrorType = "authorization"
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeInternal       ErrorType = "internal"
	ErrorTypeExternal       ErrorType = "external"
)

// PlatformError is a structured error carried through the API service
type PlatformError struct {
	Type    ErrorType              `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *PlatformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *PlatformError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(code, message string) *PlatformError {
	return &PlatformError{Type: ErrorTypeValidation, Code: code, Message: message}
}

// NewAuthorizationError creates a new authorization error
func NewAuthorizationError(code, message string) *PlatformError {
	return &PlatformError{Type: ErrorTypeAuthorization, Code: code, Message: message}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(code, message string) *PlatformError {
	return &PlatformError{Type: ErrorTypeNotFound, Code: code, Message: message}
}

// NewInternalError creates a new internal error
func NewInternalError(code, message string, cause error) *PlatformError {
	return &PlatformError{Type: ErrorTypeInternal, Code: code, Message: message, Cause: cause}
}

// NewExternalError wraps a failure from the blockchain or another platform
// dependency
func NewExternalError(code, message string, cause error) *PlatformError {
	return &PlatformError{Type: ErrorTypeExternal, Code: code, Message: message, Cause: cause}
}

// Error codes shared between the chaincode and the API service. The first
// three mirror the contract's error kinds one-to-one.
const (
	ErrCodeUnauthorized   = "UNAUTHORIZED"
	ErrCodeInvalidData    = "INVALID_DATA"
	ErrCodePolicyNotFound = "POLICY_NOT_FOUND"

	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
	ErrCodeChaincodeError       = "CHAINCODE_ERROR"
)
