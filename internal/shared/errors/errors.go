package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeValidation indicates invalid input data
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConflict indicates a business-rule rejection
	ErrorTypeConflict ErrorType = "conflict"
	// ErrorTypeUnauthorized indicates authentication failure
	ErrorTypeUnauthorized ErrorType = "unauthorized"
	// ErrorTypeForbidden indicates insufficient permissions
	ErrorTypeForbidden ErrorType = "forbidden"
	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeMethodNotAllowed indicates an unsupported HTTP method
	ErrorTypeMethodNotAllowed ErrorType = "method_not_allowed"
)

// Stable machine-readable codes returned to clients. Engine results carry
// these so callers can branch without unwrapping anything.
const (
	CodeInvalidInput       = "invalid_input"
	CodeNotFound           = "not_found"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeServerError        = "server_error"
	CodeInsufficientTurns  = "insufficient_turns"
	CodeInsufficientFunds  = "insufficient_funds"
	CodeInsufficientStock  = "insufficient_stock"
	CodeInsufficientCargo  = "insufficient_cargo"
	CodeInvalidPortKind    = "invalid_port_kind"
	CodeResourceNotAllowed = "resource_not_allowed"
	CodeSectorRules        = "sector_rules"
	CodeNoWarpLink         = "no_warp_link"
	CodeShieldsUp          = "shields_up"
	CodeHandleTaken        = "handle_taken"
	CodeMineLimit          = "mine_limit"
)

// AppError is the base error type for application errors
type AppError struct {
	Type    ErrorType
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFoundf creates a not found error with formatting
func NotFoundf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Code:    CodeNotFound,
		Message: fmt.Sprintf(format, args...),
	}
}

// Validation creates a validation error
func Validation(message string) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    CodeInvalidInput,
		Message: message,
	}
}

// Validationf creates a validation error with formatting
func Validationf(format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    CodeInvalidInput,
		Message: fmt.Sprintf(format, args...),
	}
}

// Conflict creates a business-rule rejection with a stable code
func Conflict(code, message string) error {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    code,
		Message: message,
	}
}

// Conflictf creates a business-rule rejection with formatting
func Conflictf(code, format string, args ...interface{}) error {
	return &AppError{
		Type:    ErrorTypeConflict,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WrapInternal wraps an error as an internal error
func WrapInternal(message string, err error) error {
	return &AppError{
		Type:    ErrorTypeInternal,
		Code:    CodeServerError,
		Message: message,
		Err:     err,
	}
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) error {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// Forbidden creates a forbidden error
func Forbidden(message string) error {
	return &AppError{
		Type:    ErrorTypeForbidden,
		Code:    CodeForbidden,
		Message: message,
	}
}

// MethodNotAllowed creates a method not allowed error
func MethodNotAllowed(method string) error {
	return &AppError{
		Type:    ErrorTypeMethodNotAllowed,
		Code:    CodeInvalidInput,
		Message: fmt.Sprintf("method %s not allowed", method),
	}
}

// GetType returns the error type of an error
func GetType(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// GetCode returns the stable machine code of an error
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != "" {
		return appErr.Code
	}
	return CodeServerError
}
