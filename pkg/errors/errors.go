package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"
	ErrConfigWrite ErrorCode = "CONFIG_WRITE"

	// Rule errors
	ErrRuleSyntax     ErrorCode = "RULE_SYNTAX"
	ErrPatternInvalid ErrorCode = "PATTERN_INVALID"

	// Archive errors
	ErrArchiveRead    ErrorCode = "ARCHIVE_READ"
	ErrArchiveWrite   ErrorCode = "ARCHIVE_WRITE"
	ErrDuplicateEntry ErrorCode = "DUPLICATE_ENTRY"
	ErrMisplacedEntry ErrorCode = "MISPLACED_ENTRY"
	ErrEntryTransform ErrorCode = "ENTRY_TRANSFORM"
	ErrPolicyInvalid  ErrorCode = "POLICY_INVALID"

	// Class file errors
	ErrClassFormat   ErrorCode = "CLASS_FORMAT"
	ErrClassTooLarge ErrorCode = "CLASS_TOO_LARGE"
	ErrSignature     ErrorCode = "SIGNATURE"
)

// ShadeError represents a structured error with code and details
type ShadeError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ShadeError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ShadeError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ShadeError) Is(target error) bool {
	var targetErr *ShadeError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ShadeError with the given code and message
func New(code ErrorCode, message string) *ShadeError {
	return &ShadeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ShadeError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ShadeError {
	return &ShadeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ShadeError
func Wrap(err error, code ErrorCode, message string) *ShadeError {
	if err == nil {
		return nil
	}
	return &ShadeError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ShadeError {
	if err == nil {
		return nil
	}
	return &ShadeError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ShadeError) WithDetail(key string, value interface{}) *ShadeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *ShadeError) WithDetails(details map[string]interface{}) *ShadeError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var shadeErr *ShadeError
	if errors.As(err, &shadeErr) {
		return shadeErr.Code == code
	}
	return false
}

// HasCode checks if any error in the chain of err has the given code
func HasCode(err error, code ErrorCode) bool {
	return errors.Is(err, &ShadeError{Code: code})
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ShadeError
func GetErrorCode(err error) ErrorCode {
	var shadeErr *ShadeError
	if errors.As(err, &shadeErr) {
		return shadeErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ShadeError
func GetErrorDetails(err error) map[string]interface{} {
	var shadeErr *ShadeError
	if errors.As(err, &shadeErr) {
		return shadeErr.Details
	}
	return nil
}

// IsFatal reports whether the error aborts a whole run rather than a single entry.
func IsFatal(err error) bool {
	switch GetErrorCode(err) {
	case ErrDuplicateEntry, ErrMisplacedEntry, ErrRuleSyntax, ErrPatternInvalid,
		ErrArchiveRead, ErrArchiveWrite, ErrEntryTransform, ErrConfigLoad,
		ErrConfigParse, ErrConfigValid, ErrPolicyInvalid:
		return true
	}
	return false
}
