package errors

import "fmt"

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypeFilesystem ErrorType = "filesystem"
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Error represents a failure with type information. Code carries the HTTP
// status when one was received, 0 otherwise.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given type wrapping err
func New(errType ErrorType, message string, err error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// TypeOf reports the ErrorType of err, or ErrorTypeUnknown when err is not an *Error
func TypeOf(err error) ErrorType {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Type
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ErrorTypeUnknown
}

// IsType checks whether err, or any error it wraps, is an *Error of the given type
func IsType(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}
