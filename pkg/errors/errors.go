package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches on Code so that clones of a predefined error satisfy errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound   = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict   = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal   = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss  = New("CACHE_MISS", http.StatusNotFound, "cache miss")

	ErrUniqueViolation = New("UNIQUE_CONSTRAINT_VIOLATION", http.StatusConflict, "value already exists")
)

// Mark import failures.
var (
	ErrInvalidFileType    = New("INVALID_FILE_TYPE", http.StatusBadRequest, "Please upload a CSV file.")
	ErrEmptyOrInvalidData = New("EMPTY_OR_INVALID_DATA", http.StatusBadRequest, "The CSV file is empty or does not contain valid data.")
	ErrFileTooLarge       = New("FILE_TOO_LARGE", http.StatusRequestEntityTooLarge, "file exceeds the upload size limit")
	ErrLookupFailure      = New("LOOKUP_FAILURE", http.StatusUnprocessableEntity, "referenced record not found")
	ErrValueCoercion      = New("VALUE_COERCION_ERROR", http.StatusUnprocessableEntity, "mark value is not numeric")
	ErrMarkOutOfRange     = New("MARK_OUT_OF_RANGE", http.StatusUnprocessableEntity, "mark value out of range")
	ErrProcessing         = New("PROCESSING_ERROR", http.StatusUnprocessableEntity, "Error processing CSV file")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// CloneWrap is Clone that also records the underlying cause.
func CloneWrap(err *Error, cause error, message string) *Error {
	clone := Clone(err, message)
	if clone != nil {
		clone.Err = cause
	}
	return clone
}
