package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Status  int         `json:"status"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
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

// Is matches errors sharing the same code so Clone'd values still satisfy errors.Is.
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

// Internal wraps a collaborator failure into an opaque internal error.
func Internal(err error, message string) *Error {
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, message)
}

// Predefined errors for common scenarios.
var (
	ErrInvalidCredentials         = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password")
	ErrNotFound                   = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden                  = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized               = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict                   = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed         = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation                 = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal                   = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrDuplicateApplication       = New("DUPLICATE_APPLICATION", http.StatusConflict, "an application for this program and intake already exists")
	ErrDuplicateApplicationNumber = New("DUPLICATE_APPLICATION_NUMBER", http.StatusConflict, "application number already assigned, retry the submission")
	ErrUnsupportedFileType        = New("UNSUPPORTED_FILE_TYPE", http.StatusUnsupportedMediaType, "only PDF, DOC, DOCX, JPG, JPEG, PNG files are allowed")
	ErrFileTooLarge               = New("FILE_TOO_LARGE", http.StatusRequestEntityTooLarge, "file exceeds the upload size limit")
	ErrCacheMiss                  = New("CACHE_MISS", http.StatusNotFound, "cache miss")
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

// WithDetails returns a copy of err carrying structured details such as field lists.
func WithDetails(err *Error, message string, details interface{}) *Error {
	clone := Clone(err, message)
	if clone != nil {
		clone.Details = details
	}
	return clone
}

// Validation builds a validation error listing the offending fields.
func Validation(message string, fields []string) *Error {
	return WithDetails(ErrValidation, message, map[string]interface{}{"fields": fields})
}

// Precondition builds a precondition error listing the unmet requirements.
func Precondition(message string, missing []string) *Error {
	return WithDetails(ErrPreconditionFailed, message, map[string]interface{}{"missing": missing})
}
