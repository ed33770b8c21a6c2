// Package errors provides the unified application error definitions.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	// Generic errors (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeNotFound           ErrorCode = "1002"
	CodeTooManyRequests    ErrorCode = "1003"
	CodeInternalError      ErrorCode = "1004"
	CodeServiceUnavailable ErrorCode = "1005"

	// Query pipeline errors (2xxx)
	CodeMalformedQuery  ErrorCode = "2001"
	CodeQueryRejected   ErrorCode = "2002"
	CodeRetrievalFailed ErrorCode = "2003"
	CodeEmbeddingFailed ErrorCode = "2004"

	// Backend errors (3xxx)
	CodeDatabaseError      ErrorCode = "3001"
	CodeVectorDBError      ErrorCode = "3002"
	CodeCacheError         ErrorCode = "3003"
	CodeBackendUnavailable ErrorCode = "3004"
)

// AppError is the application error carried across layer boundaries.
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches detail text and returns the error.
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// WithError attaches an underlying error and returns the error.
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New creates an AppError for the given code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap creates an AppError wrapping err.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam, CodeMalformedQuery:
		return http.StatusBadRequest
	case CodeQueryRejected:
		return http.StatusUnprocessableEntity
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeServiceUnavailable, CodeBackendUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors.
var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")

	ErrMalformedQuery     = New(CodeMalformedQuery, "query text is unusable")
	ErrQueryRejected      = New(CodeQueryRejected, "query references a disallowed field")
	ErrRetrievalFailed    = New(CodeRetrievalFailed, "retrieval failed")
	ErrBackendUnavailable = New(CodeBackendUnavailable, "data backend unavailable")
)

// IsAppError reports whether err is an AppError.
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError converts err into an AppError, wrapping unknown errors.
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}
