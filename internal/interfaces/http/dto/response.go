// Package dto provides the HTTP layer transfer objects.
package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/ahermangesh/floatchat/pkg/errors"
)

// Response is the unified success envelope.
type Response[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorDetail carries structured error context.
type ErrorDetail struct {
	ErrorCode string `json:"error_code,omitempty"`
	Details   string `json:"details,omitempty"`
}

// ErrorResponse is the unified error envelope.
type ErrorResponse struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Error   *ErrorDetail `json:"error,omitempty"`
	TraceID string       `json:"trace_id,omitempty"`
}

// Success writes a 200 response.
func Success[T any](c *gin.Context, data T) {
	c.JSON(200, Response[T]{
		Code:    200,
		Message: "success",
		Data:    data,
		TraceID: c.GetString("trace_id"),
	})
}

// Error writes an error response.
func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, ErrorResponse{
		Code:    httpCode,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// ErrorWithDetail writes an error response with detail.
func ErrorWithDetail(c *gin.Context, httpCode int, message string, detail *ErrorDetail) {
	c.JSON(httpCode, ErrorResponse{
		Code:    httpCode,
		Message: message,
		Error:   detail,
		TraceID: c.GetString("trace_id"),
	})
}

// FromAppError writes the response mapped from an application error.
func FromAppError(c *gin.Context, err error) {
	appErr := errors.AsAppError(err)
	ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &ErrorDetail{
		ErrorCode: string(appErr.Code),
		Details:   appErr.Detail,
	})
}

// BadRequest writes a 400 response.
func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

// NotFound writes a 404 response.
func NotFound(c *gin.Context, message string) {
	Error(c, 404, message)
}

// InternalError writes a 500 response.
func InternalError(c *gin.Context, message string) {
	Error(c, 500, message)
}

// ServiceUnavailable writes a 503 response.
func ServiceUnavailable(c *gin.Context, message string) {
	Error(c, 503, message)
}
