// Package middleware provides the HTTP middleware chain.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ahermangesh/floatchat/pkg/logger"
)

const (
	// RequestIDHeader carries the request id.
	RequestIDHeader = "X-Request-ID"
)

// RequestID injects a request id into the context and response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)

		ctx := logger.WithContext(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}
