// Package middleware contains the HTTP middleware chain: request IDs,
// logging, auth, CORS, metrics, rate limiting and panic recovery.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the request ID header name.
	RequestIDHeader = "X-Request-ID"
	// RequestIDContextKey stores the request ID in the gin context.
	RequestIDContextKey = "request_id"
)

// RequestID attaches a unique ID to every request. A client-supplied
// X-Request-ID is honored; otherwise a new UUID is generated. The ID is
// stored in the context and echoed back in the response headers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDContextKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID extracts the request ID from the gin context.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDContextKey); exists {
		if strID, ok := id.(string); ok {
			return strID
		}
	}
	return ""
}
