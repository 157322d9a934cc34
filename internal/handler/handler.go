package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cinegram/internal/service"
)

const contextUserKey = "user_id"

// renderError maps the service failure taxonomy onto transport status
// codes. Upstream failures are marked retryable so clients present a retry
// affordance; validation and not-found are terminal.
func renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUpstreamUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "retryable": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// currentUserID returns the authenticated user id placed in the request
// context by the session middleware.
func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(contextUserKey)
}

// getIDParam parses a path or query identifier as a positive integer.
// Malformed identifiers are a validation failure, never a lookup miss.
func getIDParam(c *gin.Context, key string) (int64, bool) {
	value := c.Param(key)
	if value == "" {
		value = c.Query(key)
	}

	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
		return 0, false
	}
	return id, true
}

// sessionMiddleware resolves the caller's identity from the Bearer session
// token. Every consumer-facing operation requires a resolved identity.
func (h *HTTPHandler) sessionMiddleware(c *gin.Context) {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		c.Abort()
		return
	}

	userID, err := h.sessions.Validate(parts[1])
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
		c.Abort()
		return
	}

	c.Set(contextUserKey, userID)
	c.Next()
}

// adminMiddleware enforces Bearer token authentication against the
// configured admin token.
func (h *HTTPHandler) adminMiddleware(c *gin.Context) {
	expected := strings.TrimSpace(h.adminToken)
	if expected == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin token not configured"})
		c.Abort()
		return
	}

	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
		c.Abort()
		return
	}

	if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(expected)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		c.Abort()
		return
	}

	c.Next()
}

// RequestLogger logs each request with a generated request id.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		log.Info().
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
