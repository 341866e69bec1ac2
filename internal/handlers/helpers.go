package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/cache"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
)

// ErrorResponse is the JSON envelope for error responses.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// MessageResponse is the JSON envelope for plain confirmation responses.
type MessageResponse struct {
	Message string `json:"message"`
}

// getUserID returns the authenticated caller's user ID from the context.
func getUserID(c *gin.Context) uint {
	return c.GetUint(middleware.ContextUserID)
}

// parsePathID parses a numeric path parameter.
func parsePathID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.WithMessage(apperrors.ErrValidation, "Invalid "+name+" parameter")
	}
	return uint(id), nil
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrValidation, "Invalid date format, use YYYY-MM-DD or RFC 3339")
	}
	return t, nil
}

// invalidate drops the given cache namespaces after a committed mutation.
// The write has already happened, so a failure here cannot be returned to
// the client; it is logged loudly instead and the entries age out by TTL.
func invalidate(c *gin.Context, store cache.Store, tags ...string) {
	if err := store.Invalidate(c.Request.Context(), tags...); err != nil {
		logger.Get().Errorw("cache invalidation failed, stale entries until TTL expiry",
			"tags", tags,
			"path", c.Request.URL.Path,
			"error", err,
		)
	}
}
