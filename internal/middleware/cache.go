package middleware

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/cache"
	"fintrack/internal/logger"
)

// Cached returns middleware that serves GET responses from the cache store.
// On a hit the stored body is returned unchanged and the handler never runs.
// On a miss the response body is captured and stored under the route class's
// TTL and tags. Every cache failure degrades to a plain uncached request;
// the store must never be able to fail a read.
func Cached(store cache.Store, class cache.Class) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		userID := c.GetUint(ContextUserID)
		key := cache.Key(c.Request.URL.RequestURI(), userID)
		ctx := c.Request.Context()

		body, err := store.Get(ctx, key)
		if err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}
		if !errors.Is(err, cache.ErrMiss) {
			logger.Get().Warnw("cache get failed, serving uncached",
				"key", key,
				"error", err,
			)
		}

		capture := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = capture
		c.Next()

		// Only successful responses are worth memoizing.
		if capture.Status() != http.StatusOK || capture.body.Len() == 0 {
			return
		}
		if err := store.Set(ctx, key, capture.body.Bytes(), class.TTL, class.Tags(userID)...); err != nil {
			logger.Get().Warnw("cache set failed",
				"key", key,
				"class", class.Name,
				"error", err,
			)
		}
	}
}

// bodyCapture tees the response body so it can be cached after the handler
// has written it.
type bodyCapture struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCapture) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
