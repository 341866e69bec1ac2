package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/cache"
)

// countingHandler serves an incrementing counter so tests can tell cached
// responses from fresh ones.
func newCachedRouter(store cache.Store, class cache.Class, userID uint) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	hits := 0
	router := gin.New()
	router.GET("/data",
		func(c *gin.Context) { c.Set(ContextUserID, userID) },
		Cached(store, class),
		func(c *gin.Context) {
			hits++
			c.JSON(http.StatusOK, gin.H{"serve": hits})
		},
	)
	return router, &hits
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestCachedServesSecondReadFromStore(t *testing.T) {
	store := cache.NewMemoryStore()
	router, hits := newCachedRouter(store, cache.Transactions, 1)

	first := get(router, "/data?page=1")
	second := get(router, "/data?page=1")

	if *hits != 1 {
		t.Errorf("expected handler to run once, ran %d times", *hits)
	}
	if first.Body.String() != second.Body.String() {
		t.Error("expected byte-identical cached body")
	}
}

func TestCachedKeysIncludeQueryAndUser(t *testing.T) {
	store := cache.NewMemoryStore()
	router, hits := newCachedRouter(store, cache.Transactions, 1)

	get(router, "/data?page=1")
	get(router, "/data?page=2")
	if *hits != 2 {
		t.Errorf("expected distinct queries to miss, handler ran %d times", *hits)
	}

	otherUser, otherHits := newCachedRouter(store, cache.Transactions, 2)
	get(otherUser, "/data?page=1")
	if *otherHits != 1 {
		t.Error("expected another user's identical query to miss")
	}
}

func TestCachedSkipsErrorResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := cache.NewMemoryStore()
	calls := 0
	router := gin.New()
	router.GET("/fail",
		func(c *gin.Context) { c.Set(ContextUserID, uint(1)) },
		Cached(store, cache.Transactions),
		func(c *gin.Context) {
			calls++
			c.JSON(http.StatusNotFound, gin.H{"error": "nope"})
		},
	)

	get(router, "/fail")
	get(router, "/fail")
	if calls != 2 {
		t.Errorf("expected error responses to stay uncached, handler ran %d times", calls)
	}
	if store.Len() != 0 {
		t.Errorf("expected no cached entries, found %d", store.Len())
	}
}

// failingStore errors on every operation.
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("backend down")
}
func (failingStore) Set(context.Context, string, []byte, time.Duration, ...string) error {
	return errors.New("backend down")
}
func (failingStore) Invalidate(context.Context, ...string) error {
	return errors.New("backend down")
}

func TestCachedFailsOpen(t *testing.T) {
	router, hits := newCachedRouter(failingStore{}, cache.Transactions, 1)

	for i := 0; i < 3; i++ {
		w := get(router, "/data")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 with a broken store, got %d", w.Code)
		}
	}
	if *hits != 3 {
		t.Errorf("expected every request to reach the handler, got %d", *hits)
	}
}

func TestCachedIgnoresNonGET(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := cache.NewMemoryStore()
	router := gin.New()
	router.POST("/data",
		func(c *gin.Context) { c.Set(ContextUserID, uint(1)) },
		Cached(store, cache.Transactions),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"n": 1}) },
	)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/data", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("unexpected status %d", w.Code)
		}
	}
	if store.Len() != 0 {
		t.Errorf("expected POST responses to stay uncached, found %d entries", store.Len())
	}
}

func TestRateLimiterRejectsOverBudget(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/limited",
		RateLimiter(RateLimit{Requests: 3, Window: time.Hour}),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	for i := 0; i < 3; i++ {
		w := get(router, "/limited")
		if w.Code != http.StatusOK {
			t.Fatalf("request %d unexpectedly limited: %d", i+1, w.Code)
		}
	}

	w := get(router, "/limited")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 over budget, got %d", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, "retry_after") {
		t.Errorf("expected retry hint in body, got %s", body)
	}
}
