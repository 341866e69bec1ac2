package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// storeFactories lets every contract test run against both backends.
var storeFactories = map[string]func(t *testing.T) Store{
	"memory": func(t *testing.T) Store {
		t.Helper()
		return NewMemoryStore()
	},
	"redis": func(t *testing.T) Store {
		t.Helper()
		srv := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return NewRedisStoreFromClient(client)
	},
}

func TestStoreGetSet(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			t.Run("miss_on_empty", func(t *testing.T) {
				_, err := store.Get(ctx, "cache:/transactions:1")
				if !errors.Is(err, ErrMiss) {
					t.Fatalf("expected ErrMiss, got %v", err)
				}
			})

			t.Run("hit_returns_stored_bytes", func(t *testing.T) {
				body := []byte(`{"transactions":[]}`)
				if err := store.Set(ctx, "cache:/transactions:1", body, time.Minute, TagUserTransactions(1)); err != nil {
					t.Fatalf("set failed: %v", err)
				}

				got, err := store.Get(ctx, "cache:/transactions:1")
				if err != nil {
					t.Fatalf("get failed: %v", err)
				}
				if string(got) != string(body) {
					t.Errorf("expected %s, got %s", body, got)
				}
			})
		})
	}
}

func TestStoreInvalidate(t *testing.T) {
	for name, newStore := range storeFactories {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			t.Run("removes_all_keys_under_tag", func(t *testing.T) {
				keys := []string{
					Key("/api/v1/transactions?page=1", 7),
					Key("/api/v1/transactions/42", 7),
				}
				for _, k := range keys {
					if err := store.Set(ctx, k, []byte("{}"), time.Minute, TagUserTransactions(7)); err != nil {
						t.Fatalf("set failed: %v", err)
					}
				}

				if err := store.Invalidate(ctx, TagUserTransactions(7)); err != nil {
					t.Fatalf("invalidate failed: %v", err)
				}

				for _, k := range keys {
					if _, err := store.Get(ctx, k); !errors.Is(err, ErrMiss) {
						t.Errorf("expected %s invalidated, got err=%v", k, err)
					}
				}
			})

			t.Run("leaves_other_namespaces_alone", func(t *testing.T) {
				mine := Key("/api/v1/analytics/overview", 7)
				theirs := Key("/api/v1/analytics/overview", 8)
				if err := store.Set(ctx, mine, []byte("a"), time.Minute, TagAnalytics, TagUserAnalytics(7)); err != nil {
					t.Fatalf("set failed: %v", err)
				}
				if err := store.Set(ctx, theirs, []byte("b"), time.Minute, TagAnalytics, TagUserAnalytics(8)); err != nil {
					t.Fatalf("set failed: %v", err)
				}

				if err := store.Invalidate(ctx, TagUserAnalytics(7)); err != nil {
					t.Fatalf("invalidate failed: %v", err)
				}

				if _, err := store.Get(ctx, mine); !errors.Is(err, ErrMiss) {
					t.Errorf("expected user 7 entry invalidated, got err=%v", err)
				}
				if _, err := store.Get(ctx, theirs); err != nil {
					t.Errorf("expected user 8 entry to survive, got err=%v", err)
				}
			})

			t.Run("global_tag_sweeps_all_users", func(t *testing.T) {
				a := Key("/api/v1/analytics/overview?start_date=2024-01-01", 1)
				b := Key("/api/v1/analytics/overview?start_date=2024-01-01", 2)
				for i, k := range []string{a, b} {
					if err := store.Set(ctx, k, []byte("x"), time.Minute, TagAnalytics, TagUserAnalytics(uint(i+1))); err != nil {
						t.Fatalf("set failed: %v", err)
					}
				}

				if err := store.Invalidate(ctx, CategoryMutationTags()...); err != nil {
					t.Fatalf("invalidate failed: %v", err)
				}

				for _, k := range []string{a, b} {
					if _, err := store.Get(ctx, k); !errors.Is(err, ErrMiss) {
						t.Errorf("expected %s swept by global analytics tag, got err=%v", k, err)
					}
				}
			})

			t.Run("invalidating_empty_tag_is_noop", func(t *testing.T) {
				if err := store.Invalidate(ctx, TagUserTransactions(9999)); err != nil {
					t.Errorf("expected nil error, got %v", err)
				}
			})
		})
	}
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	defer func() { _ = client.Close() }()
	store := NewRedisStoreFromClient(client)
	ctx := context.Background()

	key := Key("/api/v1/categories", 1)
	if err := store.Set(ctx, key, []byte("{}"), time.Minute, TagCategories); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	srv.FastForward(2 * time.Minute)

	if _, err := store.Get(ctx, key); !errors.Is(err, ErrMiss) {
		t.Errorf("expected entry expired after TTL, got err=%v", err)
	}
}

func TestMemoryStoreTTLExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	key := Key("/api/v1/categories", 1)
	if err := store.Set(ctx, key, []byte("{}"), -time.Second, TagCategories); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if _, err := store.Get(ctx, key); !errors.Is(err, ErrMiss) {
		t.Errorf("expected already-expired entry to miss, got err=%v", err)
	}
	if store.Len() != 0 {
		t.Errorf("expected no live entries, got %d", store.Len())
	}
}

func TestKeyIsDeterministicAndIdentityScoped(t *testing.T) {
	a := Key("/api/v1/analytics/overview?start_date=2024-01-01&end_date=2024-01-31", 5)
	b := Key("/api/v1/analytics/overview?start_date=2024-01-01&end_date=2024-01-31", 5)
	if a != b {
		t.Errorf("same request and identity must produce the same key: %s vs %s", a, b)
	}

	other := Key("/api/v1/analytics/overview?start_date=2024-01-01&end_date=2024-01-31", 6)
	if a == other {
		t.Error("different identities must not share a key")
	}
}
