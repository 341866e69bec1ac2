// Package cache implements the read-through response cache. Entries are
// JSON response bodies keyed by request URI and caller identity, registered
// under namespace tags so that mutations can invalidate every affected key
// with a tag lookup instead of a pattern scan over the keyspace.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned by Store.Get when no live entry exists for a key.
var ErrMiss = errors.New("cache: miss")

// Store is the contract for cache backends. Implementations must treat
// Set and Invalidate atomically enough that a key never outlives the tag
// registration that makes it reachable for invalidation.
type Store interface {
	// Get returns the cached value for key, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key with the given TTL and registers the key
	// under each tag.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error
	// Invalidate removes every key registered under any of the given tags.
	Invalidate(ctx context.Context, tags ...string) error
}

// Class groups routes that share a TTL and a tag namespace.
type Class struct {
	Name string
	TTL  time.Duration
	tags func(userID uint) []string
}

// Tags returns the namespace tags an entry of this class is registered under
// for the given caller.
func (c Class) Tags(userID uint) []string {
	return c.tags(userID)
}

// Route classes. TTLs follow the per-route bounds: transaction reads go
// stale fastest, category lists are near-static.
var (
	Transactions = Class{Name: "transactions", TTL: 5 * time.Minute, tags: func(userID uint) []string {
		return []string{TagUserTransactions(userID)}
	}}
	Categories = Class{Name: "categories", TTL: 60 * time.Minute, tags: func(uint) []string {
		return []string{TagCategories}
	}}
	// Analytics entries carry both a per-user and a global tag: transaction
	// mutations invalidate one user's aggregates, category mutations must
	// invalidate everyone's (breakdowns reference global categories).
	Analytics = Class{Name: "analytics", TTL: 15 * time.Minute, tags: func(userID uint) []string {
		return []string{TagAnalytics, TagUserAnalytics(userID)}
	}}
	Profile = Class{Name: "profile", TTL: 30 * time.Minute, tags: func(userID uint) []string {
		return []string{TagUserProfile(userID)}
	}}
)

// Global namespace tags.
const (
	TagCategories = "categories"
	TagAnalytics  = "analytics"
)

// TagUserTransactions is the namespace of one user's transaction list and
// detail entries.
func TagUserTransactions(userID uint) string {
	return fmt.Sprintf("transactions:user:%d", userID)
}

// TagUserAnalytics is the namespace of one user's analytics entries.
func TagUserAnalytics(userID uint) string {
	return fmt.Sprintf("analytics:user:%d", userID)
}

// TagUserProfile is the namespace of one user's profile entry.
func TagUserProfile(userID uint) string {
	return fmt.Sprintf("profile:user:%d", userID)
}

// Key derives the cache key for a request. The full request URI (path and
// query string) plus the caller identity makes the key deterministic for
// identical queries and disjoint across users.
func Key(requestURI string, userID uint) string {
	return fmt.Sprintf("cache:%s:%d", requestURI, userID)
}

// TransactionMutationTags lists the namespaces a transaction mutation
// must invalidate: the user's transaction keys and the user's aggregates.
func TransactionMutationTags(userID uint) []string {
	return []string{TagUserTransactions(userID), TagUserAnalytics(userID)}
}

// CategoryMutationTags lists the namespaces a category mutation must
// invalidate: all category keys and all analytics keys system-wide.
func CategoryMutationTags() []string {
	return []string{TagCategories, TagAnalytics}
}
