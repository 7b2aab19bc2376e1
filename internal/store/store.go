package store

import (
	"context"
	"errors"
)

// Document keys used by the application.
const (
	KeyUser           = "user"
	KeyProgress       = "progress"
	KeyAchievements   = "achievements"
	KeyCachedVideos   = "cachedVideos"
	KeyOfflineContent = "offlineContent"
	KeyLLMRequests    = "llmRequests"
)

// ErrUnavailable wraps any failure of the underlying persistence layer.
var ErrUnavailable = errors.New("storage unavailable")

// KV is a whole-document key-value store. Every Save overwrites the
// entire document stored under key; merging is the caller's job.
type KV interface {
	// Save serializes value as JSON and persists it under key.
	Save(ctx context.Context, key string, value any) error

	// Load decodes the document stored under key into dst.
	// Returns false when the key is absent; dst is left untouched.
	Load(ctx context.Context, key string, dst any) (bool, error)

	// Delete removes the given keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// Keys lists all stored keys in lexical order.
	Keys(ctx context.Context) ([]string, error)

	// Size returns the total number of bytes of stored JSON.
	Size(ctx context.Context) (int64, error)

	Close() error
}
