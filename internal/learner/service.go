// Package learner owns the learner's persisted documents: profile,
// progress, achievements, offline media and the LLM request log.
//
// Every write loads the whole document, merges in memory and saves it
// back. There is a single writer, so no locking is done here.
package learner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/store"
)

// ErrNoUser is returned by operations that require a profile when none
// has been created yet.
var ErrNoUser = errors.New("no user profile")

// Service reads and writes learner documents through a store.KV.
type Service struct {
	kv  store.KV
	log *zap.Logger
	now func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l.Named("learner") }
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service on top of kv.
func New(kv store.KV, opts ...Option) *Service {
	s := &Service{kv: kv, log: zap.NewNop(), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// load reads key into dst, leaving dst at its zero value when absent.
func (s *Service) load(ctx context.Context, key string, dst any) error {
	if _, err := s.kv.Load(ctx, key, dst); err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	return nil
}

func (s *Service) save(ctx context.Context, key string, v any) error {
	if err := s.kv.Save(ctx, key, v); err != nil {
		s.log.Error("save document", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// StorageUsage reports the size of everything in the store.
func (s *Service) StorageUsage(ctx context.Context) (StorageUsage, error) {
	n, err := s.kv.Size(ctx)
	if err != nil {
		return StorageUsage{}, fmt.Errorf("storage size: %w", err)
	}
	return StorageUsage{Bytes: n, Megabytes: float64(n) / (1024 * 1024)}, nil
}

// ClearData removes the profile, progress and achievements. Offline media
// and the LLM log are kept.
func (s *Service) ClearData(ctx context.Context) error {
	if err := s.kv.Delete(ctx, store.KeyUser, store.KeyProgress, store.KeyAchievements); err != nil {
		return fmt.Errorf("clear data: %w", err)
	}
	s.log.Info("learner data cleared")
	return nil
}
