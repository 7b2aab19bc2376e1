package insights

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/odysseyquest/odyssey/internal/learner"
)

// Source is the learner data a dashboard reads. *learner.Service
// implements it.
type Source interface {
	User(ctx context.Context) (*learner.User, error)
	Progress(ctx context.Context) (learner.Progress, error)
	CompletedAchievements(ctx context.Context) ([]learner.Achievement, error)
	OfflineContent(ctx context.Context) (map[string]learner.OfflineContent, error)
}

var _ Source = (*learner.Service)(nil)

// Dashboard is everything the analytics view shows.
type Dashboard struct {
	User         *learner.User // nil before onboarding
	Progress     learner.Progress
	Achievements []learner.Achievement
	Performance  map[string]int
	Insights     Insights
	Summary      Summary
}

// Service builds dashboards.
type Service struct {
	src Source
	log *zap.Logger
	now func() time.Time
}

// NewService creates a Service. A nil log discards; a nil clock uses
// time.Now.
func NewService(src Source, log *zap.Logger, now func() time.Time) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{src: src, log: log.Named("insights"), now: now}
}

// Dashboard loads the learner documents concurrently and analyses them.
// Any failed load fails the whole dashboard.
func (s *Service) Dashboard(ctx context.Context, tf Timeframe) (*Dashboard, error) {
	var (
		d       Dashboard
		offline map[string]learner.OfflineContent
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.src.User(gctx)
		d.User = u
		return err
	})
	g.Go(func() error {
		p, err := s.src.Progress(gctx)
		d.Progress = p
		return err
	})
	g.Go(func() error {
		a, err := s.src.CompletedAchievements(gctx)
		d.Achievements = a
		return err
	})
	g.Go(func() error {
		o, err := s.src.OfflineContent(gctx)
		offline = o
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Warn("dashboard load failed", zap.Error(err))
		return nil, fmt.Errorf("load dashboard: %w", err)
	}

	d.Performance = SubjectPerformance(d.Progress)
	d.Insights = Analyze(d.Progress)
	d.Summary = Report(d.Progress, offline, tf, s.now())
	s.log.Debug("dashboard",
		zap.String("timeframe", string(tf)),
		zap.Int("subjects", len(d.Performance)),
		zap.String("pace", string(d.Insights.LearningPace)))
	return &d, nil
}
