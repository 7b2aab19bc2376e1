package learner

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/store"
)

// UnlockAchievement stores an achievement under id, replacing any earlier
// unlock of the same id.
func (s *Service) UnlockAchievement(ctx context.Context, id string, payload map[string]any) (Achievement, error) {
	all, err := s.Achievements(ctx)
	if err != nil {
		return Achievement{}, err
	}
	a := Achievement{ID: id, UnlockedAt: s.now(), Payload: payload}
	all[id] = a
	if err := s.save(ctx, store.KeyAchievements, all); err != nil {
		return Achievement{}, err
	}
	s.log.Info("achievement unlocked", zap.String("id", id))
	return a, nil
}

// Achievements returns all unlocked achievements keyed by id.
func (s *Service) Achievements(ctx context.Context) (map[string]Achievement, error) {
	all := make(map[string]Achievement)
	if err := s.load(ctx, store.KeyAchievements, &all); err != nil {
		return nil, err
	}
	return all, nil
}

// CompletedAchievements lists unlocked achievements, oldest first.
func (s *Service) CompletedAchievements(ctx context.Context) ([]Achievement, error) {
	all, err := s.Achievements(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]Achievement, 0, len(all))
	for _, a := range all {
		list = append(list, a)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].UnlockedAt.Equal(list[j].UnlockedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].UnlockedAt.Before(list[j].UnlockedAt)
	})
	return list, nil
}
