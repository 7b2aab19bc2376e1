// Package rewards turns a finished game into coins and achievement unlocks.
package rewards

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/learner"
)

// Result summarises a finished game.
type Result struct {
	GameID     string
	Score      int // correct answers
	Total      int
	BestStreak int
}

// FinalScore is Score/Total, or 0 for an empty game.
func (r Result) FinalScore() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Total)
}

// Unlock is an achievement earned by a result.
type Unlock struct {
	ID      AchievementID
	Payload map[string]any
}

// Outcome is everything a result earns.
type Outcome struct {
	Coins   int
	Unlocks []Unlock
	Rarity  Rarity
}

// Coins returns floor(score * 10 * finalScore).
func Coins(score int, finalScore float64) int {
	return int(math.Floor(float64(score) * 10 * finalScore))
}

// Evaluate computes the outcome of a result without side effects.
func Evaluate(r Result) Outcome {
	fs := r.FinalScore()
	out := Outcome{Coins: Coins(r.Score, fs), Rarity: ScoreRarity(fs)}
	if r.Total > 0 && fs == 1 {
		out.Unlocks = append(out.Unlocks, Unlock{
			ID:      PerfectScore,
			Payload: map[string]any{"game": r.GameID, "coins": PerfectScore.CoinValue()},
		})
	}
	if r.BestStreak >= HotStreakLength {
		out.Unlocks = append(out.Unlocks, Unlock{
			ID:      HotStreak,
			Payload: map[string]any{"streak": r.BestStreak, "coins": HotStreak.CoinValue()},
		})
	}
	return out
}

// Ledger persists coins and unlocks. *learner.Service implements it.
type Ledger interface {
	AddCoins(ctx context.Context, amount int) (int, error)
	UnlockAchievement(ctx context.Context, id string, payload map[string]any) (learner.Achievement, error)
}

var _ Ledger = (*learner.Service)(nil)

// Service applies outcomes to a Ledger.
type Service struct {
	ledger Ledger
	log    *zap.Logger
}

// NewService creates a Service. A nil log discards.
func NewService(ledger Ledger, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{ledger: ledger, log: log.Named("rewards")}
}

// Grant evaluates r and persists its coins (only when positive) and unlocks.
func (s *Service) Grant(ctx context.Context, r Result) (Outcome, error) {
	out := Evaluate(r)
	if out.Coins > 0 {
		if _, err := s.ledger.AddCoins(ctx, out.Coins); err != nil {
			return out, fmt.Errorf("add coins: %w", err)
		}
	}
	for _, u := range out.Unlocks {
		if _, err := s.ledger.UnlockAchievement(ctx, string(u.ID), u.Payload); err != nil {
			return out, fmt.Errorf("unlock %s: %w", u.ID, err)
		}
	}
	s.log.Info("rewards granted",
		zap.String("game", r.GameID),
		zap.Int("coins", out.Coins),
		zap.Int("unlocks", len(out.Unlocks)))
	return out, nil
}
