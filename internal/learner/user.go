package learner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/store"
)

// NewUser builds the profile created when onboarding completes. Zero
// grade and empty language fall back to the onboarding defaults.
func NewUser(name string, grade int, language, avatar string, now time.Time) User {
	if grade == 0 {
		grade = DefaultGrade
	}
	if language == "" {
		language = DefaultLanguage
	}
	return User{
		ID:       uuid.NewString(),
		Name:     name,
		Grade:    grade,
		Language: language,
		Avatar:   avatar,
		Preferences: Preferences{
			LearningStyle: DefaultLearningStyle,
			Difficulty:    DefaultDifficulty,
			VoiceEnabled:  true,
		},
		CreatedAt: now,
	}
}

// User returns the stored profile or nil when none exists.
func (s *Service) User(ctx context.Context) (*User, error) {
	var u User
	found, err := s.kv.Load(ctx, store.KeyUser, &u)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &u, nil
}

// SaveUser records a login: it stamps lastLogin, bumps totalLogins past
// the stored count and persists u.
func (s *Service) SaveUser(ctx context.Context, u User) (User, error) {
	prev, err := s.User(ctx)
	if err != nil {
		return User{}, err
	}
	logins := 0
	if prev != nil {
		logins = prev.TotalLogins
	}
	u.TotalLogins = logins + 1
	u.LastLogin = s.now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = u.LastLogin
	}
	if err := s.save(ctx, store.KeyUser, u); err != nil {
		return User{}, err
	}
	s.log.Info("user login", zap.String("user_id", u.ID), zap.Int("total_logins", u.TotalLogins))
	return u, nil
}

// UpdatePreferences merges upd into the stored preferences.
func (s *Service) UpdatePreferences(ctx context.Context, upd PreferencesUpdate) (User, error) {
	u, err := s.User(ctx)
	if err != nil {
		return User{}, err
	}
	if u == nil {
		return User{}, ErrNoUser
	}
	if upd.LearningStyle != nil {
		u.Preferences.LearningStyle = *upd.LearningStyle
	}
	if upd.Difficulty != nil {
		u.Preferences.Difficulty = *upd.Difficulty
	}
	if upd.VoiceEnabled != nil {
		u.Preferences.VoiceEnabled = *upd.VoiceEnabled
	}
	if err := s.save(ctx, store.KeyUser, u); err != nil {
		return User{}, err
	}
	return *u, nil
}

// AddCoins adjusts the coin balance by amount, never below zero, and
// returns the new balance.
func (s *Service) AddCoins(ctx context.Context, amount int) (int, error) {
	u, err := s.User(ctx)
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, ErrNoUser
	}
	u.Coins = max(0, u.Coins+amount)
	if err := s.save(ctx, store.KeyUser, u); err != nil {
		return 0, err
	}
	s.log.Debug("coins", zap.Int("delta", amount), zap.Int("balance", u.Coins))
	return u.Coins, nil
}

// Coins returns the balance, 0 without a profile.
func (s *Service) Coins(ctx context.Context) (int, error) {
	u, err := s.User(ctx)
	if err != nil || u == nil {
		return 0, err
	}
	return u.Coins, nil
}
