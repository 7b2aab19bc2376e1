package learner

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odysseyquest/odyssey/internal/llm"
	"github.com/odysseyquest/odyssey/internal/store"
)

var epoch = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestService(t *testing.T) (*Service, *fakeClock, *store.Memory) {
	t.Helper()
	kv := store.NewMemory()
	clock := &fakeClock{t: epoch}
	return New(kv, WithClock(clock.now)), clock, kv
}

func TestRecordProgressOverallIsMean(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	p, err := s.RecordProgress(ctx, map[string]SubjectUpdate{"math": {Performance: Ptr(0.8)}})
	require.NoError(t, err)
	require.NotNil(t, p.Overall)
	assert.InDelta(t, 0.8, p.Overall.Performance, 1e-9)

	p, err = s.RecordProgress(ctx, map[string]SubjectUpdate{"science": {Performance: Ptr(0.4)}})
	require.NoError(t, err)
	assert.InDelta(t, 0.6, p.Overall.Performance, 1e-9)
	assert.Equal(t, epoch, p.Overall.LastUpdated)

	// The stored document agrees with the returned one.
	stored, err := s.Progress(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, stored.OverallPerformance(), 1e-9)
	assert.Len(t, stored.Subjects, 2)
}

func TestRecordProgressSequenceProperty(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	writes := []struct {
		subject string
		perf    float64
	}{
		{"math", 0.1}, {"science", 0.9}, {"math", 0.5}, {"english", 0.3},
		{"history", 1.0}, {"science", 0.0}, {"english", 0.75},
	}
	for _, w := range writes {
		p, err := s.RecordProgress(ctx, map[string]SubjectUpdate{w.subject: {Performance: Ptr(w.perf)}})
		require.NoError(t, err)

		sum := 0.0
		for _, sp := range p.Subjects {
			sum += sp.Performance
		}
		want := sum / float64(len(p.Subjects))
		assert.InDelta(t, want, p.Overall.Performance, 1e-9, "after writing %s", w.subject)
	}
}

func TestRecordProgressMergesFields(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.RecordProgress(ctx, map[string]SubjectUpdate{
		"math": {Performance: Ptr(0.5), TotalGames: Ptr(3), BestScore: Ptr(0.9)},
	})
	require.NoError(t, err)

	p, err := s.RecordProgress(ctx, map[string]SubjectUpdate{"math": {Performance: Ptr(0.7)}})
	require.NoError(t, err)

	m := p.Subjects["math"]
	assert.Equal(t, 0.7, m.Performance)
	assert.Equal(t, 3, m.TotalGames)
	assert.Equal(t, 0.9, m.BestScore)
}

func TestRecordProgressIgnoresOverallWrites(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	p, err := s.RecordProgress(ctx, map[string]SubjectUpdate{
		OverallKey: {Performance: Ptr(1.0)},
		"math":     {Performance: Ptr(0.2)},
	})
	require.NoError(t, err)
	assert.NotContains(t, p.Subjects, OverallKey)
	assert.InDelta(t, 0.2, p.Overall.Performance, 1e-9)
}

func TestRecordProgressEmptyHasNoOverall(t *testing.T) {
	s, _, _ := newTestService(t)

	p, err := s.RecordProgress(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, p.Overall)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestProgressJSONLayout(t *testing.T) {
	p := Progress{
		Subjects: map[string]SubjectProgress{"math": {Performance: 0.5, TotalGames: 2}},
		Overall:  &Overall{Performance: 0.5, LastUpdated: epoch},
	}
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"math": {"performance": 0.5, "totalGames": 2},
		"overall": {"performance": 0.5, "lastUpdated": "2026-05-04T09:30:00Z"}
	}`, string(raw))

	var back Progress
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, p, back)
}

func TestRecordStudySession(t *testing.T) {
	s, clock, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.RecordStudySession(ctx, "science", 600, 0.6)
	require.NoError(t, err)
	clock.t = clock.t.Add(time.Hour)
	p, err := s.RecordStudySession(ctx, "science", 300, 1.0)
	require.NoError(t, err)

	sci := p.Subjects["science"]
	require.Len(t, sci.Sessions, 2)
	assert.Equal(t, 900, sci.TotalTime)
	assert.InDelta(t, 0.8, sci.AverageScore, 1e-9)
	assert.Equal(t, epoch.Add(time.Hour), sci.Sessions[1].Timestamp)
}

func TestSaveUserCountsLogins(t *testing.T) {
	s, clock, _ := newTestService(t)
	ctx := context.Background()

	u := NewUser("Ada", 0, "", "<svg/>", epoch)
	assert.Equal(t, DefaultGrade, u.Grade)
	assert.Equal(t, DefaultLanguage, u.Language)
	assert.Equal(t, Preferences{LearningStyle: "adaptive", Difficulty: "auto", VoiceEnabled: true}, u.Preferences)

	saved, err := s.SaveUser(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.TotalLogins)

	clock.t = epoch.Add(24 * time.Hour)
	saved, err = s.SaveUser(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.TotalLogins)
	assert.Equal(t, clock.t, saved.LastLogin)
	assert.Equal(t, epoch, saved.CreatedAt)
}

func TestCoins(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.AddCoins(ctx, 10)
	assert.ErrorIs(t, err, ErrNoUser)

	coins, err := s.Coins(ctx)
	require.NoError(t, err)
	assert.Zero(t, coins)

	_, err = s.SaveUser(ctx, NewUser("Ada", 7, "English", "", epoch))
	require.NoError(t, err)

	coins, err = s.AddCoins(ctx, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, coins)

	coins, err = s.AddCoins(ctx, -80)
	require.NoError(t, err)
	assert.Equal(t, 0, coins, "balance never goes negative")

	u, err := s.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, u.TotalLogins, "coin awards are not logins")
}

func TestUpdatePreferences(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.UpdatePreferences(ctx, PreferencesUpdate{VoiceEnabled: Ptr(false)})
	assert.ErrorIs(t, err, ErrNoUser)

	_, err = s.SaveUser(ctx, NewUser("Ada", 8, "", "", epoch))
	require.NoError(t, err)

	u, err := s.UpdatePreferences(ctx, PreferencesUpdate{VoiceEnabled: Ptr(false)})
	require.NoError(t, err)
	assert.False(t, u.Preferences.VoiceEnabled)
	assert.Equal(t, "adaptive", u.Preferences.LearningStyle)
}

func TestUnlockAchievementOverwrites(t *testing.T) {
	s, clock, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.UnlockAchievement(ctx, "perfect_score", map[string]any{"game": "math-quiz", "coins": 50})
	require.NoError(t, err)
	clock.t = epoch.Add(time.Minute)
	_, err = s.UnlockAchievement(ctx, "hot_streak", map[string]any{"streak": 5, "coins": 25})
	require.NoError(t, err)
	clock.t = epoch.Add(2 * time.Minute)
	_, err = s.UnlockAchievement(ctx, "perfect_score", map[string]any{"game": "science-trivia", "coins": 50})
	require.NoError(t, err)

	all, err := s.Achievements(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "science-trivia", all["perfect_score"].Payload["game"])

	list, err := s.CompletedAchievements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "hot_streak", list[0].ID)
	assert.Equal(t, "perfect_score", list[1].ID)
}

func TestClearExpired(t *testing.T) {
	s, clock, _ := newTestService(t)
	ctx := context.Background()

	now := epoch
	ages := map[string]int{"day0": 0, "day29": 29, "day31": 31}
	for id, days := range ages {
		clock.t = now.AddDate(0, 0, -days)
		_, err := s.CacheVideo(ctx, id, CachedVideo{Subject: "math", Topic: "Algebra", Title: id})
		require.NoError(t, err)
		_, err = s.SaveForOffline(ctx, id, OfflineContent{Kind: "lesson", Subject: "math", Title: id})
		require.NoError(t, err)
	}

	clock.t = now
	removed, err := s.ClearExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	videos, err := s.CachedVideos(ctx)
	require.NoError(t, err)
	assert.Contains(t, videos, "day0")
	assert.Contains(t, videos, "day29")
	assert.NotContains(t, videos, "day31")

	content, err := s.OfflineContent(ctx)
	require.NoError(t, err)
	assert.Len(t, content, 2)
	assert.NotContains(t, content, "day31")
}

func TestMediaRemoveAndTouch(t *testing.T) {
	s, clock, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.CacheVideo(ctx, "v1", CachedVideo{Subject: "science", Title: "Cells"})
	require.NoError(t, err)

	clock.t = epoch.Add(time.Hour)
	require.NoError(t, s.TouchVideo(ctx, "v1"))
	require.NoError(t, s.TouchVideo(ctx, "missing"))

	videos, err := s.CachedVideos(ctx)
	require.NoError(t, err)
	assert.Equal(t, epoch, videos["v1"].CachedAt)
	assert.Equal(t, clock.t, videos["v1"].LastAccessed)

	videos, err = s.RemoveCachedVideo(ctx, "v1")
	require.NoError(t, err)
	assert.Empty(t, videos)

	_, err = s.SaveForOffline(ctx, "l1", OfflineContent{Title: "Fractions"})
	require.NoError(t, err)
	content, err := s.RemoveOfflineContent(ctx, "l1")
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestClearDataKeepsMedia(t *testing.T) {
	s, _, kv := newTestService(t)
	ctx := context.Background()

	_, err := s.SaveUser(ctx, NewUser("Ada", 9, "", "", epoch))
	require.NoError(t, err)
	_, err = s.RecordProgress(ctx, map[string]SubjectUpdate{"math": {Performance: Ptr(0.5)}})
	require.NoError(t, err)
	_, err = s.UnlockAchievement(ctx, "perfect_score", nil)
	require.NoError(t, err)
	_, err = s.CacheVideo(ctx, "v1", CachedVideo{Title: "x"})
	require.NoError(t, err)

	require.NoError(t, s.ClearData(ctx))

	keys, err := kv.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{store.KeyCachedVideos}, keys)

	u, err := s.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestStorageUsage(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	usage, err := s.StorageUsage(ctx)
	require.NoError(t, err)
	assert.Zero(t, usage.Bytes)

	_, err = s.SaveUser(ctx, NewUser("Ada", 9, "", "", epoch))
	require.NoError(t, err)
	usage, err = s.StorageUsage(ctx)
	require.NoError(t, err)
	assert.Positive(t, usage.Bytes)
	assert.InDelta(t, float64(usage.Bytes)/(1024*1024), usage.Megabytes, 1e-12)
}

func TestStorageFailureSurfaces(t *testing.T) {
	s, _, kv := newTestService(t)
	kv.FailWith = errors.New("disk full")

	_, err := s.RecordProgress(context.Background(), map[string]SubjectUpdate{"math": {Performance: Ptr(0.5)}})
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestExportImportRoundTrip(t *testing.T) {
	src, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := src.SaveUser(ctx, NewUser("Ada", 10, "Spanish", "", epoch))
	require.NoError(t, err)
	_, err = src.RecordProgress(ctx, map[string]SubjectUpdate{
		"math":    {Performance: Ptr(1.0), TotalGames: Ptr(4)},
		"history": {Performance: Ptr(0.5)},
	})
	require.NoError(t, err)
	_, err = src.UnlockAchievement(ctx, "perfect_score", map[string]any{"game": "math-quiz"})
	require.NoError(t, err)

	b, err := src.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, BundleVersion, b.Version)
	raw, err := json.Marshal(b)
	require.NoError(t, err)

	dst, _, _ := newTestService(t)
	_, err = dst.Import(ctx, raw)
	require.NoError(t, err)

	u, err := dst.User(ctx)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Spanish", u.Language)

	p, err := dst.Progress(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, p.OverallPerformance(), 1e-9)
	assert.Equal(t, 4, p.Subjects["math"].TotalGames)

	ach, err := dst.Achievements(ctx)
	require.NoError(t, err)
	assert.Contains(t, ach, "perfect_score")
}

func TestImportRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"missing version", `{"user": null}`},
		{"future major", `{"version": "v2.0.0"}`},
		{"grade out of range", `{"version": "v1.0.0", "user": {"id": "x", "name": "Ada", "grade": 3}}`},
		{"performance above one", `{"version": "v1.0.0", "progress": {"math": {"performance": 1.5}}}`},
		{"negative coins", `{"version": "v1.2.0", "user": {"id": "x", "name": "Ada", "grade": 7, "coins": -1}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, kv := newTestService(t)
			_, err := s.Import(context.Background(), []byte(tt.raw))
			assert.ErrorIs(t, err, ErrIncompatibleExport)

			keys, kerr := kv.Keys(context.Background())
			require.NoError(t, kerr)
			assert.Empty(t, keys, "rejected bundles write nothing")
		})
	}
}

func TestImportAcceptsMinorVersions(t *testing.T) {
	s, _, _ := newTestService(t)
	_, err := s.Import(context.Background(), []byte(`{"version": "v1.4.2", "progress": {"math": {"performance": 0.4}}}`))
	require.NoError(t, err)

	p, err := s.Progress(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.4, p.OverallPerformance(), 1e-9)
}

func TestLLMRequestLog(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < MaxLLMRequests+5; i++ {
		require.NoError(t, s.AppendLLMRequest(ctx, llm.RequestRecord{
			Model:        "gpt-4o-mini",
			Purpose:      "question-gen",
			InputTokens:  1000,
			OutputTokens: 500,
			Success:      true,
		}))
	}

	all, err := s.LLMRequests(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, MaxLLMRequests)
	assert.Equal(t, MaxLLMRequests+5, all[0].ID, "newest first")
	assert.Equal(t, 6, all[len(all)-1].ID)

	recent, err := s.LLMRequests(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	cost := llm.LookupCost("gpt-4o-mini")
	require.NotNil(t, cost)
	assert.False(t, math.IsNaN(all[0].Cost))
	assert.InDelta(t, cost.Cost(1000, 500), all[0].Cost, 1e-12)

	e, err := s.LLMRequest(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, e, "dropped from the log")

	e, err = s.LLMRequest(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "question-gen", e.Purpose)
}
