package insights

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/odysseyquest/odyssey/internal/learner"
)

// Timeframe selects how far back a report looks.
type Timeframe string

const (
	Week  Timeframe = "week"
	Month Timeframe = "month"
	All   Timeframe = "all"
)

// Timeframes lists the timeframes in display order.
var Timeframes = []Timeframe{Week, Month, All}

// DisplayName returns the selector label.
func (t Timeframe) DisplayName() string {
	switch t {
	case Week:
		return "This Week"
	case Month:
		return "This Month"
	default:
		return "All Time"
	}
}

// ParseTimeframe accepts week, month or all.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(s); tf {
	case Week, Month, All:
		return tf, nil
	}
	return "", fmt.Errorf("unknown timeframe %q (want week, month or all)", s)
}

// Since returns the start of the window ending at now. All returns the
// zero time.
func (t Timeframe) Since(now time.Time) time.Time {
	switch t {
	case Week:
		return now.AddDate(0, 0, -7)
	case Month:
		return now.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}

// Summary is the study report for one timeframe.
type Summary struct {
	Timeframe        Timeframe
	TimeStudied      time.Duration
	LessonsCompleted int
	GamesPlayed      int
	// Improvement is the change in mean score, in percentage points,
	// between the earlier and later half of the window's sessions.
	Improvement int
}

// Report summarises study sessions and saved lessons inside the timeframe.
// Every finished game records one study session, so sessions double as the
// games-played count.
func Report(p learner.Progress, offline map[string]learner.OfflineContent, tf Timeframe, now time.Time) Summary {
	since := tf.Since(now)
	in := func(ts time.Time) bool { return !ts.Before(since) && !ts.After(now) }

	var sessions []learner.StudySession
	for _, name := range subjectNames(p) {
		for _, ss := range p.Subjects[name].Sessions {
			if in(ss.Timestamp) {
				sessions = append(sessions, ss)
			}
		}
	}
	slices.SortStableFunc(sessions, func(a, b learner.StudySession) int {
		return a.Timestamp.Compare(b.Timestamp)
	})

	sum := Summary{Timeframe: tf, GamesPlayed: len(sessions)}
	for _, ss := range sessions {
		sum.TimeStudied += time.Duration(ss.Duration) * time.Second
	}
	for _, c := range offline {
		if c.Kind == learner.KindLesson && in(c.SavedAt) {
			sum.LessonsCompleted++
		}
	}
	sum.Improvement = improvement(sessions)
	return sum
}

func improvement(sessions []learner.StudySession) int {
	if len(sessions) < 2 {
		return 0
	}
	half := len(sessions) / 2
	return int(math.Round((meanScore(sessions[len(sessions)-half:]) - meanScore(sessions[:half])) * 100))
}

func meanScore(ss []learner.StudySession) float64 {
	if len(ss) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range ss {
		total += s.Score
	}
	return total / float64(len(ss))
}

// TimeLabel renders the time studied, e.g. "12 hours" or "45 minutes".
func (s Summary) TimeLabel() string {
	switch {
	case s.TimeStudied >= 2*time.Hour:
		return fmt.Sprintf("%d hours", int(s.TimeStudied.Hours()))
	case s.TimeStudied >= time.Hour:
		return "1 hour"
	case s.TimeStudied >= 2*time.Minute:
		return fmt.Sprintf("%d minutes", int(s.TimeStudied.Minutes()))
	case s.TimeStudied >= time.Minute:
		return "1 minute"
	default:
		return fmt.Sprintf("%d seconds", int(s.TimeStudied.Seconds()))
	}
}

// ImprovementLabel renders the improvement, e.g. "+15% overall".
func (s Summary) ImprovementLabel() string {
	return fmt.Sprintf("%+d%% overall", s.Improvement)
}
