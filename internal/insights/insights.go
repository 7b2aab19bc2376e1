// Package insights turns recorded progress into the learner-facing
// analytics: strengths and weaknesses, learning pace, recommendations and
// timeframe reports.
package insights

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/odysseyquest/odyssey/internal/learner"
)

// Pace buckets the total number of recorded study sessions.
type Pace string

const (
	PaceSteady   Pace = "steady"
	PaceModerate Pace = "moderate"
	PaceFast     Pace = "fast"
)

// DisplayName returns the human-readable pace.
func (p Pace) DisplayName() string {
	switch p {
	case PaceFast:
		return "Fast"
	case PaceModerate:
		return "Moderate"
	default:
		return "Steady"
	}
}

// Thresholds.
const (
	strengthAbove      = 0.7
	weaknessBelow      = 0.5
	recommendBelow     = 0.6
	fastSessions       = 20
	moderateSessions   = 10
	maxRecommendations = 4
)

var (
	defaultStrengths    = []string{"Problem Solving", "Concept Understanding"}
	defaultWeaknesses   = []string{"Time Management", "Advanced Applications"}
	baseRecommendations = []string{
		"Practice more exercises on weak areas",
		"Review fundamental concepts",
		"Try interactive learning methods",
	}
)

// Insights is the analysis of a progress document.
type Insights struct {
	Strengths       []string
	Weaknesses      []string
	LearningPace    Pace
	Recommendations []string
}

// Analyze derives insights from progress. Subjects are visited in name
// order so the result is stable.
func Analyze(p learner.Progress) Insights {
	var strengths, weaknesses []string
	recs := slices.Clone(baseRecommendations)
	sessions := 0

	for _, name := range subjectNames(p) {
		sp := p.Subjects[name]
		sessions += len(sp.Sessions)
		switch {
		case sp.Performance > strengthAbove:
			strengths = append(strengths, title(name)+" Concepts")
		case sp.Performance < weaknessBelow:
			weaknesses = append(weaknesses, title(name)+" Applications")
		}
		if sp.Performance < recommendBelow {
			recs = append(recs, fmt.Sprintf("Focus on %s practice exercises", name))
		}
	}

	if len(strengths) == 0 {
		strengths = slices.Clone(defaultStrengths)
	}
	if len(weaknesses) == 0 {
		weaknesses = slices.Clone(defaultWeaknesses)
	}
	return Insights{
		Strengths:       strengths,
		Weaknesses:      weaknesses,
		LearningPace:    PaceFor(sessions),
		Recommendations: recs[:min(len(recs), maxRecommendations)],
	}
}

// PaceFor buckets a session count.
func PaceFor(sessions int) Pace {
	switch {
	case sessions > fastSessions:
		return PaceFast
	case sessions > moderateSessions:
		return PaceModerate
	default:
		return PaceSteady
	}
}

// SubjectPerformance returns each subject's performance as a whole
// percentage. Subjects with no recorded performance are left out.
func SubjectPerformance(p learner.Progress) map[string]int {
	out := make(map[string]int, len(p.Subjects))
	for name, sp := range p.Subjects {
		if name == learner.OverallKey || sp.Performance <= 0 {
			continue
		}
		out[name] = int(math.Round(sp.Performance * 100))
	}
	return out
}

func subjectNames(p learner.Progress) []string {
	names := slices.Sorted(maps.Keys(p.Subjects))
	return slices.DeleteFunc(names, func(n string) bool { return n == learner.OverallKey })
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
