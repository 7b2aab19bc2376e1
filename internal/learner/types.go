package learner

import (
	"encoding/json"
	"fmt"
	"time"
)

// OverallKey is the synthetic progress entry derived from all subjects.
const OverallKey = "overall"

// Onboarding defaults.
const (
	DefaultGrade         = 6
	DefaultLanguage      = "English"
	DefaultLearningStyle = "adaptive"
	DefaultDifficulty    = "auto"
)

// User is the single local learner profile.
type User struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Grade       int         `json:"grade"`
	Language    string      `json:"language"`
	Avatar      string      `json:"avatar,omitempty"` // opaque SVG payload
	Preferences Preferences `json:"preferences"`
	Coins       int         `json:"coins"`
	TotalLogins int         `json:"totalLogins"`
	CreatedAt   time.Time   `json:"createdAt"`
	LastLogin   time.Time   `json:"lastLogin"`
}

// Preferences are the learner's adjustable settings.
type Preferences struct {
	LearningStyle string `json:"learningStyle"`
	Difficulty    string `json:"difficulty"`
	VoiceEnabled  bool   `json:"voiceEnabled"`
}

// PreferencesUpdate is a partial update; nil fields are left unchanged.
type PreferencesUpdate struct {
	LearningStyle *string
	Difficulty    *string
	VoiceEnabled  *bool
}

// StudySession is one recorded stretch of study in a subject.
type StudySession struct {
	Subject   string    `json:"subject"`
	Duration  int       `json:"duration"` // seconds
	Score     float64   `json:"score"`
	Timestamp time.Time `json:"timestamp"`
}

// SubjectProgress is the per-subject entry of the progress document.
type SubjectProgress struct {
	Performance  float64        `json:"performance"`
	LastPlayed   time.Time      `json:"lastPlayed,omitzero"`
	TotalGames   int            `json:"totalGames,omitempty"`
	BestScore    float64        `json:"bestScore,omitempty"`
	Sessions     []StudySession `json:"sessions,omitempty"`
	TotalTime    int            `json:"totalTime,omitempty"` // seconds
	AverageScore float64        `json:"averageScore,omitempty"`
}

// SubjectUpdate is a partial write to one subject. Only non-nil fields
// overwrite the stored entry.
type SubjectUpdate struct {
	Performance  *float64
	LastPlayed   *time.Time
	TotalGames   *int
	BestScore    *float64
	Sessions     []StudySession // nil leaves sessions unchanged
	TotalTime    *int
	AverageScore *float64
}

func (u SubjectUpdate) apply(sp SubjectProgress) SubjectProgress {
	if u.Performance != nil {
		sp.Performance = *u.Performance
	}
	if u.LastPlayed != nil {
		sp.LastPlayed = *u.LastPlayed
	}
	if u.TotalGames != nil {
		sp.TotalGames = *u.TotalGames
	}
	if u.BestScore != nil {
		sp.BestScore = *u.BestScore
	}
	if u.Sessions != nil {
		sp.Sessions = u.Sessions
	}
	if u.TotalTime != nil {
		sp.TotalTime = *u.TotalTime
	}
	if u.AverageScore != nil {
		sp.AverageScore = *u.AverageScore
	}
	return sp
}

// Ptr returns a pointer to v. Handy for building updates.
func Ptr[T any](v T) *T {
	return &v
}

// Overall is the aggregate performance across all subjects.
type Overall struct {
	Performance float64   `json:"performance"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Progress is the progress document. It serializes as a flat object of
// subject entries plus the synthetic "overall" entry.
type Progress struct {
	Subjects map[string]SubjectProgress
	Overall  *Overall // nil until at least one subject exists
}

func (p Progress) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Subjects)+1)
	for k, v := range p.Subjects {
		m[k] = v
	}
	if p.Overall != nil {
		m[OverallKey] = p.Overall
	}
	return json.Marshal(m)
}

func (p *Progress) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Subjects = make(map[string]SubjectProgress, len(raw))
	p.Overall = nil
	for k, v := range raw {
		if k == OverallKey {
			var o Overall
			if err := json.Unmarshal(v, &o); err != nil {
				return fmt.Errorf("overall: %w", err)
			}
			p.Overall = &o
			continue
		}
		var sp SubjectProgress
		if err := json.Unmarshal(v, &sp); err != nil {
			return fmt.Errorf("subject %s: %w", k, err)
		}
		p.Subjects[k] = sp
	}
	return nil
}

// OverallPerformance returns the aggregate or 0 when nothing is recorded.
func (p Progress) OverallPerformance() float64 {
	if p.Overall == nil {
		return 0
	}
	return p.Overall.Performance
}

// TotalGames sums games played across subjects.
func (p Progress) TotalGames() int {
	n := 0
	for _, sp := range p.Subjects {
		n += sp.TotalGames
	}
	return n
}

// Achievement is an unlocked achievement. Re-unlocking overwrites it.
type Achievement struct {
	ID         string         `json:"id"`
	UnlockedAt time.Time      `json:"unlockedAt"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// CachedVideo is metadata for a video kept for offline viewing.
type CachedVideo struct {
	Subject      string    `json:"subject"`
	Topic        string    `json:"topic"`
	Title        string    `json:"title"`
	CachedAt     time.Time `json:"cachedAt"`
	LastAccessed time.Time `json:"lastAccessed,omitzero"`
}

// KindLesson marks offline content that holds a lesson.
const KindLesson = "lesson"

// OfflineContent is a lesson or other text saved for offline reading.
type OfflineContent struct {
	Kind    string    `json:"kind"`
	Subject string    `json:"subject"`
	Title   string    `json:"title"`
	Body    string    `json:"body"`
	SavedAt time.Time `json:"savedAt"`
}

// LLMRequest is one entry of the bounded LLM request log.
type LLMRequest struct {
	ID           int       `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	Purpose      string    `json:"purpose"`
	LatencyMs    int64     `json:"latencyMs"`
	InputTokens  int       `json:"inputTokens"`
	OutputTokens int       `json:"outputTokens"`
	Cost         float64   `json:"cost,omitempty"` // USD, 0 when the model is unpriced
	Success      bool      `json:"success"`
	Error        string    `json:"error,omitempty"`
	Request      string    `json:"request,omitempty"`
	Response     string    `json:"response,omitempty"`
}

// StorageUsage reports how much space the stored documents take.
type StorageUsage struct {
	Bytes     int64
	Megabytes float64
}
