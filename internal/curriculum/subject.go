// Package curriculum holds the static course material: subjects, the
// per-grade topic lists, per-topic phrase sets and the lesson video table.
package curriculum

import "strings"

// Subject is a curricular domain.
type Subject string

const (
	Math    Subject = "math"
	Science Subject = "science"
	English Subject = "english"
	History Subject = "history"
)

// Grade bounds supported by the knowledge base.
const (
	MinGrade = 6
	MaxGrade = 12
)

// AllSubjects returns all subjects in display order.
func AllSubjects() []Subject {
	return []Subject{Math, Science, English, History}
}

// DisplayName returns a human-readable name for a subject.
func (s Subject) DisplayName() string {
	switch s {
	case Math:
		return "Math"
	case Science:
		return "Science"
	case English:
		return "English"
	case History:
		return "History"
	default:
		if s == "" {
			return ""
		}
		return strings.ToUpper(string(s[:1])) + string(s[1:])
	}
}

// Icon returns the display icon for a subject.
func (s Subject) Icon() string {
	switch s {
	case Math:
		return "➗"
	case Science:
		return "🔬"
	case English:
		return "📚"
	case History:
		return "🏛️"
	default:
		return "📘"
	}
}

// ParseSubject matches a subject name case-insensitively.
func ParseSubject(name string) (Subject, bool) {
	s := Subject(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range AllSubjects() {
		if s == known {
			return s, true
		}
	}
	return "", false
}

// ClampGrade forces grade into [MinGrade, MaxGrade].
func ClampGrade(grade int) int {
	return min(MaxGrade, max(MinGrade, grade))
}
