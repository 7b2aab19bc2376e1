// Package content generates lessons and quiz questions, either from the
// built-in templates or through an LLM provider.
package content

import (
	"context"
	"errors"

	"github.com/odysseyquest/odyssey/internal/curriculum"
)

// ErrGenerationFailed is returned when a generator produces nothing usable.
var ErrGenerationFailed = errors.New("content generation failed")

// QuestionType is the shape of a quiz question.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
	FillBlank      QuestionType = "fill-blank"
)

// Question is a generated quiz question. Questions are never modified
// after generation.
type Question struct {
	ID          string       `json:"id"`
	Type        QuestionType `json:"type"`
	Difficulty  int          `json:"difficulty"`
	Text        string       `json:"question"`
	Options     []string     `json:"options"`
	Answer      int          `json:"answer"` // index into Options
	Explanation string       `json:"explanation"`
}

// IsCorrect reports whether index selects the right option.
func (q Question) IsCorrect(index int) bool {
	return index == q.Answer
}

// CorrectOption returns the text of the right option.
func (q Question) CorrectOption() string {
	if q.Answer < 0 || q.Answer >= len(q.Options) {
		return "the correct answer"
	}
	return q.Options[q.Answer]
}

// Lesson is a generated markdown lesson.
type Lesson struct {
	ID            string             `json:"id"`
	Subject       curriculum.Subject `json:"subject"`
	Topic         curriculum.Topic   `json:"topic"`
	Title         string             `json:"title"`
	Content       string             `json:"content"` // markdown
	Duration      string             `json:"duration"`
	Difficulty    int                `json:"difficulty"`
	LearningStyle string             `json:"learningStyle"`
	VideoID       string             `json:"videoId"`
}

// LearningStyles are the accepted lesson styles in display order.
var LearningStyles = []string{"visual", "auditory", "kinesthetic", "reading"}

// LessonRequest asks for a lesson in a subject at a grade.
type LessonRequest struct {
	Subject curriculum.Subject
	Grade   int
	Style   string // visual, auditory, kinesthetic or reading
}

// QuestionRequest asks for Count questions. Difficulty is the base value
// before adjustment by PriorPerformance.
type QuestionRequest struct {
	Subject          curriculum.Subject
	Topic            string // substituted into the question text; defaults to the subject name
	Difficulty       int
	Count            int
	PriorPerformance float64
}

// topicName is the name substituted into question templates.
func (r QuestionRequest) topicName() string {
	if r.Topic != "" {
		return r.Topic
	}
	return r.Subject.DisplayName()
}

// Generator produces lessons and question sets.
type Generator interface {
	GenerateLesson(ctx context.Context, req LessonRequest) (*Lesson, error)
	GenerateQuestions(ctx context.Context, req QuestionRequest) ([]Question, error)
}
