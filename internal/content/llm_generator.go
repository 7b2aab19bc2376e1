package content

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/odysseyquest/odyssey/internal/curriculum"
	"github.com/odysseyquest/odyssey/internal/llm"
)

// Config controls the LLMGenerator.
type Config struct {
	// Validators run in order on every question; the first failure
	// rejects the whole set.
	Validators []Validator

	QuestionMaxTokens int
	LessonMaxTokens   int
	Temperature       float64
}

// DefaultConfig returns the standard validator chain and token budgets.
func DefaultConfig() Config {
	return Config{
		Validators:        DefaultValidators(),
		QuestionMaxTokens: 2048,
		LessonMaxTokens:   2048,
		Temperature:       0.7,
	}
}

// LLMGenerator implements Generator with an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// NewLLMGenerator creates an LLMGenerator.
func NewLLMGenerator(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

type questionSetOutput struct {
	Questions []struct {
		Type        string   `json:"type"`
		Question    string   `json:"question"`
		Options     []string `json:"options"`
		Answer      int      `json:"answer"`
		Difficulty  int      `json:"difficulty"`
		Explanation string   `json:"explanation"`
	} `json:"questions"`
}

type lessonOutput struct {
	Topic   string `json:"topic"`
	Content string `json:"content"`
}

// GenerateQuestions asks the provider for the whole set in one request.
// The set is rejected unless it has exactly req.Count valid questions.
func (g *LLMGenerator) GenerateQuestions(ctx context.Context, req QuestionRequest) ([]Question, error) {
	if req.Count <= 0 {
		return nil, fmt.Errorf("%w: question count %d", ErrGenerationFailed, req.Count)
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestions)
	difficulty := AdjustDifficulty(req.Difficulty, req.PriorPerformance)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      questionSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildQuestionMessage(req, difficulty)}},
		Schema:      QuestionSetSchema,
		MaxTokens:   g.config.QuestionMaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw questionSetOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	if len(raw.Questions) != req.Count {
		return nil, fmt.Errorf("%w: got %d questions, want %d", ErrGenerationFailed, len(raw.Questions), req.Count)
	}

	batch := uuid.NewString()[:8]
	out := make([]Question, 0, len(raw.Questions))
	for i, r := range raw.Questions {
		q := Question{
			ID:          fmt.Sprintf("q-%s-%d", batch, i),
			Type:        QuestionType(r.Type),
			Difficulty:  r.Difficulty,
			Text:        r.Question,
			Options:     r.Options,
			Answer:      r.Answer,
			Explanation: r.Explanation,
		}
		for _, v := range g.config.Validators {
			if verr := v.Validate(&q, req); verr != nil {
				return nil, fmt.Errorf("question %d: %w", i+1, verr)
			}
		}
		// The whole set plays at one level.
		q.Difficulty = difficulty
		out = append(out, q)
	}
	return out, nil
}

// GenerateLesson offers the provider the grade's topic list and renders
// whichever topic it picks.
func (g *LLMGenerator) GenerateLesson(ctx context.Context, req LessonRequest) (*Lesson, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeLesson)
	topics := curriculum.Topics(req.Subject, req.Grade)

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      lessonSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildLessonMessage(req, topics)}},
		Schema:      LessonSchema,
		MaxTokens:   g.config.LessonMaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw lessonOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	topic := curriculum.Topic(strings.TrimSpace(raw.Topic))
	if !slices.Contains(topics, topic) {
		return nil, &ValidationError{Validator: "lesson-topic", Message: fmt.Sprintf("topic %q not offered", raw.Topic), Retryable: true}
	}
	if strings.TrimSpace(raw.Content) == "" {
		return nil, &ValidationError{Validator: "lesson-content", Message: "content is empty", Retryable: true}
	}

	lesson := TemplateLesson(req, topic)
	lesson.Content = raw.Content
	return lesson, nil
}
