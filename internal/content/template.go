package content

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/odysseyquest/odyssey/internal/curriculum"
)

// LessonDuration is the reading time attached to every template lesson.
const LessonDuration = "20-30 minutes"

// TemplateConfig controls the TemplateGenerator.
type TemplateConfig struct {
	// QuestionLatency and LessonLatency simulate generation time. Zero
	// disables the wait.
	QuestionLatency time.Duration
	LessonLatency   time.Duration

	// Rand picks topics. Nil seeds from the runtime source.
	Rand *rand.Rand
}

// TemplateGenerator produces content from built-in templates. It never
// fails except on cancellation or an empty request.
type TemplateGenerator struct {
	cfg TemplateConfig

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewTemplateGenerator creates a TemplateGenerator.
func NewTemplateGenerator(cfg TemplateConfig) *TemplateGenerator {
	rnd := cfg.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &TemplateGenerator{cfg: cfg, rnd: rnd}
}

func (g *TemplateGenerator) pick(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.IntN(n)
}

// GenerateLesson picks a random topic for the subject and grade and renders
// the lesson template for it.
func (g *TemplateGenerator) GenerateLesson(ctx context.Context, req LessonRequest) (*Lesson, error) {
	if err := wait(ctx, g.cfg.LessonLatency); err != nil {
		return nil, err
	}
	topics := curriculum.Topics(req.Subject, req.Grade)
	topic := topics[g.pick(len(topics))]
	return TemplateLesson(req, topic), nil
}

// TemplateLesson renders the lesson for a fixed topic.
func TemplateLesson(req LessonRequest, topic curriculum.Topic) *Lesson {
	return &Lesson{
		ID:            uuid.NewString(),
		Subject:       req.Subject,
		Topic:         topic,
		Title:         fmt.Sprintf("%s for Grade %d", topic, req.Grade),
		Content:       renderLesson(req.Subject, topic, req.Style),
		Duration:      LessonDuration,
		Difficulty:    LessonDifficulty(req.Grade),
		LearningStyle: req.Style,
		VideoID:       curriculum.VideoID(req.Subject, topic),
	}
}

var styleApproaches = map[string]string{
	"visual":      "This lesson includes diagrams, charts, and visual examples to help you understand %s.",
	"auditory":    "This lesson includes explanations you can listen to and discuss to master %s.",
	"kinesthetic": "This lesson includes interactive activities and hands-on practice with %s.",
	"reading":     "This lesson includes detailed explanations and examples for you to read about %s.",
}

func styleApproach(style string, topic curriculum.Topic) string {
	f, ok := styleApproaches[style]
	if !ok {
		f = styleApproaches["visual"]
	}
	return fmt.Sprintf(f, topic)
}

func subjectExample(subject curriculum.Subject, topic curriculum.Topic) string {
	switch subject {
	case curriculum.Math:
		return "For example: 2x + 5 = 15 → x = 5"
	case curriculum.Science:
		return fmt.Sprintf("For example: Understanding how %s explains natural phenomena", topic)
	case curriculum.English:
		return "For example: Using proper grammar makes your writing clearer"
	case curriculum.History:
		return fmt.Sprintf("For example: Studying %s helps us understand modern society", topic)
	default:
		return fmt.Sprintf("For example: Consider how %s applies to real-world situations", topic)
	}
}

func practiceProblem(topic curriculum.Topic) string {
	name := string(topic)
	switch {
	case strings.Contains(name, "Algebra"), strings.Contains(name, "Equation"):
		return "Solve for x: 3x - 7 = 14"
	case strings.Contains(name, "Geometry"):
		return "Calculate the area of a circle with radius 5 units"
	case strings.Contains(name, "Biology"):
		return "Explain the process of photosynthesis"
	case strings.Contains(name, "Grammar"):
		return `Correct this sentence: "Me and him goes to the store."`
	case strings.Contains(name, "History"), strings.Contains(name, "Civilization"):
		return "Describe the significance of ancient civilizations"
	default:
		return fmt.Sprintf("Apply the concept of %s to solve a practical problem", topic)
	}
}

func renderLesson(subject curriculum.Subject, topic curriculum.Topic, style string) string {
	p := curriculum.Phrases(topic)
	var b strings.Builder

	fmt.Fprintf(&b, "# Understanding %s\n\n", topic)
	b.WriteString("## Introduction\n")
	fmt.Fprintf(&b, "%s %s is fundamental to %s because it helps us understand how %s.\n\n",
		styleApproach(style, topic), topic, subject.DisplayName(), p.Importance)

	b.WriteString("## Key Concepts\n")
	fmt.Fprintf(&b, "1. **Core Principle**: %s is based on %s\n", topic, p.Principle)
	fmt.Fprintf(&b, "2. **Real-world Application**: We use %s when %s\n", topic, p.Application)
	fmt.Fprintf(&b, "3. **Common Challenges**: Students often find %s\n\n", p.Challenge)

	b.WriteString("## Examples\n")
	b.WriteString(subjectExample(subject, topic))
	b.WriteString("\n\n")

	b.WriteString("## Practice Exercise\n")
	fmt.Fprintf(&b, "Try solving this problem: %s\n\n", practiceProblem(topic))

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "%s helps us %s. Remember to practice regularly!\n", topic, p.Benefit)
	return b.String()
}

type questionTemplate struct {
	kind        QuestionType
	text        string
	options     []string
	answer      int
	explanation string
}

// Cycled in order; %s is the topic name.
var questionTemplates = []questionTemplate{
	{
		kind:        MultipleChoice,
		text:        "What is the main concept behind %s?",
		options:     []string{"Basic arithmetic operations", "Advanced mathematical theory", "Scientific methodology", "Historical context"},
		answer:      0,
		explanation: "This question tests your understanding of %s fundamentals.",
	},
	{
		kind:        TrueFalse,
		text:        "%s is primarily concerned with theoretical concepts.",
		options:     []string{"True", "False"},
		answer:      1,
		explanation: "%s has both theoretical and practical applications.",
	},
	{
		kind:        FillBlank,
		text:        "The study of %s helps us understand ______.",
		options:     []string{"complex systems", "basic principles", "advanced concepts", "simple ideas"},
		answer:      1,
		explanation: "%s provides foundation for more advanced topics.",
	},
}

// GenerateQuestions returns exactly req.Count questions cycling through the
// three templates, all at the adjusted difficulty.
func (g *TemplateGenerator) GenerateQuestions(ctx context.Context, req QuestionRequest) ([]Question, error) {
	if req.Count <= 0 {
		return nil, fmt.Errorf("%w: question count %d", ErrGenerationFailed, req.Count)
	}
	if err := wait(ctx, g.cfg.QuestionLatency); err != nil {
		return nil, err
	}
	return TemplateQuestions(req), nil
}

// TemplateQuestions renders req.Count questions without waiting.
func TemplateQuestions(req QuestionRequest) []Question {
	difficulty := AdjustDifficulty(req.Difficulty, req.PriorPerformance)
	topic := req.topicName()
	batch := uuid.NewString()[:8]

	out := make([]Question, 0, req.Count)
	for i := range req.Count {
		tpl := questionTemplates[i%len(questionTemplates)]
		out = append(out, Question{
			ID:          fmt.Sprintf("q-%s-%d", batch, i),
			Type:        tpl.kind,
			Difficulty:  difficulty,
			Text:        fmt.Sprintf(tpl.text, topic),
			Options:     append([]string(nil), tpl.options...),
			Answer:      tpl.answer,
			Explanation: fmt.Sprintf(tpl.explanation, topic),
		})
	}
	return out
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
