package content

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/llm"
)

// FallbackGenerator tries Primary and falls back to Secondary on any error
// other than cancellation.
type FallbackGenerator struct {
	Primary   Generator
	Secondary Generator
	log       *zap.Logger
}

// NewFallbackGenerator creates a FallbackGenerator. A nil log discards.
func NewFallbackGenerator(primary, secondary Generator, log *zap.Logger) *FallbackGenerator {
	if log == nil {
		log = zap.NewNop()
	}
	return &FallbackGenerator{Primary: primary, Secondary: secondary, log: log.Named("content")}
}

func (f *FallbackGenerator) GenerateLesson(ctx context.Context, req LessonRequest) (*Lesson, error) {
	l, err := f.Primary.GenerateLesson(ctx, req)
	if err == nil {
		return l, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	f.log.Warn("lesson generation fell back", zap.String("subject", string(req.Subject)), zap.Error(err))
	return f.Secondary.GenerateLesson(ctx, req)
}

func (f *FallbackGenerator) GenerateQuestions(ctx context.Context, req QuestionRequest) ([]Question, error) {
	qs, err := f.Primary.GenerateQuestions(ctx, req)
	if err == nil {
		return qs, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	f.log.Warn("question generation fell back",
		zap.String("subject", string(req.Subject)),
		zap.Int("count", req.Count),
		zap.Error(err))
	return f.Secondary.GenerateQuestions(ctx, req)
}

// Select builds the generator for a configured mode: "template", "llm" or
// "auto". Auto uses the LLM with template fallback when a provider is
// available and templates otherwise.
func Select(mode string, provider llm.Provider, tc TemplateConfig, log *zap.Logger) (Generator, error) {
	tpl := NewTemplateGenerator(tc)
	switch mode {
	case "template":
		return tpl, nil
	case "llm":
		if provider == nil {
			return nil, fmt.Errorf("content generator %q needs an LLM provider", mode)
		}
		return NewLLMGenerator(provider, DefaultConfig()), nil
	case "auto", "":
		if provider == nil {
			return tpl, nil
		}
		return NewFallbackGenerator(NewLLMGenerator(provider, DefaultConfig()), tpl, log), nil
	default:
		return nil, fmt.Errorf("unknown content generator %q", mode)
	}
}
