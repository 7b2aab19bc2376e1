package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/llm"
)

// maxHistory bounds how many earlier turns are sent with a message.
const maxHistory = 10

// ReplySchema defines the LLM response for a chat reply.
var ReplySchema = &llm.Schema{
	Name:        "tutor-reply",
	Description: "A tutor's answer with follow-up questions and study resources",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"response": map[string]any{
				"type":        "string",
				"description": "The answer shown to the student",
			},
			"followUps": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Up to 3 short questions the student could ask next",
			},
			"resources": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Up to 3 kinds of study material that would help",
			},
		},
		"required":             []any{"response", "followUps", "resources"},
		"additionalProperties": false,
	},
}

const systemPrompt = `You are a patient tutor for a school student. Answer in plain language suited to the student's grade.
Keep answers short: a few sentences, or a short numbered list for steps.
Never give the answer to a graded quiz outright; guide the student to it.
If the question is not about learning, steer back to the student's studies.`

// LLMAssistant replies with an LLM provider.
type LLMAssistant struct {
	provider  llm.Provider
	maxTokens int
}

// NewLLMAssistant creates an LLMAssistant.
func NewLLMAssistant(provider llm.Provider) *LLMAssistant {
	return &LLMAssistant{provider: provider, maxTokens: 1024}
}

type replyOutput struct {
	Response  string   `json:"response"`
	FollowUps []string `json:"followUps"`
	Resources []string `json:"resources"`
}

func (a *LLMAssistant) Reply(ctx context.Context, message string, c Context) (*Reply, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeTutor)
	resp, err := a.provider.Generate(ctx, llm.Request{
		System:      systemPrompt + "\n\n" + describe(c),
		Messages:    buildMessages(message, c.History),
		Schema:      ReplySchema,
		MaxTokens:   a.maxTokens,
		Temperature: 0.5,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var out replyOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	if strings.TrimSpace(out.Response) == "" {
		return nil, fmt.Errorf("LLM returned an empty response")
	}
	r := &Reply{Response: out.Response, FollowUps: out.FollowUps, Resources: out.Resources}
	if len(r.FollowUps) == 0 {
		r.FollowUps = defaultFollowUps
	}
	if len(r.Resources) == 0 {
		r.Resources = defaultResources
	}
	return r, nil
}

func describe(c Context) string {
	var b strings.Builder
	if c.Grade > 0 {
		fmt.Fprintf(&b, "Student grade: %d\n", c.Grade)
	}
	if c.Subject != "" && c.Subject != General {
		fmt.Fprintf(&b, "Subject: %s\n", c.Subject)
	}
	return b.String()
}

// buildMessages keeps the tail of the history, starting at a learner turn
// so roles alternate from the user side.
func buildMessages(message string, history []Turn) []llm.Message {
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	for len(history) > 0 && !history[0].FromLearner {
		history = history[1:]
	}
	msgs := make([]llm.Message, 0, len(history)+1)
	for _, t := range history {
		role := llm.RoleAssistant
		if t.FromLearner {
			role = llm.RoleUser
		}
		msgs = append(msgs, llm.Message{Role: role, Content: t.Text})
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: message})
}

// FallbackAssistant tries Primary and answers from Secondary on any error
// other than cancellation.
type FallbackAssistant struct {
	Primary   Assistant
	Secondary Assistant
	log       *zap.Logger
}

// NewFallbackAssistant creates a FallbackAssistant. A nil log discards.
func NewFallbackAssistant(primary, secondary Assistant, log *zap.Logger) *FallbackAssistant {
	if log == nil {
		log = zap.NewNop()
	}
	return &FallbackAssistant{Primary: primary, Secondary: secondary, log: log.Named("tutor")}
}

func (f *FallbackAssistant) Reply(ctx context.Context, message string, c Context) (*Reply, error) {
	r, err := f.Primary.Reply(ctx, message, c)
	if err == nil {
		return r, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	f.log.Warn("tutor reply fell back", zap.String("subject", c.Subject), zap.Error(err))
	return f.Secondary.Reply(ctx, message, c)
}

// Select builds the assistant for a generator mode, mirroring the content
// generator modes: "template", "llm" or "auto".
func Select(mode string, provider llm.Provider, tpl *TemplateAssistant, log *zap.Logger) (Assistant, error) {
	if tpl == nil {
		tpl = &TemplateAssistant{}
	}
	switch mode {
	case "template":
		return tpl, nil
	case "llm":
		if provider == nil {
			return nil, fmt.Errorf("tutor mode %q needs an LLM provider", mode)
		}
		return NewLLMAssistant(provider), nil
	case "auto", "":
		if provider == nil {
			return tpl, nil
		}
		return NewFallbackAssistant(NewLLMAssistant(provider), tpl, log), nil
	default:
		return nil, fmt.Errorf("unknown tutor mode %q", mode)
	}
}
