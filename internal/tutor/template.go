package tutor

import (
	"context"
	"slices"
	"strings"
	"time"
)

var (
	defaultFollowUps = []string{
		"Would you like more examples?",
		"Should I explain this in a different way?",
		"Do you want to practice with some exercises?",
	}
	defaultResources = []string{
		"Interactive tutorial",
		"Practice worksheets",
		"Video explanation",
	}
)

type keywordRule struct {
	keywords []string
	response string
}

// Rules are checked in order against the lowercased message.
var keywordRules = []keywordRule{
	{[]string{"help", "explain"}, "I'd be happy to help you understand this concept. Let me break it down step by step..."},
	{[]string{"example"}, "Here's an example to help illustrate the concept..."},
	{[]string{"hard", "difficult"}, "I understand this can be challenging. Let's approach it from a different angle..."},
}

const fallbackResponse = "I understand you're asking about this topic. Let me provide a clear explanation..."

// TemplateAssistant replies from fixed keyword rules.
type TemplateAssistant struct {
	Latency time.Duration
}

// Reply picks the response of the first rule with a keyword in message.
func (a *TemplateAssistant) Reply(ctx context.Context, message string, _ Context) (*Reply, error) {
	if a.Latency > 0 {
		t := time.NewTimer(a.Latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return &Reply{
		Response:  TemplateResponse(message),
		FollowUps: slices.Clone(defaultFollowUps),
		Resources: slices.Clone(defaultResources),
	}, nil
}

// TemplateResponse returns the keyword-rule response for message.
func TemplateResponse(message string) string {
	lower := strings.ToLower(message)
	for _, r := range keywordRules {
		for _, k := range r.keywords {
			if strings.Contains(lower, k) {
				return r.response
			}
		}
	}
	return fallbackResponse
}
