package llm

import "context"

// Purpose labels why a request was made. It ends up in the request log.
type Purpose string

const (
	PurposeUnknown   Purpose = "unknown"
	PurposeQuestions Purpose = "question-gen"
	PurposeLesson    Purpose = "lesson"
	PurposeTutor     Purpose = "tutor"
)

type purposeKey struct{}

// WithPurpose tags ctx so the logging and retry wrappers can attribute
// the call.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the tag set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}
