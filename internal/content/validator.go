package content

import (
	"fmt"
	"slices"
)

// Validator checks a generated question. Implementations are stateless.
type Validator interface {
	Name() string
	Validate(q *Question, req QuestionRequest) *ValidationError
}

// ValidationError describes why a question was rejected.
type ValidationError struct {
	Validator string
	Message   string
	Retryable bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// DefaultValidators is the chain applied to LLM output.
func DefaultValidators() []Validator {
	return []Validator{
		&StructuralValidator{},
		&OptionsValidator{},
		&AnswerIndexValidator{},
	}
}

// StructuralValidator checks required text fields and ranges.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question, _ QuestionRequest) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
	}
	switch {
	case q.Text == "":
		return fail("question is empty")
	case len(q.Text) > 500:
		return fail("question exceeds 500 characters")
	case q.Explanation == "":
		return fail("explanation is empty")
	case len(q.Explanation) > 1000:
		return fail("explanation exceeds 1000 characters")
	case q.Difficulty < MinDifficulty || q.Difficulty > MaxDifficulty:
		return fail(fmt.Sprintf("difficulty must be between %d and %d", MinDifficulty, MaxDifficulty))
	case q.Type != MultipleChoice && q.Type != TrueFalse && q.Type != FillBlank:
		return fail(fmt.Sprintf("unknown question type %q", q.Type))
	}
	return nil
}

// OptionsValidator checks option counts per question type and rejects
// blank or repeated options.
type OptionsValidator struct{}

func (v *OptionsValidator) Name() string { return "options" }

func (v *OptionsValidator) Validate(q *Question, _ QuestionRequest) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
	}
	switch q.Type {
	case TrueFalse:
		if !slices.Equal(q.Options, []string{"True", "False"}) {
			return fail(`true-false options must be ["True", "False"]`)
		}
		return nil
	case MultipleChoice, FillBlank:
		if len(q.Options) != 4 {
			return fail(fmt.Sprintf("%s needs exactly 4 options, got %d", q.Type, len(q.Options)))
		}
	}
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if o == "" {
			return fail("option is empty")
		}
		if seen[o] {
			return fail(fmt.Sprintf("option %q repeated", o))
		}
		seen[o] = true
	}
	return nil
}

// AnswerIndexValidator checks that the answer points at an option.
type AnswerIndexValidator struct{}

func (v *AnswerIndexValidator) Name() string { return "answer-index" }

func (v *AnswerIndexValidator) Validate(q *Question, _ QuestionRequest) *ValidationError {
	if q.Answer < 0 || q.Answer >= len(q.Options) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("answer %d out of range for %d options", q.Answer, len(q.Options)),
			Retryable: true,
		}
	}
	return nil
}
