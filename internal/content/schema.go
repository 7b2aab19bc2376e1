package content

import "github.com/odysseyquest/odyssey/internal/llm"

// QuestionSetSchema defines the LLM response for a batch of questions.
var QuestionSetSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A set of quiz questions with options, answer index and explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type": "string",
							"enum": []any{"multiple-choice", "true-false", "fill-blank"},
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The question shown to the student",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "4 options, or [\"True\", \"False\"] for true-false",
						},
						"answer": map[string]any{
							"type":        "integer",
							"description": "Zero-based index of the correct option",
						},
						"difficulty": map[string]any{
							"type":    "integer",
							"minimum": 1,
							"maximum": 10,
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the answer is correct, in one or two sentences",
						},
					},
					"required":             []any{"type", "question", "options", "answer", "difficulty", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// LessonSchema defines the LLM response for a lesson.
var LessonSchema = &llm.Schema{
	Name:        "lesson",
	Description: "A markdown lesson on one topic from the offered list",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{
				"type":        "string",
				"description": "The chosen topic, copied exactly from the offered list",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "The lesson body in markdown with Introduction, Key Concepts, Examples, Practice Exercise and Summary sections",
			},
		},
		"required":             []any{"topic", "content"},
		"additionalProperties": false,
	},
}
