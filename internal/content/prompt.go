package content

import (
	"fmt"
	"strings"

	"github.com/odysseyquest/odyssey/internal/curriculum"
)

const questionSystemPrompt = `You are a tutor writing quiz questions for students in grades 6-12.

Rules:
- Write exactly the number of questions requested, about the given subject and topic.
- Mix the question types "multiple-choice", "true-false" and "fill-blank".
- Multiple-choice and fill-blank questions have exactly 4 distinct options. Fill-blank questions contain "______" where the answer goes.
- True-false questions have the options ["True", "False"] in that order.
- "answer" is the zero-based index of the single correct option.
- Every question uses the requested difficulty on a 1-10 scale.
- The explanation says why the answer is right, in plain language for a teenager.`

const lessonSystemPrompt = `You are a tutor writing short lessons for students in grades 6-12.

Rules:
- Choose one topic from the offered list and copy its name exactly.
- Write the lesson in markdown with the sections: Introduction, Key Concepts, Examples, Practice Exercise, Summary.
- Start with a level-one heading "# Understanding <topic>".
- Adapt the presentation to the student's learning style.
- Keep it readable in 20-30 minutes.`

func buildQuestionMessage(req QuestionRequest, difficulty int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", req.Subject.DisplayName())
	fmt.Fprintf(&b, "Topic: %s\n", req.topicName())
	fmt.Fprintf(&b, "Difficulty: %d\n", difficulty)
	fmt.Fprintf(&b, "Number of questions: %d\n", req.Count)
	return b.String()
}

func buildLessonMessage(req LessonRequest, topics []curriculum.Topic) string {
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = string(t)
	}
	style := req.Style
	if _, ok := styleApproaches[style]; !ok {
		style = "visual"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s\n", req.Subject.DisplayName())
	fmt.Fprintf(&b, "Grade: %d\n", req.Grade)
	fmt.Fprintf(&b, "Learning style: %s\n", style)
	fmt.Fprintf(&b, "Topics: %s\n", strings.Join(names, ", "))
	return b.String()
}
