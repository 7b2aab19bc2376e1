// Package tutor answers the learner's chat messages.
package tutor

import (
	"context"
	"fmt"
	"regexp"
)

// General is the subject for messages that name no school subject.
const General = "general"

// ErrorMessage is shown when a reply could not be produced.
const ErrorMessage = "Sorry, I encountered an error. Please try again."

// QuickQuestions are offered as one-press prompts.
var QuickQuestions = []string{
	"Explain algebra basics",
	"Help with science homework",
	"What's photosynthesis?",
	"How to write an essay?",
}

// Turn is one message of the conversation so far.
type Turn struct {
	FromLearner bool
	Text        string
}

// Context is what the assistant knows about the asker.
type Context struct {
	Grade   int
	Subject string // see DetectSubject
	History []Turn // oldest first, excluding the message being answered
}

// Reply is the assistant's answer.
type Reply struct {
	Response  string
	FollowUps []string
	Resources []string
}

// Assistant produces chat replies.
type Assistant interface {
	Reply(ctx context.Context, message string, c Context) (*Reply, error)
}

// WelcomeMessage greets the learner at the start of a conversation.
func WelcomeMessage(name string) string {
	return fmt.Sprintf("Hi %s! I'm your AI learning assistant. How can I help you with your studies today?", name)
}

var subjectPatterns = []struct {
	subject string
	re      *regexp.Regexp
}{
	{"math", regexp.MustCompile(`(?i)math|algebra|calculus|equation|numbers`)},
	{"science", regexp.MustCompile(`(?i)science|biology|chemistry|physics|experiment`)},
	{"english", regexp.MustCompile(`(?i)english|grammar|writing|literature|vocabulary`)},
	{"history", regexp.MustCompile(`(?i)history|historical|past|events|civilization`)},
}

// DetectSubject guesses the subject of a message from its keywords. The
// first matching subject wins; otherwise General.
func DetectSubject(message string) string {
	for _, p := range subjectPatterns {
		if p.re.MatchString(message) {
			return p.subject
		}
	}
	return General
}

// Translate marks text as translated into language. No translation
// service is wired in.
func Translate(text, language string) string {
	return fmt.Sprintf("%s [Translated to %s]", text, language)
}
