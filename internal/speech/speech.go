// Package speech provides spoken feedback and voice answers. Speaking is
// fire-and-forget; listening is bounded by a timeout and every failure
// maps to one of the package errors so callers can fall back to manual
// input.
package speech

import (
	"context"
	"errors"
	"regexp"
)

var (
	// ErrUnsupported means the environment has no speech capability.
	ErrUnsupported = errors.New("speech not supported")
	// ErrTimeout means nothing was recognised before the listen deadline.
	ErrTimeout = errors.New("speech recognition timeout")
	// ErrRecognition wraps any other recognition failure.
	ErrRecognition = errors.New("speech recognition failed")
)

// Speaker utters text in a locale such as "en-US". Speak blocks until
// the utterance ends or ctx is cancelled.
type Speaker interface {
	Speak(ctx context.Context, text, locale string) error
}

// Recognizer captures one utterance and returns its transcript.
type Recognizer interface {
	Listen(ctx context.Context) (string, error)
}

// Captioner is implemented by speakers that can report what they are
// currently saying.
type Captioner interface {
	Caption() string
}

// Unsupported is both a Speaker and a Recognizer that always fails.
type Unsupported struct{}

func (Unsupported) Speak(context.Context, string, string) error { return ErrUnsupported }
func (Unsupported) Listen(context.Context) (string, error)      { return "", ErrUnsupported }

var languagePatterns = []struct {
	re     *regexp.Regexp
	locale string
}{
	{regexp.MustCompile(`[अ-ह]`), "hi-IN"},
	{regexp.MustCompile(`[áéíóúñ]`), "es-ES"},
	{regexp.MustCompile(`[äöüß]`), "de-DE"},
	{regexp.MustCompile(`[àâçéèêëîïôûùüÿ]`), "fr-FR"},
}

// DetectLanguage guesses a locale from characteristic letters. Checks run
// in order, so text with "é" resolves to Spanish before French.
func DetectLanguage(text string) string {
	for _, p := range languagePatterns {
		if p.re.MatchString(text) {
			return p.locale
		}
	}
	return "en-US"
}
