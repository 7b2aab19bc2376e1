package screen

import (
	"io"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/config"
	"github.com/odysseyquest/odyssey/internal/content"
	"github.com/odysseyquest/odyssey/internal/game"
	"github.com/odysseyquest/odyssey/internal/insights"
	"github.com/odysseyquest/odyssey/internal/learner"
	"github.com/odysseyquest/odyssey/internal/rewards"
	"github.com/odysseyquest/odyssey/internal/speech"
	"github.com/odysseyquest/odyssey/internal/tutor"
	"github.com/odysseyquest/odyssey/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// TextEntry is implemented by screens that are currently capturing typed
// text, so global single-key shortcuts stay out of the way.
type TextEntry interface {
	CapturingText() bool
}

// EscapeCapturer is implemented by screens that handle Esc themselves
// while CapturesEscape reports true.
type EscapeCapturer interface {
	CapturesEscape() bool
}

// Services are the dependencies screens share.
type Services struct {
	Config   config.Config
	Learner  *learner.Service
	Content  content.Generator
	Catalog  *game.Catalog
	Rewards  *rewards.Service
	Insights *insights.Service
	Tutor    tutor.Assistant
	Voice    *speech.Voice
	// VoiceInput feeds typed transcripts to a terminal recognizer. Nil when
	// recognition reads from elsewhere.
	VoiceInput io.Writer
	Logger     *zap.Logger
}

// UserChangedMsg tells the app to refresh header state after the profile
// or coin balance changed.
type UserChangedMsg struct{}

// ResumeMsg is delivered to a screen when it becomes active again after
// the screens above it were popped.
type ResumeMsg struct{}

// Speak says text when a voice is configured.
func (s *Services) Speak(text string) {
	if s != nil && s.Voice != nil {
		s.Voice.Speak(text)
	}
}

// Log returns the logger, never nil.
func (s *Services) Log() *zap.Logger {
	if s == nil || s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
