package play

import (
	"time"

	"github.com/odysseyquest/odyssey/internal/content"
	"github.com/odysseyquest/odyssey/internal/game"
)

// questionsMsg carries a fetched question set back to the update loop.
type questionsMsg struct {
	pending   *game.Pending
	questions []content.Question
	err       error
}

// timerTickMsg drives the per-question countdown. gen discards ticks
// scheduled for an earlier game.
type timerTickMsg struct {
	gen int
	at  time.Time
}

// feedbackDoneMsg ends the feedback pause for answer seq.
type feedbackDoneMsg struct{ seq int }

// transcriptMsg is the outcome of one listen.
type transcriptMsg struct {
	questionID string
	text       string
	err        error
}

// voiceSentMsg reports a typed transcript written to the recognizer.
type voiceSentMsg struct{ err error }
