// Package play runs one quiz game on top of game.Session.
package play

import (
	"context"
	"errors"
	"io"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/content"
	"github.com/odysseyquest/odyssey/internal/game"
	"github.com/odysseyquest/odyssey/internal/router"
	"github.com/odysseyquest/odyssey/internal/screen"
	"github.com/odysseyquest/odyssey/internal/screens/placeholder"
	"github.com/odysseyquest/odyssey/internal/screens/summary"
	"github.com/odysseyquest/odyssey/internal/ui/components"
	"github.com/odysseyquest/odyssey/internal/ui/layout"
)

// On-screen voice notes.
const (
	noteListening = "Listening... say your answer."
	noteChecking  = "Checking your answer..."
	noteNoMatch   = "I didn't understand that answer. Try again or pick an option."
	noteFailed    = "Voice input failed. Please pick an option."
	noteNoVoice   = "Voice input is not available."
)

// PlayScreen implements screen.Screen for an active game.
type PlayScreen struct {
	svc     *screen.Services
	gameID  string
	session *game.Session

	choices components.Choices
	input   components.TextInput

	gen       int // bumped per game so stale ticks are dropped
	seq       int // bumped per answer so stale feedback timers are dropped
	feedback  *game.Feedback
	answered  *content.Question
	finishErr error

	listening    bool
	typing       bool
	cancelListen context.CancelFunc
	note         string

	confirmQuit bool
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)

// New creates a PlayScreen for gameID. The game starts on Init.
func New(svc *screen.Services, gameID string) *PlayScreen {
	opts := game.Options{
		QuestionCount: svc.Config.Game.QuestionCount,
		DefaultPrior:  svc.Config.Game.DefaultPrior,
		Logger:        svc.Log(),
	}
	if svc.Voice != nil {
		opts.Speaker = svc.Voice
		opts.Listener = svc.Voice
	}
	return &PlayScreen{
		svc:     svc,
		gameID:  gameID,
		session: game.NewSession(svc.Catalog, svc.Content, svc.Learner, svc.Rewards, opts),
	}
}

func (p *PlayScreen) Init() tea.Cmd {
	return p.start()
}

func (p *PlayScreen) Title() string {
	if g, ok := p.session.Catalog().Get(p.gameID); ok {
		return g.Title
	}
	return "Game"
}

// CapturingText reports whether a typed voice answer is being entered.
func (p *PlayScreen) CapturingText() bool {
	return p.typing
}

// CapturesEscape keeps Esc inside the screen while a game is running.
func (p *PlayScreen) CapturesEscape() bool {
	return p.session.Snapshot().State == game.StatePlaying || p.confirmQuit
}

func (p *PlayScreen) KeyHints() []layout.KeyHint {
	snap := p.session.Snapshot()
	switch {
	case snap.Err != nil && snap.State == game.StateIdle:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	case p.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End game"},
			{Key: "N", Description: "Keep playing"},
		}
	case p.feedback != nil:
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}}
	case p.typing:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Send answer"},
			{Key: "Esc", Description: "Cancel"},
		}
	case snap.State == game.StatePlaying:
		return []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "↑↓", Description: "Move"},
			{Key: "V", Description: "Voice"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

// start prepares the game and fetches its questions off the update loop.
func (p *PlayScreen) start() tea.Cmd {
	ctx := context.Background()
	p.feedback, p.answered, p.note = nil, nil, ""

	if u, err := p.svc.Learner.User(ctx); err != nil {
		p.svc.Log().Warn("load profile for grade", zap.Error(err))
	} else if u != nil {
		p.session.SetGrade(u.Grade)
	}

	pending, err := p.session.Prepare(ctx, p.gameID)
	switch {
	case errors.Is(err, game.ErrComingSoon):
		g, _ := p.session.Catalog().Get(p.gameID)
		next := placeholder.New(g.Title, g.Icon, "")
		return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	case err != nil:
		p.svc.Log().Error("prepare game", zap.String("game", p.gameID), zap.Error(err))
		return func() tea.Msg { return router.PopScreenMsg{} }
	}

	p.gen++
	gen := p.svc.Content
	return func() tea.Msg {
		qs, err := pending.Fetch(context.Background(), gen)
		return questionsMsg{pending: pending, questions: qs, err: err}
	}
}

func (p *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsMsg:
		return p, p.handleQuestions(msg)
	case timerTickMsg:
		return p, p.handleTick(msg)
	case feedbackDoneMsg:
		if msg.seq != p.seq {
			return p, nil
		}
		return p, p.handleFeedbackDone()
	case transcriptMsg:
		return p, p.handleTranscript(msg)
	case voiceSentMsg:
		if msg.err != nil {
			p.svc.Log().Warn("send typed answer", zap.Error(msg.err))
			p.stopListening()
			p.note = noteFailed
		}
		return p, nil
	case tea.KeyMsg:
		return p, p.handleKey(msg)
	}

	if p.typing {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	return p, nil
}

func (p *PlayScreen) handleQuestions(msg questionsMsg) tea.Cmd {
	if err := p.session.Begin(msg.pending, msg.questions, msg.err); err != nil {
		return nil
	}
	if p.session.Snapshot().State != game.StatePlaying {
		return nil
	}
	p.resetChoices()
	return tickCmd(p.gen)
}

func (p *PlayScreen) resetChoices() {
	if q := p.session.Snapshot().Question; q != nil {
		p.choices = components.NewChoices(q.Options)
	}
	p.note = ""
}

func (p *PlayScreen) handleTick(msg timerTickMsg) tea.Cmd {
	snap := p.session.Snapshot()
	if msg.gen != p.gen || snap.State != game.StatePlaying {
		return nil
	}
	// The clock is paused while feedback or the quit prompt is showing.
	if p.feedback != nil || p.confirmQuit {
		return tickCmd(p.gen)
	}

	q := snap.Question
	fb, err := p.session.Tick(context.Background())
	if fb == nil {
		return tickCmd(p.gen)
	}
	cmd := p.showFeedback(q, fb, err)
	if p.session.Snapshot().State == game.StatePlaying {
		return tea.Batch(cmd, tickCmd(p.gen))
	}
	return cmd
}

func (p *PlayScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	snap := p.session.Snapshot()

	if snap.State == game.StateIdle && snap.Err != nil {
		switch key {
		case "r", "R":
			return p.start()
		case "enter":
			return func() tea.Msg { return router.PopScreenMsg{} }
		}
		return nil
	}

	if p.confirmQuit {
		switch key {
		case "y", "Y":
			p.confirmQuit = false
			p.stopListening()
			p.session.Reset()
			p.svc.Log().Info("game abandoned", zap.String("game", p.gameID))
			return func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			p.confirmQuit = false
		}
		return nil
	}

	if p.feedback != nil {
		switch key {
		case "enter", "space", " ":
			seq := p.seq
			return func() tea.Msg { return feedbackDoneMsg{seq: seq} }
		}
		return nil
	}

	if snap.State != game.StatePlaying {
		return nil
	}

	if p.typing {
		switch key {
		case "enter":
			return p.sendTyped()
		case "esc":
			p.stopListening()
			p.note = ""
			return nil
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd
	}

	switch key {
	case "esc":
		p.confirmQuit = true
		return nil
	case "v", "V":
		if p.listening {
			return nil
		}
		return p.startListening(snap.Question)
	}

	var idx int
	p.choices, idx = p.choices.Update(msg)
	if idx < 0 {
		return nil
	}
	q := snap.Question
	fb, err := p.session.Answer(context.Background(), idx)
	if fb == nil {
		return nil
	}
	return p.showFeedback(q, fb, err)
}

// showFeedback reveals the scored answer and schedules the next question.
func (p *PlayScreen) showFeedback(q *content.Question, fb *game.Feedback, finishErr error) tea.Cmd {
	p.stopListening()
	p.note = ""
	p.answered = q
	p.feedback = fb
	if finishErr != nil {
		p.svc.Log().Error("save game result", zap.String("game", p.gameID), zap.Error(finishErr))
		p.finishErr = finishErr
	}
	if q != nil {
		p.choices.Reveal(q.Answer, fb.Chosen)
	}

	p.seq++
	seq := p.seq
	delay := p.svc.Config.Game.FeedbackDelay
	if delay <= 0 {
		return func() tea.Msg { return feedbackDoneMsg{seq: seq} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return feedbackDoneMsg{seq: seq}
	})
}

func (p *PlayScreen) handleFeedbackDone() tea.Cmd {
	if p.feedback == nil {
		return nil
	}
	p.feedback = nil
	p.answered = nil

	snap := p.session.Snapshot()
	if snap.State == game.StateFinished && snap.Result != nil {
		svc, id := p.svc, p.gameID
		next := summary.New(*snap.Result, p.finishErr).WithReplay(func() screen.Screen {
			return New(svc, id)
		})
		return tea.Batch(
			func() tea.Msg { return screen.UserChangedMsg{} },
			func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} },
		)
	}
	p.resetChoices()
	return nil
}

func (p *PlayScreen) startListening(q *content.Question) tea.Cmd {
	if p.svc.Voice == nil || q == nil {
		p.note = noteNoVoice
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancelListen = cancel
	p.listening = true
	p.note = noteListening

	voice := p.svc.Voice
	qid := q.ID
	cmds := []tea.Cmd{func() tea.Msg {
		text, err := voice.ListenOnce(ctx)
		return transcriptMsg{questionID: qid, text: text, err: err}
	}}
	if p.svc.VoiceInput != nil {
		p.typing = true
		p.input = components.NewTextInput("Type what you would say...", false, 120)
		cmds = append(cmds, p.input.Init())
	}
	return tea.Batch(cmds...)
}

func (p *PlayScreen) sendTyped() tea.Cmd {
	line := p.input.Value()
	w := p.svc.VoiceInput
	p.typing = false
	p.note = noteChecking
	return func() tea.Msg {
		_, err := io.WriteString(w, line+"\n")
		return voiceSentMsg{err: err}
	}
}

func (p *PlayScreen) stopListening() {
	if p.cancelListen != nil {
		p.cancelListen()
		p.cancelListen = nil
	}
	p.listening = false
	p.typing = false
}

func (p *PlayScreen) handleTranscript(msg transcriptMsg) tea.Cmd {
	wasListening := p.listening
	p.stopListening()
	if errors.Is(msg.err, context.Canceled) || !wasListening {
		return nil
	}

	q := p.session.Snapshot().Question
	fb, err := p.session.ApplyTranscript(context.Background(), msg.questionID, msg.text, msg.err)
	if fb != nil {
		return p.showFeedback(q, fb, err)
	}
	switch {
	case errors.Is(err, game.ErrNoMatch):
		p.note = noteNoMatch
	case err != nil:
		p.note = noteFailed
	default:
		p.note = ""
	}
	return nil
}

// tickCmd returns a 1-second tick for game gen.
func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg{gen: gen, at: t}
	})
}
