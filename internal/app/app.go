package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/learner"
	"github.com/odysseyquest/odyssey/internal/router"
	"github.com/odysseyquest/odyssey/internal/screen"
	"github.com/odysseyquest/odyssey/internal/screens/home"
	"github.com/odysseyquest/odyssey/internal/screens/onboarding"
	"github.com/odysseyquest/odyssey/internal/screens/play"
	"github.com/odysseyquest/odyssey/internal/screens/welcome"
	"github.com/odysseyquest/odyssey/internal/ui/layout"
)

const captionRefresh = 250 * time.Millisecond

// ErrNoProfile is returned when a game is requested before onboarding.
var ErrNoProfile = errors.New("no learner profile yet; run odyssey to create one")

// Options adjust how the program starts.
type Options struct {
	// StartGame, when set, opens that game over the home screen and skips
	// the welcome animation.
	StartGame string
}

type statusMsg struct {
	status layout.Status
	err    error
}

type captionTickMsg struct{}

type voiceSavedMsg struct{ err error }

// AppModel is the root Bubble Tea model.
type AppModel struct {
	svc    *screen.Services
	router *router.Router
	root   screen.Screen
	start  tea.Cmd
	status layout.Status
	width  int
	height int
}

// newAppModel builds the screen stack. hasUser selects whether the
// welcome animation leads to onboarding or straight to home.
func newAppModel(svc *screen.Services, opts Options, hasUser bool) AppModel {
	m := AppModel{svc: svc}
	if opts.StartGame != "" {
		m.root = home.New(svc)
		m.router = router.New(m.root)
		m.start = m.router.Push(play.New(svc, opts.StartGame))
		return m
	}

	entry := func() screen.Screen {
		if hasUser {
			return home.New(svc)
		}
		return onboarding.New(svc, func() screen.Screen { return home.New(svc) })
	}
	m.root = welcome.New(entry)
	m.router = router.New(m.root)
	return m
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadStatus(), m.root.Init(), m.start}
	if m.svc.Voice != nil {
		cmds = append(cmds, captionTick())
	}
	return tea.Batch(cmds...)
}

func captionTick() tea.Cmd {
	return tea.Tick(captionRefresh, func(time.Time) tea.Msg { return captionTickMsg{} })
}

func (m AppModel) loadStatus() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		u, err := svc.Learner.User(context.Background())
		if err != nil {
			return statusMsg{err: err}
		}
		st := layout.Status{Voice: svc.Voice != nil && svc.Voice.Enabled()}
		if u != nil {
			st.Name, st.Coins = u.Name, u.Coins
		}
		return statusMsg{status: st}
	}
}

// toggleVoice mutes or unmutes speech and stores the preference.
func (m AppModel) toggleVoice() tea.Cmd {
	on := m.svc.Voice.Toggle()
	m.svc.Log().Info("voice toggled", zap.Bool("enabled", on))
	svc := m.svc.Learner
	return func() tea.Msg {
		_, err := svc.UpdatePreferences(context.Background(), learner.PreferencesUpdate{VoiceEnabled: learner.Ptr(on)})
		return voiceSavedMsg{err: err}
	}
}

func (m AppModel) capturingText() bool {
	te, ok := m.router.Active().(screen.TextEntry)
	return ok && te.CapturingText()
}

func (m AppModel) capturesEscape() bool {
	ec, ok := m.router.Active().(screen.EscapeCapturer)
	return ok && ec.CapturesEscape()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case statusMsg:
		if msg.err != nil {
			m.svc.Log().Warn("load status", zap.Error(msg.err))
			return m, nil
		}
		m.status = msg.status
		return m, nil

	case captionTickMsg:
		return m, captionTick()

	case voiceSavedMsg:
		if msg.err != nil && !errors.Is(msg.err, learner.ErrNoUser) {
			m.svc.Log().Warn("save voice preference", zap.Error(msg.err))
		}
		return m, func() tea.Msg { return screen.UserChangedMsg{} }

	case screen.UserChangedMsg:
		return m, tea.Batch(m.loadStatus(), m.router.Update(msg))

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.svc.Voice != nil {
				m.svc.Voice.Stop()
			}
			return m, tea.Quit
		case "esc":
			if m.capturesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		case "m":
			if m.svc.Voice != nil && !m.capturingText() {
				return m, m.toggleVoice()
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	if m.svc.Voice != nil && !m.capturingText() {
		footerHints = append(footerHints, layout.KeyHint{Key: "M", Description: "Mute"})
	}

	caption := ""
	if m.svc.Voice != nil {
		caption = m.svc.Voice.Caption()
	}
	footer := layout.RenderFooter(footerHints, caption, m.width)

	contentHeight := max(0, m.height-lipgloss.Height(header)-lipgloss.Height(footer))
	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, svc *screen.Services, opts Options) error {
	u, err := svc.Learner.User(ctx)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if opts.StartGame != "" {
		if _, ok := svc.Catalog.Get(opts.StartGame); !ok {
			return fmt.Errorf("unknown game %q", opts.StartGame)
		}
		if u == nil {
			return ErrNoProfile
		}
	}
	if u != nil && svc.Voice != nil {
		svc.Voice.SetEnabled(u.Preferences.VoiceEnabled)
	}

	p := tea.NewProgram(newAppModel(svc, opts, u != nil), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		svc.Log().Error("program exited", zap.Error(err))
		return err
	}
	if svc.Voice != nil {
		svc.Voice.Stop()
	}
	return nil
}
