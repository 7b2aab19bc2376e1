// Package chat is the AI tutor conversation.
package chat

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/learner"
	"github.com/odysseyquest/odyssey/internal/screen"
	"github.com/odysseyquest/odyssey/internal/tutor"
	"github.com/odysseyquest/odyssey/internal/ui/components"
	"github.com/odysseyquest/odyssey/internal/ui/layout"
	"github.com/odysseyquest/odyssey/internal/ui/theme"
)

type message struct {
	fromLearner bool
	text        string
	followUps   []string
	resources   []string
	translated  bool
}

type profileMsg struct{ user *learner.User }

type replyMsg struct {
	reply *tutor.Reply
	err   error
}

type heardMsg struct {
	text string
	err  error
}

// ChatScreen holds one conversation with the tutor.
type ChatScreen struct {
	svc       *screen.Services
	input     components.TextInput
	messages  []message
	scroll    components.Scroller
	follow    bool
	user      *learner.User
	thinking  bool
	listening bool
	quick     int
	note      string
}

var _ screen.Screen = (*ChatScreen)(nil)

// New creates a ChatScreen.
func New(svc *screen.Services) *ChatScreen {
	return &ChatScreen{
		svc:    svc,
		input:  components.NewTextInput("Ask me anything about your studies...", false, 500),
		follow: true,
		quick:  -1,
	}
}

func (c *ChatScreen) Init() tea.Cmd {
	return tea.Batch(c.input.Init(), c.loadProfile)
}

func (c *ChatScreen) loadProfile() tea.Msg {
	u, err := c.svc.Learner.User(context.Background())
	if err != nil {
		return profileMsg{}
	}
	return profileMsg{user: u}
}

func (c *ChatScreen) Title() string {
	return "AI Tutor"
}

// CapturingText is always true: the input keeps focus.
func (c *ChatScreen) CapturingText() bool {
	return true
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Tab", Description: "Quick question"},
		{Key: "Ctrl+T", Description: "Translate"},
		{Key: "Ctrl+R", Description: "Read aloud"},
		{Key: "Ctrl+L", Description: "Speak"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileMsg:
		c.user = msg.user
		name := "there"
		if msg.user != nil {
			name = msg.user.Name
		}
		c.messages = append([]message{{text: tutor.WelcomeMessage(name)}}, c.messages...)
		return c, nil

	case replyMsg:
		c.thinking = false
		c.follow = true
		if msg.err != nil || msg.reply == nil {
			c.svc.Log().Warn("tutor reply", zap.Error(msg.err))
			c.messages = append(c.messages, message{text: tutor.ErrorMessage})
			return c, nil
		}
		c.messages = append(c.messages, message{
			text:      msg.reply.Response,
			followUps: msg.reply.FollowUps,
			resources: msg.reply.Resources,
		})
		c.svc.Speak(msg.reply.Response)
		return c, nil

	case heardMsg:
		c.listening = false
		if msg.err != nil {
			c.note = "Voice input failed. Please type your question."
			return c, nil
		}
		c.note = ""
		c.input.Set(msg.text)
		return c, nil

	case tea.KeyMsg:
		if cmd, ok := c.handleKey(msg); ok {
			return c, cmd
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// handleKey reports false for keys that belong to the text input.
func (c *ChatScreen) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "enter":
		return c.send(), true
	case "tab":
		c.quick = (c.quick + 1) % len(tutor.QuickQuestions)
		c.input.Set(tutor.QuickQuestions[c.quick])
		return nil, true
	case "pgup":
		c.follow = false
		c.scroll.Scroll(-5)
		return nil, true
	case "pgdown":
		c.scroll.Scroll(5)
		return nil, true
	case "ctrl+r":
		if m := c.lastReply(); m != nil {
			c.svc.Speak(m.text)
		}
		return nil, true
	case "ctrl+t":
		c.translate()
		return nil, true
	case "ctrl+l":
		return c.listen(), true
	}
	return nil, false
}

func (c *ChatScreen) lastReply() *message {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if !c.messages[i].fromLearner && !c.messages[i].translated {
			return &c.messages[i]
		}
	}
	return nil
}

func (c *ChatScreen) translate() {
	m := c.lastReply()
	if m == nil {
		return
	}
	lang := learner.DefaultLanguage
	if c.user != nil && c.user.Language != "" {
		lang = c.user.Language
	}
	text := tutor.Translate(m.text, lang)
	c.messages = append(c.messages, message{text: text, translated: true})
	c.follow = true
	c.svc.Speak(text)
}

func (c *ChatScreen) listen() tea.Cmd {
	if c.listening || c.svc.Voice == nil {
		return nil
	}
	if c.svc.VoiceInput != nil {
		c.note = "Type your question; voice capture reads from this box."
		return nil
	}
	c.listening = true
	c.note = "Listening..."
	voice := c.svc.Voice
	return func() tea.Msg {
		text, err := voice.ListenOnce(context.Background())
		return heardMsg{text: text, err: err}
	}
}

// history converts the conversation so far into tutor turns.
func (c *ChatScreen) history() []tutor.Turn {
	turns := make([]tutor.Turn, 0, len(c.messages))
	for _, m := range c.messages {
		if m.translated {
			continue
		}
		turns = append(turns, tutor.Turn{FromLearner: m.fromLearner, Text: m.text})
	}
	return turns
}

func (c *ChatScreen) send() tea.Cmd {
	text := c.input.Value()
	if text == "" || c.thinking {
		return nil
	}
	tc := tutor.Context{
		Subject: tutor.DetectSubject(text),
		History: c.history(),
	}
	if c.user != nil {
		tc.Grade = c.user.Grade
	}
	c.messages = append(c.messages, message{fromLearner: true, text: text})
	c.input.Clear()
	c.thinking = true
	c.follow = true
	c.note = ""
	c.svc.Log().Debug("tutor question", zap.String("subject", tc.Subject), zap.Int("history", len(tc.History)))

	assistant := c.svc.Tutor
	return func() tea.Msg {
		r, err := assistant.Reply(context.Background(), text, tc)
		return replyMsg{reply: r, err: err}
	}
}

func (c *ChatScreen) render(width int) string {
	wrap := lipgloss.NewStyle().Width(max(20, width-6))
	you := lipgloss.NewStyle().Foreground(theme.Sky).Bold(true)
	bot := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)

	var b strings.Builder
	for _, m := range c.messages {
		switch {
		case m.fromLearner:
			b.WriteString(you.Render("You") + "\n")
		case m.translated:
			b.WriteString(bot.Render("Tutor 🌐") + "\n")
		default:
			b.WriteString(bot.Render("Tutor") + "\n")
		}
		b.WriteString(wrap.Foreground(theme.Text).Render(m.text) + "\n")
		for _, f := range m.followUps {
			b.WriteString(theme.Hint.Render("  → "+f) + "\n")
		}
		if len(m.resources) > 0 {
			b.WriteString(theme.Subtitle.Render("  📎 "+strings.Join(m.resources, " · ")) + "\n")
		}
		b.WriteString("\n")
	}
	if c.thinking {
		b.WriteString(theme.Hint.Render("Tutor is typing...") + "\n")
	}
	return b.String()
}

func (c *ChatScreen) View(width, height int) string {
	bottom := "  " + c.input.View()
	if c.note != "" {
		bottom = "  " + theme.Hint.Render(c.note) + "\n" + bottom
	}
	if c.input.Value() == "" && len(c.messages) <= 1 {
		bottom = "  " + theme.Subtitle.Render("Try: "+strings.Join(tutor.QuickQuestions, " · ")) + "\n" + bottom
	}

	c.scroll.SetContent(c.render(width), c.follow)
	rows := max(3, height-lipgloss.Height(bottom)-2)
	if c.scroll.AtEnd(rows) {
		c.follow = true
	}
	body := lipgloss.NewStyle().PaddingLeft(2).Render(c.scroll.View(rows))

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(0, width-4)))
	return body + "\n  " + divider + "\n" + bottom
}
