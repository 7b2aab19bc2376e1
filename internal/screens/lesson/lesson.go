// Package lesson generates and displays a lesson for a chosen subject and
// learning style.
package lesson

import (
	"context"
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/content"
	"github.com/odysseyquest/odyssey/internal/curriculum"
	"github.com/odysseyquest/odyssey/internal/learner"
	"github.com/odysseyquest/odyssey/internal/screen"
	"github.com/odysseyquest/odyssey/internal/ui/components"
	"github.com/odysseyquest/odyssey/internal/ui/layout"
	"github.com/odysseyquest/odyssey/internal/ui/theme"
)

type phase int

const (
	phaseSelect phase = iota
	phaseLoading
	phaseReading
)

type profileMsg struct {
	grade  int
	style  string
	videos map[string]learner.CachedVideo
}

type lessonMsg struct {
	lesson *content.Lesson
	err    error
}

type savedMsg struct {
	done bool
	err  error
}

type videoMsg struct {
	videos map[string]learner.CachedVideo
	err    error
}

// LessonScreen lets the learner pick a subject and style, then reads the
// generated lesson.
type LessonScreen struct {
	svc      *screen.Services
	phase    phase
	subjects []curriculum.Subject
	subject  int
	style    int
	onStyle  bool
	grade    int

	lesson *content.Lesson
	scroll components.Scroller
	videos map[string]learner.CachedVideo
	saved  bool
	status string
	err    error
	height int
}

var _ screen.Screen = (*LessonScreen)(nil)

// New creates a LessonScreen.
func New(svc *screen.Services) *LessonScreen {
	return &LessonScreen{
		svc:      svc,
		subjects: curriculum.AllSubjects(),
		grade:    learner.DefaultGrade,
		videos:   map[string]learner.CachedVideo{},
		height:   20,
	}
}

func (l *LessonScreen) Init() tea.Cmd {
	svc := l.svc.Learner
	return func() tea.Msg {
		ctx := context.Background()
		msg := profileMsg{}
		if u, err := svc.User(ctx); err == nil && u != nil {
			msg.grade = u.Grade
			msg.style = u.Preferences.LearningStyle
		}
		msg.videos, _ = svc.CachedVideos(ctx)
		return msg
	}
}

func (l *LessonScreen) Title() string {
	return "Lessons"
}

func (l *LessonScreen) KeyHints() []layout.KeyHint {
	switch l.phase {
	case phaseReading:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Scroll"},
			{Key: "S", Description: "Save offline"},
			{Key: "C", Description: "Video offline"},
			{Key: "D", Description: "Done"},
			{Key: "N", Description: "New lesson"},
		}
	case phaseSelect:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Field"},
			{Key: "←→", Description: "Change"},
			{Key: "Enter", Description: "Start"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (l *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileMsg:
		if msg.grade > 0 {
			l.grade = msg.grade
		}
		if i := slices.Index(content.LearningStyles, msg.style); i >= 0 {
			l.style = i
		}
		if msg.videos != nil {
			l.videos = msg.videos
		}
		return l, nil

	case lessonMsg:
		return l, l.handleLesson(msg)

	case savedMsg:
		if msg.err != nil {
			l.svc.Log().Warn("save lesson offline", zap.Error(msg.err))
			l.status = "Could not save the lesson."
			return l, nil
		}
		l.saved = true
		l.status = "Saved for offline reading."
		if msg.done {
			l.status = "Lesson completed!"
		}
		return l, nil

	case videoMsg:
		if msg.err != nil {
			l.svc.Log().Warn("update video cache", zap.Error(msg.err))
			l.status = "Could not update the video cache."
			return l, nil
		}
		l.videos = msg.videos
		if l.videoCached() {
			l.status = "Video available offline."
		} else {
			l.status = "Video removed from this device."
		}
		return l, nil

	case tea.KeyMsg:
		return l, l.handleKey(msg)
	}
	return l, nil
}

func (l *LessonScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch l.phase {
	case phaseSelect:
		switch key {
		case "up", "k", "down", "j", "tab":
			l.onStyle = !l.onStyle
		case "left", "h":
			l.shift(-1)
		case "right", "l":
			l.shift(1)
		case "enter":
			return l.generate()
		}
	case phaseReading:
		switch key {
		case "up", "k":
			l.scroll.Scroll(-1)
		case "down", "j":
			l.scroll.Scroll(1)
		case "pgup":
			l.scroll.Scroll(-l.height)
		case "pgdown", "space", " ":
			l.scroll.Scroll(l.height)
		case "home", "g":
			l.scroll.Top()
		case "s":
			return l.save(false)
		case "d":
			return l.save(true)
		case "c":
			return l.toggleVideo()
		case "n":
			l.phase = phaseSelect
			l.lesson = nil
			l.status = ""
		}
	}
	return nil
}

func (l *LessonScreen) shift(delta int) {
	if l.onStyle {
		n := len(content.LearningStyles)
		l.style = (l.style + delta + n) % n
		return
	}
	n := len(l.subjects)
	l.subject = (l.subject + delta + n) % n
}

func (l *LessonScreen) request() content.LessonRequest {
	return content.LessonRequest{
		Subject: l.subjects[l.subject],
		Grade:   l.grade,
		Style:   content.LearningStyles[l.style],
	}
}

func (l *LessonScreen) generate() tea.Cmd {
	l.phase = phaseLoading
	l.err = nil
	l.status = ""
	req := l.request()
	gen := l.svc.Content
	return func() tea.Msg {
		lesson, err := gen.GenerateLesson(context.Background(), req)
		return lessonMsg{lesson: lesson, err: err}
	}
}

func (l *LessonScreen) handleLesson(msg lessonMsg) tea.Cmd {
	if msg.err != nil || msg.lesson == nil {
		l.svc.Log().Error("generate lesson", zap.Error(msg.err))
		l.phase = phaseSelect
		l.err = msg.err
		return nil
	}
	l.lesson = msg.lesson
	l.phase = phaseReading
	l.saved = false
	l.scroll.SetContent(msg.lesson.Content, false)
	l.scroll.Top()
	l.svc.Log().Info("lesson opened",
		zap.String("subject", string(msg.lesson.Subject)),
		zap.String("topic", string(msg.lesson.Topic)),
		zap.String("style", msg.lesson.LearningStyle))
	l.svc.Speak(fmt.Sprintf("Starting %s lesson. Get ready to learn!", msg.lesson.Subject.DisplayName()))
	if l.videoCached() {
		id := msg.lesson.VideoID
		svc := l.svc.Learner
		return func() tea.Msg {
			_ = svc.TouchVideo(context.Background(), id)
			return nil
		}
	}
	return nil
}

// save stores the lesson for offline reading. done also marks it complete.
func (l *LessonScreen) save(done bool) tea.Cmd {
	ls := l.lesson
	if ls == nil {
		return nil
	}
	if done {
		l.svc.Speak(fmt.Sprintf("Great job completing the %s lesson!", ls.Subject.DisplayName()))
	}
	svc := l.svc.Learner
	return func() tea.Msg {
		_, err := svc.SaveForOffline(context.Background(), ls.ID, learner.OfflineContent{
			Kind:    learner.KindLesson,
			Subject: string(ls.Subject),
			Title:   ls.Title,
			Body:    ls.Content,
		})
		return savedMsg{done: done, err: err}
	}
}

func (l *LessonScreen) videoCached() bool {
	if l.lesson == nil || l.lesson.VideoID == "" {
		return false
	}
	_, ok := l.videos[l.lesson.VideoID]
	return ok
}

func (l *LessonScreen) toggleVideo() tea.Cmd {
	ls := l.lesson
	if ls == nil || ls.VideoID == "" {
		return nil
	}
	svc := l.svc.Learner
	if l.videoCached() {
		return func() tea.Msg {
			v, err := svc.RemoveCachedVideo(context.Background(), ls.VideoID)
			return videoMsg{videos: v, err: err}
		}
	}
	return func() tea.Msg {
		v, err := svc.CacheVideo(context.Background(), ls.VideoID, learner.CachedVideo{
			Subject: string(ls.Subject),
			Topic:   string(ls.Topic),
			Title:   fmt.Sprintf("%s Video Lesson", ls.Topic),
		})
		return videoMsg{videos: v, err: err}
	}
}

func (l *LessonScreen) View(width, height int) string {
	switch l.phase {
	case phaseLoading:
		return "\n\n\n" + theme.Centered(theme.Subtitle, width, "AI is preparing your personalized lesson...")
	case phaseReading:
		return l.renderLesson(width, height)
	}
	return l.renderSelect(width, height)
}

func (l *LessonScreen) renderSelect(width, height int) string {
	subject := l.subjects[l.subject]
	row := func(label, value string, focused bool) string {
		style, cursor := theme.Unselected, "  "
		if focused {
			style, cursor = theme.Selected, "▸ "
		}
		return style.Render(fmt.Sprintf("%s%-8s ◂ %s ▸", cursor, label, value))
	}

	body := theme.Title.Render("Your Learning Journey 🚀") + "\n" +
		theme.Subtitle.Render(fmt.Sprintf("Lessons tailored for Grade %d", l.grade)) + "\n\n" +
		row("Subject", subject.Icon()+" "+subject.DisplayName(), !l.onStyle) + "\n" +
		row("Style", content.LearningStyles[l.style], l.onStyle)
	if l.err != nil {
		body += "\n\n" + theme.ErrorText.Render("Could not prepare a lesson. Please try again.")
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Card.Width(min(width-4, 56)).Render(body))
}

func (l *LessonScreen) renderLesson(width, height int) string {
	ls := l.lesson
	header := lipgloss.NewStyle().
		Foreground(theme.SubjectColor(string(ls.Subject))).
		Bold(true).
		Render(fmt.Sprintf("%s %s", ls.Subject.Icon(), ls.Title))
	meta := theme.Subtitle.Render(fmt.Sprintf("%s · Level %d · %s", ls.Duration, ls.Difficulty, ls.LearningStyle))

	video := "🌐 Video online only"
	if l.videoCached() {
		video = "✅ Video available offline"
	}
	if ls.VideoID != "" {
		video += "  " + theme.Hint.Render("youtube.com/watch?v="+ls.VideoID)
	}
	footer := []string{video}
	if l.saved {
		footer = append(footer, "💾 Saved")
	}
	if l.status != "" {
		footer = append(footer, theme.Hint.Render(l.status))
	}
	bottom := strings.Join(footer, "   ")

	l.height = max(3, height-lipgloss.Height(header)-lipgloss.Height(meta)-lipgloss.Height(bottom)-3)
	body := lipgloss.NewStyle().
		Width(min(width-4, 90)).
		Foreground(theme.Text).
		Render(l.scroll.View(l.height))

	return strings.Join([]string{"  " + header, "  " + meta, "", body, "", "  " + bottom}, "\n")
}
