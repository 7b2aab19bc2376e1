package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// TerminalSpeaker "speaks" by revealing captions one character at a time.
// Captions go to w when it is non-nil and are always available through
// Caption.
type TerminalSpeaker struct {
	w    io.Writer
	pace time.Duration

	mu      sync.Mutex
	caption []rune
}

// NewTerminalSpeaker creates a TerminalSpeaker. A zero pace reveals the
// whole caption at once.
func NewTerminalSpeaker(w io.Writer, pace time.Duration) *TerminalSpeaker {
	return &TerminalSpeaker{w: w, pace: pace}
}

func (s *TerminalSpeaker) Speak(ctx context.Context, text, _ string) error {
	s.mu.Lock()
	s.caption = s.caption[:0]
	s.mu.Unlock()

	for _, r := range text {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.mu.Lock()
		s.caption = append(s.caption, r)
		if s.w != nil {
			fmt.Fprint(s.w, string(r))
		}
		s.mu.Unlock()
		if err := pause(ctx, s.pace); err != nil {
			return err
		}
	}
	if s.w != nil {
		s.mu.Lock()
		fmt.Fprintln(s.w)
		s.mu.Unlock()
	}
	return nil
}

// Caption returns the text revealed so far by the latest Speak.
func (s *TerminalSpeaker) Caption() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return string(s.caption)
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type lineResult struct {
	text string
	err  error
}

// LineRecognizer treats each line read from r as one utterance. Lines
// that arrive while nobody is listening wait for the next Listen.
type LineRecognizer struct {
	r     io.Reader
	once  sync.Once
	lines chan lineResult
}

// NewLineRecognizer creates a LineRecognizer reading from r.
func NewLineRecognizer(r io.Reader) *LineRecognizer {
	return &LineRecognizer{r: r, lines: make(chan lineResult)}
}

func (l *LineRecognizer) start() {
	go func() {
		sc := bufio.NewScanner(l.r)
		for sc.Scan() {
			l.lines <- lineResult{text: sc.Text()}
		}
		err := sc.Err()
		if err == nil {
			err = io.EOF
		}
		l.lines <- lineResult{err: err}
		close(l.lines)
	}()
}

func (l *LineRecognizer) Listen(ctx context.Context) (string, error) {
	l.once.Do(l.start)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-l.lines:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.text), nil
	}
}
