package speech

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultListenTimeout bounds a single ListenOnce.
const DefaultListenTimeout = 7 * time.Second

// Voice coordinates a Speaker and a Recognizer. At most one utterance is
// in flight; a new Speak cancels the previous one.
type Voice struct {
	speaker Speaker
	rec     Recognizer
	timeout time.Duration
	log     *zap.Logger

	mu      sync.Mutex
	enabled bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// VoiceOption configures a Voice.
type VoiceOption func(*Voice)

// WithListenTimeout overrides DefaultListenTimeout.
func WithListenTimeout(d time.Duration) VoiceOption {
	return func(v *Voice) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) VoiceOption {
	return func(v *Voice) {
		if l != nil {
			v.log = l.Named("speech")
		}
	}
}

// WithEnabled sets the initial toggle state. Voices start enabled.
func WithEnabled(on bool) VoiceOption {
	return func(v *Voice) { v.enabled = on }
}

// NewVoice creates a Voice. Nil adapters are treated as Unsupported.
func NewVoice(speaker Speaker, rec Recognizer, opts ...VoiceOption) *Voice {
	if speaker == nil {
		speaker = Unsupported{}
	}
	if rec == nil {
		rec = Unsupported{}
	}
	v := &Voice{
		speaker: speaker,
		rec:     rec,
		timeout: DefaultListenTimeout,
		log:     zap.NewNop(),
		enabled: true,
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Enabled reports the toggle state.
func (v *Voice) Enabled() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.enabled
}

// Toggle flips the toggle state and returns the new value. Turning voice
// off stops any utterance in flight.
func (v *Voice) Toggle() bool {
	v.mu.Lock()
	v.enabled = !v.enabled
	on := v.enabled
	v.mu.Unlock()
	if !on {
		v.Stop()
	}
	return on
}

// SetEnabled sets the toggle state.
func (v *Voice) SetEnabled(on bool) {
	if v.Enabled() != on {
		v.Toggle()
	}
}

// Speak starts saying text and returns immediately. It is a no-op while
// voice is disabled.
func (v *Voice) Speak(text string) {
	v.mu.Lock()
	if !v.enabled || text == "" {
		v.mu.Unlock()
		return
	}
	if v.cancel != nil {
		v.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	v.wg.Add(1)
	v.mu.Unlock()

	go func() {
		defer v.wg.Done()
		defer cancel()
		err := v.speaker.Speak(ctx, text, DetectLanguage(text))
		if err != nil && !errors.Is(err, context.Canceled) {
			v.log.Debug("speak failed", zap.Error(err))
		}
	}()
}

// Stop cancels the utterance in flight, if any.
func (v *Voice) Stop() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// Wait blocks until every started utterance has returned.
func (v *Voice) Wait() {
	v.wg.Wait()
}

// Caption returns what the speaker is currently showing, if it can say.
func (v *Voice) Caption() string {
	if c, ok := v.speaker.(Captioner); ok {
		return c.Caption()
	}
	return ""
}

// ListenOnce captures one answer within the listen timeout. Errors are
// ErrTimeout, ErrUnsupported, the caller's context error, or wrap
// ErrRecognition.
func (v *Voice) ListenOnce(ctx context.Context) (string, error) {
	lctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	text, err := v.rec.Listen(lctx)
	switch {
	case err == nil:
		return text, nil
	case errors.Is(err, ErrUnsupported):
		return "", ErrUnsupported
	case ctx.Err() != nil:
		return "", ctx.Err()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, ErrTimeout):
		return "", ErrTimeout
	case errors.Is(err, ErrRecognition):
		return "", err
	default:
		v.log.Debug("listen failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrRecognition, err)
	}
}
