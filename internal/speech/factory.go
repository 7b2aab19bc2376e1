package speech

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/config"
)

// New builds a Voice for the configured mode. Captions go to out when it is
// non-nil; the terminal recognizer reads answers from in.
func New(ctx context.Context, cfg config.Speech, out io.Writer, in io.Reader, log *zap.Logger) (*Voice, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts := []VoiceOption{WithListenTimeout(cfg.ListenTimeout), WithLogger(log)}
	speaker := NewTerminalSpeaker(out, cfg.CaptionPace)

	switch cfg.Mode {
	case "terminal":
		return NewVoice(speaker, NewLineRecognizer(in), opts...), nil
	case "gcp":
		rec, err := NewGCPRecognizer(ctx, GCPConfig{
			CredentialsFile: cfg.GCP.CredentialsFile,
			SampleRate:      cfg.GCP.SampleRate,
		}, FileAudio(cfg.GCP.AudioFile), log)
		if err != nil {
			return nil, err
		}
		return NewVoice(speaker, rec, opts...), nil
	case "off":
		return NewVoice(Unsupported{}, Unsupported{}, append(opts, WithEnabled(false))...), nil
	default:
		return nil, fmt.Errorf("unknown speech mode %q", cfg.Mode)
	}
}
