package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	speechapi "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AudioSource captures the audio for one utterance.
type AudioSource interface {
	Capture(ctx context.Context) ([]byte, error)
}

// FileAudio replays a recorded file, e.g. a WAV capture.
type FileAudio string

func (f FileAudio) Capture(context.Context) ([]byte, error) {
	return os.ReadFile(string(f))
}

// GCPConfig configures a GCPRecognizer.
type GCPConfig struct {
	CredentialsFile string
	LanguageCode    string // default en-US
	SampleRate      int
	Encoding        speechpb.RecognitionConfig_AudioEncoding // inferred from the file name when unset
	MaxRetries      int
}

type recognizeFunc func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)

// GCPRecognizer transcribes captured audio with Google Cloud Speech.
type GCPRecognizer struct {
	recognize recognizeFunc
	closeFn   func() error
	audio     AudioSource
	cfg       GCPConfig
	backoff   time.Duration
	log       *zap.Logger
}

// NewGCPRecognizer dials the Speech API.
func NewGCPRecognizer(ctx context.Context, cfg GCPConfig, audio AudioSource, log *zap.Logger) (*GCPRecognizer, error) {
	c, err := speechapi.NewClient(ctx, clientOptions(cfg.CredentialsFile)...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	g := newGCPRecognizer(func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		return c.Recognize(ctx, req)
	}, audio, cfg, log)
	g.closeFn = c.Close
	return g, nil
}

func newGCPRecognizer(fn recognizeFunc, audio AudioSource, cfg GCPConfig, log *zap.Logger) *GCPRecognizer {
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GCPRecognizer{
		recognize: fn,
		audio:     audio,
		cfg:       cfg,
		backoff:   750 * time.Millisecond,
		log:       log.Named("speech.gcp"),
	}
}

// clientOptions prefers inline JSON credentials from the environment, then
// the configured file, then GOOGLE_APPLICATION_CREDENTIALS.
func clientOptions(file string) []option.ClientOption {
	if creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")); creds != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(file)}
}

// Close releases the client connection.
func (g *GCPRecognizer) Close() error {
	if g.closeFn == nil {
		return nil
	}
	return g.closeFn()
}

func (g *GCPRecognizer) Listen(ctx context.Context) (string, error) {
	audio, err := g.audio.Capture(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: capture audio: %v", ErrRecognition, err)
	}
	if len(audio) == 0 {
		return "", fmt.Errorf("%w: no audio captured", ErrRecognition)
	}

	req := &speechpb.RecognizeRequest{
		Config: g.recognitionConfig(),
		Audio:  &speechpb.RecognitionAudio{AudioSource: &speechpb.RecognitionAudio_Content{Content: audio}},
	}
	resp, err := g.retry(ctx, req)
	if err != nil {
		return "", err
	}

	var parts []string
	for _, r := range resp.GetResults() {
		if alts := r.GetAlternatives(); len(alts) > 0 {
			if t := strings.TrimSpace(alts[0].GetTranscript()); t != "" {
				parts = append(parts, t)
			}
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: empty transcript", ErrRecognition)
	}
	return strings.Join(parts, " "), nil
}

func (g *GCPRecognizer) recognitionConfig() *speechpb.RecognitionConfig {
	enc := g.cfg.Encoding
	if enc == speechpb.RecognitionConfig_ENCODING_UNSPECIFIED {
		if f, ok := g.audio.(FileAudio); ok {
			enc = inferEncoding(string(f))
		}
	}
	return &speechpb.RecognitionConfig{
		LanguageCode:               g.cfg.LanguageCode,
		Encoding:                   enc,
		SampleRateHertz:            int32(max(0, g.cfg.SampleRate)),
		EnableAutomaticPunctuation: false,
	}
}

func inferEncoding(path string) speechpb.RecognitionConfig_AudioEncoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return speechpb.RecognitionConfig_LINEAR16
	case ".flac":
		return speechpb.RecognitionConfig_FLAC
	case ".mp3":
		return speechpb.RecognitionConfig_MP3
	case ".ogg", ".opus":
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}

// retry repeats transient failures with doubling backoff.
func (g *GCPRecognizer) retry(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
	backoff := g.backoff
	var last error
	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		resp, err := g.recognize(ctx, req)
		if err == nil {
			return resp, nil
		}
		last = err

		code := status.Code(err)
		switch code {
		case codes.DeadlineExceeded:
			return nil, ErrTimeout
		case codes.Unimplemented, codes.PermissionDenied, codes.Unauthenticated:
			return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
		case codes.Unavailable, codes.ResourceExhausted:
		default:
			return nil, fmt.Errorf("%w: %v", ErrRecognition, err)
		}
		if attempt == g.cfg.MaxRetries {
			break
		}
		g.log.Debug("recognize retry", zap.Int("attempt", attempt+1), zap.String("code", code.String()))
		if err := pause(ctx, backoff); err != nil {
			return nil, err
		}
		backoff = min(backoff*2, 10*time.Second)
	}
	return nil, fmt.Errorf("%w: %v", ErrRecognition, last)
}
