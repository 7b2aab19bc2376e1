package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// RequestRecord captures one round trip to a provider.
type RequestRecord struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// Recorder persists request records. Implemented by the learner store.
type Recorder interface {
	AppendLLMRequest(ctx context.Context, rec RequestRecord) error
}

// LoggingProvider is a decorator that logs every LLM request and hands a
// record of it to a Recorder.
type LoggingProvider struct {
	inner    Provider
	recorder Recorder
	log      *zap.Logger
}

// WithLogging wraps a Provider with structured logging. rec may be nil.
func WithLogging(p Provider, rec Recorder, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingProvider{inner: p, recorder: rec, log: log.Named("llm")}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	rec := RequestRecord{
		Provider:    vendorOf(l.inner),
		Model:       l.inner.ModelID(),
		Purpose:     string(purpose),
		LatencyMs:   latencyMs,
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}

	if resp != nil {
		rec.InputTokens = resp.Usage.InputTokens
		rec.OutputTokens = resp.Usage.OutputTokens
		rec.Model = resp.Model
		rec.ResponseBody = string(resp.Content)
	}

	fields := []zap.Field{
		zap.String("purpose", string(purpose)),
		zap.String("model", rec.Model),
		zap.Int("input_tokens", rec.InputTokens),
		zap.Int("output_tokens", rec.OutputTokens),
		zap.Int64("latency_ms", latencyMs),
	}
	if err != nil {
		rec.ErrorMessage = err.Error()
		l.log.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		l.log.Info("llm request", fields...)
	}

	if l.recorder != nil {
		// A failed record must not fail the request.
		if recErr := l.recorder.AppendLLMRequest(ctx, rec); recErr != nil {
			l.log.Warn("record llm request", zap.Error(recErr))
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
			b.Write(schemaDef)
			b.WriteString("\n")
		}
	}

	return b.String()
}
