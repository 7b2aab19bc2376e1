package llm

import (
	"context"
	"encoding/json"
	"net/http"
)

// Provider generates structured output from a language model. The
// content generator, the tutor and the CLI all talk to models through it.
type Provider interface {
	// Generate sends req and returns the model's answer. When req.Schema
	// is set the answer has been validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model this provider sends requests to.
	ModelID() string
}

// Request is one prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema, when set, asks for JSON output using the vendor's native
	// structured-output support.
	Schema *Schema

	MaxTokens   int
	Temperature float64 // 0 leaves the vendor default
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the sender of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema the response must satisfy. Name doubles as
// the compiled-schema cache key, so it must be unique per definition.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a model's answer.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string // "end" or "max_tokens"
}

// Usage is the token count of one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// backend is the vendor-specific half of a provider: it turns a Request
// into an API call and reports the raw text that came back.
type backend interface {
	complete(ctx context.Context, model string, req Request) (completion, error)
}

type completion struct {
	text      string
	usage     Usage
	model     string // as reported by the vendor; may be empty
	truncated bool
}

// chatProvider turns a backend into a Provider. Truncation and schema
// checks happen here so every vendor fails the same way.
type chatProvider struct {
	vendor  string
	model   string
	backend backend
}

func (p *chatProvider) ModelID() string { return p.model }

// Vendor names the API behind the provider, e.g. "anthropic".
func (p *chatProvider) Vendor() string { return p.vendor }

func (p *chatProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	c, err := p.backend.complete(ctx, p.model, req)
	if err != nil {
		return nil, err
	}
	content := json.RawMessage(c.text)
	if c.truncated {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}

	if c.usage.TotalTokens == 0 {
		c.usage.TotalTokens = c.usage.InputTokens + c.usage.OutputTokens
	}
	model := c.model
	if model == "" {
		model = p.model
	}
	return &Response{Content: content, Usage: c.usage, Model: model, StopReason: "end"}, nil
}

// vendorOf reports the API name behind p, falling back to its model.
func vendorOf(p Provider) string {
	if v, ok := p.(interface{ Vendor() string }); ok {
		return v.Vendor()
	}
	return p.ModelID()
}

// statusError maps a vendor HTTP status to the package's typed errors.
// Anything that is not a rate limit is treated as an outage.
func statusError(code int, err error) error {
	if code == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}

// resolveModel maps a friendly model name to a vendor model ID. Unknown
// names are passed through as IDs.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
