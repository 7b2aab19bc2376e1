package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// verdict says what to do with a failed attempt.
type verdict int

const (
	giveUp verdict = iota
	retryOnce
	retryAlways
)

// classify maps an error to a retry verdict. Malformed output earns a
// single second chance; cancellation and truncation are final.
func classify(err error) verdict {
	var (
		maxTok  *ErrMaxTokensExceeded
		invalid *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return giveUp
	case errors.As(err, &maxTok):
		return giveUp
	case errors.As(err, &invalid):
		return retryOnce
	default:
		// Rate limits, outages and network errors.
		return retryAlways
	}
}

type retryProvider struct {
	inner Provider
	cfg   RetryConfig
	log   *zap.Logger
	sleep func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps p so transient failures are retried with exponential
// backoff and jitter. log may be nil.
func WithRetry(p Provider, cfg RetryConfig, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &retryProvider{inner: p, cfg: cfg, log: log, sleep: sleepCtx}
}

func (r *retryProvider) ModelID() string { return r.inner.ModelID() }

func (r *retryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	secondChanceUsed := false
	var err error
	for attempt := 1; ; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch classify(err) {
		case giveUp:
			return nil, err
		case retryOnce:
			if secondChanceUsed {
				return nil, err
			}
			secondChanceUsed = true
		}
		if attempt >= r.cfg.MaxAttempts {
			return nil, err
		}

		wait := r.wait(attempt, err)
		r.log.Debug("retrying LLM request",
			zap.String("purpose", string(PurposeFrom(ctx))),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		if serr := r.sleep(ctx, wait); serr != nil {
			return nil, serr
		}
	}
}

// wait returns the pause after the given 1-based attempt. A rate limit
// with a Retry-After hint wins over the computed backoff.
func (r *retryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	base := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt-1))
	base = min(base, float64(r.cfg.MaxWait))
	// ±20%
	d := base * (0.8 + 0.4*rand.Float64())
	return time.Duration(max(d, 0))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
