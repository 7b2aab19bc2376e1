package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2,
	}
}

var okResp = MockResponse{Content: json.RawMessage(`{"ok":true}`)}

func down() MockResponse {
	return MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
}

func malformed() MockResponse {
	return MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`bad`), Err: errors.New("bad")}}
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt succeeds", []MockResponse{okResp}, false, 1},
		{"transient then success", []MockResponse{down(), okResp}, false, 2},
		{"all attempts fail", []MockResponse{down(), down(), down(), okResp}, true, 3},
		{"max tokens is final", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, okResp}, true, 1},
		{"malformed output gets one more try", []MockResponse{malformed(), okResp}, false, 2},
		{"malformed output twice gives up", []MockResponse{malformed(), malformed(), okResp}, true, 2},
		{"rate limit honours retry-after", []MockResponse{
			{Err: &ErrRateLimit{RetryAfter: time.Millisecond, Err: errors.New("429")}}, okResp,
		}, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			p := WithRetry(mock, fastRetry(3), nil)

			resp, err := p.Generate(context.Background(), Request{})
			if tt.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(resp.Content) != `{"ok":true}` {
				t.Errorf("content = %s", resp.Content)
			}
			if mock.CallCount() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", mock.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetryStopsWhenCancelled(t *testing.T) {
	mock := NewMockProvider(down(), down(), okResp)
	p := WithRetry(mock, fastRetry(3), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Generate(ctx, Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", mock.CallCount())
	}
}

func TestRetryWaitGrowsAndCaps(t *testing.T) {
	r := WithRetry(NewMockProvider(), RetryConfig{
		MaxAttempts: 5,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     300 * time.Millisecond,
		Multiplier:  2,
	}, nil).(*retryProvider)

	unavailable := &ErrProviderUnavailable{}
	within := func(d, base time.Duration) bool {
		return d >= base*8/10 && d <= base*12/10
	}
	if d := r.wait(1, unavailable); !within(d, 100*time.Millisecond) {
		t.Errorf("attempt 1 wait = %v", d)
	}
	if d := r.wait(2, unavailable); !within(d, 200*time.Millisecond) {
		t.Errorf("attempt 2 wait = %v", d)
	}
	if d := r.wait(4, unavailable); !within(d, 300*time.Millisecond) {
		t.Errorf("attempt 4 wait = %v, want capped near 300ms", d)
	}
	if d := r.wait(1, &ErrRateLimit{RetryAfter: 7 * time.Second}); d != 7*time.Second {
		t.Errorf("rate-limit wait = %v, want 7s", d)
	}
}

func TestRetryModelID(t *testing.T) {
	if id := WithRetry(NewMockProvider(), fastRetry(1), nil).ModelID(); id != "mock" {
		t.Errorf("ModelID = %q", id)
	}
}
