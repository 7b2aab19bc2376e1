package learner

import (
	"context"

	"github.com/odysseyquest/odyssey/internal/llm"
	"github.com/odysseyquest/odyssey/internal/store"
)

// MaxLLMRequests bounds the LLM request log; older entries are dropped.
const MaxLLMRequests = 200

var _ llm.Recorder = (*Service)(nil)

// AppendLLMRequest adds rec to the request log, assigning the next id.
func (s *Service) AppendLLMRequest(ctx context.Context, rec llm.RequestRecord) error {
	var log []LLMRequest
	if err := s.load(ctx, store.KeyLLMRequests, &log); err != nil {
		return err
	}

	nextID := 1
	if len(log) > 0 {
		nextID = log[len(log)-1].ID + 1
	}

	entry := LLMRequest{
		ID:           nextID,
		Timestamp:    s.now(),
		Provider:     rec.Provider,
		Model:        rec.Model,
		Purpose:      rec.Purpose,
		LatencyMs:    rec.LatencyMs,
		InputTokens:  rec.InputTokens,
		OutputTokens: rec.OutputTokens,
		Success:      rec.Success,
		Error:        rec.ErrorMessage,
		Request:      rec.RequestBody,
		Response:     rec.ResponseBody,
	}
	if c := llm.LookupCost(rec.Model); c != nil {
		entry.Cost = c.Cost(rec.InputTokens, rec.OutputTokens)
	}

	log = append(log, entry)
	if len(log) > MaxLLMRequests {
		log = log[len(log)-MaxLLMRequests:]
	}
	return s.save(ctx, store.KeyLLMRequests, log)
}

// LLMRequests returns up to limit entries, newest first. limit <= 0
// returns everything.
func (s *Service) LLMRequests(ctx context.Context, limit int) ([]LLMRequest, error) {
	var log []LLMRequest
	if err := s.load(ctx, store.KeyLLMRequests, &log); err != nil {
		return nil, err
	}
	out := make([]LLMRequest, 0, len(log))
	for i := len(log) - 1; i >= 0; i-- {
		out = append(out, log[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// LLMRequest looks up one entry by id; nil when it has been dropped or
// never existed.
func (s *Service) LLMRequest(ctx context.Context, id int) (*LLMRequest, error) {
	var log []LLMRequest
	if err := s.load(ctx, store.KeyLLMRequests, &log); err != nil {
		return nil, err
	}
	for i := range log {
		if log[i].ID == id {
			return &log[i], nil
		}
	}
	return nil, nil
}
