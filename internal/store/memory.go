package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Memory is a process-local KV. Documents are kept as encoded JSON so
// callers observe the same round-trip semantics as the durable backends.
type Memory struct {
	mu   sync.Mutex
	docs map[string][]byte

	// FailWith, when set, is returned wrapped in ErrUnavailable by every
	// operation.
	FailWith error
}

var _ KV = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

func (m *Memory) fail(op string) error {
	if m.FailWith == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, m.FailWith)
}

func (m *Memory) Save(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("save " + key); err != nil {
		return err
	}
	m.docs[key] = raw
	return nil
}

func (m *Memory) Load(_ context.Context, key string, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("load " + key); err != nil {
		return false, err
	}
	raw, ok := m.docs[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("delete"); err != nil {
		return err
	}
	for _, k := range keys {
		delete(m.docs, k)
	}
	return nil
}

func (m *Memory) Keys(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("keys"); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(m.docs))
	for k := range m.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *Memory) Size(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("size"); err != nil {
		return 0, err
	}
	var n int64
	for _, raw := range m.docs {
		n += int64(len(raw))
	}
	return n, nil
}

func (m *Memory) Close() error { return nil }
