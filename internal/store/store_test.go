package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		if err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

type profile struct {
	Name        string            `json:"name"`
	Grade       int               `json:"grade"`
	Coins       int               `json:"coins"`
	Preferences map[string]string `json:"preferences"`
	LastLogin   time.Time         `json:"lastLogin"`
}

// kvContract runs the shared KV behaviour against any backend.
func kvContract(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	var missing profile
	found, err := kv.Load(ctx, KeyUser, &missing)
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if found {
		t.Fatal("expected missing key to report not found")
	}

	want := profile{
		Name:        "Ada",
		Grade:       7,
		Coins:       40,
		Preferences: map[string]string{"learningStyle": "visual"},
		LastLogin:   time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := kv.Save(ctx, KeyUser, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	var got profile
	found, err = kv.Load(ctx, KeyUser, &got)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatal("expected saved key to be found")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}

	// Save overwrites the whole document.
	if err := kv.Save(ctx, KeyUser, profile{Name: "Grace"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got = profile{}
	if _, err := kv.Load(ctx, KeyUser, &got); err != nil {
		t.Fatalf("load after overwrite: %v", err)
	}
	if got.Name != "Grace" || got.Grade != 0 || got.Preferences != nil {
		t.Errorf("overwrite kept stale fields: %+v", got)
	}

	if err := kv.Save(ctx, KeyAchievements, map[string]int{"perfect_score": 50}); err != nil {
		t.Fatalf("save achievements: %v", err)
	}
	keys, err := kv.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{KeyAchievements, KeyUser}) {
		t.Errorf("keys = %v", keys)
	}

	size, err := kv.Size(ctx)
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if size <= 0 {
		t.Errorf("size = %d, want > 0", size)
	}

	if err := kv.Delete(ctx, KeyUser, "never-saved"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	found, err = kv.Load(ctx, KeyUser, &got)
	if err != nil {
		t.Fatalf("load after delete: %v", err)
	}
	if found {
		t.Error("expected deleted key to be gone")
	}
}

func TestSQLiteContract(t *testing.T) {
	kvContract(t, openTestStore(t))
}

func TestMemoryContract(t *testing.T) {
	kvContract(t, NewMemory())
}

func TestReopenKeepsDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Save(ctx, KeyUser, map[string]string{"name": "Ada"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	// The table already exists the second time round.
	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	var got map[string]string
	found, err := s.Load(ctx, KeyUser, &got)
	if err != nil || !found || got["name"] != "Ada" {
		t.Errorf("Load after reopen = %v, %v, %v", got, found, err)
	}
}

func TestSaveStampsInjectedClock(t *testing.T) {
	at := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	s, err := Open(filepath.Join(t.TempDir(), "clock.db"), WithClock(func() time.Time { return at }))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	if _, found, err := s.UpdatedAt(ctx, KeyProgress); err != nil || found {
		t.Fatalf("UpdatedAt before save = %v, %v", found, err)
	}
	if err := s.Save(ctx, KeyProgress, map[string]any{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, found, err := s.UpdatedAt(ctx, KeyProgress)
	if err != nil || !found {
		t.Fatalf("UpdatedAt = %v, %v", found, err)
	}
	if !got.Equal(at) {
		t.Errorf("updated_at = %v, want %v", got, at)
	}
}

func TestSaveRejectsUnencodableValue(t *testing.T) {
	s := openTestStore(t)
	err := s.Save(context.Background(), "bad", map[string]any{"ch": make(chan int)})
	if err == nil {
		t.Fatal("expected encode error")
	}
	if errors.Is(err, ErrUnavailable) {
		t.Error("encode failures should not be reported as storage unavailable")
	}
}

func TestClosedStoreIsUnavailable(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "closed.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Close()

	err = s.Save(context.Background(), KeyProgress, map[string]any{})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestMemoryFailure(t *testing.T) {
	m := NewMemory()
	m.FailWith = errors.New("quota exceeded")

	var v map[string]any
	_, err := m.Load(context.Background(), KeyProgress, &v)
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestDefaultDBPathFromEnv(t *testing.T) {
	want := filepath.Join(t.TempDir(), "nested", "custom.db")
	t.Setenv("ODYSSEY_DB", want)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestDefaultDBPathXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ODYSSEY_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if want := filepath.Join(dir, "odyssey", "odyssey.db"); got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}
