package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"ODYSSEY_STORE", "ODYSSEY_DB", "ODYSSEY_REDIS_ADDR", "ODYSSEY_REDIS_PASSWORD",
		"ODYSSEY_REDIS_DB", "ODYSSEY_LOG_LEVEL", "ODYSSEY_LOG_FILE", "ODYSSEY_SPEECH",
		"ODYSSEY_CONTENT_GENERATOR", "ODYSSEY_LLM_PROVIDER",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 7, cfg.Game.QuestionCount)
	assert.Equal(t, 0.5, cfg.Game.DefaultPrior)
	assert.Equal(t, 7*time.Second, cfg.Speech.ListenTimeout)
}

func TestLoadFileOverDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  backend: redis
  redis:
    addr: cache:6380
game:
  questionCount: 5
  feedbackDelay: 500ms
content:
  generator: template
  questionLatency: 0s
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "cache:6380", cfg.Store.Redis.Addr)
	assert.Equal(t, "odyssey:", cfg.Store.Redis.Prefix, "unset keys keep defaults")
	assert.Equal(t, 5, cfg.Game.QuestionCount)
	assert.Equal(t, 500*time.Millisecond, cfg.Game.FeedbackDelay)
	assert.Equal(t, "template", cfg.Content.Generator)
	assert.Zero(t, cfg.Content.QuestionLatency)
	assert.Equal(t, 800*time.Millisecond, cfg.Content.LessonLatency)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644))
	t.Setenv("ODYSSEY_LOG_LEVEL", "debug")
	t.Setenv("ODYSSEY_STORE", "memory")
	t.Setenv("ODYSSEY_REDIS_DB", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, 3, cfg.Store.Redis.DB)
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "bad yaml", yaml: "store: [\n"},
		{name: "unknown backend", yaml: "store:\n  backend: mongo\n"},
		{name: "bad level", yaml: "log:\n  level: loud\n"},
		{name: "zero questions", yaml: "game:\n  questionCount: 0\n"},
		{name: "prior above one", yaml: "game:\n  defaultPrior: 1.5\n"},
		{name: "gcp without audio", yaml: "speech:\n  mode: gcp\n"},
		{name: "unknown generator", yaml: "content:\n  generator: oracle\n"},
		{name: "bad redis db env", env: map[string]string{"ODYSSEY_REDIS_DB": "two"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "odyssey", "config.yaml"), p)
}
