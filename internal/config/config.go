// Package config loads application settings from a YAML file with
// ODYSSEY_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Store   Store   `yaml:"store"`
	Log     Log     `yaml:"log"`
	Game    Game    `yaml:"game"`
	Speech  Speech  `yaml:"speech"`
	Content Content `yaml:"content"`
	LLM     LLM     `yaml:"llm"`
}

type Store struct {
	// Backend is "sqlite", "redis" or "memory".
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"` // sqlite file; empty = default data dir
	Redis   Redis  `yaml:"redis"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type Log struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`   // empty = default state dir
	Format string `yaml:"format"` // "json" or "console"
}

type Game struct {
	QuestionCount int           `yaml:"questionCount"`
	DefaultPrior  float64       `yaml:"defaultPrior"`
	FeedbackDelay time.Duration `yaml:"feedbackDelay"`
}

type Speech struct {
	// Mode is "terminal", "gcp" or "off".
	Mode          string        `yaml:"mode"`
	ListenTimeout time.Duration `yaml:"listenTimeout"`
	CaptionPace   time.Duration `yaml:"captionPace"`
	GCP           GCPSpeech     `yaml:"gcp"`
}

type GCPSpeech struct {
	CredentialsFile string `yaml:"credentialsFile"`
	AudioFile       string `yaml:"audioFile"`
	SampleRate      int    `yaml:"sampleRate"`
}

type Content struct {
	// Generator is "template", "llm" or "auto" (llm with template fallback).
	Generator       string        `yaml:"generator"`
	QuestionLatency time.Duration `yaml:"questionLatency"`
	LessonLatency   time.Duration `yaml:"lessonLatency"`
}

type LLM struct {
	Provider string        `yaml:"provider"` // empty = discover from API key env vars
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Store: Store{
			Backend: "sqlite",
			Redis:   Redis{Addr: "localhost:6379", Prefix: "odyssey:"},
		},
		Log: Log{Level: "info", Format: "json"},
		Game: Game{
			QuestionCount: 7,
			DefaultPrior:  0.5,
			FeedbackDelay: 2 * time.Second,
		},
		Speech: Speech{
			Mode:          "terminal",
			ListenTimeout: 7 * time.Second,
			CaptionPace:   0,
			GCP:           GCPSpeech{SampleRate: 16000},
		},
		Content: Content{
			Generator:       "auto",
			QuestionLatency: 600 * time.Millisecond,
			LessonLatency:   800 * time.Millisecond,
		},
		LLM: LLM{Timeout: 30 * time.Second},
	}
}

// DefaultPath resolves $XDG_CONFIG_HOME/odyssey/config.yaml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "odyssey", "config.yaml"), nil
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides and validates the result. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ODYSSEY_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("ODYSSEY_DB"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("ODYSSEY_REDIS_ADDR"); v != "" {
		c.Store.Redis.Addr = v
	}
	if v := os.Getenv("ODYSSEY_REDIS_PASSWORD"); v != "" {
		c.Store.Redis.Password = v
	}
	if v := os.Getenv("ODYSSEY_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ODYSSEY_REDIS_DB: %w", err)
		}
		c.Store.Redis.DB = n
	}
	if v := os.Getenv("ODYSSEY_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("ODYSSEY_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("ODYSSEY_SPEECH"); v != "" {
		c.Speech.Mode = v
	}
	if v := os.Getenv("ODYSSEY_CONTENT_GENERATOR"); v != "" {
		c.Content.Generator = v
	}
	if v := os.Getenv("ODYSSEY_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	return nil
}

// Validate rejects settings the application cannot run with.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case "sqlite", "redis", "memory":
	default:
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	if c.Game.QuestionCount < 1 {
		return fmt.Errorf("game.questionCount must be at least 1, got %d", c.Game.QuestionCount)
	}
	if c.Game.DefaultPrior < 0 || c.Game.DefaultPrior > 1 {
		return fmt.Errorf("game.defaultPrior must be in [0,1], got %v", c.Game.DefaultPrior)
	}
	switch c.Speech.Mode {
	case "terminal", "gcp", "off":
	default:
		return fmt.Errorf("speech.mode: unknown mode %q", c.Speech.Mode)
	}
	if c.Speech.Mode == "gcp" && c.Speech.GCP.AudioFile == "" {
		return errors.New("speech.gcp.audioFile is required for gcp speech")
	}
	switch c.Content.Generator {
	case "template", "llm", "auto":
	default:
		return fmt.Errorf("content.generator: unknown generator %q", c.Content.Generator)
	}
	return nil
}
