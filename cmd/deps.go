package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odysseyquest/odyssey/internal/config"
	"github.com/odysseyquest/odyssey/internal/content"
	"github.com/odysseyquest/odyssey/internal/game"
	"github.com/odysseyquest/odyssey/internal/insights"
	"github.com/odysseyquest/odyssey/internal/learner"
	"github.com/odysseyquest/odyssey/internal/llm"
	"github.com/odysseyquest/odyssey/internal/logging"
	"github.com/odysseyquest/odyssey/internal/rewards"
	"github.com/odysseyquest/odyssey/internal/screen"
	"github.com/odysseyquest/odyssey/internal/speech"
	"github.com/odysseyquest/odyssey/internal/store"
	"github.com/odysseyquest/odyssey/internal/tutor"
)

// env is everything a command may need, opened from flags and config.
type env struct {
	cfg     config.Config
	log     *zap.Logger
	kv      store.KV
	learner *learner.Service
	closers []func() error
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.log.Warn("close", zap.Error(err))
		}
	}
	_ = e.log.Sync()
}

// loadConfig reads the config file and applies the global flags over it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if b, _ := cmd.Flags().GetString("store"); b != "" {
		cfg.Store.Backend = b
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Store.Path = p
	}
	return cfg, cfg.Validate()
}

// openStore opens the configured KV backend.
func openStore(ctx context.Context, cfg config.Store) (store.KV, error) {
	switch cfg.Backend {
	case "memory":
		return store.NewMemory(), nil
	case "redis":
		r, err := store.OpenRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Prefix)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		path := cfg.Path
		if path == "" {
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve DB path: %w", err)
			}
			path = p
		} else if err := store.EnsureDir(path); err != nil {
			return nil, err
		}
		s, err := store.Open(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// openEnv loads config, logging and the store. Callers must Close it.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logging.Nop()
	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		if log, err = logging.New(cfg.Log); err != nil {
			return nil, fmt.Errorf("init logging: %w", err)
		}
	}
	kv, err := openStore(cmd.Context(), cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", zap.String("backend", cfg.Store.Backend))
	return &env{
		cfg:     cfg,
		log:     log,
		kv:      kv,
		learner: learner.New(kv, learner.WithLogger(log)),
		closers: []func() error{kv.Close},
	}, nil
}

// provider returns the configured LLM provider, or nil when none is set
// up. Requests are recorded in the learner's LLM log.
func (e *env) provider(ctx context.Context) llm.Provider {
	lc, ok := llm.Resolve(e.cfg.LLM.Provider, e.cfg.LLM.Model)
	if !ok {
		e.log.Info("no LLM provider configured")
		return nil
	}
	if e.cfg.LLM.Timeout > 0 {
		lc.Timeout = e.cfg.LLM.Timeout
	}
	if err := lc.Validate(); err != nil {
		e.log.Warn("LLM provider unusable", zap.Error(err))
		return nil
	}
	p, err := llm.NewProvider(ctx, lc, e.learner, e.log)
	if err != nil {
		e.log.Warn("LLM provider unavailable", zap.Error(err))
		return nil
	}
	e.log.Info("LLM provider ready", zap.String("provider", lc.Provider), zap.String("model", p.ModelID()))
	return p
}

// generator builds the content generator for the configured mode.
func (e *env) generator(p llm.Provider, simulate bool) (content.Generator, error) {
	tc := content.TemplateConfig{}
	if simulate {
		tc.QuestionLatency = e.cfg.Content.QuestionLatency
		tc.LessonLatency = e.cfg.Content.LessonLatency
	}
	return content.Select(e.cfg.Content.Generator, p, tc, e.log)
}

// services wires everything the TUI screens use. Captions are shown in the
// footer, and typed voice answers reach the terminal recognizer through a
// pipe.
func (e *env) services(ctx context.Context) (*screen.Services, error) {
	p := e.provider(ctx)
	gen, err := e.generator(p, true)
	if err != nil {
		return nil, err
	}
	assistant, err := tutor.Select(e.cfg.Content.Generator, p, &tutor.TemplateAssistant{}, e.log)
	if err != nil {
		return nil, err
	}

	var in io.Reader
	svc := &screen.Services{
		Config:   e.cfg,
		Learner:  e.learner,
		Content:  gen,
		Catalog:  game.DefaultCatalog(),
		Rewards:  rewards.NewService(e.learner, e.log),
		Insights: insights.NewService(e.learner, e.log, nil),
		Tutor:    assistant,
		Logger:   e.log,
	}
	if e.cfg.Speech.Mode == "terminal" {
		pr, pw := io.Pipe()
		in, svc.VoiceInput = pr, pw
		e.closers = append(e.closers, pw.Close)
	}
	voice, err := speech.New(ctx, e.cfg.Speech, nil, in, e.log)
	if err != nil {
		return nil, fmt.Errorf("init speech: %w", err)
	}
	svc.Voice = voice
	return svc, nil
}
