package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fyrsmithlabs/codesim/internal/config"
	"github.com/fyrsmithlabs/codesim/internal/embeddings"
	"github.com/fyrsmithlabs/codesim/internal/engine"
	"github.com/fyrsmithlabs/codesim/internal/logging"
	"github.com/fyrsmithlabs/codesim/internal/secrets"
	"github.com/fyrsmithlabs/codesim/internal/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// app holds everything one command invocation needs.
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	tel      *telemetry.Telemetry
	provider embeddings.Provider
	engine   *engine.Engine
}

// bootstrap loads configuration and builds logger, telemetry, provider and
// engine. The returned context carries a fresh request id and the logger.
func bootstrap(ctx context.Context) (context.Context, *app, error) {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return ctx, nil, err
	}
	if providerName != "" {
		cfg.Embeddings.Provider = providerName
	}
	if profileName != "" {
		cfg.Engine.Profile = profileName
	}
	if err := cfg.Validate(); err != nil {
		return ctx, nil, err
	}

	tel, err := telemetry.New(ctx, telemetry.FromConfig(cfg.Telemetry, version))
	if err != nil {
		return ctx, nil, err
	}

	logCfg, err := logging.FromConfig(cfg.Logging)
	if err != nil {
		return ctx, nil, err
	}
	logCfg.Output.OTEL = tel.IsEnabled()
	logger, err := logging.NewLogger(logCfg, tel.LoggerProvider())
	if err != nil {
		return ctx, nil, fmt.Errorf("creating logger: %w", err)
	}

	ctx = logging.WithRequestID(ctx, uuid.NewString())
	ctx = logging.WithLogger(ctx, logger)

	a := &app{cfg: cfg, logger: logger, tel: tel}

	provider, err := embeddings.NewProvider(ctx, providerConfig(cfg))
	if err != nil {
		// The engine still works on the fallback path.
		logger.Warn(ctx, "embedding provider unavailable, using fallback scoring",
			zap.String("provider", cfg.Embeddings.Provider),
			zap.Error(err),
		)
		provider = embeddings.NoneProvider{}
	}
	a.provider = provider

	adapter := embeddings.NewAdapter(provider, embeddings.AdapterConfig{
		Timeout:   cfg.Embeddings.Timeout.Duration(),
		RateLimit: cfg.Embeddings.RateLimit,
		RateBurst: cfg.Embeddings.RateBurst,
	},
		embeddings.WithLogger(logger),
		embeddings.WithMetrics(embeddings.NewMetrics(logger.Underlying())),
	)

	engCfg, err := engine.ConfigFrom(cfg.Engine)
	if err != nil {
		a.close(ctx)
		return ctx, nil, err
	}

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithTracer(tel.Tracer("github.com/fyrsmithlabs/codesim/internal/engine")),
	}
	if cfg.Privacy.ScrubSecrets {
		opts = append(opts, engine.WithScrubber(newScrubber(ctx, logger)))
	}

	eng, err := engine.New(engCfg, adapter, opts...)
	if err != nil {
		a.close(ctx)
		return ctx, nil, err
	}
	a.engine = eng

	logger.Debug(ctx, "bootstrap complete",
		zap.String("provider", cfg.Embeddings.Provider),
		zap.String("model", adapter.Model()),
		zap.String("profile", cfg.Engine.Profile),
	)
	return ctx, a, nil
}

func providerConfig(cfg *config.Config) embeddings.ProviderConfig {
	pc := embeddings.ProviderConfigFrom(cfg.Embeddings)
	pc.MaxLength = cfg.Engine.MaxLength
	return pc
}

// newScrubber builds the gitleaks-backed scrubber. Setup failure disables
// scrubbing rather than failing the command.
func newScrubber(ctx context.Context, logger *logging.Logger) secrets.Scrubber {
	s, err := secrets.New(secrets.DefaultConfig())
	if err != nil {
		logger.Warn(ctx, "secret scrubbing disabled", zap.Error(err))
		return secrets.NoopScrubber{}
	}
	return s
}

// close prints stats when requested, then releases the provider, flushes
// telemetry and syncs the logger.
func (a *app) close(ctx context.Context) {
	if showStats && a.engine != nil {
		if err := renderStats(os.Stderr, a.engine.Stats()); err != nil {
			a.logger.Warn(ctx, "printing stats failed", zap.Error(err))
		}
	}

	if a.provider != nil {
		if err := a.provider.Close(); err != nil {
			a.logger.Warn(ctx, "closing provider failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := a.tel.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Warn(ctx, "telemetry shutdown failed", zap.Error(err))
	}

	_ = a.logger.Sync()
}
