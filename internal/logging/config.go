package logging

import (
	"fmt"
	"regexp"
	"time"

	"github.com/fyrsmithlabs/codesim/internal/config"
	"go.uber.org/zap/zapcore"
)

// TraceLevel is a custom level below Debug for ultra-verbose logging
// (individual vectors, cache keys). Almost always filtered.
const TraceLevel = zapcore.Level(-2)

// LevelFromString parses a string into a zapcore.Level, supporting "trace".
func LevelFromString(level string) (zapcore.Level, error) {
	if level == "trace" {
		return TraceLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel, err
	}
	return l, nil
}

// Config holds logging configuration.
type Config struct {
	Level     zapcore.Level
	Format    string
	Output    OutputConfig
	Sampling  SamplingConfig
	Caller    bool
	Fields    map[string]string
	Redaction RedactionConfig
}

// OutputConfig controls where logs are written.
type OutputConfig struct {
	// Stream is "stderr" or "stdout". Empty disables the stream output.
	Stream string
	OTEL   bool
}

// SamplingConfig controls log volume reduction below Error level.
type SamplingConfig struct {
	Enabled    bool
	Tick       config.Duration
	Initial    int
	Thereafter int
}

// RedactionConfig controls sensitive data redaction.
type RedactionConfig struct {
	Enabled  bool
	Fields   []string
	Patterns []string
}

// NewDefaultConfig returns config suitable for the CLI.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  zapcore.InfoLevel,
		Format: "console",
		Output: OutputConfig{
			Stream: "stderr",
		},
		Sampling: SamplingConfig{
			Enabled:    false,
			Tick:       config.Duration(time.Second),
			Initial:    100,
			Thereafter: 10,
		},
		Fields: map[string]string{
			"service": "codesim",
		},
		Redaction: RedactionConfig{
			Enabled: true,
			Fields: []string{
				"code", "snippet", "source", "text",
				"api_key", "token", "authorization", "secret",
			},
			Patterns: []string{
				`(?i)bearer\s+\S+`,
				`\bhf_[A-Za-z0-9]{20,}\b`,
				`\bsk-[A-Za-z0-9_-]{20,}\b`,
			},
		},
	}
}

// Validate checks config for errors.
func (c *Config) Validate() error {
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("format must be 'json' or 'console', got %q", c.Format)
	}
	if c.Output.Stream != "" && c.Output.Stream != "stderr" && c.Output.Stream != "stdout" {
		return fmt.Errorf("output stream must be 'stderr' or 'stdout', got %q", c.Output.Stream)
	}
	if c.Output.Stream == "" && !c.Output.OTEL {
		return fmt.Errorf("at least one output must be enabled (stream or otel)")
	}
	if c.Sampling.Enabled && c.Sampling.Tick.Duration() <= 0 {
		return fmt.Errorf("sampling tick must be > 0 when sampling enabled")
	}

	if c.Redaction.Enabled {
		for _, pattern := range c.Redaction.Patterns {
			if len(pattern) > 200 {
				return fmt.Errorf("redaction pattern too long (max 200 chars): %q", pattern)
			}
			if _, err := regexp.Compile(pattern); err != nil {
				return fmt.Errorf("invalid redaction pattern %q: %w", pattern, err)
			}
		}
	}

	for k, v := range c.Fields {
		if k == "" {
			return fmt.Errorf("field key cannot be empty")
		}
		if v == "" {
			return fmt.Errorf("field %q has empty value", k)
		}
	}

	return nil
}

// FromConfig maps the file/env logging section onto a Config. Extra redact
// fields are added to the defaults, never replacing them.
func FromConfig(lc config.LoggingConfig) (*Config, error) {
	cfg := NewDefaultConfig()
	if lc.Level != "" {
		level, err := LevelFromString(lc.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", lc.Level, err)
		}
		cfg.Level = level
	}
	if lc.Format != "" {
		cfg.Format = lc.Format
	}
	cfg.Redaction.Fields = append(cfg.Redaction.Fields, lc.Redact...)
	return cfg, nil
}
