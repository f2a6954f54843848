package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newBufferLogger(t *testing.T, cfg *Config) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	core, err := newCore(cfg, nil, zapcore.AddSync(&buf))
	require.NoError(t, err)
	return build(core, cfg), &buf
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(NewDefaultConfig(), nil)
	require.NoError(t, err)
	assert.True(t, logger.Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Enabled(zapcore.DebugLevel))
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	_, err := NewLogger(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format")
}

func TestNewLogger_NoOutput(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output.Stream = ""

	_, err := NewLogger(cfg, nil)
	require.Error(t, err)
}

func TestLogger_JSONOutput(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "json"
	logger, buf := newBufferLogger(t, cfg)

	logger.Info(context.Background(), "pair scored", zap.Int("percent", 87))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "pair scored", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, float64(87), entry["percent"])
	assert.Equal(t, "codesim", entry["service"])
}

func TestLogger_TraceLevel(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "json"
	cfg.Level = TraceLevel
	logger, buf := newBufferLogger(t, cfg)

	logger.Trace(context.Background(), "vector")
	assert.Contains(t, buf.String(), "vector")

	cfg2 := NewDefaultConfig()
	cfg2.Format = "json"
	quiet, buf2 := newBufferLogger(t, cfg2)
	quiet.Trace(context.Background(), "vector")
	assert.Empty(t, buf2.String())
}

func TestLogger_ContextFields(t *testing.T) {
	tl := NewTestLogger()

	traceID, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	spanID, _ := trace.SpanIDFromHex("0102030405060708")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithAuthorID(ctx, "alice")

	tl.Info(ctx, "matrix built")

	tl.AssertField(t, "matrix built", "trace_id", traceID.String())
	tl.AssertField(t, "matrix built", "span_id", spanID.String())
	tl.AssertField(t, "matrix built", "request.id", "req-1")
	tl.AssertField(t, "matrix built", "author.id", "alice")
}

func TestLogger_WithAndNamed(t *testing.T) {
	tl := NewTestLogger()

	child := tl.Named("cache").With(zap.String("component", "lru"))
	child.Debug(context.Background(), "evicted")

	entries := tl.FilterMessage("evicted").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "cache", entries[0].LoggerName)
	tl.AssertField(t, "evicted", "component", "lru")
}

func TestLogger_Sampling(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "json"
	cfg.Sampling.Enabled = true
	cfg.Sampling.Initial = 2
	cfg.Sampling.Thereafter = 1000
	logger, buf := newBufferLogger(t, cfg)

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		logger.Info(ctx, "repeated")
	}
	for i := 0; i < 5; i++ {
		logger.Error(ctx, "failure")
	}

	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte(`"repeated"`)))
	assert.Equal(t, 5, bytes.Count(buf.Bytes(), []byte(`"failure"`)))
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error(context.Background(), "dropped")
	assert.NoError(t, logger.Sync())
}

func TestIsStdoutSyncError(t *testing.T) {
	assert.True(t, isStdoutSyncError(syscall.EINVAL))
	assert.True(t, isStdoutSyncError(syscall.ENOTTY))
	assert.False(t, isStdoutSyncError(syscall.EIO))
	assert.False(t, isStdoutSyncError(assert.AnError))
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"trace", TraceLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"info", zapcore.InfoLevel, false},
		{"warn", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := LevelFromString(tt.in)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
