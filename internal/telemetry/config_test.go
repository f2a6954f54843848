package telemetry

import (
	"testing"
	"time"

	"github.com/fyrsmithlabs/codesim/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.Equal(t, "grpc", cfg.Protocol)
	assert.Equal(t, "codesim", cfg.ServiceName)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.Sampling.Rate)
	assert.Equal(t, 15*time.Second, cfg.Metrics.ExportInterval.Duration())
	assert.Equal(t, 5*time.Second, cfg.Shutdown.Timeout.Duration())
}

func TestFromConfig(t *testing.T) {
	cfg := FromConfig(config.TelemetryConfig{
		Enabled:     true,
		Endpoint:    "collector.internal:4318",
		Protocol:    "http/protobuf",
		Insecure:    false,
		ServiceName: "codesim-ci",
		SampleRate:  0.25,
	}, "1.2.3")

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "collector.internal:4318", cfg.Endpoint)
	assert.Equal(t, "http/protobuf", cfg.Protocol)
	assert.Equal(t, "codesim-ci", cfg.ServiceName)
	assert.Equal(t, "1.2.3", cfg.ServiceVersion)
	assert.False(t, cfg.Insecure)
	assert.Equal(t, 0.25, cfg.Sampling.Rate)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	enabled := func(mod func(*Config)) *Config {
		cfg := NewDefaultConfig()
		cfg.Enabled = true
		mod(cfg)
		return cfg
	}

	tests := []struct {
		name   string
		config *Config
		errMsg string
	}{
		{"valid default", NewDefaultConfig(), ""},
		{"disabled skips validation", &Config{}, ""},
		{"enabled local", enabled(func(*Config) {}), ""},
		{"missing endpoint", enabled(func(c *Config) { c.Endpoint = "" }), "endpoint is required"},
		{"missing service name", enabled(func(c *Config) { c.ServiceName = "" }), "service_name is required"},
		{"missing version", enabled(func(c *Config) { c.ServiceVersion = "" }), "service_version is required"},
		{"bad protocol", enabled(func(c *Config) { c.Protocol = "udp" }), "protocol"},
		{"insecure remote", enabled(func(c *Config) { c.Endpoint = "otel.example.com:4317" }), "insecure connections"},
		{"secure remote", enabled(func(c *Config) { c.Endpoint = "otel.example.com:4317"; c.Insecure = false }), ""},
		{"ipv6 loopback", enabled(func(c *Config) { c.Endpoint = "[::1]:4317" }), ""},
		{"loopback with scheme", enabled(func(c *Config) { c.Endpoint = "http://127.0.0.1:4318" }), ""},
		{"rate too high", enabled(func(c *Config) { c.Sampling.Rate = 1.5 }), "sampling.rate"},
		{"rate negative", enabled(func(c *Config) { c.Sampling.Rate = -0.1 }), "sampling.rate"},
		{"zero export interval", enabled(func(c *Config) { c.Metrics.ExportInterval = 0 }), "export_interval"},
		{"zero shutdown", enabled(func(c *Config) { c.Shutdown.Timeout = 0 }), "shutdown.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestStripScheme(t *testing.T) {
	assert.Equal(t, "host:4318", stripScheme("https://host:4318"))
	assert.Equal(t, "host:4318", stripScheme("http://host:4318"))
	assert.Equal(t, "host:4318", stripScheme("host:4318"))
}
