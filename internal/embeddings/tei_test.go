package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTEIProvider(t *testing.T) {
	tests := []struct {
		name       string
		cfg        TEIConfig
		wantErr    bool
		errMessage string
	}{
		{
			name: "valid configuration",
			cfg:  TEIConfig{BaseURL: "http://localhost:8080", Model: "BAAI/bge-small-en-v1.5"},
		},
		{
			name:       "empty base URL",
			cfg:        TEIConfig{Model: "test"},
			wantErr:    true,
			errMessage: "base URL required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewTEIProvider(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMessage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Model, p.Model())
			assert.NoError(t, p.Close())
		})
	}
}

func TestTEIProvider_Fetch(t *testing.T) {
	var gotPath string
	var gotReq teiRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/embed":
			_, _ = w.Write([]byte(`[[0.1, 0.2, 0.3]]`))
		case "/embed_all":
			_, _ = w.Write([]byte(`[[[1, 0], [0, 1], [1, 1]]]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	t.Run("pooled", func(t *testing.T) {
		p, err := NewTEIProvider(TEIConfig{BaseURL: server.URL + "/", Model: "m"})
		require.NoError(t, err)

		out, err := p.Fetch(context.Background(), "int a 1")
		require.NoError(t, err)

		assert.Equal(t, "/embed", gotPath)
		assert.Equal(t, "int a 1", gotReq.Inputs)
		assert.True(t, gotReq.Truncate)
		assert.Empty(t, gotAuth)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, out.Vector)
		assert.Empty(t, out.Tokens)
	})

	t.Run("token level", func(t *testing.T) {
		p, err := NewTEIProvider(TEIConfig{BaseURL: server.URL, Model: "m", APIKey: "k", TokenLevel: true})
		require.NoError(t, err)

		out, err := p.Fetch(context.Background(), "int a 1")
		require.NoError(t, err)

		assert.Equal(t, "/embed_all", gotPath)
		assert.Equal(t, "Bearer k", gotAuth)
		assert.Len(t, out.Tokens, 3)
		assert.Empty(t, out.Vector)
	})
}

func TestTEIProvider_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "model loading", status: http.StatusServiceUnavailable, body: `{"error":"loading"}`, wantErr: ErrModelLoading},
		{name: "server error", status: http.StatusInternalServerError, body: `boom`, wantErr: ErrBadStatus},
		{name: "bad json", status: http.StatusOK, body: `not json`},
		{name: "no embeddings", status: http.StatusOK, body: `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			p, err := NewTEIProvider(TEIConfig{BaseURL: server.URL})
			require.NoError(t, err)

			_, err = p.Fetch(context.Background(), "x")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestTEIProvider_Fetch_EmptyInput(t *testing.T) {
	p, err := NewTEIProvider(TEIConfig{BaseURL: "http://localhost:1"})
	require.NoError(t, err)

	_, err = p.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)
}
