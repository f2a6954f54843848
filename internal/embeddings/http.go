package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const maxResponseBytes = 16 << 20 // 16MB

var (
	// ErrModelLoading indicates the backend answered 503 while a model loads.
	ErrModelLoading = errors.New("model is loading")

	// ErrBadStatus indicates a non-200 response.
	ErrBadStatus = errors.New("unexpected status")
)

// postJSON sends body as JSON and returns the response body of a 200 reply.
func postJSON(ctx context.Context, client *http.Client, url string, headers map[string]string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return respBody, nil
	case http.StatusServiceUnavailable:
		return nil, fmt.Errorf("%w: %s", ErrModelLoading, truncateBody(respBody))
	default:
		return nil, fmt.Errorf("%w %d: %s", ErrBadStatus, resp.StatusCode, truncateBody(respBody))
	}
}

// truncateBody bounds error bodies so they stay readable in logs.
func truncateBody(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
