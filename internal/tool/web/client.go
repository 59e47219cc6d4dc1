// Package web implements the hosted web_search and web_fetch tools.
// Both call the Ollama web API; failures are reported to the model as
// network errors and never retried, so a flaky connection costs one
// tool round instead of stalling the loop.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Cyclone1070/termcoder/internal/tool"
)

// APIKeyEnvVar names the environment variable holding the API key.
const APIKeyEnvVar = "OLLAMA_API_KEY"

// Client is a minimal JSON client for the hosted web API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient reads the API key from the environment. A missing key is not
// an error at construction time; calls fail with a network error kind so
// the model sees why the tool is unavailable.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     os.Getenv(APIKeyEnvVar),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	if c.apiKey == "" {
		return tool.NewError(tool.KindNetworkError, "%s is not set; web tools are unavailable", APIKeyEnvVar)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return tool.WrapError(tool.KindNetworkError, err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return tool.WrapError(tool.KindNetworkError, err, "call %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return tool.NewError(tool.KindNetworkError, "%s returned %d: %s", path, resp.StatusCode, detail)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return tool.WrapError(tool.KindNetworkError, err, "decode %s response", path)
	}
	return nil
}
