// Package relay talks to the summary relay server.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mrwolf/budget-ai/internal/models"
)

// Client sends prompts to a relay server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default client, which times out after 120s.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// NewClient creates a client for the relay at baseURL, e.g. "http://localhost:1000".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestSummary posts prompt to /analyze once and returns the analysis text.
// Every failure is an *Error.
func (c *Client) RequestSummary(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(models.AnalyzeRequest{Prompt: prompt})
	if err != nil {
		return "", &Error{Kind: KindTransport, Err: fmt.Errorf("marshaling request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindTransport, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Kind: KindTransport, Err: fmt.Errorf("sending request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused; the body is never parsed.
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &Error{Kind: KindUpstream, Status: resp.StatusCode}
	}

	var out models.AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &Error{Kind: KindTransport, Err: fmt.Errorf("decoding response: %w", err)}
	}

	if strings.TrimSpace(out.Analysis) == "" {
		return "", &Error{Kind: KindEmpty}
	}
	return out.Analysis, nil
}
