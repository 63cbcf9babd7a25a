package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultOpenAIBaseURL = "https://api.openai.com/v1"

var ErrMissingAPIKey = errors.New("openai api key is not set")

// OpenAIClient calls the OpenAI Responses API
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewOpenAIClient(baseURL, apiKey, model string, timeout time.Duration) *OpenAIClient {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	return &OpenAIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ResponsesRequest is the request body for /responses
type ResponsesRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

// ResponsesResponse holds the parts of a /responses reply we read. OutputText
// is a convenience field some deployments fill in; otherwise the text lives in
// the output items.
type ResponsesResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	OutputText string `json:"output_text"`
	Output     []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// Text returns the first non-empty text in the reply.
func (r *ResponsesResponse) Text() string {
	if r.OutputText != "" {
		return r.OutputText
	}
	for _, item := range r.Output {
		for _, c := range item.Content {
			if c.Text != "" {
				return c.Text
			}
		}
	}
	return ""
}

func (c *OpenAIClient) Model() string {
	return c.model
}

func (c *OpenAIClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Summarize sends the prompt as the response input and returns the text.
func (c *OpenAIClient) Summarize(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ResponsesRequest{Model: c.model, Input: prompt})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/responses", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &StatusError{Provider: ProviderOpenAI, Status: resp.StatusCode, Body: string(bodyBytes)}
	}

	var out ResponsesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return out.Text(), nil
}

// HealthCheck lists the configured model.
func (c *OpenAIClient) HealthCheck(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/models/"+c.model, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connecting to openai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Provider: ProviderOpenAI, Status: resp.StatusCode}
	}
	return nil
}
