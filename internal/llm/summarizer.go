// Package llm holds the upstream completion clients used by the relay.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Summarizer turns a prompt into text. Implementations make a single attempt
// per call.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
	HealthCheck(ctx context.Context) error
	Model() string
}

// StatusError is returned when the upstream answers with a non-200 status.
type StatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Status, e.Body)
}

var ErrUnknownProvider = errors.New("unknown llm provider")

// Providers
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)
