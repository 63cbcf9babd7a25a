package models

import "time"

// AnalyzeRequest is the body of POST /analyze
type AnalyzeRequest struct {
	Prompt string `json:"prompt"`
}

// AnalyzeResponse is returned by POST /analyze on success
type AnalyzeResponse struct {
	Analysis string `json:"analysis"`
}

// ErrorResponse is the error body of the relay. Details is only filled in
// development mode.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Upstream states reported by /health
const (
	UpstreamUnknown     = "unknown"
	UpstreamConnected   = "connected"
	UpstreamUnreachable = "unreachable"
)

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status    string     `json:"status"`
	Upstream  string     `json:"upstream"`
	Model     string     `json:"model"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
	Error     string     `json:"error,omitempty"`
	Version   string     `json:"version"`
}
