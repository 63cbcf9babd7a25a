package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/mrwolf/budget-ai/internal/config"
	"github.com/mrwolf/budget-ai/internal/llm"
	"github.com/mrwolf/budget-ai/internal/models"
	"github.com/mrwolf/budget-ai/internal/scheduler"
	log "github.com/sirupsen/logrus"
)

const (
	Version = "1.0.0"

	rootMessage        = "Budget Tracker AI backend is running."
	promptRequiredMsg  = "Prompt is required and must be a string."
	analysisFailedMsg  = "AI analysis failed on the server."
	invalidBodyMessage = "Request body must be a JSON object."
)

// HealthSource reports the latest upstream probe
type HealthSource interface {
	Status() scheduler.Status
}

type Handlers struct {
	cfg        config.Relay
	summarizer llm.Summarizer
	health     HealthSource
}

func NewHandlers(cfg config.Relay, summarizer llm.Summarizer, health HealthSource) *Handlers {
	return &Handlers{
		cfg:        cfg,
		summarizer: summarizer,
		health:     health,
	}
}

func errorBody(message, details string) models.ErrorResponse {
	return models.ErrorResponse{Error: message, Details: details}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("encoding response")
	}
}

// Root handles GET /
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, rootMessage)
}

// Health handles GET /health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:   "ok",
		Upstream: models.UpstreamUnknown,
		Model:    h.summarizer.Model(),
		Version:  Version,
	}
	if h.health != nil {
		st := h.health.Status()
		resp.Upstream = st.Upstream
		resp.Error = st.Err
		if !st.CheckedAt.IsZero() {
			at := st.CheckedAt.UTC()
			resp.CheckedAt = &at
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// Analyze handles POST /analyze
func (h *Handlers) Analyze(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("Request body is too large.", ""))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorBody(invalidBodyMessage, ""))
		return
	}

	prompt, ok := body["prompt"].(string)
	if !ok || strings.TrimSpace(prompt) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody(promptRequiredMsg, ""))
		return
	}

	logger := log.WithFields(log.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"model":      h.summarizer.Model(),
	})

	text, err := h.summarizer.Summarize(r.Context(), prompt)
	if err != nil {
		logger.WithError(err).Error("upstream analysis failed")
		details := ""
		if h.cfg.IsDevelopment() {
			details = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, errorBody(analysisFailedMsg, details))
		return
	}

	text = strings.TrimSpace(text)
	if text == "" {
		logger.Warn("upstream returned no text")
	}
	writeJSON(w, http.StatusOK, models.AnalyzeResponse{Analysis: text})
}
