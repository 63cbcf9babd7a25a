package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewOllamaClient(t *testing.T) {
	client := NewOllamaClient("http://localhost:11434/", "llama3.2", time.Minute)

	if client == nil {
		t.Fatal("NewOllamaClient() returned nil")
	}

	if client.baseURL != "http://localhost:11434" {
		t.Errorf("baseURL = %q, want %q", client.baseURL, "http://localhost:11434")
	}

	if client.Model() != "llama3.2" {
		t.Errorf("Model() = %q, want %q", client.Model(), "llama3.2")
	}

	if client.httpClient.Timeout != time.Minute {
		t.Errorf("timeout = %v, want %v", client.httpClient.Timeout, time.Minute)
	}
}

func TestOllamaSummarize(t *testing.T) {
	var got GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q, want /api/generate", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(GenerateResponse{Model: got.Model, Response: "A) fine", Done: true})
	}))
	defer srv.Close()

	client := NewOllamaClient(srv.URL, "llama3.2", time.Second)
	text, err := client.Summarize(context.Background(), "budget prompt")
	if err != nil {
		t.Fatalf("Summarize() error: %v", err)
	}

	if text != "A) fine" {
		t.Errorf("text = %q, want %q", text, "A) fine")
	}
	if got.Prompt != "budget prompt" || got.Model != "llama3.2" {
		t.Errorf("request = %+v", got)
	}
	if got.Stream {
		t.Error("Stream should be false")
	}
}

func TestOllamaSummarizeStatusError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaClient(srv.URL, "missing", time.Second).Summarize(context.Background(), "p")

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", se.Status)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestOllamaHealthCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"models":[]}`))
	}))
	defer srv.Close()

	if err := NewOllamaClient(srv.URL, "m", time.Second).HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error: %v", err)
	}
}
