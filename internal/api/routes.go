package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mrwolf/budget-ai/internal/config"
	"github.com/mrwolf/budget-ai/internal/llm"
)

const maxBodyBytes = 1 << 20

func NewRouter(cfg config.Relay, summarizer llm.Summarizer, health HealthSource) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	handlers := NewHandlers(cfg, summarizer, health)
	limiter := NewRateLimiter(cfg.RateLimit, time.Minute)

	r.Get("/", handlers.Root)
	r.Get("/health", handlers.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequestSize(maxBodyBytes))
		r.Use(RateLimitMiddleware(limiter))
		r.Use(JSONContentType)

		r.Post("/analyze", handlers.Analyze)
	})

	return r
}
