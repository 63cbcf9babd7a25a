package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/mrwolf/budget-ai/internal/api"
	"github.com/mrwolf/budget-ai/internal/config"
	"github.com/mrwolf/budget-ai/internal/llm"
	"github.com/mrwolf/budget-ai/internal/scheduler"
)

func main() {
	configPath := kingpin.Flag("config", "Path to YAML config file").Envar("BUDGET_RELAY_CONFIG").Default("relay.yaml").String()
	kingpin.Parse()

	_ = godotenv.Load()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.Info("Starting budget-relay...")

	cfg, err := config.LoadRelay(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}
	level, _ := log.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)

	summarizer, err := newSummarizer(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to create LLM client")
	}

	log.WithField("provider", cfg.Provider).Info("Validating upstream connection...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := summarizer.HealthCheck(ctx); err != nil {
		log.WithError(err).Warn("Upstream health check failed, analysis may not work")
	} else {
		log.WithField("model", summarizer.Model()).Info("Upstream connected")
	}
	cancel()

	sched, err := scheduler.New(summarizer, cfg.HealthInterval)
	if err != nil {
		log.WithError(err).Fatal("Failed to create scheduler")
	}
	if err := sched.Start(); err != nil {
		log.WithError(err).Fatal("Failed to start scheduler")
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(cfg, summarizer, sched),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.WithFields(log.Fields{"addr": cfg.Addr(), "env": cfg.Env}).Info("Listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down gracefully...")

		// Give ongoing requests 10 seconds to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Server error")
	}

	log.Info("Stopping scheduler...")
	if err := sched.Stop(); err != nil {
		log.WithError(err).Error("Scheduler shutdown error")
	}

	log.Info("Shutdown complete")
}

func newSummarizer(cfg config.Relay) (llm.Summarizer, error) {
	switch cfg.Provider {
	case llm.ProviderOpenAI:
		return llm.NewOpenAIClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.UpstreamTimeout), nil
	case llm.ProviderOllama:
		return llm.NewOllamaClient(cfg.Ollama.URL, cfg.Ollama.Model, cfg.UpstreamTimeout), nil
	default:
		return nil, llm.ErrUnknownProvider
	}
}
