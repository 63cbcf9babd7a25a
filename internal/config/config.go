package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/mrwolf/budget-ai/internal/llm"
	log "github.com/sirupsen/logrus"
)

const (
	RelayEnvPrefix   = "BUDGET_RELAY_"
	TrackerEnvPrefix = "BUDGET_"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Keys never contain "_": the env provider maps it to the "." delimiter.

type Relay struct {
	Port            string        `koanf:"port"`
	Env             string        `koanf:"env"`
	Provider        string        `koanf:"provider"`
	OpenAI          OpenAI        `koanf:"openai"`
	Ollama          Ollama        `koanf:"ollama"`
	UpstreamTimeout time.Duration `koanf:"upstreamtimeout"`
	HealthInterval  time.Duration `koanf:"healthinterval"`
	RateLimit       int           `koanf:"ratelimit"` // requests per minute per client
	AllowedOrigins  []string      `koanf:"allowedorigins"`
	LogLevel        string        `koanf:"loglevel"`
}

type OpenAI struct {
	APIKey  string `koanf:"apikey"`
	BaseURL string `koanf:"baseurl"`
	Model   string `koanf:"model"`
}

type Ollama struct {
	URL   string `koanf:"url"`
	Model string `koanf:"model"`
}

type Tracker struct {
	DB           string        `koanf:"db"`
	RelayURL     string        `koanf:"relayurl"`
	Language     string        `koanf:"language"`
	Locale       string        `koanf:"locale"`
	RelayTimeout time.Duration `koanf:"relaytimeout"`
	LogLevel     string        `koanf:"loglevel"`
}

func DefaultRelay() Relay {
	return Relay{
		Port:     "1000",
		Env:      EnvProduction,
		Provider: llm.ProviderOpenAI,
		OpenAI: OpenAI{
			BaseURL: llm.DefaultOpenAIBaseURL,
			Model:   "gpt-5.1-mini",
		},
		Ollama: Ollama{
			URL:   "http://localhost:11434",
			Model: "llama3.2",
		},
		UpstreamTimeout: 60 * time.Second,
		HealthInterval:  5 * time.Minute,
		RateLimit:       30,
		AllowedOrigins:  []string{"*"},
		LogLevel:        "info",
	}
}

func DefaultTracker() Tracker {
	return Tracker{
		DB:           "./data/budget.db",
		RelayURL:     "http://localhost:1000",
		Language:     "en",
		Locale:       "en",
		RelayTimeout: 120 * time.Second,
		LogLevel:     "info",
	}
}

// Unprefixed variables the relay has always understood.
var relayLegacyEnv = map[string]string{
	"PORT":           "port",
	"NODE_ENV":       "env",
	"OPENAI_API_KEY": "openai.apikey",
}

// LoadRelay reads defaults, then the optional YAML file at path, then the
// legacy variables, then BUDGET_RELAY_* variables.
func LoadRelay(path string) (Relay, error) {
	var cfg Relay
	if err := load(DefaultRelay(), path, RelayEnvPrefix, relayLegacyEnv, &cfg); err != nil {
		return Relay{}, err
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if err := cfg.Validate(); err != nil {
		return Relay{}, err
	}
	return cfg, nil
}

// LoadTracker reads defaults, then the optional YAML file at path, then
// BUDGET_* variables.
func LoadTracker(path string) (Tracker, error) {
	var cfg Tracker
	if err := load(DefaultTracker(), path, TrackerEnvPrefix, nil, &cfg); err != nil {
		return Tracker{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Tracker{}, err
	}
	return cfg, nil
}

func load(defaults any, path, prefix string, legacy map[string]string, out any) error {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("loading %s: %w", path, err)
			}
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Infof("Loaded configuration from file: %s", path)
		}
	}

	if len(legacy) > 0 {
		err := k.Load(env.Provider(".", env.Opt{
			TransformFunc: func(k, v string) (string, any) {
				return legacy[k], v
			},
		}), nil)
		if err != nil {
			return fmt.Errorf("loading legacy env: %w", err)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: prefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, prefix)), "_", ".")
			if k == "allowedorigins" {
				return k, splitList(v)
			}
			return k, v
		},
	}), nil)
	if err != nil {
		return fmt.Errorf("loading env: %w", err)
	}

	if err := k.Unmarshal("", out); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c Relay) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Addr is the listen address for the HTTP server.
func (c Relay) Addr() string {
	return ":" + c.Port
}

func (c Relay) Validate() error {
	var errs []error
	if p, err := strconv.Atoi(c.Port); err != nil || p < 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("port %q is not a valid port", c.Port))
	}
	switch c.Provider {
	case llm.ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			errs = append(errs, fmt.Errorf("%sOPENAI_APIKEY or OPENAI_API_KEY is required for the openai provider", RelayEnvPrefix))
		}
		if c.OpenAI.Model == "" {
			errs = append(errs, errors.New("openai.model is required"))
		}
	case llm.ProviderOllama:
		if _, err := url.ParseRequestURI(c.Ollama.URL); err != nil {
			errs = append(errs, fmt.Errorf("ollama.url: %w", err))
		}
		if c.Ollama.Model == "" {
			errs = append(errs, errors.New("ollama.model is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("provider %q: %w", c.Provider, llm.ErrUnknownProvider))
	}
	if c.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("upstreamtimeout must be positive"))
	}
	if c.HealthInterval <= 0 {
		errs = append(errs, errors.New("healthinterval must be positive"))
	}
	if c.RateLimit <= 0 {
		errs = append(errs, errors.New("ratelimit must be positive"))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c Tracker) Validate() error {
	var errs []error
	if c.DB == "" {
		errs = append(errs, errors.New("db path is required"))
	}
	if _, err := url.ParseRequestURI(c.RelayURL); err != nil {
		errs = append(errs, fmt.Errorf("relayurl: %w", err))
	}
	if c.RelayTimeout <= 0 {
		errs = append(errs, errors.New("relaytimeout must be positive"))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
