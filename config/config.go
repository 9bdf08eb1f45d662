package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the service needs at runtime. It is built once
// in main and passed down explicitly; business logic never reads the
// process environment on its own.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Paths     PathsConfig     `yaml:"paths"`
	Jobs      JobsConfig      `yaml:"jobs"`
	Providers ProvidersConfig `yaml:"-"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
	// PublicURL is the origin remote vendors use to fetch artifacts we
	// serve (the video stage hands fal.ai URLs, not file contents).
	PublicURL string `yaml:"public_url"`
}

type PathsConfig struct {
	Uploads string `yaml:"uploads"`
}

type JobsConfig struct {
	PollIntervalMS int `yaml:"poll_interval_ms"`
	MaxAttempts    int `yaml:"max_attempts"`
}

// ProvidersConfig carries vendor credentials and endpoints. Keys come
// from the environment; base URLs have production defaults but are
// overridable so tests can point clients at a local server.
type ProvidersConfig struct {
	FalAPIKey     string
	FalBaseURL    string
	KieAPIKey     string
	KieBaseURL    string
	GeminiAPIKey  string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIBaseURL string
}

// PollInterval returns the job poll interval as a duration.
func (j JobsConfig) PollInterval() time.Duration {
	return time.Duration(j.PollIntervalMS) * time.Millisecond
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      5000,
			PublicURL: "http://localhost:5000",
		},
		Paths: PathsConfig{Uploads: "uploads"},
		Jobs: JobsConfig{
			PollIntervalMS: 5000,
			MaxAttempts:    60,
		},
	}
}

// Load reads config.yaml (optional; defaults apply when absent) and then
// overlays vendor settings from the environment.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.Providers = ProvidersConfig{
		FalAPIKey:     os.Getenv("FAL_API_KEY"),
		FalBaseURL:    envOr("FAL_API_BASE", "https://queue.fal.run"),
		KieAPIKey:     os.Getenv("KIE_API_KEY"),
		KieBaseURL:    envOr("KIE_API_BASE", "https://api.kie.ai/v1/suno"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL: envOr("GEMINI_API_BASE", "https://generativelanguage.googleapis.com/v1beta"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: envOr("OPENAI_API_BASE", "https://api.openai.com/v1"),
	}
	if url := os.Getenv("SERVER_URL"); url != "" {
		cfg.Server.PublicURL = url
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
