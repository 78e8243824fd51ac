package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`

	// RedisURL enables the cart badge cache when set; empty disables it.
	RedisURL string `yaml:"redis_url"`

	// ReportingTimezone is the IANA zone used when bucketing delivery
	// analytics by calendar day.
	ReportingTimezone string `yaml:"reporting_timezone"`

	ResumeDir       string `yaml:"resume_dir"`
	ResumeMaxSizeMB int    `yaml:"resume_max_size_mb"`
	JobExpiryDays   int    `yaml:"job_expiry_days"`
	ExpirySchedule  string `yaml:"expiry_schedule"`
	DispatchWorkers int    `yaml:"dispatch_workers"`

	EngineConfig EngineConfig `yaml:"engine"`
	Ollama       OllamaConfig `yaml:"ollama"`
}

type EngineConfig struct {
	Model         string        `yaml:"model"`
	Timeout       time.Duration `yaml:"timeout"`
	MinConfidence float64       `yaml:"min_confidence"`
}

type OllamaConfig struct {
	BaseURL                 string        `yaml:"base_url"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

// Validate checks the loaded configuration and fills in ollama defaults.
// The default JWT secret is rejected outside development.
func (cfg *Config) Validate() error {
	if cfg.JWTSecret == "" || cfg.JWTSecret == "supersecretkey" {
		if getEnv("JOBDECK_ENV", "") != "development" {
			return errors.New("jwt_secret must be set to a non-default value")
		}
	}
	if cfg.EngineConfig.Model == "" {
		return errors.New("engine.model is required")
	}
	if cfg.ReportingTimezone == "" {
		cfg.ReportingTimezone = "UTC"
	}
	if _, err := time.LoadLocation(cfg.ReportingTimezone); err != nil {
		return fmt.Errorf("reporting_timezone: %w", err)
	}
	if cfg.Ollama.BaseURL == "" {
		cfg.Ollama.BaseURL = "http://localhost:11434"
	}
	if cfg.Ollama.Timeout <= 0 {
		cfg.Ollama.Timeout = 30 * time.Second
	}
	if cfg.Ollama.Retries == 0 {
		cfg.Ollama.Retries = 3
	}
	if cfg.Ollama.Backoff <= 0 {
		cfg.Ollama.Backoff = 500 * time.Millisecond
	}
	if cfg.Ollama.CircuitFailureThreshold == 0 {
		cfg.Ollama.CircuitFailureThreshold = 5
	}
	if cfg.Ollama.CircuitReset <= 0 {
		cfg.Ollama.CircuitReset = 30 * time.Second
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:              getEnv("JOBDECK_ADDR", ":8080"),
		JWTSecret:         getEnv("JOBDECK_JWT_SECRET", "supersecretkey"),
		APITimeout:        15 * time.Second,
		DatabasePath:      getEnv("JOBDECK_DATABASE_PATH", "jobdeck.db"),
		TokenDuration:     1 * time.Hour,
		RedisURL:          getEnv("JOBDECK_REDIS_URL", ""),
		ReportingTimezone: getEnv("JOBDECK_REPORTING_TZ", "UTC"),
		ResumeDir:         getEnv("JOBDECK_RESUME_DIR", "data/resumes"),
		ResumeMaxSizeMB:   10,
		JobExpiryDays:     60,
		ExpirySchedule:    "@hourly",
		DispatchWorkers:   2,
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
