/*
Package config defines the run configuration for the tender comparison
pipeline and loads it from an optional YAML file with environment overrides.
*/
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Backend identifies which inference service answers chat requests.
const (
	BackendOllama = "ollama"
	BackendGemini = "gemini"
)

// Config is the full configuration for one analysis run.
type Config struct {
	Inference InferenceConfig `koanf:"inference"`
	OCR       OCRConfig       `koanf:"ocr"`
	Report    ReportConfig    `koanf:"report"`
	Email     EmailConfig     `koanf:"email"`
	Log       LogConfig       `koanf:"log"`
}

// InferenceConfig configures the chat inference backend and how its answers
// are interpreted.
type InferenceConfig struct {
	// Backend selects the inference service: "ollama" or "gemini".
	Backend string `koanf:"backend"`
	// Model is the model identifier passed to the backend.
	Model string `koanf:"model"`
	// BaseURL is the server URL for the Ollama backend.
	BaseURL string `koanf:"base_url"`
	// APIKey authenticates the Gemini backend.
	APIKey string `koanf:"api_key"`
	// Timeout bounds a single inference round trip.
	Timeout time.Duration `koanf:"timeout"`
	// Concurrency is the number of classification calls in flight at once.
	// 1 serializes all calls, the safe default for backends that do not
	// tolerate concurrent requests.
	Concurrency int `koanf:"concurrency"`
	// RequestsPerSecond rate-limits calls to the backend. 0 disables limiting.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	// Structured asks the classifier for STATUS/REASON responses instead of
	// a bare verdict token, carrying a justification into the report.
	Structured bool `koanf:"structured"`
	// StrictStatus requires the status value to be exactly "complied" for a
	// compliant verdict. Off by default: the lenient rule accepts any answer
	// containing "complied" without "not", which can misread a verbose
	// negative that avoids the word "not".
	StrictStatus bool `koanf:"strict_status"`
	// FailFast aborts the whole matrix on the first failed classification
	// instead of marking the cell non-compliant with an error reason.
	FailFast bool `koanf:"fail_fast"`
}

// OCRConfig configures the fallback recognition path for scanned documents.
type OCRConfig struct {
	// Language is the Tesseract language model, e.g. "eng".
	Language string `koanf:"language"`
	// DPI is the page raster resolution handed to the OCR engine.
	DPI int `koanf:"dpi"`
}

// ReportConfig configures report generation.
type ReportConfig struct {
	// Categories enables category-structured requirement extraction and
	// category separators in the report table.
	Categories bool `koanf:"categories"`
	// Color wraps verdict cells in \textcolor markup.
	Color bool `koanf:"color"`
}

// EmailConfig configures optional SMTP delivery of the finished report.
type EmailConfig struct {
	Enabled    bool   `koanf:"enabled"`
	SMTPServer string `koanf:"smtp_server"`
	SMTPPort   int    `koanf:"smtp_port"`
	SMTPUser   string `koanf:"smtp_user"`
	SMTPPass   string `koanf:"smtp_pass"`
	FromEmail  string `koanf:"from_email"`
	ToEmail    string `koanf:"to_email"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, console
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		Inference: InferenceConfig{
			Backend:           BackendOllama,
			Model:             "mistral:7b",
			BaseURL:           "http://localhost:11434",
			Timeout:           2 * time.Minute,
			Concurrency:       1,
			RequestsPerSecond: 0,
		},
		OCR: OCRConfig{
			Language: "eng",
			DPI:      300,
		},
		Report: ReportConfig{
			Color: true,
		},
		Email: EmailConfig{
			SMTPServer: "smtp.gmail.com",
			SMTPPort:   587,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds a Config from defaults, an optional YAML file and TENDER_*
// environment variables, in increasing order of precedence.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// TENDER_INFERENCE_MODEL=... maps to inference.model, and so on.
	if err := k.Load(env.Provider("TENDER_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "TENDER_")), "_", ".")
	}), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment overrides: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.Inference.Backend {
	case BackendOllama:
		if c.Inference.BaseURL == "" {
			return fmt.Errorf("inference.base_url required for the %s backend", BackendOllama)
		}
	case BackendGemini:
		if c.Inference.APIKey == "" {
			return fmt.Errorf("inference.api_key required for the %s backend", BackendGemini)
		}
	default:
		return fmt.Errorf("unknown inference backend %q", c.Inference.Backend)
	}

	if c.Inference.Model == "" {
		return fmt.Errorf("inference.model is required")
	}
	if c.Inference.Concurrency < 1 {
		return fmt.Errorf("inference.concurrency must be at least 1, got %d", c.Inference.Concurrency)
	}
	if c.OCR.DPI <= 0 {
		return fmt.Errorf("ocr.dpi must be positive, got %d", c.OCR.DPI)
	}
	if c.OCR.Language == "" {
		return fmt.Errorf("ocr.language is required")
	}

	if c.Email.Enabled {
		if c.Email.SMTPServer == "" || c.Email.SMTPUser == "" || c.Email.ToEmail == "" {
			return fmt.Errorf("email delivery enabled but smtp_server, smtp_user and to_email are not all set")
		}
	}

	return nil
}
