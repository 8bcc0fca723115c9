package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Batch mode
	InputDir       string
	OutputDir      string
	SpecFilename   string
	OutputFilename string

	// Embeddings
	EmbeddingsProvider string
	GeminiAPIKey       string
	EmbeddingsModel    string
	EmbedRPM           int
	EmbedDimensions    int
	EmbedCacheSize     int
	EmbedStatsWindow   time.Duration

	// Analysis
	MaxConcurrentDocs int

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool

	LogLevel string
}

// LoadDotenv loads variables from path if the file exists. Variables
// already set in the environment win.
func LoadDotenv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("DOCRANK_API_KEY"),

		InputDir:       envOr("INPUT_DIR", "/app/input"),
		OutputDir:      envOr("OUTPUT_DIR", "/app/output"),
		SpecFilename:   envOr("SPEC_FILENAME", "challenge1b_input.json"),
		OutputFilename: envOr("OUTPUT_FILENAME", "challenge1b_output.json"),

		EmbeddingsProvider: strings.ToLower(envOr("EMBEDDINGS_PROVIDER", "local")),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		EmbeddingsModel:    envOr("EMBEDDINGS_MODEL", "text-embedding-004"),
		EmbedRPM:           envInt("EMBED_RPM", 1500),
		EmbedDimensions:    envInt("EMBED_DIMENSIONS", 384),
		EmbedCacheSize:     envInt("EMBED_CACHE_SIZE", 4096),
		EmbedStatsWindow:   envDuration("EMBED_STATS_WINDOW", 1*time.Hour),

		MaxConcurrentDocs: envInt("MAX_CONCURRENT_DOCS", 4),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 32),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		LogLevel: envOr("LOG_LEVEL", "info"),
	}

	if cfg.EmbedRPM <= 0 {
		cfg.EmbedRPM = 1500
	}
	if cfg.EmbedDimensions <= 0 {
		cfg.EmbedDimensions = 384
	}
	if cfg.EmbedCacheSize <= 0 {
		cfg.EmbedCacheSize = 4096
	}
	if cfg.EmbedStatsWindow <= 0 {
		cfg.EmbedStatsWindow = 1 * time.Hour
	}
	if cfg.MaxConcurrentDocs <= 0 {
		cfg.MaxConcurrentDocs = 4
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 32
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

// Validate checks settings shared by every entry point.
func (c Config) Validate() error {
	switch c.EmbeddingsProvider {
	case "local":
	case "google":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when EMBEDDINGS_PROVIDER=google")
		}
	default:
		return fmt.Errorf("EMBEDDINGS_PROVIDER must be local or google, got %q", c.EmbeddingsProvider)
	}
	return nil
}

// ValidateServer additionally requires the API key guarding HTTP routes.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("DOCRANK_API_KEY is required")
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
