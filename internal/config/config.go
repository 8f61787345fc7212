package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/shadysedhom/mair-assignment/pkg/errors"
)

const (
	CatalogSourceCSV      = "csv"
	CatalogSourcePostgres = "postgres"

	ClassifierKeyword = "keyword"
	ClassifierLLM     = "llm"

	SinkFile  = "file"
	SinkRedis = "redis"
	SinkNone  = "none"
)

type Config struct {
	Catalog    CatalogConfig
	Postgres   PostgresConfig
	Classifier ClassifierConfig
	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	Dialogue   DialogueConfig
	Transcript TranscriptConfig
	Redis      RedisConfig
	Server     ServerConfig
	Logging    LoggingConfig
}

type CatalogConfig struct {
	Source  string
	CSVPath string
	Table   string
	Seed    int64
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type ClassifierConfig struct {
	Kind string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey         string
	Model          string
	EnableFallback bool
}

type DialogueConfig struct {
	Style          string
	ConfirmMatches bool
}

type TranscriptConfig struct {
	Sink string
	Dir  string
	TTL  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type ServerConfig struct {
	Addr              string
	SessionsPerMinute int
	TrustForwardedFor bool
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Catalog: CatalogConfig{
			Source:  strings.ToLower(getEnv("CATALOG_SOURCE", CatalogSourceCSV)),
			CSVPath: getEnv("CATALOG_CSV_PATH", "data/restaurant_info.csv"),
			Table:   getEnv("CATALOG_TABLE", "restaurants"),
			Seed:    getEnvInt64("CATALOG_SEED", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "restaurants"),
		},
		Classifier: ClassifierConfig{
			Kind: strings.ToLower(getEnv("CLASSIFIER", ClassifierKeyword)),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			Model:          getEnv("OPENAI_MODEL", ""),
			EnableFallback: getEnvBool("OPENAI_ENABLE_FALLBACK", true),
		},
		Dialogue: DialogueConfig{
			Style:          strings.ToLower(getEnv("DIALOGUE_STYLE", "humanlike")),
			ConfirmMatches: getEnvBool("CONFIRM_MATCHES", false),
		},
		Transcript: TranscriptConfig{
			Sink: strings.ToLower(getEnv("TRANSCRIPT_SINK", SinkFile)),
			Dir:  getEnv("TRANSCRIPT_DIR", "saved_transcripts"),
			TTL:  time.Duration(getEnvInt("TRANSCRIPT_TTL_HOURS", 24*7)) * time.Hour,
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Server: ServerConfig{
			Addr:              getEnv("SERVER_ADDR", ":8080"),
			SessionsPerMinute: getEnvInt("SERVER_MAX_SESSIONS_PER_MINUTE", 20),
			TrustForwardedFor: getEnvBool("SERVER_TRUST_FORWARDED_FOR", false),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case CatalogSourceCSV:
		if c.Catalog.CSVPath == "" {
			return errors.NewValidationError("CATALOG_CSV_PATH is required", "CATALOG_CSV_PATH", c.Catalog.CSVPath)
		}
	case CatalogSourcePostgres:
		if c.Catalog.Table == "" {
			return errors.NewValidationError("CATALOG_TABLE is required", "CATALOG_TABLE", c.Catalog.Table)
		}
	default:
		return errors.NewValidationError("unknown catalog source", "CATALOG_SOURCE", c.Catalog.Source)
	}

	switch c.Classifier.Kind {
	case ClassifierKeyword:
	case ClassifierLLM:
		if c.Gemini.APIKey == "" {
			return errors.NewValidationError("GEMINI_API_KEY is required for the llm classifier", "GEMINI_API_KEY", "")
		}
	default:
		return errors.NewValidationError("unknown classifier", "CLASSIFIER", c.Classifier.Kind)
	}

	if c.Dialogue.Style != "humanlike" && c.Dialogue.Style != "system" {
		return errors.NewValidationError("unknown dialogue style", "DIALOGUE_STYLE", c.Dialogue.Style)
	}

	switch c.Transcript.Sink {
	case SinkFile, SinkRedis, SinkNone:
	default:
		return errors.NewValidationError("unknown transcript sink", "TRANSCRIPT_SINK", c.Transcript.Sink)
	}

	if c.Server.SessionsPerMinute < 0 {
		return errors.NewValidationError("session rate must not be negative", "SERVER_MAX_SESSIONS_PER_MINUTE", c.Server.SessionsPerMinute)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
