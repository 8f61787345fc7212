package config

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadysedhom/mair-assignment/pkg/errors"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"CATALOG_SOURCE", "CLASSIFIER", "DIALOGUE_STYLE", "TRANSCRIPT_SINK", "CATALOG_SEED", "TRANSCRIPT_TTL_HOURS", "SERVER_TRUST_FORWARDED_FOR"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, CatalogSourceCSV, cfg.Catalog.Source)
	assert.Equal(t, "data/restaurant_info.csv", cfg.Catalog.CSVPath)
	assert.Equal(t, ClassifierKeyword, cfg.Classifier.Kind)
	assert.Equal(t, "humanlike", cfg.Dialogue.Style)
	assert.Equal(t, SinkFile, cfg.Transcript.Sink)
	assert.Equal(t, 7*24*time.Hour, cfg.Transcript.TTL)
	assert.Equal(t, int64(0), cfg.Catalog.Seed)
	assert.False(t, cfg.Server.TrustForwardedFor)
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CATALOG_SOURCE", "Postgres")
	t.Setenv("CATALOG_SEED", "42")
	t.Setenv("DIALOGUE_STYLE", "system")
	t.Setenv("CONFIRM_MATCHES", "true")
	t.Setenv("TRANSCRIPT_SINK", "redis")
	t.Setenv("REDIS_PORT", "not-a-number")
	t.Setenv("SERVER_TRUST_FORWARDED_FOR", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, CatalogSourcePostgres, cfg.Catalog.Source)
	assert.Equal(t, int64(42), cfg.Catalog.Seed)
	assert.Equal(t, "system", cfg.Dialogue.Style)
	assert.True(t, cfg.Dialogue.ConfirmMatches)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.True(t, cfg.Server.TrustForwardedFor)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Catalog:    CatalogConfig{Source: CatalogSourceCSV, CSVPath: "x.csv", Table: "restaurants"},
			Classifier: ClassifierConfig{Kind: ClassifierKeyword},
			Dialogue:   DialogueConfig{Style: "humanlike"},
			Transcript: TranscriptConfig{Sink: SinkNone},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown source", func(c *Config) { c.Catalog.Source = "mysql" }, "CATALOG_SOURCE"},
		{"empty csv path", func(c *Config) { c.Catalog.CSVPath = "" }, "CATALOG_CSV_PATH"},
		{"llm without key", func(c *Config) { c.Classifier.Kind = ClassifierLLM }, "GEMINI_API_KEY"},
		{"llm with key", func(c *Config) { c.Classifier.Kind = ClassifierLLM; c.Gemini.APIKey = "k" }, ""},
		{"unknown style", func(c *Config) { c.Dialogue.Style = "pirate" }, "DIALOGUE_STYLE"},
		{"unknown sink", func(c *Config) { c.Transcript.Sink = "s3" }, "TRANSCRIPT_SINK"},
		{"negative rate", func(c *Config) { c.Server.SessionsPerMinute = -1 }, "SERVER_MAX_SESSIONS_PER_MINUTE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var ve *errors.ValidationError
			require.True(t, stderrors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}
