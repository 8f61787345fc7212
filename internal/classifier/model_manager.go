package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/shadysedhom/mair-assignment/internal/constants"
	"github.com/shadysedhom/mair-assignment/internal/util"
	"github.com/shadysedhom/mair-assignment/pkg/errors"
)

var (
	statusCodePattern = regexp.MustCompile(`\b(5\d{2})\b`)
	geminiCodePattern = regexp.MustCompile(`"code":(\d{3})`)
	openaiCodePattern = regexp.MustCompile(`^(\d{3})\s`)
)

// ModelManager sends prompts to the primary provider and, when enabled, to
// the fallback. Service failures open a shared circuit breaker.
type ModelManager struct {
	primary        JSONProvider
	fallback       JSONProvider
	logger         *zap.Logger
	circuitBreaker *util.CircuitBreaker
}

type ModelManagerConfig struct {
	GeminiAPIKey       string
	OpenAIAPIKey       string
	DefaultGeminiModel string
	DefaultOpenAIModel string
	EnableFallback     bool
}

func NewModelManager(ctx context.Context, cfg ModelManagerConfig, logger *zap.Logger) (*ModelManager, error) {
	geminiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	defaultGemini := cfg.DefaultGeminiModel
	if defaultGemini == "" {
		defaultGemini = "gemini-2.5-flash"
	}
	defaultOpenAI := cfg.DefaultOpenAIModel
	if defaultOpenAI == "" {
		defaultOpenAI = "gpt-4.1-mini"
	}

	var fallback JSONProvider
	if cfg.EnableFallback {
		if openaiProvider := NewOpenAIProvider(cfg.OpenAIAPIKey, defaultOpenAI, logger); openaiProvider != nil {
			fallback = openaiProvider
			logger.Info("OpenAI fallback enabled", zap.String("model", defaultOpenAI))
		} else {
			logger.Info("OpenAI fallback disabled (no API key)")
		}
	}

	return NewModelManagerWithProviders(NewGeminiProvider(geminiClient, defaultGemini, logger), fallback, logger), nil
}

// NewModelManagerWithProviders builds a manager from ready providers. A nil
// fallback disables fallback.
func NewModelManagerWithProviders(primary, fallback JSONProvider, logger *zap.Logger) *ModelManager {
	return &ModelManager{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		circuitBreaker: util.NewCircuitBreaker(
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger,
		),
	}
}

// GenerateJSON decodes the first successful provider answer into dest.
func (mm *ModelManager) GenerateJSON(ctx context.Context, prompt string, preset ModelPreset, dest any) (*GenerateMetadata, error) {
	if !mm.circuitBreaker.CanExecute() {
		status := mm.circuitBreaker.GetStatus()
		nextRetry := "unknown"
		if status.NextRetryTime != nil {
			nextRetry = status.NextRetryTime.Format(time.TimeOnly)
		}

		mm.logger.Error("AI service unavailable (circuit breaker)",
			zap.String("state", status.State.String()),
			zap.Int("failure_count", status.FailureCount),
			zap.String("next_retry", nextRetry),
		)
		return nil, errors.NewServiceError("AI service unavailable until "+nextRetry, "llm", "generate", nil)
	}

	options := &GenerateOptions{JSONMode: true}

	primaryResult, primaryErr := mm.primary.Generate(ctx, prompt, preset, options)
	if primaryErr == nil {
		mm.circuitBreaker.RecordSuccess()
		return mm.decodeJSON(primaryResult.Text, &GenerateMetadata{
			Provider: mm.primary.Name(),
			Model:    primaryResult.Model,
		}, dest)
	}

	if mm.fallback != nil {
		fallbackResult, fallbackErr := mm.fallback.Generate(ctx, prompt, preset, options)
		if fallbackErr == nil {
			mm.circuitBreaker.RecordSuccess()
			return mm.decodeJSON(fallbackResult.Text, &GenerateMetadata{
				Provider:     mm.fallback.Name(),
				Model:        fallbackResult.Model,
				UsedFallback: true,
			}, dest)
		}

		mm.recordFailure(primaryErr)
		mm.recordFailure(fallbackErr)
		return nil, errors.NewServiceError("all model providers failed", mm.fallback.Name(), "generate", fallbackErr)
	}

	mm.recordFailure(primaryErr)
	return nil, errors.NewServiceError("model provider failed", mm.primary.Name(), "generate", primaryErr)
}

func (mm *ModelManager) decodeJSON(text string, metadata *GenerateMetadata, dest any) (*GenerateMetadata, error) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return nil, fmt.Errorf("%s API returned empty response", metadata.Provider)
	}

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```json"))
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```"))
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "```"))
	}

	if err := json.Unmarshal([]byte(cleaned), dest); err != nil {
		mm.logger.Error("Failed to unmarshal JSON response",
			zap.String("provider", metadata.Provider),
			zap.Error(err),
			zap.String("response_preview", util.TruncateString(cleaned, 200)),
		)
		return nil, fmt.Errorf("invalid JSON from %s: %w", metadata.Provider, err)
	}
	return metadata, nil
}

func (mm *ModelManager) recordFailure(err error) {
	if !isServiceFailure(err) {
		mm.circuitBreaker.ReleaseTrial()
		return
	}

	timeout := constants.CircuitBreakerConfig.ResetTimeout
	if isRateLimitError(err) {
		timeout = constants.CircuitBreakerConfig.RateLimitTimeout
	}
	mm.circuitBreaker.RecordFailure(timeout)
}

func (mm *ModelManager) GetCircuitStatus() util.CircuitBreakerStatus {
	return mm.circuitBreaker.GetStatus()
}

func (mm *ModelManager) ResetCircuit() {
	mm.circuitBreaker.Reset()
}

// isServiceFailure reports timeouts, rate limits and 5xx answers.
func isServiceFailure(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "ETIMEDOUT") || strings.Contains(msg, "deadline exceeded") {
		return true
	}
	if isRateLimitError(err) {
		return true
	}
	if statusCodePattern.MatchString(msg) {
		return true
	}
	if code, ok := providerCode(msg); ok {
		return code >= 500 && code < 600
	}
	return false
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()
	if strings.Contains(msg, "429") || strings.Contains(msg, "Rate limit") || strings.Contains(msg, "quota") {
		return true
	}
	if code, ok := providerCode(msg); ok {
		return code == 429
	}
	return false
}

func providerCode(msg string) (int, bool) {
	for _, pattern := range []*regexp.Regexp{geminiCodePattern, openaiCodePattern} {
		if matches := pattern.FindStringSubmatch(msg); len(matches) > 1 {
			if code, err := strconv.Atoi(matches[1]); err == nil {
				return code, true
			}
		}
	}
	return 0, false
}
