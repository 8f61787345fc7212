package classifier

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shadysedhom/mair-assignment/internal/constants"
	"github.com/shadysedhom/mair-assignment/internal/domain"
	"github.com/shadysedhom/mair-assignment/internal/prompt"
	"github.com/shadysedhom/mair-assignment/internal/util"
	"github.com/shadysedhom/mair-assignment/pkg/errors"
)

// Generator is satisfied by ModelManager.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string, preset ModelPreset, dest any) (*GenerateMetadata, error)
}

type actResponse struct {
	Act        string  `json:"act"`
	Confidence float64 `json:"confidence"`
}

// LLM classifies acts with a language model. Labels are returned as the
// model produced them; mapping to acts is left to the caller.
type LLM struct {
	models Generator
	cache  *LabelCache
	prompt *prompt.ActClassifier
	logger *zap.Logger
}

func NewLLM(models Generator, logger *zap.Logger) (*LLM, error) {
	acts := domain.AllActs()
	labels := make([]string, 0, len(acts))
	for _, act := range acts {
		labels = append(labels, act.String())
	}

	p, err := prompt.NewActClassifier(labels)
	if err != nil {
		return nil, fmt.Errorf("build classifier prompt: %w", err)
	}

	return &LLM{
		models: models,
		cache:  NewLabelCache(constants.ClassifierConfig.CacheTTL),
		prompt: p,
		logger: logger,
	}, nil
}

func (l *LLM) Predict(ctx context.Context, utterances []string) ([]string, error) {
	out := make([]string, 0, len(utterances))
	for _, utterance := range utterances {
		label, err := l.classify(ctx, utterance)
		if err != nil {
			return nil, err
		}
		out = append(out, label)
	}
	return out, nil
}

func (l *LLM) classify(ctx context.Context, utterance string) (string, error) {
	key := util.Normalize(utterance)
	if label, ok := l.cache.Get(key); ok {
		l.logger.Debug("Act cache hit", zap.String("utterance", key), zap.String("label", label))
		return label, nil
	}

	text, err := l.prompt.Render(util.TruncateString(utterance, constants.ClassifierConfig.MaxInputLength))
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, constants.ClassifierConfig.RequestTimeout)
	defer cancel()

	var resp actResponse
	metadata, err := l.models.GenerateJSON(callCtx, text, PresetPrecise, &resp)
	if err != nil {
		return "", err
	}

	label := util.Normalize(resp.Act)
	if label == "" {
		return "", errors.NewServiceError("model returned no act label", metadata.Provider, "classify", nil)
	}

	l.logger.Debug("Act classified",
		zap.String("utterance", util.TruncateString(utterance, 80)),
		zap.String("label", label),
		zap.Float64("confidence", resp.Confidence),
		zap.String("provider", metadata.Provider),
		zap.Bool("fallback", metadata.UsedFallback),
	)

	l.cache.Set(key, label)
	return label, nil
}
