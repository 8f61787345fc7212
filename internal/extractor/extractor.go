// Package extractor maps free text onto attribute values.
package extractor

import (
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"

	"github.com/shadysedhom/mair-assignment/internal/constants"
	"github.com/shadysedhom/mair-assignment/internal/domain"
	"github.com/shadysedhom/mair-assignment/internal/util"
	"github.com/shadysedhom/mair-assignment/pkg/errors"
)

// Strategy names the cascade step that produced a match.
type Strategy string

const (
	StrategyDirect     Strategy = "direct"
	StrategyEditDist   Strategy = "levenshtein"
	StrategySimilarity Strategy = "tfidf"
)

// Match is a successful extraction. Value is the vocabulary entry as stored.
type Match struct {
	Value    string
	Strategy Strategy
	// Distance is set for edit-distance matches, Score for similarity matches.
	Distance int
	Score    float64
}

// Vocabulary supplies the valid values of the primary attributes.
type Vocabulary interface {
	Labels(attr domain.Attribute) ([]string, error)
}

type cacheEntry struct {
	match     Match
	timestamp time.Time
}

// Extractor is safe for concurrent use.
type Extractor struct {
	vocabulary Vocabulary
	logger     *zap.Logger

	windowSize  int
	maxDistance int
	minScore    float64

	lastMu sync.RWMutex
	last   map[domain.Attribute]cacheEntry
}

func New(vocabulary Vocabulary, logger *zap.Logger) *Extractor {
	return &Extractor{
		vocabulary:  vocabulary,
		logger:      logger,
		windowSize:  constants.ExtractorConfig.WindowSize,
		maxDistance: constants.ExtractorConfig.MaxEditDistance,
		minScore:    constants.ExtractorConfig.MinCosineSimilarity,
		last:        make(map[domain.Attribute]cacheEntry),
	}
}

// Search finds the value of attr mentioned in utterance.
// Matching strategy, first success wins:
// 1. A token equal to a vocabulary entry
// 2. The closest entry to a token near a trigger word, within the edit limit
// 3. The entry most similar to the whole utterance in TF-IDF space
func (e *Extractor) Search(utterance string, attr domain.Attribute) (Match, bool, error) {
	vocabulary, err := e.vocabularyFor(attr)
	if err != nil {
		return Match{}, false, err
	}

	tokens := util.Tokenize(utterance)

	match, ok := e.directMatch(tokens, vocabulary)
	if !ok {
		match, ok = e.editDistanceMatch(tokens, attr, vocabulary)
	}
	if !ok {
		match, ok = e.similarityMatch(utterance, vocabulary)
	}
	if !ok {
		return Match{}, false, nil
	}

	e.remember(attr, match)
	e.logger.Debug("Slot value extracted",
		zap.String("attribute", attr.String()),
		zap.String("value", match.Value),
		zap.String("strategy", string(match.Strategy)),
	)
	return match, true, nil
}

// Value is Search reduced to the matched string.
func (e *Extractor) Value(utterance string, attr domain.Attribute) (string, bool, error) {
	match, ok, err := e.Search(utterance, attr)
	return match.Value, ok, err
}

func (e *Extractor) vocabularyFor(attr domain.Attribute) ([]string, error) {
	if attr.IsSecondary() {
		return secondaryKeywords[attr], nil
	}
	if !attr.IsPrimary() {
		allowed := make([]string, 0, 7)
		for _, a := range domain.AllAttributes() {
			allowed = append(allowed, a.String())
		}
		return nil, errors.NewInvalidAttributeError(string(attr), allowed)
	}

	labels, err := e.vocabulary.Labels(attr)
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(labels))
	for _, label := range labels {
		if strings.TrimSpace(label) != "" {
			values = append(values, label)
		}
	}
	return values, nil
}

func (e *Extractor) directMatch(tokens, vocabulary []string) (Match, bool) {
	for _, token := range tokens {
		for _, value := range vocabulary {
			if strings.EqualFold(token, value) {
				return Match{Value: value, Strategy: StrategyDirect}, true
			}
		}
	}
	return Match{}, false
}

// contextWords returns the distinct tokens within the window of any trigger
// occurrence, in utterance order. The trigger token itself is excluded.
func (e *Extractor) contextWords(tokens []string, attr domain.Attribute) []string {
	keywords := triggers[attr]
	seen := make(map[string]struct{})
	words := make([]string, 0)

	for i, token := range tokens {
		if !util.Contains(keywords, token) {
			continue
		}
		start := util.Max(i-e.windowSize, 0)
		end := util.Min(i+e.windowSize+1, len(tokens))
		for j := start; j < end; j++ {
			if j == i {
				continue
			}
			if _, ok := seen[tokens[j]]; ok {
				continue
			}
			seen[tokens[j]] = struct{}{}
			words = append(words, tokens[j])
		}
	}
	return words
}

func (e *Extractor) editDistanceMatch(tokens []string, attr domain.Attribute, vocabulary []string) (Match, bool) {
	best := Match{Distance: -1}
	for _, word := range e.contextWords(tokens, attr) {
		for _, value := range vocabulary {
			d := levenshtein.ComputeDistance(word, strings.ToLower(value))
			if d > e.distanceLimit(attr, value) {
				continue
			}
			if best.Distance < 0 || d < best.Distance {
				best = Match{Value: value, Strategy: StrategyEditDist, Distance: d}
			}
		}
	}

	if best.Distance < 0 {
		return Match{}, false
	}
	return best, true
}

// distanceLimit is the largest edit distance accepted for value. Secondary
// keywords are short everyday words, so they only tolerate about one edit
// per three letters.
func (e *Extractor) distanceLimit(attr domain.Attribute, value string) int {
	if !attr.IsSecondary() {
		return e.maxDistance
	}
	return util.Min(e.maxDistance, len(value)/3)
}

func (e *Extractor) similarityMatch(utterance string, vocabulary []string) (Match, bool) {
	ranking := rankBySimilarity(utterance, vocabulary)
	if len(ranking) == 0 || ranking[0].score < e.minScore {
		return Match{}, false
	}
	return Match{Value: ranking[0].term, Strategy: StrategySimilarity, Score: ranking[0].score}, true
}

func (e *Extractor) remember(attr domain.Attribute, match Match) {
	e.lastMu.Lock()
	defer e.lastMu.Unlock()
	e.last[attr] = cacheEntry{match: match, timestamp: time.Now()}
}

// Last returns the most recent match for attr. It is diagnostic only.
func (e *Extractor) Last(attr domain.Attribute) (Match, bool) {
	e.lastMu.RLock()
	defer e.lastMu.RUnlock()
	entry, ok := e.last[attr]
	return entry.match, ok
}
