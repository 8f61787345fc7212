// Package classifier provides dialogue-act classifiers.
package classifier

import (
	"context"

	"github.com/shadysedhom/mair-assignment/internal/constants"
	"github.com/shadysedhom/mair-assignment/internal/util"
)

// Rule maps keywords to an act label. A keyword of several words matches a
// contiguous run of tokens.
type Rule struct {
	Label    string
	Keywords []string
}

// DefaultRules are checked in order; the first rule with a matching keyword
// decides the label.
var DefaultRules = []Rule{
	{Label: "hello", Keywords: []string{"hello", "welcome", "hi"}},
	{Label: "thankyou", Keywords: []string{"thank", "thanks", "noice"}},
	{Label: "affirm", Keywords: []string{"yes", "correct", "yea", "ye"}},
	{Label: "deny", Keywords: []string{"no", "not", "dont want", "wrong", "something else"}},
	{Label: "bye", Keywords: []string{"bye", "goodbye", "good bye"}},
	{Label: "repeat", Keywords: []string{"again", "repeat", "say that again", "once more"}},
	{Label: "reqmore", Keywords: []string{"more"}},
	{Label: "reqalts", Keywords: []string{"different", "there another", "other", "alternatives", "alternative", "anything else", "what about", "how about", "next"}},
	{Label: "request", Keywords: []string{"what", "which", "could", "address", "phone number"}},
	{Label: "negate", Keywords: []string{"not", "don't", "do not", "nothing", "no", "never"}},
	{Label: "confirm", Keywords: []string{"yes"}},
	{Label: "restart", Keywords: []string{"restart"}},
	{Label: "ack", Keywords: []string{"ok", "okay"}},
	{Label: "inform", Keywords: []string{"i want"}},
}

type compiledRule struct {
	label    string
	keywords [][]string
}

// Keyword is a rule-based classifier. It never fails.
type Keyword struct {
	rules    []compiledRule
	fallback string
}

func NewKeyword(rules []Rule, fallback string) *Keyword {
	if fallback == "" {
		fallback = constants.ClassifierConfig.FallbackLabel
	}

	k := &Keyword{fallback: fallback}
	for _, rule := range rules {
		compiled := compiledRule{label: rule.Label}
		for _, keyword := range rule.Keywords {
			if tokens := util.Tokenize(keyword); len(tokens) > 0 {
				compiled.keywords = append(compiled.keywords, tokens)
			}
		}
		k.rules = append(k.rules, compiled)
	}
	return k
}

// NewDefaultKeyword uses DefaultRules with the "inform" fallback.
func NewDefaultKeyword() *Keyword {
	return NewKeyword(DefaultRules, "")
}

func (k *Keyword) Predict(_ context.Context, utterances []string) ([]string, error) {
	labels := make([]string, len(utterances))
	for i, u := range utterances {
		labels[i] = k.Classify(u)
	}
	return labels, nil
}

// Classify labels a single utterance.
func (k *Keyword) Classify(utterance string) string {
	tokens := util.Tokenize(utterance)
	for _, rule := range k.rules {
		for _, keyword := range rule.keywords {
			if containsRun(tokens, keyword) {
				return rule.label
			}
		}
	}
	return k.fallback
}

func containsRun(tokens, run []string) bool {
	for i := 0; i+len(run) <= len(tokens); i++ {
		matched := true
		for j, word := range run {
			if tokens[i+j] != word {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}
