package dialogue

import (
	"context"

	"github.com/shadysedhom/mair-assignment/internal/catalog"
	"github.com/shadysedhom/mair-assignment/internal/domain"
	"github.com/shadysedhom/mair-assignment/internal/inference"
)

// Provider supplies user text and renders system text. PromptAndRead blocks
// until one utterance is available.
type Provider interface {
	PromptAndRead(ctx context.Context) (string, error)
	Render(ctx context.Context, text string) error
}

// StateObserver is implemented by providers that want to know which state
// produced the next rendered text.
type StateObserver interface {
	EnterState(name string)
}

// Classifier predicts one act label per utterance.
type Classifier interface {
	Predict(ctx context.Context, utterances []string) ([]string, error)
}

// Transcript receives every turn of the session.
type Transcript interface {
	Record(speaker, text, state string)
}

// Catalog is the part of the restaurant catalog the machine queries.
type Catalog interface {
	Labels(attr domain.Attribute) ([]string, error)
	Find(q catalog.Query) []*domain.Restaurant
}

// Extractor maps an utterance to the value of one attribute.
type Extractor interface {
	Value(utterance string, attr domain.Attribute) (string, bool, error)
}

// Reasoner evaluates candidates against secondary preferences.
type Reasoner interface {
	Evaluate(candidates []*domain.Restaurant, prefs domain.Preferences) []inference.Verdict
}

type nopTranscript struct{}

func (nopTranscript) Record(string, string, string) {}
