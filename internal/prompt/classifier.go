package prompt

import (
	"fmt"
	"strings"

	"github.com/shadysedhom/mair-assignment/internal/domain"
)

const actClassifierTemplate = "act_classifier.yaml"

// ActClassifier renders the act classification prompt for a fixed label set.
type ActClassifier struct {
	labels string
}

// NewActClassifier checks labels against the dialogue act vocabulary. Every
// label must be a canonical act name and appear once.
func NewActClassifier(labels []string) (*ActClassifier, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("act classifier prompt needs at least one label")
	}

	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		act, ok := domain.ParseAct(label)
		if !ok || act.String() != label {
			return nil, fmt.Errorf("unknown act label %q", label)
		}
		if _, dup := seen[label]; dup {
			return nil, fmt.Errorf("duplicate act label %q", label)
		}
		seen[label] = struct{}{}
	}

	return &ActClassifier{labels: strings.Join(labels, ", ")}, nil
}

func (p *ActClassifier) Render(utterance string) (string, error) {
	return render(actClassifierTemplate, map[string]string{
		"LabelList": p.labels,
		"Utterance": utterance,
	})
}
