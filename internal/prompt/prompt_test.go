package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActClassifierRender(t *testing.T) {
	p, err := NewActClassifier([]string{"inform", "affirm", "null"})
	require.NoError(t, err)

	text, err := p.Render(`I want "cheap" food`)
	require.NoError(t, err)

	assert.Contains(t, text, "Allowed labels: inform, affirm, null")
	assert.Contains(t, text, `utterance: "I want \"cheap\" food"`)
	assert.Contains(t, text, `{"act": "<label>", "confidence": 0.0-1.0}`)
	assert.NotContains(t, text, "<no value>")
}

func TestNewActClassifierRejectsBadLabels(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
	}{
		{"empty", nil},
		{"unknown", []string{"inform", "complain"}},
		{"not canonical", []string{"Inform"}},
		{"duplicate", []string{"bye", "bye"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewActClassifier(tt.labels)
			assert.Error(t, err)
		})
	}
}

func TestRenderMissingKeyFails(t *testing.T) {
	_, err := render(actClassifierTemplate, map[string]string{"Utterance": "hi"})
	assert.Error(t, err)
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := render("missing.yaml", nil)
	assert.Error(t, err)
}
