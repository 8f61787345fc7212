package classifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyword_Classify(t *testing.T) {
	k := NewDefaultKeyword()

	tests := []struct {
		utterance string
		want      string
	}{
		{"hi there", "hello"},
		{"thanks a lot", "thankyou"},
		{"Yes, that is fine.", "affirm"},
		{"no", "deny"},
		{"that is wrong", "deny"},
		{"i'd like something else", "deny"},
		{"good bye", "bye"},
		{"could you say that again", "repeat"},
		{"is there another one", "reqalts"},
		{"how about thai", "reqalts"},
		{"what is the phone number", "request"},
		{"i never eat there", "negate"},
		{"I don't care", "negate"},
		{"please restart", "restart"},
		{"okay", "ack"},
		{"i want cheap food", "inform"},
		{"cheap chinese in the north", "inform"},
		{"", "inform"},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			assert.Equal(t, tt.want, k.Classify(tt.utterance))
		})
	}
}

func TestKeyword_MultiWordNeedsContiguousTokens(t *testing.T) {
	k := NewKeyword([]Rule{{Label: "request", Keywords: []string{"phone number"}}}, "null")

	assert.Equal(t, "request", k.Classify("their phone number please"))
	assert.Equal(t, "null", k.Classify("number of the phone"))
}

func TestKeyword_PredictKeepsOrder(t *testing.T) {
	k := NewDefaultKeyword()

	labels, err := k.Predict(context.Background(), []string{"yes", "bye", "hmm"})
	require.NoError(t, err)
	assert.Equal(t, []string{"affirm", "bye", "inform"}, labels)
}
