package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"punctuation stripped", "Cheap, please!", []string{"cheap", "please"}},
		{"extra whitespace", "  in   the\tnorth ", []string{"in", "the", "north"}},
		{"apostrophe removed", "I'd like it", []string{"id", "like", "it"}},
		{"empty", "   ", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.in))
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(-time.Second))
	assert.Equal(t, "01:05", FormatClock(65*time.Second+300*time.Millisecond))
	assert.Equal(t, "61:00", FormatClock(61*time.Minute))
}

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(2, time.Minute, zap.NewNop()).WithClock(func() time.Time { return now })

	cb.RecordFailure(0)
	require.True(t, cb.CanExecute())

	cb.RecordFailure(0)
	require.False(t, cb.CanExecute())
	status := cb.GetStatus()
	require.NotNil(t, status.NextRetryTime)
	assert.Equal(t, now.Add(time.Minute), *status.NextRetryTime)

	now = now.Add(time.Minute)
	assert.Equal(t, CircuitStateHalfOpen, cb.GetState())

	cb.RecordFailure(0)
	assert.Equal(t, CircuitStateOpen, cb.GetState())

	now = now.Add(2 * time.Minute)
	require.True(t, cb.CanExecute())
	cb.RecordSuccess()
	assert.Equal(t, CircuitStateClosed, cb.GetState())
	assert.Zero(t, cb.GetStatus().FailureCount)
}

func TestCircuitBreakerHalfOpenAllowsOneTrial(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(1, time.Minute, zap.NewNop()).WithClock(func() time.Time { return now })

	cb.RecordFailure(0)
	require.False(t, cb.CanExecute())

	now = now.Add(time.Minute)
	require.True(t, cb.CanExecute())
	assert.False(t, cb.CanExecute(), "second caller while the trial is in flight")
	assert.Equal(t, CircuitStateHalfOpen, cb.GetState())

	cb.ReleaseTrial()
	require.True(t, cb.CanExecute())

	// an abandoned trial is given up after the reset timeout
	now = now.Add(time.Minute)
	require.True(t, cb.CanExecute())

	cb.RecordSuccess()
	assert.True(t, cb.CanExecute())
	assert.True(t, cb.CanExecute())
}
