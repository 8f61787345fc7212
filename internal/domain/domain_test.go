package domain

import (
	stderrors "errors"
	"testing"

	"github.com/shadysedhom/mair-assignment/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAct(t *testing.T) {
	for _, act := range AllActs() {
		parsed, ok := ParseAct(string(act))
		assert.True(t, ok, act)
		assert.Equal(t, act, parsed)
	}

	tests := []struct {
		label string
		want  Act
		ok    bool
	}{
		{"none", ActNull, true},
		{"  Affirm ", ActAffirm, true},
		{"acknowledge", ActAcknowledge, true},
		{"gibberish", ActNull, false},
		{"", ActNull, false},
	}
	for _, tt := range tests {
		got, ok := ParseAct(tt.label)
		assert.Equal(t, tt.want, got, tt.label)
		assert.Equal(t, tt.ok, ok, tt.label)
	}
}

func TestParseAttributeRejectsUnknownKeys(t *testing.T) {
	attr, err := ParseAttribute("assigned seats")
	require.NoError(t, err)
	assert.Equal(t, AttributeAssignedSeats, attr)

	_, err = ParseAttribute("phone")
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidAttribute))

	var invalid *errors.InvalidAttributeError
	require.True(t, stderrors.As(err, &invalid))
	assert.Equal(t, "phone", invalid.Attribute)
}

func TestSlotKnownFlagMovesWithValue(t *testing.T) {
	var s Slot
	_, known := s.Get()
	assert.False(t, known)

	s.Set("north")
	v, known := s.Get()
	assert.True(t, known)
	assert.Equal(t, "north", v)

	s.Reset()
	v, known = s.Get()
	assert.False(t, known)
	assert.Empty(t, v)
}

func TestDialogueContextNextUnknownOrder(t *testing.T) {
	c := NewDialogueContext()
	next, ok := c.NextUnknown()
	require.True(t, ok)
	assert.Equal(t, AttributeFood, next)

	c.Food.Set("chinese")
	next, _ = c.NextUnknown()
	assert.Equal(t, AttributePricerange, next)

	c.Pricerange.Set("cheap")
	next, _ = c.NextUnknown()
	assert.Equal(t, AttributeArea, next)

	c.Area.Set("north")
	_, ok = c.NextUnknown()
	assert.False(t, ok)
	assert.True(t, c.AllKnown())

	c.Preferences.Set(AttributeRomantic, true)
	c.IncorrectPart = IncorrectAll
	c.ResetPreferences()
	assert.True(t, c.NoneKnown())
	assert.False(t, c.Preferences.Any())
	assert.Equal(t, IncorrectNone, c.IncorrectPart)
}
