package dialogue

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadysedhom/mair-assignment/internal/domain"
)

func TestLoadTemplates_StylesShareKeys(t *testing.T) {
	humanlike, err := LoadTemplates(StyleHumanlike)
	require.NoError(t, err)
	system, err := LoadTemplates(StyleSystem)
	require.NoError(t, err)

	assert.Equal(t, humanlike.Keys(), system.Keys())
	for _, key := range []string{KeyWelcome, KeyConfirmTerm, KeyReasoningLine, KeyNoExtraMatch, KeyAskFoodInvalid} {
		assert.Contains(t, system.Keys(), key)
	}
}

func TestLoadTemplates_UnknownStyle(t *testing.T) {
	_, err := LoadTemplates(Style("pirate"))
	assert.Error(t, err)
}

func TestTemplates_Render(t *testing.T) {
	templates, err := LoadTemplates(StyleHumanlike)
	require.NoError(t, err)

	r := &domain.Restaurant{Name: "rice house", Food: "chinese", Area: "centre", Pricerange: "cheap"}
	text, err := templates.Render(KeySuggestRestaurant, r, nil)
	require.NoError(t, err)
	assert.Equal(t, "I've found a place you might like! rice house is a lovely chinese restaurant in the centre part of town. It's in the cheap price range.", text)

	text, err = templates.Render(KeyConfirmTerm, struct{ Term, Attribute string }{"north", "area"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Just to be sure, did you mean 'north' for area?", text)
}

func TestTemplates_RenderErrors(t *testing.T) {
	templates, err := LoadTemplates(StyleSystem)
	require.NoError(t, err)

	_, err = templates.Render("does_not_exist", nil, nil)
	assert.Error(t, err)

	_, err = templates.Render(KeyResultCount, struct{ Total int }{3}, nil)
	assert.Error(t, err)
}

func TestTemplates_VariantsUseRand(t *testing.T) {
	templates, err := LoadTemplates(StyleSystem)
	require.NoError(t, err)

	first, err := templates.Render(KeyAskFoodInvalid, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Supported food types include: Italian, Chinese, Indian, et cetera.", first)

	seen := make(map[string]struct{})
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 50; i++ {
		text, err := templates.Render(KeyAskFoodInvalid, nil, rng)
		require.NoError(t, err)
		seen[text] = struct{}{}
	}
	assert.Len(t, seen, 3)
}

func TestParseTemplates_RejectsMapping(t *testing.T) {
	_, err := ParseTemplates([]byte("system:\n  welcome:\n    nested: value\n"), StyleSystem)
	assert.Error(t, err)
}
