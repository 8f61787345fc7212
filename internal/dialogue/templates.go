package dialogue

import (
	"bytes"
	"embed"
	"fmt"
	"math/rand"
	"sort"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed templates/responses.yaml
var templateFS embed.FS

// Style selects the wording of system responses.
type Style string

const (
	StyleHumanlike Style = "humanlike"
	StyleSystem    Style = "system"
)

func (s Style) IsValid() bool {
	return s == StyleHumanlike || s == StyleSystem
}

// Response template keys.
const (
	KeyWelcome              = "welcome"
	KeyAskArea              = "ask_area"
	KeyAskAreaInvalid       = "ask_area_invalid"
	KeyAskFood              = "ask_food"
	KeyAskFoodInvalid       = "ask_food_invalid"
	KeyAskPricerange        = "ask_pricerange"
	KeyAskPricerangeInvalid = "ask_pricerange_invalid"
	KeyNoResults            = "no_results"
	KeySuggestRestaurant    = "suggest_restaurant"
	KeyAskConfirmation      = "ask_confirmation"
	KeyAskPartIncorrect     = "ask_part_incorrect"
	KeyAskPreferenceAgain   = "ask_preference_again"
	KeyBye                  = "bye"
	KeyResultCount          = "show_possible_restaurants_count"
	KeyRestaurantDetails    = "show_restaurant_details"
	KeyAskExtraPreference   = "ask_extra_preference"
	KeyConfirmTerm          = "confirm_term"
	KeyReasoningLine        = "reasoning_line"
	KeyNoExtraMatch         = "no_extra_match"
)

// variants accepts either a single string or a list of alternatives.
type variants []string

func (v *variants) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*v = variants{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*v = list
		return nil
	default:
		return fmt.Errorf("line %d: template must be a string or a list of strings", node.Line)
	}
}

// Templates renders the responses of one style.
type Templates struct {
	style     Style
	templates map[string][]*template.Template
}

// LoadTemplates parses the embedded responses for style.
func LoadTemplates(style Style) (*Templates, error) {
	content, err := templateFS.ReadFile("templates/responses.yaml")
	if err != nil {
		return nil, fmt.Errorf("load response templates: %w", err)
	}
	return ParseTemplates(content, style)
}

// ParseTemplates parses a YAML document keyed by style.
func ParseTemplates(content []byte, style Style) (*Templates, error) {
	var doc map[Style]map[string]variants
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse response templates: %w", err)
	}

	raw, ok := doc[style]
	if !ok {
		return nil, fmt.Errorf("unknown response style %q", style)
	}

	t := &Templates{style: style, templates: make(map[string][]*template.Template, len(raw))}
	for key, texts := range raw {
		if len(texts) == 0 {
			return nil, fmt.Errorf("response template %s/%s is empty", style, key)
		}
		for i, text := range texts {
			tmpl, err := template.New(fmt.Sprintf("%s.%s.%d", style, key, i)).Option("missingkey=error").Parse(text)
			if err != nil {
				return nil, fmt.Errorf("parse response template %s/%s: %w", style, key, err)
			}
			t.templates[key] = append(t.templates[key], tmpl)
		}
	}
	return t, nil
}

func (t *Templates) Style() Style {
	return t.style
}

// Keys returns the loaded template keys in sorted order.
func (t *Templates) Keys() []string {
	keys := make([]string, 0, len(t.templates))
	for key := range t.templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Render executes the template for key. When key has several variants one is
// picked with rng; a nil rng always takes the first.
func (t *Templates) Render(key string, data any, rng *rand.Rand) (string, error) {
	list, ok := t.templates[key]
	if !ok {
		return "", fmt.Errorf("unknown response template %q", key)
	}

	tmpl := list[0]
	if len(list) > 1 && rng != nil {
		tmpl = list[rng.Intn(len(list))]
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render response %s: %w", key, err)
	}
	return buf.String(), nil
}
