package dialogue

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/shadysedhom/mair-assignment/internal/catalog"
	"github.com/shadysedhom/mair-assignment/internal/domain"
	"github.com/shadysedhom/mair-assignment/internal/inference"
)

var invalidKeys = map[domain.Attribute]string{
	domain.AttributeArea:       KeyAskAreaInvalid,
	domain.AttributeFood:       KeyAskFoodInvalid,
	domain.AttributePricerange: KeyAskPricerangeInvalid,
}

var askKeys = map[domain.Attribute]string{
	domain.AttributeArea:       KeyAskArea,
	domain.AttributeFood:       KeyAskFood,
	domain.AttributePricerange: KeyAskPricerange,
}

var attributeLabels = map[domain.Attribute]string{
	domain.AttributeArea:       "area",
	domain.AttributeFood:       "food",
	domain.AttributePricerange: "price range",
}

func welcomeAction(ctx context.Context, m *Machine) (domain.Act, error) {
	m.say(ctx, KeyWelcome, nil)
	return m.elicit(ctx, domain.PrimaryAttributes()...)
}

func askPreferenceAgainAction(ctx context.Context, m *Machine) (domain.Act, error) {
	m.dc.ResetPreferences()
	m.dc.CandidateMatches = nil

	m.say(ctx, KeyAskPreferenceAgain, nil)
	return m.elicit(ctx, domain.PrimaryAttributes()...)
}

func askSlotAction(attr domain.Attribute) Action {
	return func(ctx context.Context, m *Machine) (domain.Act, error) {
		m.say(ctx, askKeys[attr], nil)

		utterance, err := m.listen(ctx)
		if err != nil {
			return domain.ActNull, err
		}
		found, err := m.extract(ctx, utterance, attr)
		if err != nil {
			return domain.ActNull, err
		}

		act := m.classify(ctx, utterance)
		if found == 0 && act != domain.ActBye {
			m.hint(ctx, attr)
		}
		return act, nil
	}
}

func showPossibleRestaurantsAction(ctx context.Context, m *Machine) (domain.Act, error) {
	matches := m.deps.Catalog.Find(catalog.QueryFromContext(m.dc))
	m.dc.CandidateMatches = matches

	if len(matches) == 0 {
		m.say(ctx, KeyNoResults, nil)
		return domain.ActNull, nil
	}

	m.say(ctx, KeyResultCount, struct{ Count int }{len(matches)})
	for _, r := range matches {
		m.say(ctx, KeyRestaurantDetails, r)
	}
	return domain.ActNull, nil
}

// askExtraPreferenceAction narrows the candidates by secondary preferences.
// An answer naming none of them counts as agreement to go on.
func askExtraPreferenceAction(ctx context.Context, m *Machine) (domain.Act, error) {
	m.say(ctx, KeyAskExtraPreference, nil)

	utterance, err := m.listen(ctx)
	if err != nil {
		return domain.ActNull, err
	}

	requested := 0
	for _, attr := range domain.SecondaryAttributes() {
		_, ok, err := m.deps.Extractor.Value(utterance, attr)
		if err != nil {
			return domain.ActNull, err
		}
		if ok {
			m.dc.Preferences.Set(attr, true)
			requested++
		}
	}

	if act := m.classify(ctx, utterance); act == domain.ActBye {
		return act, nil
	}
	if requested == 0 {
		return domain.ActAffirm, nil
	}

	verdicts := m.deps.Reasoner.Evaluate(m.dc.CandidateMatches, m.dc.Preferences)
	for _, v := range verdicts {
		if len(v.Reasoning) == 0 {
			continue
		}
		m.say(ctx, KeyReasoningLine, struct{ Name, Reasoning string }{v.Restaurant.Name, strings.Join(v.Reasoning, " ")})
	}

	m.dc.CandidateMatches = inference.Recommended(verdicts)
	if len(m.dc.CandidateMatches) == 0 {
		m.say(ctx, KeyNoExtraMatch, nil)
	}
	return domain.ActInform, nil
}

// suggestRestaurantAction announces a random candidate and removes it so a
// later suggestion from the same set differs.
func suggestRestaurantAction(ctx context.Context, m *Machine) (domain.Act, error) {
	candidates := m.dc.CandidateMatches
	if len(candidates) == 0 {
		m.say(ctx, KeyNoResults, nil)
		return domain.ActNull, nil
	}

	i := m.deps.Rand.Intn(len(candidates))
	suggestion := candidates[i]

	remaining := make([]*domain.Restaurant, 0, len(candidates)-1)
	remaining = append(remaining, candidates[:i]...)
	m.dc.CandidateMatches = append(remaining, candidates[i+1:]...)

	m.say(ctx, KeySuggestRestaurant, suggestion)
	return domain.ActInform, nil
}

func askConfirmationAction(ctx context.Context, m *Machine) (domain.Act, error) {
	m.say(ctx, KeyAskConfirmation, nil)

	utterance, err := m.listen(ctx)
	if err != nil {
		return domain.ActNull, err
	}
	return m.classify(ctx, utterance), nil
}

func askPartIncorrectAction(ctx context.Context, m *Machine) (domain.Act, error) {
	m.say(ctx, KeyAskPartIncorrect, nil)

	utterance, err := m.listen(ctx)
	if err != nil {
		return domain.ActNull, err
	}

	m.dc.IncorrectPart = detectIncorrectPart(utterance)
	act := m.classify(ctx, utterance)
	if act == domain.ActInform {
		if attr, ok := m.dc.IncorrectPart.Attribute(); ok {
			// Secondary preferences were chosen for the old candidates.
			m.dc.Slot(attr).Reset()
			m.dc.Preferences = domain.Preferences{}
		}
	}
	return act, nil
}

func byeAction(ctx context.Context, m *Machine) (domain.Act, error) {
	m.say(ctx, KeyBye, nil)
	m.active = false
	return domain.ActBye, nil
}

// detectIncorrectPart checks the mentions in fixed order, so "area" wins over
// a later "food".
func detectIncorrectPart(utterance string) domain.IncorrectPart {
	lower := strings.ToLower(utterance)
	switch {
	case strings.Contains(lower, "area"):
		return domain.IncorrectArea
	case strings.Contains(lower, "food"):
		return domain.IncorrectFood
	case strings.Contains(lower, "price"):
		return domain.IncorrectPricerange
	case strings.Contains(lower, "all"):
		return domain.IncorrectAll
	default:
		return domain.IncorrectNone
	}
}

// elicit reads one utterance, fills any of attrs it mentions and classifies it.
func (m *Machine) elicit(ctx context.Context, attrs ...domain.Attribute) (domain.Act, error) {
	utterance, err := m.listen(ctx)
	if err != nil {
		return domain.ActNull, err
	}
	if _, err := m.extract(ctx, utterance, attrs...); err != nil {
		return domain.ActNull, err
	}
	return m.classify(ctx, utterance), nil
}

// extract stores every value found for attrs and returns how many were
// stored. In confirmation mode a value is stored only once the user agrees.
func (m *Machine) extract(ctx context.Context, utterance string, attrs ...domain.Attribute) (int, error) {
	stored := 0
	for _, attr := range attrs {
		value, ok, err := m.deps.Extractor.Value(utterance, attr)
		if err != nil {
			return stored, err
		}
		if !ok {
			continue
		}

		if m.confirmMatches {
			confirmed, err := m.confirm(ctx, attr, value)
			if err != nil {
				return stored, err
			}
			if !confirmed {
				m.deps.Logger.Debug("Extracted value rejected",
					zap.String("attribute", attr.String()),
					zap.String("value", value),
				)
				continue
			}
		}

		m.dc.Slot(attr).Set(value)
		stored++
	}
	return stored, nil
}

func (m *Machine) confirm(ctx context.Context, attr domain.Attribute, value string) (bool, error) {
	m.say(ctx, KeyConfirmTerm, struct{ Term, Attribute string }{value, attributeLabels[attr]})

	reply, err := m.listen(ctx)
	if err != nil {
		return false, err
	}
	return m.classify(ctx, reply).Is(domain.ActAffirm, domain.ActConfirm), nil
}

func (m *Machine) hint(ctx context.Context, attr domain.Attribute) {
	if attr == domain.AttributeFood {
		m.say(ctx, KeyAskFoodInvalid, nil)
		return
	}

	labels, err := m.deps.Catalog.Labels(attr)
	if err != nil {
		m.deps.Logger.Warn("Failed to list hint options", zap.String("attribute", attr.String()), zap.Error(err))
		return
	}
	options := make([]string, 0, len(labels))
	for _, label := range labels {
		if label != "" {
			options = append(options, label)
		}
	}
	m.say(ctx, invalidKeys[attr], struct{ Options string }{strings.Join(options, ", ")})
}

// classify maps the utterance to an act. Classifier failures and unknown
// labels become Null.
func (m *Machine) classify(ctx context.Context, utterance string) domain.Act {
	labels, err := m.deps.Classifier.Predict(ctx, []string{utterance})
	if err != nil {
		m.deps.Logger.Warn("Act classification failed", zap.String("state", m.current.String()), zap.Error(err))
		return domain.ActNull
	}
	if len(labels) != 1 {
		m.deps.Logger.Warn("Classifier returned unexpected label count", zap.Int("count", len(labels)))
		return domain.ActNull
	}

	act, ok := domain.ParseAct(labels[0])
	if !ok {
		m.deps.Logger.Debug("Unrecognized act label", zap.String("label", labels[0]))
	}
	return act
}

func (m *Machine) say(ctx context.Context, key string, data any) {
	text, err := m.deps.Templates.Render(key, data, m.deps.Rand)
	if err != nil {
		m.deps.Logger.Error("Failed to render response", zap.String("key", key), zap.Error(err))
		return
	}

	m.deps.Transcript.Record(domain.SpeakerSystem, text, m.current.String())
	if err := m.deps.Provider.Render(ctx, text); err != nil {
		m.deps.Logger.Warn("Failed to deliver response", zap.String("state", m.current.String()), zap.Error(err))
	}
}

func (m *Machine) listen(ctx context.Context) (string, error) {
	utterance, err := m.deps.Provider.PromptAndRead(ctx)
	if err != nil {
		return "", err
	}
	m.deps.Transcript.Record(domain.SpeakerUser, utterance, m.current.String())
	return utterance, nil
}
