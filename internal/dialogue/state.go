package dialogue

import (
	"context"

	"github.com/shadysedhom/mair-assignment/internal/domain"
)

// StateName identifies a state of the dialogue graph.
type StateName string

const (
	StateWelcome                 StateName = "welcome"
	StateAskArea                 StateName = "ask_area"
	StateAskFood                 StateName = "ask_food"
	StateAskPricerange           StateName = "ask_pricerange"
	StateShowPossibleRestaurants StateName = "show_possible_restaurants"
	StateSuggestRestaurant       StateName = "suggest_restaurant"
	StateAskConfirmation         StateName = "ask_confirmation"
	StateAskPartIncorrect        StateName = "ask_part_incorrect"
	StateAskPreferenceAgain      StateName = "ask_preference_again"
	StateAskExtraPreference      StateName = "ask_extra_preference"
	StateBye                     StateName = "bye"
)

func (s StateName) String() string {
	return string(s)
}

// Action runs one turn of a state and returns the act that drives the
// transition.
type Action func(ctx context.Context, m *Machine) (domain.Act, error)

// Guard is a pure predicate over the act and the context.
type Guard func(act domain.Act, dc *domain.DialogueContext) bool

type Transition struct {
	Guard  Guard
	Target StateName
}

// State is immutable once the graph is built.
type State struct {
	Name        StateName
	Action      Action
	Transitions []Transition
	Terminal    bool
}

// next returns the target of the first transition whose guard holds.
func (s *State) next(act domain.Act, dc *domain.DialogueContext) (StateName, bool) {
	for _, t := range s.Transitions {
		if t.Guard(act, dc) {
			return t.Target, true
		}
	}
	return "", false
}
