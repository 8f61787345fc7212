package dialogue

import "github.com/shadysedhom/mair-assignment/internal/domain"

var askStates = map[domain.Attribute]StateName{
	domain.AttributeFood:       StateAskFood,
	domain.AttributePricerange: StateAskPricerange,
	domain.AttributeArea:       StateAskArea,
}

// routing sends elicitation acts to the results once every slot is known and
// otherwise to the first unknown slot in asking order.
func routing() []Transition {
	transitions := []Transition{{Guard: both(slotAct, allKnown), Target: StateShowPossibleRestaurants}}
	for _, attr := range domain.PrimaryAttributes() {
		transitions = append(transitions, Transition{Guard: both(slotAct, unknown(attr)), Target: askStates[attr]})
	}
	return transitions
}

func elicitation(name StateName, action Action, first Transition) *State {
	transitions := []Transition{
		{Guard: actIs(domain.ActBye), Target: StateBye},
		first,
	}
	return &State{Name: name, Action: action, Transitions: append(transitions, routing()...)}
}

// buildGraph returns the state table. Transition order is evaluation order.
func buildGraph() map[StateName]*State {
	states := []*State{
		elicitation(StateWelcome, welcomeAction, Transition{Guard: idle, Target: StateWelcome}),
		elicitation(StateAskPreferenceAgain, askPreferenceAgainAction, Transition{Guard: idle, Target: StateAskPreferenceAgain}),
		elicitation(StateAskFood, askSlotAction(domain.AttributeFood),
			Transition{Guard: both(slotAct, unknown(domain.AttributeFood)), Target: StateAskFood}),
		elicitation(StateAskPricerange, askSlotAction(domain.AttributePricerange),
			Transition{Guard: both(slotAct, unknown(domain.AttributePricerange)), Target: StateAskPricerange}),
		elicitation(StateAskArea, askSlotAction(domain.AttributeArea),
			Transition{Guard: both(slotAct, unknown(domain.AttributeArea)), Target: StateAskArea}),
		{
			Name:   StateShowPossibleRestaurants,
			Action: showPossibleRestaurantsAction,
			Transitions: []Transition{
				{Guard: matchCount(func(n int) bool { return n == 0 }), Target: StateAskPreferenceAgain},
				{Guard: matchCount(func(n int) bool { return n == 1 }), Target: StateAskConfirmation},
				{Guard: matchCount(func(n int) bool { return n > 1 }), Target: StateAskExtraPreference},
			},
		},
		{
			Name:   StateAskExtraPreference,
			Action: askExtraPreferenceAction,
			Transitions: []Transition{
				{Guard: actIs(domain.ActBye), Target: StateBye},
				{Guard: actIs(domain.ActAffirm, domain.ActInform), Target: StateSuggestRestaurant},
			},
		},
		{
			Name:   StateSuggestRestaurant,
			Action: suggestRestaurantAction,
			Transitions: []Transition{
				{Guard: actIs(domain.ActInform), Target: StateAskConfirmation},
				{Guard: actIs(domain.ActNull), Target: StateAskPreferenceAgain},
			},
		},
		{
			Name:   StateAskConfirmation,
			Action: askConfirmationAction,
			Transitions: []Transition{
				{Guard: actIs(domain.ActAffirm), Target: StateBye},
				{Guard: actIs(domain.ActDeny, domain.ActNegate), Target: StateAskPartIncorrect},
				{Guard: always, Target: StateAskConfirmation},
			},
		},
		{
			Name:   StateAskPartIncorrect,
			Action: askPartIncorrectAction,
			Transitions: []Transition{
				{Guard: incorrect(domain.IncorrectAll), Target: StateAskPreferenceAgain},
				{Guard: incorrect(domain.IncorrectArea), Target: StateAskArea},
				{Guard: incorrect(domain.IncorrectFood), Target: StateAskFood},
				{Guard: incorrect(domain.IncorrectPricerange), Target: StateAskPricerange},
				{Guard: always, Target: StateAskPartIncorrect},
			},
		},
		{Name: StateBye, Action: byeAction, Terminal: true},
	}

	graph := make(map[StateName]*State, len(states))
	for _, s := range states {
		graph[s.Name] = s
	}
	return graph
}
