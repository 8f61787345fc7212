package dialogue

import "github.com/shadysedhom/mair-assignment/internal/domain"

func actIs(acts ...domain.Act) Guard {
	return func(act domain.Act, _ *domain.DialogueContext) bool {
		return act.Is(acts...)
	}
}

func both(a, b Guard) Guard {
	return func(act domain.Act, dc *domain.DialogueContext) bool {
		return a(act, dc) && b(act, dc)
	}
}

// slotAct holds for the acts that keep preference elicitation going.
var slotAct = actIs(domain.ActInform, domain.ActHello, domain.ActNull)

func allKnown(_ domain.Act, dc *domain.DialogueContext) bool {
	return dc.AllKnown()
}

func unknown(attr domain.Attribute) Guard {
	return func(_ domain.Act, dc *domain.DialogueContext) bool {
		return !dc.Slot(attr).Known()
	}
}

// idle holds for a Null act with nothing elicited yet.
func idle(act domain.Act, dc *domain.DialogueContext) bool {
	return act == domain.ActNull && dc.NoneKnown()
}

func incorrect(part domain.IncorrectPart) Guard {
	return func(act domain.Act, dc *domain.DialogueContext) bool {
		return act == domain.ActInform && dc.IncorrectPart == part
	}
}

func matchCount(test func(n int) bool) Guard {
	return func(_ domain.Act, dc *domain.DialogueContext) bool {
		return test(len(dc.CandidateMatches))
	}
}

func always(domain.Act, *domain.DialogueContext) bool {
	return true
}
