package domain

import (
	"github.com/shadysedhom/mair-assignment/internal/util"
)

// Act is the dialogue act of one user utterance.
type Act string

const (
	ActInform      Act = "inform"
	ActAffirm      Act = "affirm"
	ActDeny        Act = "deny"
	ActHello       Act = "hello"
	ActBye         Act = "bye"
	ActConfirm     Act = "confirm"
	ActNegate      Act = "negate"
	ActNull        Act = "null"
	ActAcknowledge Act = "ack"
	ActRepeat      Act = "repeat"
	ActReqalts     Act = "reqalts"
	ActReqMore     Act = "reqmore"
	ActRequest     Act = "request"
	ActRestart     Act = "restart"
	ActThankyou    Act = "thankyou"
)

var actAliases = map[string]Act{
	"inform":      ActInform,
	"affirm":      ActAffirm,
	"deny":        ActDeny,
	"hello":       ActHello,
	"bye":         ActBye,
	"confirm":     ActConfirm,
	"negate":      ActNegate,
	"null":        ActNull,
	"none":        ActNull,
	"ack":         ActAcknowledge,
	"acknowledge": ActAcknowledge,
	"repeat":      ActRepeat,
	"reqalts":     ActReqalts,
	"reqmore":     ActReqMore,
	"request":     ActRequest,
	"restart":     ActRestart,
	"thankyou":    ActThankyou,
}

func (a Act) String() string {
	return string(a)
}

// Is reports whether a is one of acts.
func (a Act) Is(acts ...Act) bool {
	for _, candidate := range acts {
		if a == candidate {
			return true
		}
	}
	return false
}

// ParseAct maps a classifier label to an Act. Unrecognised labels yield
// ActNull with ok=false; they are never an error.
func ParseAct(label string) (act Act, ok bool) {
	if act, found := actAliases[util.Normalize(label)]; found {
		return act, true
	}
	return ActNull, false
}

// AllActs returns every act variant.
func AllActs() []Act {
	return []Act{
		ActInform, ActAffirm, ActDeny, ActHello, ActBye, ActConfirm, ActNegate, ActNull,
		ActAcknowledge, ActRepeat, ActReqalts, ActReqMore, ActRequest, ActRestart, ActThankyou,
	}
}
