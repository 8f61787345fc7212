package domain

import "time"

// Slot holds one primary preference. The value is only meaningful while
// Known is set; Set and Reset always change both together.
type Slot struct {
	value string
	known bool
}

func (s *Slot) Set(value string) {
	s.value = value
	s.known = true
}

func (s *Slot) Reset() {
	s.value = ""
	s.known = false
}

// Get returns the value and whether it is trusted.
func (s Slot) Get() (string, bool) {
	if !s.known {
		return "", false
	}
	return s.value, true
}

func (s Slot) Known() bool {
	return s.known
}

// IncorrectPart is the answer to "which part of the suggestion was wrong".
type IncorrectPart string

const (
	IncorrectNone       IncorrectPart = ""
	IncorrectArea       IncorrectPart = "area"
	IncorrectFood       IncorrectPart = "food"
	IncorrectPricerange IncorrectPart = "pricerange"
	IncorrectAll        IncorrectPart = "all"
)

// Attribute maps a single-slot part to its attribute.
func (p IncorrectPart) Attribute() (Attribute, bool) {
	switch p {
	case IncorrectArea:
		return AttributeArea, true
	case IncorrectFood:
		return AttributeFood, true
	case IncorrectPricerange:
		return AttributePricerange, true
	default:
		return "", false
	}
}

// Preferences are the secondary requirements; nil means not requested.
type Preferences struct {
	Touristic     *bool
	AssignedSeats *bool
	Children      *bool
	Romantic      *bool
}

func (p Preferences) Any() bool {
	return p.Touristic != nil || p.AssignedSeats != nil || p.Children != nil || p.Romantic != nil
}

// Set records attr as requested with the given value. Non-secondary
// attributes are ignored.
func (p *Preferences) Set(attr Attribute, value bool) {
	v := value
	switch attr {
	case AttributeTouristic:
		p.Touristic = &v
	case AttributeAssignedSeats:
		p.AssignedSeats = &v
	case AttributeChildren:
		p.Children = &v
	case AttributeRomantic:
		p.Romantic = &v
	}
}

// DialogueContext is the mutable state of one session. It is owned by a
// single state machine and never shared across goroutines.
type DialogueContext struct {
	Area       Slot
	Food       Slot
	Pricerange Slot

	IncorrectPart    IncorrectPart
	Preferences      Preferences
	CandidateMatches []*Restaurant
}

func NewDialogueContext() *DialogueContext {
	return &DialogueContext{}
}

// Slot returns the slot for a primary attribute, or nil.
func (c *DialogueContext) Slot(attr Attribute) *Slot {
	switch attr {
	case AttributeArea:
		return &c.Area
	case AttributeFood:
		return &c.Food
	case AttributePricerange:
		return &c.Pricerange
	default:
		return nil
	}
}

// AllKnown reports whether every primary slot holds a trusted value.
func (c *DialogueContext) AllKnown() bool {
	return c.Area.Known() && c.Food.Known() && c.Pricerange.Known()
}

// NoneKnown reports whether no primary slot holds a trusted value.
func (c *DialogueContext) NoneKnown() bool {
	return !c.Area.Known() && !c.Food.Known() && !c.Pricerange.Known()
}

// NextUnknown returns the first unknown slot in asking order.
func (c *DialogueContext) NextUnknown() (Attribute, bool) {
	for _, attr := range PrimaryAttributes() {
		if !c.Slot(attr).Known() {
			return attr, true
		}
	}
	return "", false
}

// ResetPreferences clears every slot, the incorrect-part marker and the
// secondary preferences.
func (c *DialogueContext) ResetPreferences() {
	c.Area.Reset()
	c.Food.Reset()
	c.Pricerange.Reset()
	c.IncorrectPart = IncorrectNone
	c.Preferences = Preferences{}
}

// Clone returns a copy safe to inspect without affecting c.
func (c *DialogueContext) Clone() *DialogueContext {
	clone := *c
	clone.CandidateMatches = append([]*Restaurant(nil), c.CandidateMatches...)
	return &clone
}

// Turn is one transcript line.
type Turn struct {
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	SpeakerSystem = "System"
	SpeakerUser   = "User"
)
