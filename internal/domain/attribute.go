package domain

import (
	"github.com/shadysedhom/mair-assignment/internal/util"
	"github.com/shadysedhom/mair-assignment/pkg/errors"
)

// Attribute names a searchable property. The first three are primary slots
// backed by catalog values; the rest are secondary preferences handled by
// inference.
type Attribute string

const (
	AttributeArea          Attribute = "area"
	AttributeFood          Attribute = "food"
	AttributePricerange    Attribute = "pricerange"
	AttributeTouristic     Attribute = "touristic"
	AttributeAssignedSeats Attribute = "assigned_seats"
	AttributeChildren      Attribute = "children"
	AttributeRomantic      Attribute = "romantic"
)

func (a Attribute) String() string {
	return string(a)
}

func (a Attribute) IsPrimary() bool {
	switch a {
	case AttributeArea, AttributeFood, AttributePricerange:
		return true
	default:
		return false
	}
}

func (a Attribute) IsSecondary() bool {
	switch a {
	case AttributeTouristic, AttributeAssignedSeats, AttributeChildren, AttributeRomantic:
		return true
	default:
		return false
	}
}

func (a Attribute) IsValid() bool {
	return a.IsPrimary() || a.IsSecondary()
}

// PrimaryAttributes returns the slots in the order they are asked for.
func PrimaryAttributes() []Attribute {
	return []Attribute{AttributeFood, AttributePricerange, AttributeArea}
}

func SecondaryAttributes() []Attribute {
	return []Attribute{AttributeTouristic, AttributeAssignedSeats, AttributeChildren, AttributeRomantic}
}

func AllAttributes() []Attribute {
	return append(PrimaryAttributes(), SecondaryAttributes()...)
}

// ParseAttribute accepts the canonical names plus "assigned seats" and
// "price range" spellings.
func ParseAttribute(raw string) (Attribute, error) {
	switch util.Normalize(raw) {
	case "area":
		return AttributeArea, nil
	case "food":
		return AttributeFood, nil
	case "pricerange", "price range", "price_range":
		return AttributePricerange, nil
	case "touristic":
		return AttributeTouristic, nil
	case "assigned_seats", "assigned seats":
		return AttributeAssignedSeats, nil
	case "children":
		return AttributeChildren, nil
	case "romantic":
		return AttributeRomantic, nil
	default:
		return "", errors.NewInvalidAttributeError(raw, attributeNames(AllAttributes()))
	}
}

func attributeNames(attrs []Attribute) []string {
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = string(a)
	}
	return names
}
