package extractor

import "github.com/shadysedhom/mair-assignment/internal/domain"

// triggers are the words whose neighbourhood is searched for misspelled
// values of an attribute.
var triggers = map[domain.Attribute][]string{
	domain.AttributeFood:          {"food", "restaurant", "serves"},
	domain.AttributeArea:          {"area", "part", "region", "side"},
	domain.AttributePricerange:    {"price", "pricerange", "cost"},
	domain.AttributeTouristic:     {"attraction", "sightseeing", "visitors"},
	domain.AttributeAssignedSeats: {"table", "reserved", "reservation"},
	domain.AttributeChildren:      {"friendly", "suitable", "bring"},
	domain.AttributeRomantic:      {"dinner", "evening", "couple"},
}

// secondaryKeywords stand in for catalog values on the secondary attributes.
var secondaryKeywords = map[domain.Attribute][]string{
	domain.AttributeTouristic:     {"touristic", "tourist", "tourists", "touristy"},
	domain.AttributeAssignedSeats: {"assigned", "seats", "seating", "seat"},
	domain.AttributeChildren:      {"children", "child", "kids", "family"},
	domain.AttributeRomantic:      {"romantic", "romance", "date"},
}

// Triggers returns the trigger words of attr.
func Triggers(attr domain.Attribute) []string {
	return append([]string(nil), triggers[attr]...)
}

// Keywords returns the keyword set used as the vocabulary of a secondary
// attribute.
func Keywords(attr domain.Attribute) []string {
	return append([]string(nil), secondaryKeywords[attr]...)
}
