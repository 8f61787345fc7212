package domain

import "fmt"

// Latent attribute values. They are not part of the catalog source and are
// assigned once when the catalog is loaded.
const (
	FoodQualityPoor    = "poor"
	FoodQualityAverage = "average"
	FoodQualityGood    = "good"

	CrowdednessEmpty    = "empty"
	CrowdednessModerate = "moderate"
	CrowdednessBusy     = "busy"

	StayShort  = "short"
	StayMedium = "medium"
	StayLong   = "long"
)

var (
	FoodQualities = []string{FoodQualityPoor, FoodQualityAverage, FoodQualityGood}
	Crowdednesses = []string{CrowdednessEmpty, CrowdednessModerate, CrowdednessBusy}
	StayLengths   = []string{StayShort, StayMedium, StayLong}
)

// Restaurant is one catalog entry. Values are never mutated after load.
type Restaurant struct {
	Name       string `json:"name"`
	Pricerange string `json:"pricerange"`
	Area       string `json:"area"`
	Food       string `json:"food"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Postcode   string `json:"postcode"`

	FoodQuality  string `json:"food_quality"`
	Crowdedness  string `json:"crowdedness"`
	LengthOfStay string `json:"length_of_stay"`
}

// Field returns the value of a primary attribute, or "" for any other key.
func (r *Restaurant) Field(attr Attribute) string {
	switch attr {
	case AttributeArea:
		return r.Area
	case AttributeFood:
		return r.Food
	case AttributePricerange:
		return r.Pricerange
	default:
		return ""
	}
}

func (r *Restaurant) String() string {
	return fmt.Sprintf("<Restaurant %s (%s, %s, %s)>", r.Name, r.Food, r.Area, r.Pricerange)
}
