// Package inference derives secondary restaurant properties from latent
// attributes and filters candidates against requested preferences.
package inference

import (
	"strings"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"

	"github.com/shadysedhom/mair-assignment/internal/domain"
)

const (
	reasonTouristic     = "It is cheap and has good food, so it attracts tourists."
	reasonNotTouristic  = "The food is Romanian, so it is not touristic."
	reasonAssignedSeats = "It is usually busy, so the waiter assigns seats."
	reasonRomantic      = "Guests tend to stay long, which makes it romantic."
	reasonNotRomantic   = "It is busy, so it is not romantic."
	reasonNoChildren    = "Long stays make it less suitable for children."

	contradictionCheapGood = "Touristic status contradicts cheap and good food rule."
	contradictionRomanian  = "Touristic status contradicts Romanian cuisine rule."
	contradictionBusy      = "Romantic status contradicts busy rule."
	contradictionLongStay  = "Romantic status contradicts long stay rule."

	contradictionPrefix = "Contradictions found: "
)

// Verdict is the outcome of reasoning about one restaurant.
type Verdict struct {
	Restaurant     *domain.Restaurant
	Inferred       Judgments
	Contradictions []string
	Reasoning      []string
	Recommended    bool
}

// Judgments holds the derived values; an absent key means no rule fired.
type Judgments map[domain.Attribute]bool

type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	return &Engine{logger: logger}
}

// Apply fires every rule for the requested preferences against r. Later
// rules overwrite earlier ones on the same judgment and record a
// contradiction when they disagree.
func (e *Engine) Apply(r *domain.Restaurant, prefs domain.Preferences) (Judgments, []string) {
	inferred := make(Judgments)
	contradictions := make([]string, 0)

	assign := func(attr domain.Attribute, value bool, conflict string) {
		if prev, ok := inferred[attr]; ok && prev != value {
			contradictions = append(contradictions, conflict)
		}
		inferred[attr] = value
	}

	if prefs.Touristic != nil {
		if isCheap(r) && hasGoodFood(r) {
			assign(domain.AttributeTouristic, true, contradictionCheapGood)
		}
		if isRomanian(r) {
			assign(domain.AttributeTouristic, false, contradictionRomanian)
		}
	}

	if prefs.AssignedSeats != nil && isBusy(r) {
		assign(domain.AttributeAssignedSeats, true, "")
	}

	if prefs.Children != nil && isLongStay(r) {
		assign(domain.AttributeChildren, false, "")
	}

	if prefs.Romantic != nil {
		if isBusy(r) {
			assign(domain.AttributeRomantic, false, contradictionBusy)
		}
		if isLongStay(r) {
			assign(domain.AttributeRomantic, true, contradictionLongStay)
		}
	}

	return inferred, contradictions
}

// Evaluate reasons about every candidate. Verdicts keep candidate order.
func (e *Engine) Evaluate(candidates []*domain.Restaurant, prefs domain.Preferences) []Verdict {
	verdicts := iter.Map(candidates, func(r **domain.Restaurant) Verdict {
		return e.verdict(*r, prefs)
	})

	for _, v := range verdicts {
		e.logger.Debug("Restaurant evaluated",
			zap.String("restaurant", v.Restaurant.Name),
			zap.Bool("recommended", v.Recommended),
			zap.Strings("reasoning", v.Reasoning),
		)
	}
	return verdicts
}

// Reason returns the candidates that are neither contradictory nor
// disqualified, each at most once and in input order.
func (e *Engine) Reason(candidates []*domain.Restaurant, prefs domain.Preferences) []*domain.Restaurant {
	return Recommended(e.Evaluate(candidates, prefs))
}

// Recommended extracts the accepted restaurants from verdicts.
func Recommended(verdicts []Verdict) []*domain.Restaurant {
	accepted := make([]*domain.Restaurant, 0, len(verdicts))
	seen := make(map[*domain.Restaurant]struct{}, len(verdicts))
	for _, v := range verdicts {
		if !v.Recommended {
			continue
		}
		if _, dup := seen[v.Restaurant]; dup {
			continue
		}
		seen[v.Restaurant] = struct{}{}
		accepted = append(accepted, v.Restaurant)
	}
	return accepted
}

func (e *Engine) verdict(r *domain.Restaurant, prefs domain.Preferences) Verdict {
	inferred, contradictions := e.Apply(r, prefs)
	reasoning := make([]string, 0, 4)
	recommended := true

	if touristic, ok := inferred[domain.AttributeTouristic]; ok {
		if touristic {
			reasoning = append(reasoning, reasonTouristic)
		} else {
			reasoning = append(reasoning, reasonNotTouristic)
			recommended = false
		}
	}
	if inferred[domain.AttributeAssignedSeats] {
		reasoning = append(reasoning, reasonAssignedSeats)
	}
	if romantic, ok := inferred[domain.AttributeRomantic]; ok {
		if romantic {
			reasoning = append(reasoning, reasonRomantic)
		} else {
			reasoning = append(reasoning, reasonNotRomantic)
			recommended = false
		}
	}
	if children, ok := inferred[domain.AttributeChildren]; ok && !children {
		reasoning = append(reasoning, reasonNoChildren)
		recommended = false
	}

	if len(contradictions) > 0 {
		reasoning = append(reasoning, contradictionPrefix+strings.Join(contradictions, "; "))
		recommended = false
	}

	return Verdict{
		Restaurant:     r,
		Inferred:       inferred,
		Contradictions: contradictions,
		Reasoning:      reasoning,
		Recommended:    recommended,
	}
}

func isCheap(r *domain.Restaurant) bool {
	return strings.EqualFold(r.Pricerange, "cheap")
}

func hasGoodFood(r *domain.Restaurant) bool {
	return r.FoodQuality == domain.FoodQualityGood
}

func isRomanian(r *domain.Restaurant) bool {
	return strings.EqualFold(r.Food, "romanian")
}

func isBusy(r *domain.Restaurant) bool {
	return r.Crowdedness == domain.CrowdednessBusy
}

func isLongStay(r *domain.Restaurant) bool {
	return r.LengthOfStay == domain.StayLong || r.LengthOfStay == "long stay"
}
