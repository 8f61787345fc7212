// Package catalog holds the restaurant records a dialogue searches over.
package catalog

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/shadysedhom/mair-assignment/internal/domain"
	"github.com/shadysedhom/mair-assignment/internal/util"
	"github.com/shadysedhom/mair-assignment/pkg/errors"
)

// AnyValue in a query position imposes no constraint.
const AnyValue = "any"

// Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	restaurants []*domain.Restaurant
	labels      map[domain.Attribute][]string
}

// Query constrains Find; empty or "any" fields match everything.
type Query struct {
	Area       string
	Pricerange string
	Food       string
}

// New builds a catalog from rows, drawing each restaurant's latent attributes
// from rng in row order. A nil rng is seeded from the clock.
func New(rows []Row, rng *rand.Rand) *Catalog {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	restaurants := make([]*domain.Restaurant, 0, len(rows))
	for _, row := range rows {
		restaurants = append(restaurants, &domain.Restaurant{
			Name:         row.Name,
			Pricerange:   row.Pricerange,
			Area:         row.Area,
			Food:         row.Food,
			Phone:        row.Phone,
			Address:      row.Address,
			Postcode:     row.Postcode,
			FoodQuality:  pick(rng, domain.FoodQualities),
			Crowdedness:  pick(rng, domain.Crowdednesses),
			LengthOfStay: pick(rng, domain.StayLengths),
		})
	}

	c := &Catalog{
		restaurants: restaurants,
		labels:      make(map[domain.Attribute][]string, 3),
	}
	for _, attr := range []domain.Attribute{domain.AttributeArea, domain.AttributeFood, domain.AttributePricerange} {
		c.labels[attr] = c.unique(attr)
	}
	return c
}

func pick(rng *rand.Rand, values []string) string {
	return values[rng.Intn(len(values))]
}

func (c *Catalog) unique(attr domain.Attribute) []string {
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, r := range c.restaurants {
		v := r.Field(attr)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Labels returns the sorted unique values of a primary attribute. Callers
// must not modify the returned slice.
func (c *Catalog) Labels(attr domain.Attribute) ([]string, error) {
	labels, ok := c.labels[attr]
	if !ok {
		return nil, errors.NewInvalidAttributeError(string(attr), []string{
			string(domain.AttributeArea), string(domain.AttributeFood), string(domain.AttributePricerange),
		})
	}
	return labels, nil
}

// Find returns, in catalog order, the restaurants whose fields equal the
// constrained query values, ignoring case.
func (c *Catalog) Find(q Query) []*domain.Restaurant {
	matches := make([]*domain.Restaurant, 0)
	for _, r := range c.restaurants {
		if matchesField(r.Area, q.Area) && matchesField(r.Pricerange, q.Pricerange) && matchesField(r.Food, q.Food) {
			matches = append(matches, r)
		}
	}
	return matches
}

func matchesField(value, wanted string) bool {
	wanted = strings.TrimSpace(wanted)
	if wanted == "" || util.Normalize(wanted) == AnyValue {
		return true
	}
	return strings.EqualFold(value, wanted)
}

// QueryFromContext builds a query from the trusted slots of ctx.
func QueryFromContext(ctx *domain.DialogueContext) Query {
	area, _ := ctx.Area.Get()
	pricerange, _ := ctx.Pricerange.Get()
	food, _ := ctx.Food.Get()
	return Query{Area: area, Pricerange: pricerange, Food: food}
}

// Restaurants returns every restaurant in load order.
func (c *Catalog) Restaurants() []*domain.Restaurant {
	return append([]*domain.Restaurant(nil), c.restaurants...)
}

func (c *Catalog) Len() int {
	return len(c.restaurants)
}
