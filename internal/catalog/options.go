package catalog

import "math/rand"

type options struct {
	rng *rand.Rand
}

// Option configures Load.
type Option func(*options)

// WithRand fixes the source used to draw latent attributes.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) {
		o.rng = rng
	}
}
