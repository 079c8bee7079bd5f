package distribution

import "fmt"

type options struct {
	seed uint64
}

// Option configures a distribution built by New.
type Option func(*options)

// WithSeed sets the seed of the random distribution.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// New builds a distribution by name. Gaussian quadrature is constructed
// directly with NewGaussianQuadrature.
func New(kind string, opts ...Option) (Distribution, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	switch kind {
	case "line_x":
		return &LineX{}, nil
	case "line_y":
		return &LineY{}, nil
	case "positive_line_x":
		return &LineX{PositiveOnly: true}, nil
	case "positive_line_y":
		return &LineY{PositiveOnly: true}, nil
	case "random":
		return NewRandom(o.seed), nil
	case "hexapolar":
		return &Hexapolar{}, nil
	case "cross":
		return &Cross{}, nil
	case "uniform":
		return &Uniform{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDistribution, kind)
}
