// Package distribution generates pupil sampling points on the unit disk.
//
// A Distribution is empty until GeneratePoints is called; each call replaces
// the previous arrays. Instances are not safe for concurrent use, but
// independent instances share nothing.
package distribution

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"seehuhn.de/go/geom/vec"
)

var (
	ErrUnknownDistribution = errors.New("invalid distribution type")
	ErrInvalidCount        = errors.New("number of points must be non-negative")
	ErrInvalidRings        = errors.New("number of rings is not supported")
)

// Distribution produces normalized (x, y) pupil coordinates.
type Distribution interface {
	// GeneratePoints fills X and Y. n is a point count or, for ring based
	// variants, a ring count.
	GeneratePoints(n int) error
	X() []float64
	Y() []float64
	Len() int
}

// Weighted distributions carry integration weights aligned with their points.
type Weighted interface {
	Distribution
	GetWeights(n int) ([]float64, error)
}

// points is the storage shared by every variant.
type points struct {
	x, y []float64
}

func (p *points) X() []float64 { return p.x }
func (p *points) Y() []float64 { return p.y }
func (p *points) Len() int     { return len(p.x) }

// Points returns the generated samples as 2D vectors.
func Points(d Distribution) []vec.Vec2 {
	x, y := d.X(), d.Y()
	out := make([]vec.Vec2, len(x))
	for i := range x {
		out[i] = vec.Vec2{X: x[i], Y: y[i]}
	}
	return out
}

// Weights returns the quadrature weights of a Weighted distribution
// generated with n, and unit weights for every other kind.
func Weights(d Distribution, n int) ([]float64, error) {
	if w, ok := d.(Weighted); ok {
		return w.GetWeights(n)
	}
	out := make([]float64, d.Len())
	for i := range out {
		out[i] = 1
	}
	return out, nil
}

// linspace matches numpy: n evenly spaced samples from a to b inclusive.
func linspace(n int, a, b float64) []float64 {
	switch n {
	case 0:
		return []float64{}
	case 1:
		return []float64{a}
	}
	return floats.Span(make([]float64, n), a, b)
}

func checkCount(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	return nil
}
