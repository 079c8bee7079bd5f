// Package coating models how rays interact with optical surface coatings.
//
// Every coating can reflect or transmit a bundle of rays. The scalar
// SimpleCoating only attenuates intensity; FresnelCoating derives a Jones
// matrix per ray from its angle of incidence and hands it to the bundle.
// All mutation targets the rays; coatings themselves are immutable.
package coating

import (
	"errors"
	"fmt"
	"math"

	"github.com/lukaszgryglicki/raycoat/internal/jones"
)

var (
	ErrUnknownCoating = errors.New("unknown coating type")
	ErrMissingKey     = errors.New("missing required key")
	ErrNormals        = errors.New("surface normals do not match rays")
)

// Rays is what a coating needs from a ray bundle.
type Rays interface {
	Len() int
	// Incident returns the direction cosines before the current surface.
	Incident() (l0, m0, n0 []float64)
	// Intensity is mutable in place.
	Intensity() []float64
	Wavelengths() []float64
	// Update applies exactly one Jones matrix per ray.
	Update(m []jones.Matrix) error
}

// Coating reflects or transmits rays at a surface. nx, ny, nz are the
// surface normal components at each ray's intersection point.
type Coating interface {
	Reflect(r Rays, nx, ny, nz []float64) error
	Transmit(r Rays, nx, ny, nz []float64) error
	Interact(r Rays, reflect bool, nx, ny, nz []float64) error
	Kind() Kind
	ToDict() map[string]any
}

// Interact dispatches to c.Reflect or c.Transmit.
func Interact(c Coating, r Rays, reflect bool, nx, ny, nz []float64) error {
	if reflect {
		return c.Reflect(r, nx, ny, nz)
	}
	return c.Transmit(r, nx, ny, nz)
}

// ComputeAOI returns the angle between each ray's incident direction and
// the surface normal, in [0, π/2].
func ComputeAOI(r Rays, nx, ny, nz []float64) ([]float64, error) {
	n := r.Len()
	if len(nx) != n || len(ny) != n || len(nz) != n {
		return nil, fmt.Errorf("%w: (%d, %d, %d) normals for %d rays", ErrNormals, len(nx), len(ny), len(nz), n)
	}
	l0, m0, n0 := r.Incident()
	aoi := make([]float64, n)
	for i := range aoi {
		dot := math.Abs(nx[i]*l0[i] + ny[i]*m0[i] + nz[i]*n0[i])
		// rounding can push |dot| past 1
		aoi[i] = math.Acos(clip(dot, -1, 1))
	}
	return aoi, nil
}

func clip(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
