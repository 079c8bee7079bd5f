// Package rays holds ray bundles as parallel per-ray arrays.
package rays

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/lukaszgryglicki/raycoat/internal/jones"
)

var ErrLengthMismatch = errors.New("per-ray arrays differ in length")

// RealRays is a bundle of unpolarized rays.
//
// L0, M0, N0 are the direction cosines the rays had before the most recent
// surface interaction; coatings use them for the angle of incidence.
type RealRays struct {
	X, Y, Z    []float64
	L, M, N    []float64
	L0, M0, N0 []float64
	I          []float64 // intensity
	W          []float64 // wavelength, microns
}

// NewRealRays copies its inputs; every slice must have the same length.
func NewRealRays(x, y, z, l, m, n, intensity, wavelength []float64) (*RealRays, error) {
	size := len(x)
	for _, s := range [][]float64{y, z, l, m, n, intensity, wavelength} {
		if len(s) != size {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, size, len(s))
		}
	}
	r := &RealRays{
		X: clone(x), Y: clone(y), Z: clone(z),
		L: clone(l), M: clone(m), N: clone(n),
		I: clone(intensity), W: clone(wavelength),
	}
	r.SaveIncident()
	return r, nil
}

func clone(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}

func (r *RealRays) Len() int { return len(r.X) }

func (r *RealRays) Incident() (l0, m0, n0 []float64) { return r.L0, r.M0, r.N0 }
func (r *RealRays) Intensity() []float64             { return r.I }
func (r *RealRays) Wavelengths() []float64           { return r.W }

// SaveIncident records the current directions as the incident ones.
func (r *RealRays) SaveIncident() {
	r.L0 = clone(r.L)
	r.M0 = clone(r.M)
	r.N0 = clone(r.N)
}

// Scale multiplies every intensity by f.
func (r *RealRays) Scale(f float64) { floats.Scale(f, r.I) }

// TotalIntensity is the sum of the ray intensities.
func (r *RealRays) TotalIntensity() float64 { return floats.Sum(r.I) }

// NormalizeDirections rescales every direction to unit length.
func (r *RealRays) NormalizeDirections() {
	for i := range r.L {
		d := Vector3{r.L[i], r.M[i], r.N[i]}.Norm()
		r.L[i], r.M[i], r.N[i] = d.X, d.Y, d.Z
	}
}

// Update applies one Jones matrix per ray to unpolarized light: the
// intensity is scaled by the mean power transfer of the s and p states.
func (r *RealRays) Update(m []jones.Matrix) error {
	if len(m) != r.Len() {
		return fmt.Errorf("%w: %d matrices for %d rays", ErrLengthMismatch, len(m), r.Len())
	}
	s := jones.Vector{1, 0}
	p := jones.Vector{0, 1}
	for i, j := range m {
		r.I[i] *= 0.5 * (j.Apply(s).Power() + j.Apply(p).Power())
	}
	return nil
}

// PropagateToPlane moves every ray along its line to the plane z = 0 and
// reports which rays reached it. Propagation may be virtual: a crossing
// behind the ray's start (t < 0) still counts, since launch planes such as
// the pupil need not lie in front of a tilted surface. Rays parallel to the
// plane stay put.
func (r *RealRays) PropagateToPlane() []bool {
	hit := make([]bool, r.Len())
	for i := range r.X {
		if r.N[i] == 0 {
			continue
		}
		t := -r.Z[i] / r.N[i]
		r.X[i] += t * r.L[i]
		r.Y[i] += t * r.M[i]
		r.Z[i] = 0
		hit[i] = true
	}
	return hit
}

// Translate shifts ray positions.
func (r *RealRays) Translate(dx, dy, dz float64) {
	floats.AddConst(dx, r.X)
	floats.AddConst(dy, r.Y)
	floats.AddConst(dz, r.Z)
}

// RotateX rotates positions and directions about the x axis.
func (r *RealRays) RotateX(angle float64) {
	c, s := math.Cos(angle), math.Sin(angle)
	rotatePair(r.Y, r.Z, c, s)
	rotatePair(r.M, r.N, c, s)
}

// RotateY rotates positions and directions about the y axis.
func (r *RealRays) RotateY(angle float64) {
	c, s := math.Cos(angle), math.Sin(angle)
	rotatePair(r.Z, r.X, c, s)
	rotatePair(r.N, r.L, c, s)
}

// RotateZ rotates positions and directions about the z axis.
func (r *RealRays) RotateZ(angle float64) {
	c, s := math.Cos(angle), math.Sin(angle)
	rotatePair(r.X, r.Y, c, s)
	rotatePair(r.L, r.M, c, s)
}

// (a, b) -> (a cos - b sin, a sin + b cos)
func rotatePair(a, b []float64, c, s float64) {
	for i := range a {
		a[i], b[i] = a[i]*c-b[i]*s, a[i]*s+b[i]*c
	}
}
