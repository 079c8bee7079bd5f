package rays

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/lukaszgryglicki/raycoat/internal/jones"
)

// PolarizationState describes the field launched into a bundle. Es and Ep
// need not be normalized; an unpolarized state ignores them.
type PolarizationState struct {
	Polarized bool
	Es, Ep    complex128
}

// PolarizedRays carries a normalized (s, p) Jones vector per ray alongside
// the scalar bundle.
type PolarizedRays struct {
	*RealRays
	State PolarizationState
	E     []jones.Vector
}

func NewPolarizedRays(r *RealRays, state PolarizationState) (*PolarizedRays, error) {
	p := &PolarizedRays{RealRays: r, State: state}
	if !state.Polarized {
		return p, nil
	}
	norm := math.Sqrt(jones.Vector{state.Es, state.Ep}.Power())
	if norm == 0 {
		return nil, fmt.Errorf("polarized state needs a non-zero field, got Es=%v Ep=%v", state.Es, state.Ep)
	}
	e := jones.Vector{state.Es / complex(norm, 0), state.Ep / complex(norm, 0)}
	p.E = make([]jones.Vector, r.Len())
	for i := range p.E {
		p.E[i] = e
	}
	return p, nil
}

// Update applies one Jones matrix per ray. Intensity follows the power of
// the transformed field, which is then renormalized.
func (p *PolarizedRays) Update(m []jones.Matrix) error {
	if !p.State.Polarized {
		return p.RealRays.Update(m)
	}
	if len(m) != p.Len() {
		return fmt.Errorf("%w: %d matrices for %d rays", ErrLengthMismatch, len(m), p.Len())
	}
	for i, j := range m {
		e := j.Apply(p.E[i])
		pw := e.Power()
		p.I[i] *= pw
		if pw > 0 {
			s := complex(1/math.Sqrt(pw), 0)
			p.E[i] = jones.Vector{e[0] * s, e[1] * s}
		}
	}
	return nil
}

// Phase returns the s-to-p phase difference of each ray, radians.
func (p *PolarizedRays) Phase() []float64 {
	out := make([]float64, len(p.E))
	for i, e := range p.E {
		out[i] = cmplx.Phase(e[1]) - cmplx.Phase(e[0])
	}
	return out
}
