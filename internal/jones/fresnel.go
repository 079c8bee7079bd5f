package jones

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/lukaszgryglicki/raycoat/internal/material"
)

// Fresnel computes uncoated-interface Jones matrices between two materials.
type Fresnel struct {
	pre, post material.Material
}

func NewFresnel(pre, post material.Material) *Fresnel {
	return &Fresnel{pre: pre, post: post}
}

// CalculateMatrices returns diag(rs, rp) for reflection and diag(ts, tp) for
// transmission. Transmission amplitudes are scaled by
// sqrt(Re(n2 cos θt) / Re(n1 cos θi)) so that |J·E|^2 is a power ratio.
func (f *Fresnel) CalculateMatrices(wavelengths, aoi []float64, reflect bool) ([]Matrix, error) {
	if len(wavelengths) != len(aoi) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(wavelengths), len(aoi))
	}
	out := make([]Matrix, len(aoi))
	// bundles are usually monochromatic; cache the last lookup
	lastW := math.NaN()
	var n1, n2 complex128
	for i, theta := range aoi {
		if w := wavelengths[i]; w != lastW {
			var err error
			if n1, err = complexIndex(f.pre, w); err != nil {
				return nil, fmt.Errorf("material before interface: %w", err)
			}
			if n2, err = complexIndex(f.post, w); err != nil {
				return nil, fmt.Errorf("material after interface: %w", err)
			}
			lastW = w
		}
		out[i] = fresnelMatrix(n1, n2, theta, reflect)
	}
	return out, nil
}

func complexIndex(m material.Material, wavelength float64) (complex128, error) {
	n, err := m.N(wavelength)
	if err != nil {
		return 0, err
	}
	k, err := m.K(wavelength)
	if err != nil {
		return 0, err
	}
	return complex(n, k), nil
}

func fresnelMatrix(n1, n2 complex128, theta float64, reflect bool) Matrix {
	cosI := complex(math.Cos(theta), 0)
	sinI := complex(math.Sin(theta), 0)
	ratio := n1 / n2
	cosT := cmplx.Sqrt(1 - ratio*ratio*sinI*sinI)

	a := n1 * cosI
	b := n2 * cosT
	c := n2 * cosI
	d := n1 * cosT

	if reflect {
		return Diag((a-b)/(a+b), (c-d)/(c+d))
	}

	ts := 2 * a / (a + b)
	tp := 2 * a / (c + d)
	den := real(a)
	num := real(b)
	if den <= 0 || num <= 0 {
		// grazing incidence or evanescent (TIR) transmitted wave
		return Matrix{}
	}
	scale := complex(math.Sqrt(num/den), 0)
	return Diag(ts*scale, tp*scale)
}
