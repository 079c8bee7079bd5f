package material

import (
	"errors"
	"fmt"
)

// Fraunhofer lines, microns.
const (
	lambdaD = 0.5875618
	lambdaF = 0.4861327
	lambdaC = 0.6562725

	abbeMinWavelength = 0.380
	abbeMaxWavelength = 0.750
)

// Abbe models a glass from its d-line index and Abbe number using a two-term
// Cauchy dispersion n(λ) = A + B/λ², fitted so that n(λd) = nd and
// n(λF) - n(λC) = (nd - 1)/Vd. Away from the d-line this differs slightly
// from catalog polynomial fits. Extinction is always zero.
type Abbe struct {
	Index float64
	Abbe  float64

	a, b float64
}

func NewAbbe(index, abbe float64) (*Abbe, error) {
	if abbe <= 0 {
		return nil, fmt.Errorf("abbe number must be positive, got %g", abbe)
	}
	if index < 1 {
		return nil, errors.New("d-line index must be >= 1")
	}
	b := (index - 1) / abbe / (1/(lambdaF*lambdaF) - 1/(lambdaC*lambdaC))
	return &Abbe{
		Index: index,
		Abbe:  abbe,
		a:     index - b/(lambdaD*lambdaD),
		b:     b,
	}, nil
}

func (m *Abbe) N(wavelength float64) (float64, error) {
	if wavelength < abbeMinWavelength || wavelength > abbeMaxWavelength {
		return 0, fmt.Errorf("%w: %g µm", ErrWavelengthRange, wavelength)
	}
	return m.a + m.b/(wavelength*wavelength), nil
}

func (m *Abbe) K(float64) (float64, error) { return 0, nil }
func (m *Abbe) Kind() string               { return kindAbbe }

func (m *Abbe) ToDict() map[string]any {
	return map[string]any{
		"type":  kindAbbe,
		"index": m.Index,
		"abbe":  m.Abbe,
	}
}
