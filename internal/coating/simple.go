package coating

import "gonum.org/v1/gonum/floats"

// SimpleCoating scales intensity by constant reflectance and transmittance,
// independent of angle and polarization.
//
// Reflectance + Transmittance is not checked against 1; Absorptance may be
// negative for inconsistent inputs.
type SimpleCoating struct {
	Transmittance float64
	Reflectance   float64
}

func NewSimpleCoating(transmittance, reflectance float64) *SimpleCoating {
	return &SimpleCoating{Transmittance: transmittance, Reflectance: reflectance}
}

func (c *SimpleCoating) Absorptance() float64 {
	return 1 - c.Reflectance - c.Transmittance
}

// Reflect ignores the normals; they may be nil.
func (c *SimpleCoating) Reflect(r Rays, _, _, _ []float64) error {
	floats.Scale(c.Reflectance, r.Intensity())
	return nil
}

// Transmit ignores the normals; they may be nil.
func (c *SimpleCoating) Transmit(r Rays, _, _, _ []float64) error {
	floats.Scale(c.Transmittance, r.Intensity())
	return nil
}

func (c *SimpleCoating) Interact(r Rays, reflect bool, nx, ny, nz []float64) error {
	return Interact(c, r, reflect, nx, ny, nz)
}

func (c *SimpleCoating) Kind() Kind { return KindSimple }

func (c *SimpleCoating) ToDict() map[string]any {
	return map[string]any{
		"type":          KindSimple.String(),
		"transmittance": c.Transmittance,
		"reflectance":   c.Reflectance,
	}
}

func simpleFromDict(data map[string]any) (Coating, error) {
	t, err := floatKey(data, "transmittance")
	if err != nil {
		return nil, err
	}
	r, err := floatKey(data, "reflectance")
	if err != nil {
		return nil, err
	}
	return NewSimpleCoating(t, r), nil
}
