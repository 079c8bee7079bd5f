package material

// Ideal has a wavelength-independent index and extinction coefficient.
type Ideal struct {
	Index      float64
	Absorption float64
}

func NewIdeal(index, absorption float64) *Ideal {
	return &Ideal{Index: index, Absorption: absorption}
}

func (m *Ideal) N(float64) (float64, error) { return m.Index, nil }
func (m *Ideal) K(float64) (float64, error) { return m.Absorption, nil }
func (m *Ideal) Kind() string               { return kindIdeal }

func (m *Ideal) ToDict() map[string]any {
	return map[string]any{
		"type":   kindIdeal,
		"index":  m.Index,
		"absorp": m.Absorption,
	}
}
