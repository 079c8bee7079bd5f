// Package material provides refractive-index models used by polarized coatings.
package material

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMaterial = errors.New("unknown material type")
	ErrMissingKey      = errors.New("missing required key")
	ErrWavelengthRange = errors.New("wavelength out of range for this model")
)

// Material reports the complex refractive index n + ik at a wavelength in microns.
type Material interface {
	N(wavelength float64) (float64, error)
	K(wavelength float64) (float64, error)
	Kind() string
	ToDict() map[string]any
}

const (
	kindIdeal = "IdealMaterial"
	kindAbbe  = "AbbeMaterial"
)

// FromDict rebuilds a material from its dictionary form.
func FromDict(data map[string]any) (Material, error) {
	kind, ok := data["type"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: type", ErrMissingKey)
	}
	switch kind {
	case kindIdeal:
		n, err := floatKey(data, "index")
		if err != nil {
			return nil, err
		}
		k := 0.0
		if _, ok := data["absorp"]; ok {
			if k, err = floatKey(data, "absorp"); err != nil {
				return nil, err
			}
		}
		return NewIdeal(n, k), nil
	case kindAbbe:
		n, err := floatKey(data, "index")
		if err != nil {
			return nil, err
		}
		v, err := floatKey(data, "abbe")
		if err != nil {
			return nil, err
		}
		return NewAbbe(n, v)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, kind)
}

func floatKey(data map[string]any, key string) (float64, error) {
	raw, ok := data[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingKey, key)
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("%w: %s is %T, not a number", ErrMissingKey, key, raw)
}
