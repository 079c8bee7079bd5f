package coating

import (
	"fmt"

	"github.com/lukaszgryglicki/raycoat/internal/jones"
	"github.com/lukaszgryglicki/raycoat/internal/material"
)

// polarizedSupport is the shared AOI -> Jones -> update sequence of
// polarization-aware coatings.
type polarizedSupport struct {
	jones jones.Calculator
}

func (p polarizedSupport) apply(r Rays, reflect bool, nx, ny, nz []float64) error {
	aoi, err := ComputeAOI(r, nx, ny, nz)
	if err != nil {
		return err
	}
	m, err := p.jones.CalculateMatrices(r.Wavelengths(), aoi, reflect)
	if err != nil {
		return fmt.Errorf("jones matrices: %w", err)
	}
	return r.Update(m)
}

// FresnelCoating models an uncoated interface between two materials.
type FresnelCoating struct {
	polarizedSupport
	MaterialPre  material.Material
	MaterialPost material.Material
}

func NewFresnelCoating(pre, post material.Material) *FresnelCoating {
	return &FresnelCoating{
		polarizedSupport: polarizedSupport{jones: jones.NewFresnel(pre, post)},
		MaterialPre:      pre,
		MaterialPost:     post,
	}
}

func (c *FresnelCoating) Reflect(r Rays, nx, ny, nz []float64) error {
	return c.apply(r, true, nx, ny, nz)
}

func (c *FresnelCoating) Transmit(r Rays, nx, ny, nz []float64) error {
	return c.apply(r, false, nx, ny, nz)
}

func (c *FresnelCoating) Interact(r Rays, reflect bool, nx, ny, nz []float64) error {
	return Interact(c, r, reflect, nx, ny, nz)
}

func (c *FresnelCoating) Kind() Kind { return KindFresnel }

func (c *FresnelCoating) ToDict() map[string]any {
	return map[string]any{
		"type":          KindFresnel.String(),
		"material_pre":  c.MaterialPre.ToDict(),
		"material_post": c.MaterialPost.ToDict(),
	}
}

func fresnelFromDict(data map[string]any) (Coating, error) {
	pre, err := materialKey(data, "material_pre")
	if err != nil {
		return nil, err
	}
	post, err := materialKey(data, "material_post")
	if err != nil {
		return nil, err
	}
	return NewFresnelCoating(pre, post), nil
}

func materialKey(data map[string]any, key string) (material.Material, error) {
	raw, ok := data[key].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, key)
	}
	m, err := material.FromDict(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return m, nil
}
