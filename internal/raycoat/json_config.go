package raycoat

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/lukaszgryglicki/raycoat/internal/coordsys"
	"github.com/lukaszgryglicki/raycoat/internal/distribution"
	"github.com/lukaszgryglicki/raycoat/internal/geometry"
	"github.com/lukaszgryglicki/raycoat/internal/rays"
)

type DistributionCfg struct {
	Type      string `json:"type"`
	Num       int    `json:"num"`
	Seed      uint64 `json:"seed,omitempty"`
	Symmetric bool   `json:"symmetric,omitempty"` // gaussian_quadrature only
}

// Complex numbers as [re, im] pairs.
type PolarizationCfg struct {
	Polarized bool       `json:"polarized"`
	Es        [2]float64 `json:"es"`
	Ep        [2]float64 `json:"ep"`
}

// CatalogCfg names a coating in a SQLite catalog. With Save, the inline
// coating is stored under Coating before the run.
type CatalogCfg struct {
	Path    string `json:"path"`
	Coating string `json:"coating"`
	Save    bool   `json:"save,omitempty"`
}

type Config struct {
	Distribution DistributionCfg  `json:"distribution"`
	Coating      map[string]any   `json:"coating,omitempty"`
	Catalog      *CatalogCfg      `json:"catalog,omitempty"`
	Wavelengths  []float64        `json:"wavelengths"`
	PupilRadius  float64          `json:"pupilRadius,omitempty"`
	Field        [3]float64       `json:"field"`              // incident direction, normalized on load
	FieldDeg     *[2]float64      `json:"fieldDeg,omitempty"` // x, y tilt in degrees; overrides field
	Surface      map[string]any   `json:"surface,omitempty"`  // coordinate system dictionary
	Geometry     map[string]any   `json:"geometry,omitempty"` // surface shape; flat when absent
	Reflect      bool             `json:"reflect,omitempty"`
	Indices      [2]float64       `json:"indices,omitempty"` // before/after the surface, non-material coatings
	Polarization *PolarizationCfg `json:"polarization,omitempty"`
	CSVOut       string           `json:"csvOut,omitempty"`

	surface  *coordsys.CoordinateSystem
	geometry *geometry.Zernike
}

func (p *PolarizationCfg) State() rays.PolarizationState {
	if p == nil {
		return rays.PolarizationState{}
	}
	return rays.PolarizationState{
		Polarized: p.Polarized,
		Es:        complex(p.Es[0], p.Es[1]),
		Ep:        complex(p.Ep[0], p.Ep[1]),
	}
}

// fieldFromDeg turns x/y field angles into a direction cosine triple.
func fieldFromDeg(deg [2]float64) [3]float64 {
	const k = math.Pi / 180
	l, m := math.Sin(deg[0]*k), math.Sin(deg[1]*k)
	return [3]float64{l, m, math.Sqrt(math.Max(0, 1-l*l-m*m))}
}

// newDistribution builds a fresh sampler; workers each call it.
func (c DistributionCfg) newDistribution() (distribution.Distribution, error) {
	if c.Type == "gaussian_quadrature" {
		return distribution.NewGaussianQuadrature(c.Symmetric), nil
	}
	return distribution.New(c.Type, distribution.WithSeed(c.Seed))
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseConfig(data, path)
}

func parseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	// Defaults / validation
	if cfg.Distribution.Type == "" {
		cfg.Distribution.Type = DistributionType
	}
	if cfg.Distribution.Num <= 0 {
		cfg.Distribution.Num = DistributionNum
	}
	if _, err := cfg.Distribution.newDistribution(); err != nil {
		return nil, err
	}
	if len(cfg.Wavelengths) == 0 {
		cfg.Wavelengths = []float64{Wavelength}
	}
	for _, w := range cfg.Wavelengths {
		if !isFinite(w) || w <= 0 {
			return nil, fmt.Errorf("invalid wavelength %g", w)
		}
	}
	if cfg.PupilRadius <= 0 {
		cfg.PupilRadius = PupilRadius
	}
	if cfg.FieldDeg != nil {
		cfg.Field = fieldFromDeg(*cfg.FieldDeg)
	}
	if cfg.Field == ([3]float64{}) {
		cfg.Field = [3]float64{0, 0, 1}
	}
	norm := math.Sqrt(cfg.Field[0]*cfg.Field[0] + cfg.Field[1]*cfg.Field[1] + cfg.Field[2]*cfg.Field[2])
	if !isFinite(norm) || norm < minDirNorm {
		return nil, fmt.Errorf("invalid field direction %v", cfg.Field)
	}
	for i := range cfg.Field {
		cfg.Field[i] /= norm
	}
	if cfg.Indices[0] <= 0 {
		cfg.Indices[0] = IndexPre
	}
	if cfg.Indices[1] <= 0 {
		cfg.Indices[1] = IndexPost
	}
	cfg.surface = &coordsys.CoordinateSystem{}
	if cfg.Surface != nil {
		cs, err := coordsys.FromDict(cfg.Surface)
		if err != nil {
			return nil, fmt.Errorf("surface: %w", err)
		}
		cfg.surface = cs
	}
	cfg.geometry = geometry.NewPlane()
	if cfg.Geometry != nil {
		g, err := geometry.FromDict(cfg.Geometry)
		if err != nil {
			return nil, fmt.Errorf("geometry: %w", err)
		}
		cfg.geometry = g
	}
	if cfg.Coating == nil && cfg.Catalog == nil {
		return nil, fmt.Errorf("config has no coating")
	}
	if cfg.Catalog != nil && (cfg.Catalog.Path == "" || cfg.Catalog.Coating == "") {
		return nil, fmt.Errorf("catalog needs both path and coating")
	}
	if CSV && cfg.CSVOut == "" {
		cfg.CSVOut = CSVOut
	}
	DebugLog("Loaded config from %s: distribution=%s(%d), wavelengths=%d, field=%v, reflect=%v",
		path, cfg.Distribution.Type, cfg.Distribution.Num, len(cfg.Wavelengths), cfg.Field, cfg.Reflect)
	return &cfg, nil
}
