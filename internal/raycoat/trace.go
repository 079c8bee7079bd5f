package raycoat

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/lukaszgryglicki/raycoat/internal/coating"
	"github.com/lukaszgryglicki/raycoat/internal/distribution"
	"github.com/lukaszgryglicki/raycoat/internal/rays"
)

// Result is one wavelength of a sweep. Per-ray slices follow the pupil
// sampling order.
type Result struct {
	Wavelength float64
	X, Y       []float64 // pupil coordinates, scaled by the pupil radius
	Weights    []float64
	Intensity  []float64
	Throughput float64 // weighted mean intensity
	Counts     map[Category]int
}

// tracer owns everything one worker mutates. Each tracer decodes its own
// coating copy so workers share no coating state.
type tracer struct {
	cfg     *Config
	coating coating.Coating
	dist    distribution.Distribution
}

func newTracer(cfg *Config, ct coating.Coating) (*tracer, error) {
	d, err := cfg.Distribution.newDistribution()
	if err != nil {
		return nil, err
	}
	own, err := coating.FromDict(ct.ToDict())
	if err != nil {
		return nil, fmt.Errorf("copy coating: %w", err)
	}
	return &tracer{cfg: cfg, coating: own, dist: d}, nil
}

// indices returns the refraction indices on both sides of the surface.
// Material coatings define their own.
func (tr *tracer) indices(wavelength float64) (float64, float64, error) {
	f, ok := tr.coating.(*coating.FresnelCoating)
	if !ok {
		return tr.cfg.Indices[0], tr.cfg.Indices[1], nil
	}
	n1, err := f.MaterialPre.N(wavelength)
	if err != nil {
		return 0, 0, err
	}
	n2, err := f.MaterialPost.N(wavelength)
	if err != nil {
		return 0, 0, err
	}
	return n1, n2, nil
}

// traceWavelength launches a collimated bundle through the pupil samples,
// moves it into the surface frame and onto the surface, bends it about the
// local normals and applies the coating.
func (tr *tracer) traceWavelength(wavelength float64) (*Result, error) {
	cfg := tr.cfg
	if err := tr.dist.GeneratePoints(cfg.Distribution.Num); err != nil {
		return nil, err
	}
	weights, err := distribution.Weights(tr.dist, cfg.Distribution.Num)
	if err != nil {
		return nil, err
	}
	pts := distribution.Points(tr.dist)
	n := len(pts)
	x, y := make([]float64, n), make([]float64, n)
	for i, p := range pts {
		p.IMul(cfg.PupilRadius)
		x[i], y[i] = p.X, p.Y
	}

	r, err := rays.NewRealRays(x, y, make([]float64, n),
		filled(n, cfg.Field[0]), filled(n, cfg.Field[1]), filled(n, cfg.Field[2]),
		filled(n, 1), filled(n, wavelength))
	if err != nil {
		return nil, err
	}
	cfg.surface.Localize(r)
	// nested rotations drift from unit length
	r.NormalizeDirections()
	nx, ny, nz, hit := cfg.geometry.Intersect(r)

	n1, n2, err := tr.indices(wavelength)
	if err != nil {
		return nil, err
	}
	cats := make([]Category, n)
	eta := n1 / n2
	for i := range cats {
		switch {
		case !hit[i]:
			cats[i] = Miss
			r.I[i] = 0
		case cfg.Reflect:
			cats[i] = Reflect
		case tir(eta, r.L[i]*nx[i]+r.M[i]*ny[i]+r.N[i]*nz[i]):
			cats[i] = TIR
		default:
			cats[i] = Transmit
		}
	}

	if cfg.Reflect {
		err = r.Reflect(nx, ny, nz)
	} else {
		err = r.Refract(nx, ny, nz, filled(n, n1), filled(n, n2))
	}
	if err != nil {
		return nil, err
	}

	var bundle coating.Rays = r
	if state := cfg.Polarization.State(); state.Polarized {
		pr, err := rays.NewPolarizedRays(r, state)
		if err != nil {
			return nil, err
		}
		bundle = pr
	}
	if err := tr.coating.Interact(bundle, cfg.Reflect, nx, ny, nz); err != nil {
		return nil, fmt.Errorf("%s: %w", tr.coating.Kind(), err)
	}
	cfg.surface.Globalize(r)

	res := &Result{
		Wavelength: wavelength,
		X:          x,
		Y:          y,
		Weights:    weights,
		Intensity:  r.I,
		Counts:     make(map[Category]int),
	}
	for _, c := range cats {
		res.Counts[c]++
	}
	if total := floats.Sum(weights); total > 0 {
		res.Throughput = floats.Dot(weights, r.I) / total
	}
	if !isFinite(res.Throughput) {
		return nil, fmt.Errorf("non-finite throughput at %g µm", wavelength)
	}

	if Debug {
		aoi, err := coating.ComputeAOI(r, nx, ny, nz)
		if err != nil {
			return nil, err
		}
		name := fmt.Sprintf("%.4f", wavelength)
		for i, c := range cats {
			logInteraction(name, c, wavelength, aoi[i], r.I[i])
		}
		DebugLog("λ=%.4f µm: %d rays, throughput=%.6f, max AOI=%.2f°",
			wavelength, n, res.Throughput, floats.Max(append(aoi, 0))*180/math.Pi)
	}
	return res, nil
}

// tir reports total internal reflection for index ratio eta and the cosine
// between ray and normal.
func tir(eta, cos float64) bool {
	return eta*eta*(1-cos*cos) > 1
}
