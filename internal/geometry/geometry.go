// Package geometry describes the shape of an optical surface in its own
// coordinate frame: a conic base with an optional Fringe Zernike departure.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/lukaszgryglicki/raycoat/internal/rays"
)

var (
	ErrOutsideNorm = errors.New("coordinates outside the Zernike normalization radius")
	ErrBadGeometry = errors.New("invalid geometry")
)

const (
	zernikeType    = "ZernikePolynomialGeometry"
	defaultTol     = 1e-10
	defaultMaxIter = 100
)

// Zernike is a conic surface plus Fringe Zernike terms:
//
//	z = c r² / (1 + sqrt(1 - (1+k) c² r²)) + Σ sqrt(2j/π) C[j-1] Z_j(ρ, θ)
//
// with c = 1/Radius and ρ = r / NormRadius. Radius 0 is a flat base.
// Fields are read-only once built by New.
type Zernike struct {
	Radius       float64
	Conic        float64
	Coefficients []float64
	NormRadius   float64
	Tol          float64 // Newton-Raphson convergence on |z - sag|
	MaxIter      int

	terms []term
}

// New builds a surface; coefficients[j-1] weighs the j-th Fringe term.
func New(radius, conic float64, coefficients []float64, normRadius float64) (*Zernike, error) {
	if !isFinite(radius) || !isFinite(conic) {
		return nil, fmt.Errorf("%w: radius %g, conic %g", ErrBadGeometry, radius, conic)
	}
	if !(normRadius > 0) || math.IsInf(normRadius, 1) {
		return nil, fmt.Errorf("%w: normalization radius %g", ErrBadGeometry, normRadius)
	}
	g := &Zernike{
		Radius:       radius,
		Conic:        conic,
		Coefficients: append([]float64(nil), coefficients...),
		NormRadius:   normRadius,
		Tol:          defaultTol,
		MaxIter:      defaultMaxIter,
	}
	for i, c := range g.Coefficients {
		if !isFinite(c) {
			return nil, fmt.Errorf("%w: coefficient %d is %g", ErrBadGeometry, i, c)
		}
		if c != 0 {
			g.terms = append(g.terms, newTerm(i+1, c))
		}
	}
	return g, nil
}

// NewPlane is the flat surface z = 0.
func NewPlane() *Zernike {
	g, _ := New(0, 0, nil, 1)
	return g
}

func (g *Zernike) curvature() float64 {
	if g.Radius == 0 {
		return 0
	}
	return 1 / g.Radius
}

// base returns the conic sag and its x/y slopes. Points beyond the conic's
// aperture give NaN.
func (g *Zernike) base(x, y float64) (z, dzdx, dzdy float64) {
	c := g.curvature()
	if c == 0 {
		return 0, 0, 0
	}
	r2 := x*x + y*y
	root := math.Sqrt(1 - (1+g.Conic)*c*c*r2)
	return c * r2 / (1 + root), c * x / root, c * y / root
}

func (g *Zernike) sagAt(x, y float64) float64 {
	z, _, _ := g.base(x, y)
	u, v := x/g.NormRadius, y/g.NormRadius
	for _, t := range g.terms {
		val, _, _ := t.eval(u, v)
		z += val
	}
	return z
}

func (g *Zernike) slopeAt(x, y float64) (dzdx, dzdy float64) {
	_, dzdx, dzdy = g.base(x, y)
	u, v := x/g.NormRadius, y/g.NormRadius
	for _, t := range g.terms {
		_, du, dv := t.eval(u, v)
		dzdx += du / g.NormRadius
		dzdy += dv / g.NormRadius
	}
	return dzdx, dzdy
}

// normal is the unit normal from the slopes, oriented towards +z.
func normal(dzdx, dzdy float64) (nx, ny, nz float64) {
	n := math.Sqrt(dzdx*dzdx + dzdy*dzdy + 1)
	return -dzdx / n, -dzdy / n, 1 / n
}

// outside reports whether a Zernike term would be evaluated off its
// normalized square. A pure conic is defined everywhere.
func (g *Zernike) outside(x, y float64) bool {
	if len(g.terms) == 0 {
		return false
	}
	return math.Abs(x/g.NormRadius) > 1 || math.Abs(y/g.NormRadius) > 1
}

func (g *Zernike) check(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d x values, %d y values", ErrBadGeometry, len(x), len(y))
	}
	for i := range x {
		if g.outside(x[i], y[i]) {
			return fmt.Errorf("%w: (%g, %g) with radius %g", ErrOutsideNorm, x[i], y[i], g.NormRadius)
		}
	}
	return nil
}

// Sag returns the surface height at each (x, y).
func (g *Zernike) Sag(x, y []float64) ([]float64, error) {
	if err := g.check(x, y); err != nil {
		return nil, err
	}
	z := make([]float64, len(x))
	for i := range x {
		z[i] = g.sagAt(x[i], y[i])
	}
	return z, nil
}

// SurfaceNormal returns unit normals at each (x, y), pointing towards +z.
func (g *Zernike) SurfaceNormal(x, y []float64) (nx, ny, nz []float64, err error) {
	if err := g.check(x, y); err != nil {
		return nil, nil, nil, err
	}
	nx, ny, nz = make([]float64, len(x)), make([]float64, len(x)), make([]float64, len(x))
	for i := range x {
		nx[i], ny[i], nz[i] = normal(g.slopeAt(x[i], y[i]))
	}
	return nx, ny, nz, nil
}

// Intersect moves rays, already in the surface frame, along their lines
// onto the surface and returns the normals there. Rays parallel to the
// vertex plane, rays whose Newton iteration fails and rays landing outside
// the normalization radius are reported false and get the vertex normal.
func (g *Zernike) Intersect(r *rays.RealRays) (nx, ny, nz []float64, hit []bool) {
	n := r.Len()
	nx, ny, nz = make([]float64, n), make([]float64, n), make([]float64, n)
	for i := range nz {
		nz[i] = 1
	}
	hit = r.PropagateToPlane()
	for i := range hit {
		if !hit[i] {
			continue
		}
		if !g.newton(r, i) || g.outside(r.X[i], r.Y[i]) {
			hit[i] = false
			continue
		}
		nx[i], ny[i], nz[i] = normal(g.slopeAt(r.X[i], r.Y[i]))
	}
	return nx, ny, nz, hit
}

// newton solves z(t) = sag(x(t), y(t)) for ray i starting from its current
// position.
func (g *Zernike) newton(r *rays.RealRays, i int) bool {
	for iter := 0; iter <= g.MaxIter; iter++ {
		f := r.Z[i] - g.sagAt(r.X[i], r.Y[i])
		if !isFinite(f) {
			return false
		}
		if math.Abs(f) < g.Tol {
			return true
		}
		if iter == g.MaxIter {
			break
		}
		dzdx, dzdy := g.slopeAt(r.X[i], r.Y[i])
		df := r.N[i] - r.L[i]*dzdx - r.M[i]*dzdy
		if df == 0 || !isFinite(df) {
			return false
		}
		t := -f / df
		r.X[i] += t * r.L[i]
		r.Y[i] += t * r.M[i]
		r.Z[i] += t * r.N[i]
	}
	return false
}

func (g *Zernike) ToDict() map[string]any {
	return map[string]any{
		"type":         zernikeType,
		"radius":       g.Radius,
		"conic":        g.Conic,
		"coefficients": append([]float64(nil), g.Coefficients...),
		"norm_radius":  g.NormRadius,
		"tol":          g.Tol,
		"max_iter":     g.MaxIter,
	}
}

// FromDict rebuilds a surface from ToDict output. Only radius is required.
func FromDict(data map[string]any) (*Zernike, error) {
	if kind, ok := data["type"]; ok && kind != zernikeType {
		return nil, fmt.Errorf("%w: unknown type %v", ErrBadGeometry, kind)
	}
	if _, ok := data["radius"]; !ok {
		return nil, fmt.Errorf("%w: missing radius", ErrBadGeometry)
	}
	radius, err := floatKey(data, "radius", 0)
	if err != nil {
		return nil, err
	}
	conic, err := floatKey(data, "conic", 0)
	if err != nil {
		return nil, err
	}
	norm, err := floatKey(data, "norm_radius", 1)
	if err != nil {
		return nil, err
	}
	var coefs []float64
	switch v := data["coefficients"].(type) {
	case nil:
	case []float64:
		coefs = v
	case []any:
		for i, c := range v {
			f, ok := c.(float64)
			if !ok {
				return nil, fmt.Errorf("%w: coefficient %d is %T", ErrBadGeometry, i, c)
			}
			coefs = append(coefs, f)
		}
	default:
		return nil, fmt.Errorf("%w: coefficients is %T", ErrBadGeometry, v)
	}
	g, err := New(radius, conic, coefs, norm)
	if err != nil {
		return nil, err
	}
	if g.Tol, err = floatKey(data, "tol", defaultTol); err != nil {
		return nil, err
	}
	maxIter, err := floatKey(data, "max_iter", defaultMaxIter)
	if err != nil {
		return nil, err
	}
	g.MaxIter = int(maxIter)
	if !(g.Tol > 0) || g.MaxIter < 1 {
		return nil, fmt.Errorf("%w: tol %g, max_iter %d", ErrBadGeometry, g.Tol, g.MaxIter)
	}
	return g, nil
}

func floatKey(data map[string]any, key string, def float64) (float64, error) {
	switch v := data[key].(type) {
	case nil:
		return def, nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: %s is %T, not a number", ErrBadGeometry, key, v)
	}
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
