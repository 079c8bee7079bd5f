// Package coordsys positions surfaces in space. A CoordinateSystem is an
// origin plus x, y, z rotation angles, optionally nested inside a reference
// system.
package coordsys

import (
	"errors"
	"fmt"
	"math"

	"github.com/lukaszgryglicki/raycoat/internal/rays"
	"gonum.org/v1/gonum/mat"
)

var ErrBadValue = errors.New("invalid coordinate system value")

type CoordinateSystem struct {
	X, Y, Z    float64
	RX, RY, RZ float64
	Reference  *CoordinateSystem
}

// Localize moves rays from the parent frame into this one, resolving the
// reference chain first.
func (cs *CoordinateSystem) Localize(r *rays.RealRays) {
	if cs.Reference != nil {
		cs.Reference.Localize(r)
	}
	r.Translate(-cs.X, -cs.Y, -cs.Z)
	if cs.RZ != 0 {
		r.RotateZ(-cs.RZ)
	}
	if cs.RY != 0 {
		r.RotateY(-cs.RY)
	}
	if cs.RX != 0 {
		r.RotateX(-cs.RX)
	}
}

// Globalize is the inverse of Localize.
func (cs *CoordinateSystem) Globalize(r *rays.RealRays) {
	if cs.RX != 0 {
		r.RotateX(cs.RX)
	}
	if cs.RY != 0 {
		r.RotateY(cs.RY)
	}
	if cs.RZ != 0 {
		r.RotateZ(cs.RZ)
	}
	r.Translate(cs.X, cs.Y, cs.Z)
	if cs.Reference != nil {
		cs.Reference.Globalize(r)
	}
}

// PositionInGCS returns the origin of this system in global coordinates.
func (cs *CoordinateSystem) PositionInGCS() (x, y, z float64) {
	one := []float64{1}
	r, _ := rays.NewRealRays([]float64{0}, []float64{0}, []float64{0},
		[]float64{0}, []float64{0}, one, one, one)
	cs.Globalize(r)
	return r.X[0], r.Y[0], r.Z[0]
}

// RotationMatrix returns Rz·Ry·Rx for this system alone.
func (cs *CoordinateSystem) RotationMatrix() *mat.Dense {
	cx, sx := math.Cos(cs.RX), math.Sin(cs.RX)
	cy, sy := math.Cos(cs.RY), math.Sin(cs.RY)
	cz, sz := math.Cos(cs.RZ), math.Sin(cs.RZ)
	rx := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, cx, -sx,
		0, sx, cx,
	})
	ry := mat.NewDense(3, 3, []float64{
		cy, 0, sy,
		0, 1, 0,
		-sy, 0, cy,
	})
	rz := mat.NewDense(3, 3, []float64{
		cz, -sz, 0,
		sz, cz, 0,
		0, 0, 1,
	})
	var zy, out mat.Dense
	zy.Mul(rz, ry)
	out.Mul(&zy, rx)
	return &out
}

// EffectiveTransform folds the reference chain into one translation and
// rotation: t = t_ref + R_ref·t, R = R_ref·R.
func (cs *CoordinateSystem) EffectiveTransform() (*mat.VecDense, *mat.Dense) {
	t := mat.NewVecDense(3, []float64{cs.X, cs.Y, cs.Z})
	rot := cs.RotationMatrix()
	if cs.Reference == nil {
		return t, rot
	}
	refT, refR := cs.Reference.EffectiveTransform()
	var effT mat.VecDense
	effT.MulVec(refR, t)
	effT.AddVec(refT, &effT)
	var effR mat.Dense
	effR.Mul(refR, rot)
	return &effT, &effR
}

// EffectiveEuler returns the effective rotation as extrinsic x, y, z angles,
// the inverse of RotationMatrix.
func (cs *CoordinateSystem) EffectiveEuler() (rx, ry, rz float64) {
	_, r := cs.EffectiveTransform()
	s := -r.At(2, 0)
	s = math.Max(-1, math.Min(1, s))
	ry = math.Asin(s)
	if math.Abs(s) > 1-1e-12 {
		// gimbal lock: fold everything into rz
		return 0, ry, math.Atan2(-r.At(0, 1), r.At(1, 1))
	}
	rx = math.Atan2(r.At(2, 1), r.At(2, 2))
	rz = math.Atan2(r.At(1, 0), r.At(0, 0))
	return rx, ry, rz
}

func (cs *CoordinateSystem) ToDict() map[string]any {
	d := map[string]any{
		"x":            cs.X,
		"y":            cs.Y,
		"z":            cs.Z,
		"rx":           cs.RX,
		"ry":           cs.RY,
		"rz":           cs.RZ,
		"reference_cs": nil,
	}
	if cs.Reference != nil {
		d["reference_cs"] = cs.Reference.ToDict()
	}
	return d
}

// FromDict accepts missing keys as zero; reference_cs may be absent or nil.
func FromDict(data map[string]any) (*CoordinateSystem, error) {
	cs := &CoordinateSystem{}
	fields := []struct {
		key string
		dst *float64
	}{
		{"x", &cs.X}, {"y", &cs.Y}, {"z", &cs.Z},
		{"rx", &cs.RX}, {"ry", &cs.RY}, {"rz", &cs.RZ},
	}
	for _, f := range fields {
		raw, ok := data[f.key]
		if !ok || raw == nil {
			continue
		}
		v, err := toFloat(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrBadValue, f.key, err)
		}
		*f.dst = v
	}
	switch ref := data["reference_cs"].(type) {
	case nil:
	case map[string]any:
		parent, err := FromDict(ref)
		if err != nil {
			return nil, fmt.Errorf("reference_cs: %w", err)
		}
		cs.Reference = parent
	default:
		return nil, fmt.Errorf("%w: reference_cs is %T", ErrBadValue, ref)
	}
	return cs, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("%T is not a number", v)
}
