package distribution

import (
	"math"
	"math/rand/v2"
)

// LineX samples the x axis, from -1 (or 0 when PositiveOnly) to 1.
type LineX struct {
	points
	PositiveOnly bool
}

func (d *LineX) GeneratePoints(n int) error {
	if err := checkCount(n); err != nil {
		return err
	}
	lo := -1.0
	if d.PositiveOnly {
		lo = 0
	}
	d.x = linspace(n, lo, 1)
	d.y = make([]float64, n)
	return nil
}

// LineY samples the y axis, from -1 (or 0 when PositiveOnly) to 1.
type LineY struct {
	points
	PositiveOnly bool
}

func (d *LineY) GeneratePoints(n int) error {
	if err := checkCount(n); err != nil {
		return err
	}
	lo := -1.0
	if d.PositiveOnly {
		lo = 0
	}
	d.x = make([]float64, n)
	d.y = linspace(n, lo, 1)
	return nil
}

// Random samples the disk uniformly by area: r ~ U(0,1), θ ~ U(0,2π),
// (x, y) = √r (cos θ, sin θ). The same seed yields the same points.
type Random struct {
	points
	Seed uint64
}

func NewRandom(seed uint64) *Random { return &Random{Seed: seed} }

func (d *Random) GeneratePoints(n int) error {
	if err := checkCount(n); err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(d.Seed, d.Seed))
	r := make([]float64, n)
	for i := range r {
		r[i] = rng.Float64()
	}
	d.x = make([]float64, n)
	d.y = make([]float64, n)
	for i := range r {
		theta := 2 * math.Pi * rng.Float64()
		s := math.Sqrt(r[i])
		d.x[i] = s * math.Cos(theta)
		d.y[i] = s * math.Sin(theta)
	}
	return nil
}

// Hexapolar places the origin followed by n rings; ring i (0-based) has
// radius (i+1)/n and 6(i+1) points starting at θ = 0.
type Hexapolar struct {
	points
}

func (d *Hexapolar) GeneratePoints(numRings int) error {
	if err := checkCount(numRings); err != nil {
		return err
	}
	total := 1 + 3*numRings*(numRings+1)
	d.x = make([]float64, 1, total)
	d.y = make([]float64, 1, total)
	r := linspace(numRings+1, 0, 1)
	for i := 0; i < numRings; i++ {
		numTheta := 6 * (i + 1)
		theta := linspace(numTheta+1, 0, 2*math.Pi)[:numTheta]
		for _, t := range theta {
			d.x = append(d.x, r[i+1]*math.Cos(t))
			d.y = append(d.y, r[i+1]*math.Sin(t))
		}
	}
	return nil
}

// Cross is a y-axis line followed by an x-axis line. For odd n the x-axis
// copy of the origin is dropped.
type Cross struct {
	points
}

func (d *Cross) GeneratePoints(n int) error {
	if err := checkCount(n); err != nil {
		return err
	}
	line := linspace(n, -1, 1)
	xs := line
	if n%2 == 1 {
		mid := n / 2
		xs = append(append(make([]float64, 0, n-1), line[:mid]...), line[mid+1:]...)
	}
	d.x = append(make([]float64, n, n+len(xs)), xs...)
	d.y = append(append(make([]float64, 0, n+len(xs)), line...), make([]float64, len(xs))...)
	return nil
}

// Uniform keeps the points of an n x n grid over [-1, 1]^2 that lie inside
// the unit disk, in row-major (y outer, x inner) order.
type Uniform struct {
	points
}

func (d *Uniform) GeneratePoints(n int) error {
	if err := checkCount(n); err != nil {
		return err
	}
	line := linspace(n, -1, 1)
	d.x = make([]float64, 0, n*n)
	d.y = make([]float64, 0, n*n)
	for _, y := range line {
		for _, x := range line {
			if x*x+y*y <= 1 {
				d.x = append(d.x, x)
				d.y = append(d.y, y)
			}
		}
	}
	return nil
}
