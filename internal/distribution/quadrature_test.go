package distribution

import (
	"errors"
	"math"
	"testing"
)

func TestGaussianQuadratureSymmetric(t *testing.T) {
	want := map[int][]float64{
		1: {0.70711},
		2: {0.4597, 0.88807},
		3: {0.33571, 0.70711, 0.94196},
		4: {0.2635, 0.57446, 0.81853, 0.96466},
		5: {0.21659, 0.48038, 0.70711, 0.87706, 0.97626},
		6: {0.18375, 0.41158, 0.617, 0.78696, 0.91138, 0.983},
	}
	for k, x := range want {
		d := NewGaussianQuadrature(true)
		if err := d.GeneratePoints(k); err != nil {
			t.Fatal(err)
		}
		assertClose(t, "symmetric x", d.X(), x, 1e-12)
		assertClose(t, "symmetric y", d.Y(), make([]float64, k), 0)
	}
}

func TestGaussianQuadratureAsymmetric(t *testing.T) {
	cases := []struct {
		rings int
		x, y  []float64
	}{
		{
			rings: 1,
			x:     []float64{0.35355500073276686, 0.70711, 0.35355500073276686},
			y:     []float64{-0.6123752228469513, 0.0, 0.6123752228469513},
		},
		{
			rings: 2,
			x: []float64{
				0.22985000047637977, 0.4597, 0.22985000047637977,
				0.4440350009202928, 0.88807, 0.4440350009202928,
			},
			y: []float64{
				-0.39811187784466845, 0.0, 0.39811187784466845,
				-0.7690911798075152, 0.0, 0.7690911798075152,
			},
		},
		{
			rings: 3,
			x: []float64{
				0.16785500034789091, 0.33571, 0.16785500034789091,
				0.35355500073276686, 0.70711, 0.35355500073276686,
				0.4709800009761381, 0.94196, 0.4709800009761381,
			},
			y: []float64{
				-0.290733388103619, 0.0, 0.290733388103619,
				-0.6123752228469513, 0.0, 0.6123752228469513,
				-0.8157612887852163, 0.0, 0.8157612887852163,
			},
		},
		{
			rings: 6,
			x: []float64{
				0.0918750001904172, 0.18375, 0.0918750001904172,
				0.2057900004265138, 0.41158, 0.2057900004265138,
				0.30850000063938726, 0.617, 0.30850000063938726,
				0.3934800008155141, 0.78696, 0.3934800008155141,
				0.45569000094444856, 0.91138, 0.45569000094444856,
				0.4915000010186672, 0.983, 0.4915000010186672,
			},
			y: []float64{
				-0.15913216783545317, 0.0, 0.15913216783545317,
				-0.3564387354433514, 0.0, 0.3564387354433514,
				-0.5343376737658482, 0.0, 0.5343376737658482,
				-0.6815273512913645, 0.0, 0.6815273512913645,
				-0.7892782319557841, 0.0, 0.7892782319557841,
				-0.8513029713319753, 0.0, 0.8513029713319753,
			},
		},
	}
	for _, tc := range cases {
		d := NewGaussianQuadrature(false)
		if err := d.GeneratePoints(tc.rings); err != nil {
			t.Fatal(err)
		}
		assertClose(t, "asymmetric x", d.X(), tc.x, 1e-8)
		assertClose(t, "asymmetric y", d.Y(), tc.y, 1e-8)
	}
}

func TestGaussianQuadratureRadiiInsideDisk(t *testing.T) {
	for k := 1; k <= maxQuadratureRings; k++ {
		d := NewGaussianQuadrature(false)
		if err := d.GeneratePoints(k); err != nil {
			t.Fatal(err)
		}
		for i := range d.X() {
			r := math.Hypot(d.X()[i], d.Y()[i])
			if r <= 0 || r >= 1 {
				t.Fatalf("k=%d point %d radius %g not in (0,1)", k, i, r)
			}
		}
	}
}

func TestGaussianQuadratureWeights(t *testing.T) {
	table := map[int][]float64{
		1: {0.5},
		2: {0.25, 0.25},
		3: {0.13889, 0.22222, 0.13889},
		4: {0.08696, 0.16304, 0.16304, 0.08696},
		5: {0.059231, 0.11966, 0.14222, 0.11966, 0.059231},
		6: {0.04283, 0.09019, 0.11698, 0.11698, 0.09019, 0.04283},
	}
	for k, ring := range table {
		sym := NewGaussianQuadrature(true)
		w, err := sym.GetWeights(k)
		if err != nil {
			t.Fatal(err)
		}
		scaled := make([]float64, len(w))
		for i := range w {
			scaled[i] = w[i] / 6
		}
		assertClose(t, "symmetric weights/6", scaled, ring, 1e-12)

		asym := NewGaussianQuadrature(false)
		w, err = asym.GetWeights(k)
		if err != nil {
			t.Fatal(err)
		}
		if len(w) != 3*k {
			t.Fatalf("k=%d: %d asymmetric weights", k, len(w))
		}
		for i := range w {
			if !nearly(w[i]/2, ring[i/3], 1e-12) {
				t.Fatalf("k=%d: asymmetric weight %d = %g, want 2*%g", k, i, w[i], ring[i/3])
			}
		}

		raw, err := RingWeights(k)
		if err != nil {
			t.Fatal(err)
		}
		assertClose(t, "ring weights", raw, ring, 0)
	}
}

func TestGaussianQuadratureWeightsAlignWithPoints(t *testing.T) {
	for _, sym := range []bool{true, false} {
		for k := 1; k <= maxQuadratureRings; k++ {
			d := NewGaussianQuadrature(sym)
			if err := d.GeneratePoints(k); err != nil {
				t.Fatal(err)
			}
			w, err := Weights(d, k)
			if err != nil {
				t.Fatal(err)
			}
			if len(w) != d.Len() {
				t.Fatalf("sym=%v k=%d: %d weights for %d points", sym, k, len(w), d.Len())
			}
			// both patterns give each ring 6x its table weight
			var sum float64
			for _, v := range w {
				sum += v
			}
			if !nearly(sum, 3, 1e-4) {
				t.Fatalf("sym=%v k=%d: weights sum to %g", sym, k, sum)
			}
		}
	}
}

func TestGaussianQuadratureIntegratesRadialPolynomial(t *testing.T) {
	// mean of r^2 over the disk is 1/2
	for k := 2; k <= maxQuadratureRings; k++ {
		d := NewGaussianQuadrature(true)
		if err := d.GeneratePoints(k); err != nil {
			t.Fatal(err)
		}
		w, _ := d.GetWeights(k)
		var num, den float64
		for i, x := range d.X() {
			num += w[i] * x * x
			den += w[i]
		}
		if got := num / den; !nearly(got, 0.5, 1e-4) {
			t.Fatalf("k=%d: <r^2> = %g", k, got)
		}
	}
}

func TestGaussianQuadratureInvalidRings(t *testing.T) {
	for _, sym := range []bool{true, false} {
		for _, k := range []int{0, -1, 7, 10} {
			d := NewGaussianQuadrature(sym)
			if err := d.GeneratePoints(k); !errors.Is(err, ErrInvalidRings) {
				t.Fatalf("sym=%v GeneratePoints(%d): %v", sym, k, err)
			}
			if d.X() != nil {
				t.Fatal("failed generation must not allocate points")
			}
			if _, err := d.GetWeights(k); !errors.Is(err, ErrInvalidRings) {
				t.Fatalf("sym=%v GetWeights(%d): %v", sym, k, err)
			}
		}
	}
	if _, err := RingWeights(0); !errors.Is(err, ErrInvalidRings) {
		t.Fatalf("RingWeights(0): %v", err)
	}
	if _, err := RingRadii(8); !errors.Is(err, ErrInvalidRings) {
		t.Fatalf("RingRadii(8): %v", err)
	}
}
