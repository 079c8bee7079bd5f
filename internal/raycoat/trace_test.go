package raycoat

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/lukaszgryglicki/raycoat/internal/coating"
	"github.com/lukaszgryglicki/raycoat/internal/distribution"
	"github.com/lukaszgryglicki/raycoat/internal/jones"
	"github.com/lukaszgryglicki/raycoat/internal/material"
)

func nearly(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

const (
	airGlass = `"coating": {"type": "FresnelCoating",
		"material_pre": {"type": "IdealMaterial", "index": 1.0, "absorp": 0},
		"material_post": {"type": "IdealMaterial", "index": 1.5, "absorp": 0}}`
	glassAir = `"coating": {"type": "FresnelCoating",
		"material_pre": {"type": "IdealMaterial", "index": 1.5, "absorp": 0},
		"material_post": {"type": "IdealMaterial", "index": 1.0, "absorp": 0}}`
	airBK7 = `"coating": {"type": "FresnelCoating",
		"material_pre": {"type": "IdealMaterial", "index": 1.0, "absorp": 0},
		"material_post": {"type": "AbbeMaterial", "index": 1.5168, "abbe": 64.17}}`
)

// setup parses a config body and decodes its inline coating.
func setup(t *testing.T, body string) (*Config, coating.Coating) {
	t.Helper()
	cfg, err := parseConfig([]byte("{"+body+"}"), t.Name())
	if err != nil {
		t.Fatal(err)
	}
	ct, err := resolveCoating(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return cfg, ct
}

func traceOne(t *testing.T, body string, wavelength float64) *Result {
	t.Helper()
	cfg, ct := setup(t, body)
	tr, err := newTracer(cfg, ct)
	if err != nil {
		t.Fatal(err)
	}
	res, err := tr.traceWavelength(wavelength)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestTraceSimpleCoating(t *testing.T) {
	res := traceOne(t, `"distribution": {"type": "hexapolar", "num": 3}, `+simpleCoating, 0.55)
	if len(res.X) != 37 || len(res.Weights) != 37 || len(res.Intensity) != 37 {
		t.Fatalf("%d rays", len(res.X))
	}
	for i, v := range res.Intensity {
		if !nearly(v, 0.9, 1e-15) {
			t.Fatalf("ray %d intensity %g", i, v)
		}
	}
	if !nearly(res.Throughput, 0.9, 1e-12) || res.Counts[Transmit] != 37 {
		t.Fatalf("throughput %g counts %v", res.Throughput, res.Counts)
	}
}

func TestTracePupilScaling(t *testing.T) {
	res := traceOne(t, `"distribution": {"type": "line_x", "num": 3}, "pupilRadius": 12.5, `+simpleCoating, 0.55)
	if res.X[0] != -12.5 || res.X[2] != 12.5 {
		t.Fatalf("pupil x %v", res.X)
	}
}

func TestTraceFresnelNormalIncidence(t *testing.T) {
	res := traceOne(t, `"distribution": {"type": "cross", "num": 5}, `+airGlass, 0.55)
	if !nearly(res.Throughput, 0.96, 1e-12) {
		t.Fatalf("transmitted %g, want 0.96", res.Throughput)
	}
	res = traceOne(t, `"distribution": {"type": "cross", "num": 5}, "reflect": true, `+airGlass, 0.55)
	if !nearly(res.Throughput, 0.04, 1e-12) || res.Counts[Reflect] != 9 {
		t.Fatalf("reflected %g counts %v", res.Throughput, res.Counts)
	}
}

func TestTraceTotalInternalReflection(t *testing.T) {
	res := traceOne(t, `"distribution": {"type": "random", "num": 50, "seed": 7}, "fieldDeg": [0, 60], `+glassAir, 0.55)
	if res.Counts[TIR] != 50 {
		t.Fatalf("counts %v", res.Counts)
	}
	if res.Throughput != 0 {
		t.Fatalf("transmitted %g under TIR", res.Throughput)
	}
}

func TestTraceBrewsterPolarized(t *testing.T) {
	brewster := math.Atan(1.5) * 180 / math.Pi
	field := fmt.Sprintf(`"fieldDeg": [0, %.15f], "reflect": true, `, brewster)
	p := traceOne(t, field+`"polarization": {"polarized": true, "es": [0, 0], "ep": [1, 0]}, `+airGlass, 0.55)
	if p.Throughput > 1e-12 {
		t.Fatalf("p-polarized reflectance at Brewster = %g", p.Throughput)
	}
	s := traceOne(t, field+`"polarization": {"polarized": true, "es": [1, 0], "ep": [0, 0]}, `+airGlass, 0.55)
	if s.Throughput < 0.1 || s.Throughput > 0.2 {
		t.Fatalf("s-polarized reflectance at Brewster = %g", s.Throughput)
	}
	u := traceOne(t, field+airGlass, 0.55)
	if !nearly(u.Throughput, s.Throughput/2, 1e-12) {
		t.Fatalf("unpolarized %g, want half of s %g", u.Throughput, s.Throughput)
	}
}

func TestTraceTiltedSurfaceMatchesTiltedField(t *testing.T) {
	tilted := traceOne(t, `"surface": {"rx": 0.3, "z": 2}, `+airGlass, 0.55)
	deg := 0.3 * 180 / math.Pi
	field := traceOne(t, fmt.Sprintf(`"fieldDeg": [0, %.15f], `, deg)+airGlass, 0.55)
	if !nearly(tilted.Throughput, field.Throughput, 1e-9) {
		t.Fatalf("tilted surface %g vs tilted field %g", tilted.Throughput, field.Throughput)
	}
	if tilted.Throughput >= 0.96 {
		t.Fatalf("oblique transmission %g should drop below normal incidence", tilted.Throughput)
	}
}

func TestTraceParallelRaysMiss(t *testing.T) {
	res := traceOne(t, `"distribution": {"type": "line_y", "num": 4}, "field": [1, 0, 0], `+simpleCoating, 0.55)
	if res.Counts[Miss] != 4 || res.Throughput != 0 {
		t.Fatalf("counts %v throughput %g", res.Counts, res.Throughput)
	}
}

func TestTraceQuadratureWeights(t *testing.T) {
	for _, sym := range []bool{true, false} {
		body := fmt.Sprintf(`"distribution": {"type": "gaussian_quadrature", "num": 4, "symmetric": %v}, `, sym)
		res := traceOne(t, body+simpleCoating, 0.55)
		if !nearly(res.Throughput, 0.9, 1e-12) {
			t.Fatalf("sym=%v throughput %g", sym, res.Throughput)
		}
		if len(res.Weights) != len(res.X) {
			t.Fatalf("sym=%v: %d weights for %d rays", sym, len(res.Weights), len(res.X))
		}
	}
	cfg, ct := setup(t, `"distribution": {"type": "gaussian_quadrature", "num": 7}, `+simpleCoating)
	tr, err := newTracer(cfg, ct)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.traceWavelength(0.55); !errors.Is(err, distribution.ErrInvalidRings) {
		t.Fatalf("expected invalid rings, got %v", err)
	}
}

func TestTraceDebugLogsInteractions(t *testing.T) {
	cache = &InteractionLogCache{entries: make(map[string][]InteractionLog)}
	old := Debug
	Debug = true
	defer func() { Debug = old }()
	res := traceOne(t, `"distribution": {"type": "hexapolar", "num": 2}, `+airGlass, 0.6)
	logs := cache.entries["0.6000"]
	if len(logs) != len(res.X) {
		t.Fatalf("%d log entries for %d rays", len(logs), len(res.X))
	}
	for _, l := range logs {
		if l.Category != Transmit || l.AOI > 1e-12 {
			t.Fatalf("entry %+v", l)
		}
	}
}

func TestSweepOrderedAndDispersive(t *testing.T) {
	old := Workers
	Workers = 2
	defer func() { Workers = old }()
	cfg, ct := setup(t, `"wavelengths": [0.45, 0.5, 0.55, 0.6, 0.65], "fieldDeg": [10, 0], `+airBK7)
	results, err := sweep(cfg, ct)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 5 {
		t.Fatalf("%d results", len(results))
	}
	tr, err := newTracer(cfg, ct)
	if err != nil {
		t.Fatal(err)
	}
	for i, r := range results {
		if r.Wavelength != cfg.Wavelengths[i] {
			t.Fatalf("result %d is for %g", i, r.Wavelength)
		}
		want, err := tr.traceWavelength(r.Wavelength)
		if err != nil {
			t.Fatal(err)
		}
		if !nearly(r.Throughput, want.Throughput, 1e-14) {
			t.Fatalf("λ=%g: parallel %g, serial %g", r.Wavelength, r.Throughput, want.Throughput)
		}
	}
	// normal dispersion: index falls with wavelength, so transmission rises
	for i := 1; i < len(results); i++ {
		if results[i].Throughput <= results[i-1].Throughput {
			t.Fatalf("transmission not increasing at %g", results[i].Wavelength)
		}
	}
}

func TestSweepPropagatesMaterialErrors(t *testing.T) {
	cfg, ct := setup(t, `"wavelengths": [0.55, 1.2], `+airBK7)
	if _, err := sweep(cfg, ct); !errors.Is(err, material.ErrWavelengthRange) {
		t.Fatalf("expected wavelength range error, got %v", err)
	}
}

func TestSweepReportsEarliestFailure(t *testing.T) {
	old := Workers
	Workers = 4
	defer func() { Workers = old }()
	cfg, ct := setup(t, `"wavelengths": [0.55, 0.9, 0.3, 1.2], `+airBK7)
	for i := 0; i < 20; i++ {
		_, err := sweep(cfg, ct)
		if !errors.Is(err, material.ErrWavelengthRange) {
			t.Fatalf("expected wavelength range error, got %v", err)
		}
		if !strings.HasPrefix(err.Error(), "wavelength 0.9:") {
			t.Fatalf("run %d reported %v", i, err)
		}
	}
}

func TestSweepLogsSetupOnce(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)
	oldDebug := Debug
	Debug = true
	defer func() { Debug = oldDebug }()
	once = sync.Once{}
	cache = &InteractionLogCache{entries: make(map[string][]InteractionLog)}

	cfg, ct := setup(t, `"wavelengths": [0.5, 0.6], `+airGlass)
	for i := 0; i < 2; i++ {
		if _, err := sweep(cfg, ct); err != nil {
			t.Fatal(err)
		}
	}
	if n := strings.Count(buf.String(), "Sweep: "); n != 1 {
		t.Fatalf("setup logged %d times:\n%s", n, buf.String())
	}
	if !strings.Contains(buf.String(), "hexapolar(6) sampling") {
		t.Fatalf("unexpected setup line:\n%s", buf.String())
	}
}

func TestTraceCurvedSurfaceNormals(t *testing.T) {
	const radius = 10.0
	res := traceOne(t, `"distribution": {"type": "line_x", "num": 5}, "pupilRadius": 4, `+
		`"geometry": {"radius": 10}, `+airGlass, 0.55)
	f := jones.NewFresnel(material.NewIdeal(1, 0), material.NewIdeal(1.5, 0))
	for i, x := range res.X {
		aoi := math.Asin(math.Abs(x) / radius)
		m, err := f.CalculateMatrices([]float64{0.55}, []float64{aoi}, false)
		if err != nil {
			t.Fatal(err)
		}
		want := 0.5 * (m[0].Apply(jones.Vector{1, 0}).Power() + m[0].Apply(jones.Vector{0, 1}).Power())
		if !nearly(res.Intensity[i], want, 1e-9) {
			t.Fatalf("x=%g: transmitted %g, want %g at AOI %g", x, res.Intensity[i], want, aoi)
		}
	}
	if !nearly(res.Intensity[2], 0.96, 1e-12) || res.Intensity[0] >= res.Intensity[1] {
		t.Fatalf("transmission should fall towards the edge: %v", res.Intensity)
	}
	if !nearly(res.Intensity[0], res.Intensity[4], 1e-12) {
		t.Fatalf("asymmetric result %v", res.Intensity)
	}
}

func TestTraceZernikeOutsideNormalizationMisses(t *testing.T) {
	res := traceOne(t, `"distribution": {"type": "line_y", "num": 3}, "pupilRadius": 2, `+
		`"geometry": {"radius": 0, "coefficients": [0, 0, 0, 0.01], "norm_radius": 1.5}, `+airGlass, 0.55)
	if res.Counts[Miss] != 2 || res.Counts[Transmit] != 1 {
		t.Fatalf("counts %v", res.Counts)
	}
	if res.Intensity[0] != 0 || res.Intensity[2] != 0 {
		t.Fatalf("missed rays kept intensity: %v", res.Intensity)
	}
}
