package raycoat

import (
	"github.com/lukaszgryglicki/raycoat/internal/coating"
	"github.com/lukaszgryglicki/raycoat/internal/distribution"
	"github.com/lukaszgryglicki/raycoat/internal/rays"
)

var (
	Debug   = false // set to true for verbose debug output and the interaction log
	CSV     = false // set to true to write per-ray CSV even when the config names no file
	Workers = 0     // wavelength workers; 0 means one per CPU
	// Compile time checks to ensure that both bundles satisfy the coating contract
	_ coating.Rays          = (*rays.RealRays)(nil)
	_ coating.Rays          = (*rays.PolarizedRays)(nil)
	_ distribution.Weighted = (*distribution.GaussianQuadrature)(nil)
)
