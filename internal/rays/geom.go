package rays

import (
	"fmt"
	"math"
)

// reflection & refraction in 3D (assume unit I, N)
func reflect3(I, N Vector3) Vector3 {
	return I.Sub(N.Mul(2 * I.Dot(N)))
}

// Refraction with side awareness.
// Contract: eta must be n1/n2 for the current interface. The normal may point
// either way; it is flipped so that it opposes I.
func refract3(I, N Vector3, eta float64) (Vector3, bool) {
	n := N
	cosi := I.Dot(N)
	if cosi > 0 {
		n = N.Mul(-1)
	} else {
		cosi = -cosi
	}
	// Numeric clamp to [0,1] to avoid tiny negatives/overs.
	if cosi > 1 {
		cosi = 1
	}
	k := 1 - eta*eta*(1-cosi*cosi)
	if k < 0 {
		return Vector3{}, false // total internal reflection
	}
	return I.Mul(eta).Add(n.Mul(eta*cosi - math.Sqrt(k))), true
}

func (r *RealRays) checkNormals(nx, ny, nz []float64) error {
	n := r.Len()
	if len(nx) != n || len(ny) != n || len(nz) != n {
		return fmt.Errorf("%w: normals (%d, %d, %d) for %d rays", ErrLengthMismatch, len(nx), len(ny), len(nz), n)
	}
	return nil
}

// Reflect mirrors ray directions about the surface normals. The prior
// directions become the incident ones.
func (r *RealRays) Reflect(nx, ny, nz []float64) error {
	if err := r.checkNormals(nx, ny, nz); err != nil {
		return err
	}
	r.SaveIncident()
	for i := range r.L {
		d := reflect3(Vector3{r.L[i], r.M[i], r.N[i]}, Vector3{nx[i], ny[i], nz[i]})
		r.L[i], r.M[i], r.N[i] = d.X, d.Y, d.Z
	}
	return nil
}

// Refract bends ray directions by Snell's law from index n1 into n2 (one
// value per ray). Rays that would undergo total internal reflection are
// reflected instead. The prior directions become the incident ones.
func (r *RealRays) Refract(nx, ny, nz, n1, n2 []float64) error {
	if err := r.checkNormals(nx, ny, nz); err != nil {
		return err
	}
	if len(n1) != r.Len() || len(n2) != r.Len() {
		return fmt.Errorf("%w: indices (%d, %d) for %d rays", ErrLengthMismatch, len(n1), len(n2), r.Len())
	}
	r.SaveIncident()
	for i := range r.L {
		I := Vector3{r.L[i], r.M[i], r.N[i]}
		N := Vector3{nx[i], ny[i], nz[i]}
		d, ok := refract3(I, N, n1[i]/n2[i])
		if !ok {
			d = reflect3(I, N)
		}
		d = d.Norm()
		r.L[i], r.M[i], r.N[i] = d.X, d.Y, d.Z
	}
	return nil
}
