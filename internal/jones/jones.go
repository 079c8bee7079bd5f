// Package jones holds 2x2 Jones calculus in the local s/p basis of an interface.
package jones

import "errors"

var ErrLengthMismatch = errors.New("wavelength and angle arrays differ in length")

// Vector is an electric field in (s, p) components.
type Vector [2]complex128

// Matrix maps an incident (s, p) field to the outgoing one.
type Matrix [2][2]complex128

// Diag builds a matrix that does not couple s and p.
func Diag(s, p complex128) Matrix {
	return Matrix{{s, 0}, {0, p}}
}

func (m Matrix) Apply(v Vector) Vector {
	return Vector{
		m[0][0]*v[0] + m[0][1]*v[1],
		m[1][0]*v[0] + m[1][1]*v[1],
	}
}

// Power is |Es|^2 + |Ep|^2.
func (v Vector) Power() float64 {
	return real(v[0])*real(v[0]) + imag(v[0])*imag(v[0]) +
		real(v[1])*real(v[1]) + imag(v[1])*imag(v[1])
}

// Calculator produces one Jones matrix per ray.
type Calculator interface {
	CalculateMatrices(wavelengths, aoi []float64, reflect bool) ([]Matrix, error)
}
