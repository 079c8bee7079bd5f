package geometry

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// fringeOrder maps Fringe index j >= 1 to the radial and azimuthal orders
// (n, m); j = 1 is the first tilt term.
func fringeOrder(j int) (n, m int) {
	for n*(n+3)/2 < j {
		n++
	}
	return n, 2*j - n*(n+2)
}

// monomial is coef * s^pow with s = ρ².
type monomial struct {
	coef float64
	pow  int
}

// term is one weighted Zernike polynomial written as P(ρ²) · A(u, v), where
// A is Re or Im of (u + iv)^|m|. This form has smooth derivatives at ρ = 0.
type term struct {
	scale float64
	m     int
	poly  []monomial
}

func newTerm(j int, coefficient float64) term {
	n, m := fringeOrder(j)
	am := m
	if am < 0 {
		am = -am
	}
	t := term{scale: math.Sqrt(2*float64(j)/math.Pi) * coefficient, m: m}
	for k := 0; k <= (n-am)/2; k++ {
		// (n-k)! / (k! ((n+|m|)/2-k)! ((n-|m|)/2-k)!)
		c := float64(combin.Binomial(n-k, k) * combin.Binomial(n-2*k, (n+am)/2-k))
		if k%2 == 1 {
			c = -c
		}
		t.poly = append(t.poly, monomial{coef: c, pow: (n-am)/2 - k})
	}
	return t
}

// eval returns the scaled term and its derivatives in the normalized
// coordinates u, v.
func (t term) eval(u, v float64) (z, dzdu, dzdv float64) {
	s := u*u + v*v
	var p, dp float64
	for _, mono := range t.poly {
		p += mono.coef * ipow(s, mono.pow)
		if mono.pow > 0 {
			dp += mono.coef * float64(mono.pow) * ipow(s, mono.pow-1)
		}
	}

	am := t.m
	if am < 0 {
		am = -am
	}
	a, dau, dav := 1.0, 0.0, 0.0
	if am > 0 {
		w := complex(u, v)
		wm := cpow(w, am)
		d := complex(float64(am), 0) * cpow(w, am-1)
		if t.m > 0 {
			a, dau, dav = real(wm), real(d), -imag(d)
		} else {
			a, dau, dav = imag(wm), imag(d), real(d)
		}
	}

	z = p * a
	dzdu = 2*u*dp*a + p*dau
	dzdv = 2*v*dp*a + p*dav
	return t.scale * z, t.scale * dzdu, t.scale * dzdv
}

func ipow(x float64, n int) float64 {
	out := 1.0
	for ; n > 0; n-- {
		out *= x
	}
	return out
}

func cpow(w complex128, n int) complex128 {
	out := complex(1, 0)
	for ; n > 0; n-- {
		out *= w
	}
	return out
}
