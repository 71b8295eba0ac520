package num

import "math"

var (
	invphi  = (math.Sqrt(5) - 1) / 2 // 1/phi
	invphi2 = (3 - math.Sqrt(5)) / 2 // 1/phi^2
)

// GssMin locates a local minimum of f between x0 and x1 (any order) by
// golden-section search. Returns a sub-interval of width at most tol
// containing the extremum, or the narrowest interval reachable within
// MaxIterations. Never fails; the caller is responsible for supplying an
// interval containing a unique extremum.
func GssMin(f func(float64) float64, x0, x1, tol float64) (float64, float64) {
	return gss(f, x0, x1, tol, true)
}

// GssMax is GssMin for a local maximum.
func GssMax(f func(float64) float64, x0, x1, tol float64) (float64, float64) {
	return gss(f, x0, x1, tol, false)
}

func gss(f func(float64) float64, x0, x1, tol float64, findMin bool) (float64, float64) {
	tol = math.Abs(tol)

	a, b := math.Min(x0, x1), math.Max(x0, x1)
	h := b - a

	// steps required to shrink h below tol, bounded by the iteration cap
	n := int(math.Ceil(math.Log(tol/h) / math.Log(invphi)))
	if n > MaxIterations {
		n = MaxIterations
	}
	if n < 0 {
		n = 0
	}

	c, d := a+invphi2*h, a+invphi*h
	yc, yd := f(c), f(d)

	for k := 0; k < n; k++ {
		h *= invphi
		if (yc < yd && findMin) || (yc > yd && !findMin) {
			// a---c---d  b
			b = d
			d, yd = c, yc
			c = a + invphi2*h
			yc = f(c)
		} else {
			// a   c---d---b
			a = c
			c, yc = d, yd
			d = a + invphi*h
			yd = f(d)
		}
	}

	if (yc < yd && findMin) || (yc > yd && !findMin) {
		return a, d
	}
	return c, b
}
