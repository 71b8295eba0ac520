package num

import (
	"errors"
	"fmt"
	"math"
)

// MaxIterations bounds every one-dimensional solver in this package.
const MaxIterations = 33

// ErrMaxIterations indicates a solver exhausted its iteration cap before
// meeting tolerance.
var ErrMaxIterations = errors.New("num: maximum iteration count exceeded")

// BracketError indicates the supplied interval does not strictly bracket a
// root.
type BracketError struct {
	X0, F0, X1, F1 float64
}

func (e *BracketError) Error() string {
	return fmt.Sprintf("num: interval does not bracket a root: f(%g)=%g, f(%g)=%g", e.X0, e.F0, e.X1, e.F1)
}

// Dekker finds a root of f on the strictly bracketing interval [x0, x1],
// combining bisection with secant extrapolation. The secant estimate is
// accepted when it falls strictly between the current best estimate and the
// bisection midpoint; otherwise the midpoint is used. Returns the best
// estimate and its contrapoint, with |best-counterpoint| <= tol.
//
// Convergence can degrade to worse than plain bisection when successive
// secant branches are taken, hence the iteration cap.
func Dekker(f func(float64) float64, x0, x1, tol float64) (best, counterpoint float64, err error) {
	tol = math.Abs(tol)
	fx0, fx1 := f(x0), f(x1)

	if fx0*fx1 >= 0 {
		return 0, 0, &BracketError{X0: x0, F0: fx0, X1: x1, F1: fx1}
	}

	bj, fbj := x0, fx0
	aj, faj := x1, fx1
	if math.Abs(fx1) < math.Abs(fx0) {
		bj, fbj = x1, fx1
		aj, faj = x0, fx0
	}
	bi, fbi := aj, faj

	for i := 0; i < MaxIterations; i++ {
		m := 0.5 * (aj + bj)
		s := m
		if fbi != fbj {
			s = bj - fbj*(bj-bi)/(fbj-fbi)
		}

		bk := m
		if math.Min(bj, m) < s && s < math.Max(bj, m) {
			bk = s
		}
		fbk := f(bk)

		ak, fak := aj, faj
		if faj*fbk >= 0 {
			// contrapoint no longer brackets, replace with previous best
			ak, fak = bj, fbj
		}

		if math.Abs(fak) < math.Abs(fbk) {
			ak, fak, bk, fbk = bk, fbk, ak, fak
		}

		if math.Abs(bk-ak) < tol {
			return bk, ak, nil
		}

		aj, faj = ak, fak
		bi, fbi = bj, fbj
		bj, fbj = bk, fbk
	}

	return 0, 0, ErrMaxIterations
}
