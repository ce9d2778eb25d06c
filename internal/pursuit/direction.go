package pursuit

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Direction returns the unit vector pointing from p toward q. The second
// result is false when the points coincide or the difference is not finite.
func Direction(p, q r2.Vec) (r2.Vec, bool) {
	d := r2.Sub(q, p)
	n := r2.Norm(d)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return r2.Vec{}, false
	}
	return r2.Scale(1/n, d), true
}
