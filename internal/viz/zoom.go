package viz

import (
	"math"

	"github.com/Pandicon/snails-of-pursuit/internal/pursuit"
	"github.com/charmbracelet/harmonica"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	zoomFrequency = 4.0
	zoomDamping   = 1.0
	// zoomMargin keeps the outermost body off the canvas edge.
	zoomMargin = 1.15
	// minZoom is the smallest extent, as a fraction of the radius.
	minZoom = 0.01
)

// zoom eases the viewport extent toward a target with a critically damped
// spring, one update per frame.
type zoom struct {
	spring   harmonica.Spring
	follow   bool
	extent   float64
	velocity float64
}

func newZoom(radius float64) zoom {
	return zoom{
		spring: harmonica.NewSpring(harmonica.FPS(60), zoomFrequency, zoomDamping),
		extent: radius,
	}
}

// target is the extent the view should settle on: the starting radius, or
// with follow set, the bodies' current extent.
func (z zoom) target(s *pursuit.State, radius float64) float64 {
	if !z.follow {
		return radius
	}
	far := 0.0
	for _, p := range s.Positions {
		far = math.Max(far, r2.Norm(p))
	}
	return math.Max(far*zoomMargin, radius*minZoom)
}

func (z *zoom) update(s *pursuit.State, radius float64) {
	z.extent, z.velocity = z.spring.Update(z.extent, z.velocity, z.target(s, radius))
	if z.extent <= 0 || math.IsNaN(z.extent) {
		z.extent, z.velocity = z.target(s, radius), 0
	}
}
