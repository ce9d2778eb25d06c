package viz

import (
	"math"

	"github.com/Pandicon/snails-of-pursuit/internal/pursuit"
	"gonum.org/v1/gonum/spatial/r2"
)

// Layers used when rasterizing a scene. Body i is drawn on LayerBody+i.
const (
	LayerCircle = iota
	LayerEdges
	LayerBody
)

// circleSegments is the number of chords used to draw the starting circle.
const circleSegments = 96

// Viewport maps world coordinates onto canvas sub-pixels, keeping the
// origin at the centre and a circle of radius Extent inside the canvas.
type Viewport struct {
	Extent float64
	cx, cy float64
	scale  float64
}

func NewViewport(c *Canvas, extent float64) Viewport {
	if extent <= 0 || math.IsNaN(extent) || math.IsInf(extent, 0) {
		extent = 1
	}
	w, h := float64(c.PixelWidth()), float64(c.PixelHeight())
	half := math.Min(w, h)/2 - 1
	return Viewport{
		Extent: extent,
		cx:     (w - 1) / 2,
		cy:     (h - 1) / 2,
		scale:  math.Max(half, 1) / extent,
	}
}

// Project returns the sub-pixel for p; y grows downward on the canvas.
func (v Viewport) Project(p r2.Vec) (int, int) {
	return int(math.Round(v.cx + p.X*v.scale)), int(math.Round(v.cy - p.Y*v.scale))
}

// Scene describes what to draw for one frame.
type Scene struct {
	Radius float64
	// Extent is the half-width of the visible area; zero means Radius.
	Extent     float64
	ShowCircle bool
	ShowEdges  bool
	// MaxSegments bounds the line segments drawn per trajectory.
	MaxSegments int
}

func DefaultScene(radius float64) Scene {
	return Scene{Radius: radius, ShowCircle: true, ShowEdges: true, MaxSegments: 2000}
}

// Draw rasterizes the starting circle, the initial polygon and every
// trajectory of s onto c.
func (sc Scene) Draw(c *Canvas, s *pursuit.State) {
	c.Clear()
	extent := sc.Extent
	if extent <= 0 {
		extent = sc.Radius
	}
	vp := NewViewport(c, extent)

	if sc.ShowCircle && sc.Radius > 0 {
		prev := r2.Vec{X: sc.Radius}
		for k := 1; k <= circleSegments; k++ {
			sin, cos := math.Sincos(2 * math.Pi * float64(k) / circleSegments)
			next := r2.Vec{X: sc.Radius * cos, Y: sc.Radius * sin}
			sc.line(c, vp, prev, next, LayerCircle)
			prev = next
		}
	}

	if sc.ShowEdges {
		for _, e := range s.Edges() {
			sc.line(c, vp, e.From, e.To, LayerEdges)
		}
	}

	for i, path := range s.History {
		layer := LayerBody + i
		stride := 1
		if sc.MaxSegments > 0 && len(path) > sc.MaxSegments {
			stride = (len(path) + sc.MaxSegments - 1) / sc.MaxSegments
		}
		prev := path[0]
		for k := stride; k < len(path); k += stride {
			sc.line(c, vp, prev, path[k], layer)
			prev = path[k]
		}
		sc.line(c, vp, prev, path[len(path)-1], layer)
	}
}

func (sc Scene) line(c *Canvas, vp Viewport, a, b r2.Vec, layer int) {
	x0, y0 := vp.Project(a)
	x1, y1 := vp.Project(b)
	c.DrawLine(x0, y0, x1, y1, layer)
}
