package export

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/Pandicon/snails-of-pursuit/internal/pursuit"
	"gonum.org/v1/gonum/spatial/r2"
)

// Palette cycles over bodies.
var Palette = []string{"#ff3b30", "#34c759", "#ff9500", "#ffcc00", "#ffffff"}

type SVGOptions struct {
	Size       int
	Background string
	Circle     string
	Edges      string
	// MaxPoints limits the vertices written per path; 0 means no limit.
	MaxPoints int
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Size:       800,
		Background: "#0a0a0a",
		Circle:     "#444444",
		Edges:      "#888888",
		MaxPoints:  4000,
	}
}

// WriteSVG draws the starting circle, the initial polygon and every
// trajectory, centred on the origin.
func WriteSVG(w io.Writer, s *pursuit.State, opts SVGOptions) error {
	if opts.Size <= 0 {
		opts.Size = DefaultSVGOptions().Size
	}
	bw := bufio.NewWriter(w)

	radius := startRadius(s)
	half := float64(opts.Size) / 2
	scale := half * 0.9 / radius
	project := func(p r2.Vec) (float64, float64) {
		return half + p.X*scale, half - p.Y*scale
	}

	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, opts.Size, opts.Size, opts.Size, opts.Size, opts.Background)

	fmt.Fprintf(bw, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s"/>
`, half, half, radius*scale, opts.Circle)

	for _, e := range s.Edges() {
		x1, y1 := project(e.From)
		x2, y2 := project(e.To)
		fmt.Fprintf(bw, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>
`, x1, y1, x2, y2, opts.Edges)
	}

	for i, path := range s.History {
		color := Palette[i%len(Palette)]
		stride := 1
		if opts.MaxPoints > 0 && len(path) > opts.MaxPoints {
			stride = int(math.Ceil(float64(len(path)) / float64(opts.MaxPoints)))
		}

		fmt.Fprintf(bw, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, color)
		for k := 0; k < len(path); k += stride {
			x, y := project(path[k])
			if k == 0 {
				fmt.Fprintf(bw, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(bw, " L%.1f,%.1f", x, y)
			}
		}
		if last := len(path) - 1; last > 0 && last%stride != 0 {
			x, y := project(path[last])
			fmt.Fprintf(bw, " L%.1f,%.1f", x, y)
		}
		bw.WriteString("\"/>\n")

		x, y := project(s.Positions[i])
		fmt.Fprintf(bw, `<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, x, y, color)
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func startRadius(s *pursuit.State) float64 {
	r := 0.0
	for _, path := range s.History {
		if len(path) > 0 {
			r = math.Max(r, r2.Norm(path[0]))
		}
	}
	if r == 0 {
		return 1
	}
	return r
}
