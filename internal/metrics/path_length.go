package metrics

import (
	"fmt"

	"github.com/Pandicon/snails-of-pursuit/internal/pursuit"
	"gonum.org/v1/gonum/spatial/r2"
)

// PathLength is the distance travelled by one body, summed over its history.
type PathLength struct {
	body   int
	seen   int
	length float64
}

func NewPathLength(body int) *PathLength {
	return &PathLength{body: body}
}

func (p *PathLength) Name() string {
	if p.body == 0 {
		return "path_length"
	}
	return fmt.Sprintf("path_length_%d", p.body)
}

func (p *PathLength) Observe(s *pursuit.State, t float64) {
	if p.body >= len(s.History) {
		return
	}
	h := s.History[p.body]
	if len(h) < p.seen {
		// history was replaced
		p.seen, p.length = 0, 0
	}
	for i := max(p.seen, 1); i < len(h); i++ {
		p.length += r2.Norm(r2.Sub(h[i], h[i-1]))
	}
	p.seen = len(h)
}

func (p *PathLength) Value() float64 {
	return p.length
}

func (p *PathLength) Reset() {
	p.seen = 0
	p.length = 0
}
