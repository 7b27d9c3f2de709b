package metrics

import (
	"time"

	"github.com/ark1700/fractal-generator/internal/fractal"
	"github.com/ark1700/fractal-generator/internal/palette"
)

// InSet is the fraction of black pixels. Very fast escapes under a large
// iteration cap also round to black, so this slightly overcounts the set.
type InSet struct {
	name    string
	inside  int
	samples int
}

func NewInSet() *InSet {
	return &InSet{name: "in_set"}
}

func (s *InSet) Name() string { return s.name }

func (s *InSet) Observe(img *fractal.Image, band fractal.Band, elapsed time.Duration) {
	black := palette.Black
	for i := 0; i+3 < len(img.Pix); i += 4 {
		s.samples++
		if img.Pix[i] == black.R && img.Pix[i+1] == black.G && img.Pix[i+2] == black.B {
			s.inside++
		}
	}
}

func (s *InSet) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.inside) / float64(s.samples)
}

func (s *InSet) Reset() {
	s.inside = 0
	s.samples = 0
}
