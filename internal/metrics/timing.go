package metrics

import (
	"time"

	"github.com/ark1700/fractal-generator/internal/fractal"
)

// Throughput is the overall pixel rate in pixels per millisecond.
type Throughput struct {
	name   string
	pixels int
	total  time.Duration
}

func NewThroughput() *Throughput {
	return &Throughput{name: "px_per_ms"}
}

func (t *Throughput) Name() string { return t.name }

func (t *Throughput) Observe(img *fractal.Image, band fractal.Band, elapsed time.Duration) {
	t.pixels += img.Width * img.Height
	t.total += elapsed
}

func (t *Throughput) Value() float64 {
	ms := float64(t.total) / float64(time.Millisecond)
	if ms <= 0 {
		return 0
	}
	return float64(t.pixels) / ms
}

func (t *Throughput) Reset() {
	t.pixels = 0
	t.total = 0
}

// Imbalance compares the slowest band with the mean band time. A value of 1
// means every band took equally long.
type Imbalance struct {
	name    string
	slowest time.Duration
	total   time.Duration
	bands   int
}

func NewImbalance() *Imbalance {
	return &Imbalance{name: "band_imbalance"}
}

func (b *Imbalance) Name() string { return b.name }

func (b *Imbalance) Observe(img *fractal.Image, band fractal.Band, elapsed time.Duration) {
	b.bands++
	b.total += elapsed
	if elapsed > b.slowest {
		b.slowest = elapsed
	}
}

func (b *Imbalance) Value() float64 {
	if b.bands == 0 || b.total <= 0 {
		return 1.0
	}
	mean := float64(b.total) / float64(b.bands)
	return float64(b.slowest) / mean
}

func (b *Imbalance) Reset() {
	b.slowest = 0
	b.total = 0
	b.bands = 0
}
