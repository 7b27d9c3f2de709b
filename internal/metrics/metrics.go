// Package metrics summarizes generation runs band by band.
package metrics

import (
	"time"

	"github.com/ark1700/fractal-generator/internal/fractal"
)

// Metric accumulates one statistic over the bands of a run.
type Metric interface {
	Name() string
	Observe(img *fractal.Image, band fractal.Band, elapsed time.Duration)
	Value() float64
	Reset()
}

// Standard returns the metrics recorded for every run.
func Standard() []Metric {
	return []Metric{NewInSet(), NewThroughput(), NewImbalance()}
}

// Collect reads every metric into a map keyed by name.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// ObserveAll feeds one band to each metric.
func ObserveAll(ms []Metric, img *fractal.Image, band fractal.Band, elapsed time.Duration) {
	for _, m := range ms {
		m.Observe(img, band, elapsed)
	}
}
