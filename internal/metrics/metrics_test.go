package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/ark1700/fractal-generator/internal/fractal"
)

func filled(w, h int, black bool) *fractal.Image {
	img := fractal.NewImage(w, h)
	for i := 0; i < len(img.Pix); i += 4 {
		if !black {
			img.Pix[i] = 200
		}
		img.Pix[i+3] = 255
	}
	return img
}

func TestInSetFraction(t *testing.T) {
	m := NewInSet()
	m.Observe(filled(4, 2, true), fractal.Band{Height: 2}, time.Millisecond)
	m.Observe(filled(4, 6, false), fractal.Band{StartRow: 2, Height: 6}, time.Millisecond)

	if got := m.Value(); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("in_set = %f, want 0.25", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestThroughput(t *testing.T) {
	m := NewThroughput()
	m.Observe(filled(10, 10, false), fractal.Band{Height: 10}, 2*time.Millisecond)
	m.Observe(filled(10, 10, false), fractal.Band{StartRow: 10, Height: 10}, 2*time.Millisecond)

	if got := m.Value(); math.Abs(got-50) > 1e-9 {
		t.Errorf("px_per_ms = %f, want 50", got)
	}
}

func TestImbalance(t *testing.T) {
	tests := []struct {
		name  string
		times []time.Duration
		want  float64
	}{
		{"none", nil, 1},
		{"even", []time.Duration{time.Millisecond, time.Millisecond}, 1},
		{"skewed", []time.Duration{time.Millisecond, 3 * time.Millisecond}, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewImbalance()
			img := filled(2, 2, false)
			for _, d := range tt.times {
				m.Observe(img, fractal.Band{Height: 2}, d)
			}
			if got := m.Value(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("band_imbalance = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestCollect(t *testing.T) {
	ms := Standard()
	ObserveAll(ms, filled(2, 2, true), fractal.Band{Height: 2}, time.Millisecond)

	got := Collect(ms)
	for _, name := range []string{"in_set", "px_per_ms", "band_imbalance"} {
		if _, ok := got[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	if got["in_set"] != 1 {
		t.Errorf("in_set = %f, want 1", got["in_set"])
	}
}
