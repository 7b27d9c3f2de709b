package fractal

import "testing"

func TestEscapeIterationsOrigin(t *testing.T) {
	for _, n := range []int{1, 2, 10, 100, 1000} {
		if got := EscapeIterations(0, 0, n); got != n {
			t.Errorf("origin with cap %d: expected %d, got %d", n, n, got)
		}
	}
}

func TestEscapeIterationsOutsideRadius(t *testing.T) {
	// z starts at 0, so the first bound test passes and one iteration is
	// counted before the escape is seen.
	points := [][2]float64{{3, 0}, {0, -2.5}, {2, 2}, {-10, 4}}
	for _, pt := range points {
		if got := EscapeIterations(pt[0], pt[1], 50); got != 1 {
			t.Errorf("point %v: expected 1, got %d", pt, got)
		}
	}
}

func TestEscapeIterationsBounded(t *testing.T) {
	tests := []struct {
		name   string
		x0, y0 float64
		max    int
	}{
		{"main cardioid", -0.5, 0, 40},
		{"period two bulb", -1, 0, 40},
		{"boundary", -0.75, 0.1, 200},
		{"outside", 1, 1, 40},
		{"tip", -2, 0, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeIterations(tt.x0, tt.y0, tt.max)
			if got < 0 || got > tt.max {
				t.Errorf("expected result in [0, %d], got %d", tt.max, got)
			}
		})
	}
}

func TestEscapeIterationsKnownValues(t *testing.T) {
	tests := []struct {
		x0, y0   float64
		max      int
		expected int
	}{
		{-1, 0, 30, 30},
		{-2, 0, 30, 30},
		{1, 0, 30, 3},
		{0.5, 0.5, 30, 5},
		{-0.5, 0, 30, 30},
	}

	for _, tt := range tests {
		if got := EscapeIterations(tt.x0, tt.y0, tt.max); got != tt.expected {
			t.Errorf("(%g, %g): expected %d, got %d", tt.x0, tt.y0, tt.expected, got)
		}
	}
}

func BenchmarkEscapeIterations(b *testing.B) {
	for i := 0; i < b.N; i++ {
		EscapeIterations(-0.7435, 0.1314, 1000)
	}
}
