package config

import (
	"sort"

	"github.com/ark1700/fractal-generator/internal/fractal"
)

// Region is a landmark of the set given by its complex-plane bounds.
type Region struct {
	Description string
	Xmin, Xmax  float64
	Ymin, Ymax  float64
	Iterations  int
}

// Center is the midpoint of the region.
func (r Region) Center() (x, y float64) {
	return (r.Xmin + r.Xmax) / 2, (r.Ymin + r.Ymax) / 2
}

// Zoom is the zoom factor whose horizontal span equals the region width.
func (r Region) Zoom() float64 {
	return fractal.BaseSpan / (r.Xmax - r.Xmin)
}

var Presets = map[string]Region{
	"overview": {
		Description: "whole set",
		Xmin:        -2.25, Xmax: 1.25, Ymin: -1.3, Ymax: 1.3,
		Iterations: 100,
	},
	"seahorse": {
		Description: "seahorse valley, repeating curls",
		Xmin:        -0.8, Xmax: -0.7, Ymin: 0.05, Ymax: 0.15,
		Iterations: 300,
	},
	"elephant": {
		Description: "elephant valley, trunk-like tendrils",
		Xmin:        -1.85, Xmax: -1.75, Ymin: -0.10, Ymax: -0.02,
		Iterations: 300,
	},
	"spiral": {
		Description: "spiral minibrot",
		Xmin:        -0.7435, Xmax: -0.7420, Ymin: 0.1310, Ymax: 0.1325,
		Iterations: 800,
	},
	"triple": {
		Description: "threefold spiral",
		Xmin:        -0.7480, Xmax: -0.7450, Ymin: 0.0950, Ymax: 0.0980,
		Iterations: 600,
	},
	"dragon": {
		Description: "valley of the dragon",
		Xmin:        -0.7400, Xmax: -0.7350, Ymin: 0.1800, Ymax: 0.1850,
		Iterations: 600,
	},
	"minibrot": {
		Description: "minibrot inside a spiral arm",
		Xmin:        -1.7390, Xmax: -1.7375, Ymin: -0.0235, Ymax: -0.0220,
		Iterations: 1000,
	},
}

func GetPreset(name string) (Region, bool) {
	r, ok := Presets[name]
	return r, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply moves the viewport of c onto the region.
func (r Region) Apply(c *Config) {
	c.Center.X, c.Center.Y = r.Center()
	c.Zoom = r.Zoom()
	if r.Iterations > 0 {
		c.Iterations = r.Iterations
	}
}
