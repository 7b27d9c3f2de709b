// Package palette maps escape iteration counts to colors.
package palette

import (
	"fmt"
	"image/color"
	"math"
)

// Black is the color of points classified as inside the set.
var Black = color.RGBA{0, 0, 0, 255}

// MapColor returns the gradient color for an escape count. Points that hit
// the iteration cap are black; the rest sweep the hue circle once, with the
// value ramping up over the first half of the range.
func MapColor(iteration, maxIterations int) color.RGBA {
	if iteration == maxIterations {
		return Black
	}

	ratio := float64(iteration) / float64(maxIterations)
	hue := ratio * 360
	value := 1.0
	if ratio < 0.5 {
		value = 2 * ratio
	}
	return HSVToRGB(hue, 1.0, value)
}

// sector holds which of (c, x, 0) lands in each of r, g, b.
type sector [3]int

const (
	chroma = iota
	second
	zero
)

// sectors is indexed by hue/60; each entry applies while hue is strictly
// below its upper bound.
var sectors = [6]struct {
	upper float64
	perm  sector
}{
	{60, sector{chroma, second, zero}},
	{120, sector{second, chroma, zero}},
	{180, sector{zero, chroma, second}},
	{240, sector{zero, second, chroma}},
	{300, sector{second, zero, chroma}},
	{math.Inf(1), sector{chroma, zero, second}},
}

// HSVToRGB converts hue in degrees, saturation and value in [0, 1] to an
// opaque RGB color using the six-sector piecewise-linear transform.
func HSVToRGB(h, s, v float64) color.RGBA {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	perm := sectors[len(sectors)-1].perm
	for _, sec := range sectors {
		if h < sec.upper {
			perm = sec.perm
			break
		}
	}

	parts := [3]float64{chroma: c, second: x, zero: 0}
	return color.RGBA{
		R: channel(parts[perm[0]] + m),
		G: channel(parts[perm[1]] + m),
		B: channel(parts[perm[2]] + m),
		A: 255,
	}
}

func channel(f float64) uint8 {
	v := math.Round(f * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
