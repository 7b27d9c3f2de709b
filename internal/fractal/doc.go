// Package fractal provides the core primitives for escape-time rendering of
// the Mandelbrot set.
//
// The package defines the types shared by every stage of a generation run:
//
//   - [Params]: immutable input of one run (pixel size, iteration cap, viewport)
//   - [Viewport]: complex-plane rectangle derived from Params
//   - [Image]: row-major RGBA8 pixel buffer, alpha always 255
//   - [Band]: horizontal slice of rows delivered as one progressive unit
//   - [EscapeIterations]: the escape-time evaluator
//
// # Example
//
//	p := fractal.Params{Width: 800, Height: 600, MaxIterations: 100, Zoom: 1, CenterX: -0.5}
//	vp := p.Viewport()
//	x0, y0 := vp.Point(400, 300, p.Width, p.Height)
//	n := fractal.EscapeIterations(x0, y0, p.MaxIterations)
//
// # Ownership
//
// An Image handed to a caller belongs to that caller. Producers allocate a
// fresh Image for every delivery and never write to it afterwards.
package fractal
