// Package viz provides the terminal explorer for the fractal renderer.
//
// The explorer is a Bubble Tea program that draws the image with half-block
// characters, two pixels per cell, in truecolor:
//
//   - [Model]: explorer state, one render session per program
//   - Theme selection with 3 built-in color schemes
//
// # Key Bindings
//
//	Arrows/hjkl - Pan
//	+ / -       - Zoom in / out
//	[ / ]       - Halve / double the iteration cap
//	p           - Toggle progressive mode
//	r           - Reset to the initial view
//	t           - Cycle color themes
//	?           - Show help overlay
//	q           - Quit
//
// Edits are debounced; each regeneration abandons the previous one and events
// from abandoned runs are discarded.
package viz
