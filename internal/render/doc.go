// Package render turns generation parameters into Mandelbrot pixel buffers.
//
// A [Renderer] runs in one of two modes:
//
//   - whole: [Renderer.RenderFull] returns one buffer covering the image
//   - progressive: [Renderer.RenderProgressive] delivers fixed-height row
//     bands in ascending order, then signals completion exactly once
//
// Both modes map pixels to the complex plane with the same formula, so the
// bands of a progressive run concatenated in delivery order equal the whole
// image byte for byte.
//
// [Renderer.Stream] and [Renderer.Render] expose the same runs as a channel of
// [Event] values for callers that prefer a producer/consumer loop.
//
// Cancellation is cooperative: the context is checked between bands, never in
// the middle of one.
package render
