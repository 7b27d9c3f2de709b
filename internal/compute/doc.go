// Package compute provides the pixel-shading backends used by the renderer.
//
// A backend fills a range of image rows by calling a [Shader] for every
// pixel. Two backends are available:
//
//   - serial: one goroutine walks the rows in order
//   - cpu: rows are split across runtime.NumCPU() goroutines
//
// Select one by name:
//
//	backend, err := compute.Lookup("cpu")
//	err = backend.Shade(buf, width, 0, height, shader)
//
// Shaders run concurrently on the cpu backend, so they must not share
// mutable state. A panic inside a shader is recovered and returned as a
// [*ShadeError].
package compute
