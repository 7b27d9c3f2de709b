package compute

import (
	"fmt"
	"image/color"
	"sort"
)

// Shader returns the color of pixel (px, py) of the full image.
type Shader func(px, py int) color.RGBA

// Backend fills rows [startRow, endRow) of an image into dst. dst holds
// exactly those rows, four bytes per pixel, with dst row 0 being startRow.
type Backend interface {
	Name() string
	Available() bool
	Shade(dst []uint8, width, startRow, endRow int, fn Shader) error
	Cleanup()
}

// ShadeError reports a shader panic at a given pixel.
type ShadeError struct {
	X, Y  int
	Value interface{}
}

func (e *ShadeError) Error() string {
	return fmt.Sprintf("compute: shader panic at (%d, %d): %v", e.X, e.Y, e.Value)
}

var backends = map[string]func() Backend{
	"serial": func() Backend { return NewSerialBackend() },
	"cpu":    func() Backend { return NewCPUBackend() },
}

// Lookup returns a fresh backend by name.
func Lookup(name string) (Backend, error) {
	fn, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend: %s (available: %v)", name, Names())
	}
	b := fn()
	if !b.Available() {
		return nil, fmt.Errorf("backend %s not available", name)
	}
	return b, nil
}

// Names lists the registered backends.
func Names() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default picks the parallel CPU backend.
func Default() Backend {
	return NewCPUBackend()
}

func checkBounds(dst []uint8, width, startRow, endRow int) error {
	if width <= 0 || startRow < 0 || endRow < startRow {
		return fmt.Errorf("compute: invalid row range [%d, %d) width %d", startRow, endRow, width)
	}
	if need := (endRow - startRow) * width * 4; len(dst) < need {
		return fmt.Errorf("compute: buffer too small: have %d bytes, need %d", len(dst), need)
	}
	return nil
}

// shadeRows is the inner loop shared by every backend. It recovers shader
// panics so a fault in one goroutine never takes the process down.
func shadeRows(dst []uint8, width, startRow, from, to int, fn Shader) (err error) {
	px, py := 0, from
	defer func() {
		if r := recover(); r != nil {
			err = &ShadeError{X: px, Y: py, Value: r}
		}
	}()

	for py = from; py < to; py++ {
		off := (py - startRow) * width * 4
		for px = 0; px < width; px++ {
			c := fn(px, py)
			i := off + px*4
			dst[i] = c.R
			dst[i+1] = c.G
			dst[i+2] = c.B
			dst[i+3] = 255
		}
	}
	return nil
}
