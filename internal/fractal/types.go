package fractal

import (
	"fmt"
	"image"
	"math"
)

const (
	// BaseSpan is the horizontal extent of the complex plane shown at zoom 1.
	BaseSpan = 3.5

	// BandRows is the height of a progressive band.
	BandRows = 20
)

// Params is the input of a single generation run.
type Params struct {
	Width         int     `yaml:"width" json:"width"`
	Height        int     `yaml:"height" json:"height"`
	MaxIterations int     `yaml:"iterations" json:"iterations"`
	Zoom          float64 `yaml:"zoom" json:"zoom"`
	CenterX       float64 `yaml:"center_x" json:"center_x"`
	CenterY       float64 `yaml:"center_y" json:"center_y"`
}

// Validate reports ErrInvalidParameters for values that cannot describe an
// image or a viewport.
func (p Params) Validate() error {
	if p.Width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidParameters, p.Width)
	}
	if p.Height <= 0 {
		return fmt.Errorf("%w: height must be positive, got %d", ErrInvalidParameters, p.Height)
	}
	if p.MaxIterations < 1 {
		return fmt.Errorf("%w: iterations must be at least 1, got %d", ErrInvalidParameters, p.MaxIterations)
	}
	if !(p.Zoom > 0) || math.IsInf(p.Zoom, 0) {
		return fmt.Errorf("%w: zoom must be positive and finite, got %g", ErrInvalidParameters, p.Zoom)
	}
	if !finite(p.CenterX) || !finite(p.CenterY) {
		return fmt.Errorf("%w: center must be finite, got (%g, %g)", ErrInvalidParameters, p.CenterX, p.CenterY)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Viewport is the rectangle of the complex plane mapped onto the pixel grid.
type Viewport struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Viewport derives the complex-plane rectangle for p. The vertical extent
// follows the aspect ratio Height/Width.
func (p Params) Viewport() Viewport {
	scale := BaseSpan / p.Zoom
	w, h := float64(p.Width), float64(p.Height)
	return Viewport{
		MinX: p.CenterX - scale/2,
		MaxX: p.CenterX + scale/2,
		MinY: p.CenterY - scale*h/w/2,
		MaxY: p.CenterY + scale*h/w/2,
	}
}

// Point maps pixel (px, py) of a width x height grid to the complex plane.
// py is always the row of the full image, never a row inside a band.
func (v Viewport) Point(px, py, width, height int) (x0, y0 float64) {
	x0 = v.MinX + (float64(px)/float64(width))*(v.MaxX-v.MinX)
	y0 = v.MinY + (float64(py)/float64(height))*(v.MaxY-v.MinY)
	return x0, y0
}

// Band is a contiguous horizontal slice of the full image.
type Band struct {
	StartRow int `json:"start_row"`
	Height   int `json:"height"`
}

// EndRow is the first row after the band.
func (b Band) EndRow() int {
	return b.StartRow + b.Height
}

// Bands partitions [0, height) into ascending bands of rows rows; the last
// band is truncated to fit.
func Bands(height, rows int) []Band {
	if height <= 0 || rows <= 0 {
		return nil
	}
	bands := make([]Band, 0, (height+rows-1)/rows)
	for start := 0; start < height; start += rows {
		end := start + rows
		if end > height {
			end = height
		}
		bands = append(bands, Band{StartRow: start, Height: end - start})
	}
	return bands
}

// Progress is the percentage of the image finished once b is delivered. The
// fraction is taken before scaling, so 460 of 800 rows reports 57.
func Progress(b Band, height int) int {
	return int(math.Round(float64(b.EndRow()) / float64(height) * 100))
}

// Image is a dense row-major buffer with four bytes (R, G, B, A) per pixel.
// A is always 255.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewImage allocates a zeroed buffer of w x h pixels.
func NewImage(w, h int) *Image {
	return &Image{Width: w, Height: h, Pix: make([]uint8, w*h*4)}
}

// Stride is the number of bytes per row.
func (m *Image) Stride() int {
	return m.Width * 4
}

// Row returns the bytes of row y.
func (m *Image) Row(y int) []uint8 {
	s := m.Stride()
	return m.Pix[y*s : (y+1)*s]
}

// RGBA exposes the buffer as an image.RGBA sharing the same pixels.
func (m *Image) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    m.Pix,
		Stride: m.Stride(),
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
}
