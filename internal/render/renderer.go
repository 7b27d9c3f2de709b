package render

import (
	"context"
	"fmt"
	"image/color"

	"github.com/ark1700/fractal-generator/internal/compute"
	"github.com/ark1700/fractal-generator/internal/fractal"
	"github.com/ark1700/fractal-generator/internal/palette"
)

// Renderer maps parameters to pixels through a compute backend, whole or in bands.
type Renderer struct {
	backend  compute.Backend
	bandRows int
}

// New returns a renderer shading through backend; nil selects the default.
func New(backend compute.Backend) *Renderer {
	if backend == nil {
		backend = compute.Default()
	}
	return &Renderer{
		backend:  backend,
		bandRows: fractal.BandRows,
	}
}

func (r *Renderer) Backend() compute.Backend { return r.backend }
func (r *Renderer) BandRows() int            { return r.bandRows }

// SetBandRows changes the progressive band height.
func (r *Renderer) SetBandRows(n int) error {
	if n <= 0 {
		return fmt.Errorf("band rows must be positive, got %d", n)
	}
	r.bandRows = n
	return nil
}

func shader(p fractal.Params) compute.Shader {
	vp := p.Viewport()
	return func(px, py int) color.RGBA {
		x0, y0 := vp.Point(px, py, p.Width, p.Height)
		return palette.MapColor(fractal.EscapeIterations(x0, y0, p.MaxIterations), p.MaxIterations)
	}
}

// shadeBand computes one band into a freshly allocated image.
func (r *Renderer) shadeBand(fn compute.Shader, p fractal.Params, b fractal.Band) (*fractal.Image, error) {
	img := fractal.NewImage(p.Width, b.Height)
	if err := r.backend.Shade(img.Pix, p.Width, b.StartRow, b.EndRow(), fn); err != nil {
		return nil, &fractal.RenderError{Band: b, Wrapped: fmt.Errorf("%w: %v", fractal.ErrInternal, err)}
	}
	return img, nil
}

// RenderFull computes the whole image. The context is checked between
// band-sized blocks of rows.
func (r *Renderer) RenderFull(ctx context.Context, p fractal.Params) (*fractal.Image, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	fn := shader(p)
	img := fractal.NewImage(p.Width, p.Height)
	stride := img.Stride()

	for _, b := range fractal.Bands(p.Height, r.bandRows) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		dst := img.Pix[b.StartRow*stride : b.EndRow()*stride]
		if err := r.backend.Shade(dst, p.Width, b.StartRow, b.EndRow(), fn); err != nil {
			return nil, &fractal.RenderError{Band: b, Wrapped: fmt.Errorf("%w: %v", fractal.ErrInternal, err)}
		}
	}

	return img, nil
}

// BandFunc receives one finished band. The image is owned by the callee.
type BandFunc func(img *fractal.Image, band fractal.Band, progress int)

// RenderProgressive computes the image band by band in ascending row order,
// calling onBand after each band and onComplete once after the last one.
//
// Invalid parameters are rejected before any band is produced. A fault or a
// cancelled context stops the run; bands already delivered stay valid and
// onComplete is not called.
func (r *Renderer) RenderProgressive(ctx context.Context, p fractal.Params, onBand BandFunc, onComplete func()) error {
	if err := p.Validate(); err != nil {
		return err
	}

	fn := shader(p)
	for _, b := range fractal.Bands(p.Height, r.bandRows) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		img, err := r.shadeBand(fn, p, b)
		if err != nil {
			return err
		}
		if onBand != nil {
			onBand(img, b, fractal.Progress(b, p.Height))
		}
	}

	if onComplete != nil {
		onComplete()
	}
	return nil
}
