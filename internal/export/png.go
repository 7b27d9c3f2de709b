// Package export writes rendered images to files and terminals.
package export

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"

	"github.com/ark1700/fractal-generator/internal/fractal"
)

// PNG encodes img to w.
func PNG(w io.Writer, img *fractal.Image) error {
	if img == nil {
		return fmt.Errorf("export: nil image")
	}
	return png.Encode(w, img.RGBA())
}

// WritePNG encodes img into the file at path, replacing it.
func WritePNG(path string, img *fractal.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	if err := PNG(bw, img); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Assembler pastes progressive bands into a full-size image.
type Assembler struct {
	img *fractal.Image
}

func NewAssembler(width, height int) *Assembler {
	return &Assembler{img: fractal.NewImage(width, height)}
}

// Put copies band into place. The band image must be as wide as the target.
func (a *Assembler) Put(band fractal.Band, img *fractal.Image) error {
	if img.Width != a.img.Width || band.EndRow() > a.img.Height || band.Height != img.Height {
		return fmt.Errorf("export: band %d+%d (%dx%d) does not fit %dx%d image",
			band.StartRow, band.Height, img.Width, img.Height, a.img.Width, a.img.Height)
	}
	copy(a.img.Pix[band.StartRow*a.img.Stride():], img.Pix)
	return nil
}

func (a *Assembler) Image() *fractal.Image {
	return a.img
}
