package export

import (
	"encoding/base64"
	"image/png"
	"io"
	"os"

	"github.com/ark1700/fractal-generator/internal/fractal"
	"golang.org/x/term"
)

// ITermCompatible reports whether stdout is an iTerm2 terminal.
func ITermCompatible() bool {
	return os.Getenv("TERM_PROGRAM") == "iTerm.app" && IsTerminal(os.Stdout)
}

func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalSize returns the size of f in cells, or fallback values when f is
// not a terminal.
func TerminalSize(f *os.File, fallbackW, fallbackH int) (int, int) {
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return fallbackW, fallbackH
	}
	return w, h
}

// InlineImage writes img using the iTerm2 inline image escape sequence.
func InlineImage(w io.Writer, img *fractal.Image) error {
	if _, err := io.WriteString(w, "\x1b]1337;File=inline=1:"); err != nil {
		return err
	}
	enc := base64.NewEncoder(base64.StdEncoding, w)
	if err := png.Encode(enc, img.RGBA()); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\x07")
	return err
}
