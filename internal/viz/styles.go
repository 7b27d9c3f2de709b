package viz

import (
	"image/color"
	"strings"

	"github.com/ark1700/fractal-generator/internal/palette"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title  lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	hint   lipgloss.Style
	ok     lipgloss.Style
	busy   lipgloss.Style
	failed lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		label:  lipgloss.NewStyle().Foreground(t.Muted),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		hint:   lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		ok:     lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		busy:   lipgloss.NewStyle().Bold(true).Foreground(t.Warning),
		failed: lipgloss.NewStyle().Bold(true).Foreground(t.Error),
	}
}

// ProgressBar renders percent in [0, 100] as a bar of width cells.
func ProgressBar(percent, width int, style lipgloss.Style) string {
	filled := percent * width / 100
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return style.Render(strings.Repeat("█", filled)) + strings.Repeat("░", width-filled)
}

// halfBlock draws two vertically stacked pixels in one cell. Transparent
// pixels have not been computed yet and are left blank.
func halfBlock(top, bottom color.RGBA) string {
	switch {
	case top.A == 0 && bottom.A == 0:
		return " "
	case bottom.A == 0:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Hex(top))).Render("▀")
	case top.A == 0:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Hex(bottom))).Render("▄")
	default:
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Hex(top))).
			Background(lipgloss.Color(palette.Hex(bottom))).
			Render("▀")
	}
}
