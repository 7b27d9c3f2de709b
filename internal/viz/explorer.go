package viz

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"
	"time"

	"github.com/ark1700/fractal-generator/internal/export"
	"github.com/ark1700/fractal-generator/internal/fractal"
	"github.com/ark1700/fractal-generator/internal/render"
	"github.com/ark1700/fractal-generator/internal/session"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	chromeLines   = 4
	minCols       = 10
	minRows       = 4
	maxIterations = 1 << 16
	panStep       = 0.1
	zoomStep      = 1.5
)

type (
	debounceMsg struct{ token int }
	eventMsg    session.Event
	closedMsg   struct{}
)

// Model contains the explorer view state. The pixel size of the parameters
// follows the terminal: one column per pixel, two pixels per row.
type Model struct {
	session  *session.Session
	params   fractal.Params
	initial  fractal.Params
	mode     render.Mode
	debounce time.Duration

	token    int
	epoch    uint64
	frame    *export.Assembler
	progress int
	running  bool
	elapsed  time.Duration
	err      error

	cols, rows int
	theme      Theme
	styles     styles
	showHelp   bool
}

// NewModel prepares an explorer around s. The width and height of p are
// replaced by the terminal size once it is known.
func NewModel(s *session.Session, p fractal.Params, mode render.Mode, debounce time.Duration) Model {
	m := Model{
		session:  s,
		params:   p,
		initial:  p,
		mode:     mode,
		debounce: debounce,
		theme:    ThemeCyberpunk,
		styles:   newStyles(ThemeCyberpunk),
	}
	m.resize(80, 24)
	return m
}

func (m *Model) resize(width, height int) {
	m.cols = max(width, minCols)
	m.rows = max(height-chromeLines, minRows)
	m.params.Width = m.cols
	m.params.Height = m.rows * 2
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.session), debounceTick(m.debounce, m.token))
}

func waitForEvent(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-s.Events()
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

// schedule arms the debounce timer; only the newest token triggers a run.
func (m *Model) schedule() tea.Cmd {
	m.token++
	return debounceTick(m.debounce, m.token)
}

func debounceTick(d time.Duration, token int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return debounceMsg{token: token} })
}

func (m *Model) start() {
	m.frame = export.NewAssembler(m.params.Width, m.params.Height)
	m.progress = 0
	m.err = nil
	m.running = true
	m.epoch = m.session.Start(m.params, m.mode)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, m.schedule()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case debounceMsg:
		if msg.token == m.token {
			m.start()
		}
		return m, nil

	case eventMsg:
		m.apply(session.Event(msg))
		return m, waitForEvent(m.session)

	case closedMsg:
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	span := fractal.BaseSpan / m.params.Zoom

	switch msg.String() {
	case "q", "ctrl+c":
		m.session.Cancel()
		return m, tea.Quit
	case "left", "h":
		m.params.CenterX -= span * panStep
	case "right", "l":
		m.params.CenterX += span * panStep
	case "up", "k":
		m.params.CenterY -= span * panStep
	case "down", "j":
		m.params.CenterY += span * panStep
	case "+", "=":
		m.params.Zoom *= zoomStep
	case "-", "_":
		m.params.Zoom /= zoomStep
	case "]":
		m.params.MaxIterations = min(m.params.MaxIterations*2, maxIterations)
	case "[":
		m.params.MaxIterations = max(m.params.MaxIterations/2, 1)
	case "p":
		if m.mode == render.ModeProgressive {
			m.mode = render.ModeWhole
		} else {
			m.mode = render.ModeProgressive
		}
	case "r":
		w, h := m.params.Width, m.params.Height
		m.params = m.initial
		m.params.Width, m.params.Height = w, h
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.styles = newStyles(m.theme)
		return m, nil
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	default:
		return m, nil
	}
	return m, m.schedule()
}

// apply folds an event of the current run into the frame. Events of
// abandoned runs are dropped.
func (m *Model) apply(ev session.Event) {
	if ev.Epoch != m.epoch || !m.session.IsCurrent(ev.Epoch) {
		return
	}

	m.elapsed = ev.Elapsed
	switch ev.Kind {
	case render.EventBand, render.EventImage:
		if err := m.frame.Put(ev.Band, ev.Image); err != nil {
			m.err = err
			m.running = false
			return
		}
		m.progress = ev.Progress
		if ev.Kind == render.EventImage {
			m.running = false
		}
	case render.EventComplete:
		m.progress = 100
		m.running = false
	case render.EventError:
		m.err = ev.Err
		m.running = false
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("fraclab"))
	b.WriteString(m.styles.label.Render("  center "))
	b.WriteString(m.styles.value.Render(fmt.Sprintf("%.6f%+.6fi", m.params.CenterX, m.params.CenterY)))
	b.WriteString(m.styles.label.Render("  zoom "))
	b.WriteString(m.styles.value.Render(formatZoom(m.params.Zoom)))
	b.WriteString(m.styles.label.Render("  iter "))
	b.WriteString(m.styles.value.Render(fmt.Sprintf("%d", m.params.MaxIterations)))
	b.WriteString(m.styles.label.Render("  mode "))
	b.WriteString(m.styles.value.Render(m.mode.String()))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(m.help())
	} else {
		b.WriteString(m.preview())
	}

	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(m.styles.hint.Render("arrows pan  +/- zoom  [/] iterations  p mode  r reset  t theme  ? help  q quit"))
	return b.String()
}

func (m Model) preview() string {
	if m.frame == nil {
		return strings.Repeat("\n", m.rows-1)
	}

	img := m.frame.Image()
	lines := make([]string, 0, m.rows)
	for row := 0; row < m.rows; row++ {
		var line strings.Builder
		for col := 0; col < m.cols && col < img.Width; col++ {
			line.WriteString(halfBlock(pixel(img, col, 2*row), pixel(img, col, 2*row+1)))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func pixel(img *fractal.Image, x, y int) color.RGBA {
	if y >= img.Height || x >= img.Width {
		return color.RGBA{}
	}
	i := y*img.Stride() + x*4
	return color.RGBA{img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3]}
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return m.styles.failed.Render("error: " + m.err.Error())
	case m.running:
		return m.styles.busy.Render(fmt.Sprintf("generating %3d%% ", m.progress)) +
			ProgressBar(m.progress, 30, m.styles.busy)
	case m.frame != nil:
		suffix := ""
		if m.mode == render.ModeProgressive {
			suffix = " (progressive)"
		}
		return m.styles.ok.Render(fmt.Sprintf("generated in %.2fs%s", m.elapsed.Seconds(), suffix))
	default:
		return m.styles.label.Render("waiting for first frame")
	}
}

func (m Model) help() string {
	rows := [][2]string{
		{"arrows, hjkl", "pan by a tenth of the view"},
		{"+ / -", "zoom in / out"},
		{"[ / ]", "halve / double the iteration cap"},
		{"p", "toggle whole / progressive rendering"},
		{"r", "reset to the initial view"},
		{"t", "cycle color themes"},
		{"q", "quit"},
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(m.styles.value.Render(fmt.Sprintf("  %-14s", r[0])))
		b.WriteString(m.styles.label.Render(r[1]))
		b.WriteString("\n")
	}
	for i := len(rows); i < m.rows-1; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

func formatZoom(z float64) string {
	if z >= 1e4 || z < 1e-2 {
		return fmt.Sprintf("%.2e", z)
	}
	return fmt.Sprintf("%.2f", math.Round(z*100)/100)
}

// Epoch is the tag of the run the explorer is currently showing.
func (m Model) Epoch() uint64 { return m.epoch }

// Params are the parameters of the next or current run.
func (m Model) Params() fractal.Params { return m.params }

// Progress is the last progress value of the current run.
func (m Model) Progress() int { return m.progress }

// Running reports whether the current run has not finished yet.
func (m Model) Running() bool { return m.running }

// Err is the failure of the current run, if any.
func (m Model) Err() error { return m.err }

// RunExplorer opens the explorer full screen and blocks until the user quits.
// The session is closed on return.
func RunExplorer(s *session.Session, p fractal.Params, mode render.Mode, debounce time.Duration) error {
	defer s.Close()

	m := NewModel(s, p, mode, debounce)
	m.resize(export.TerminalSize(os.Stdout, 80, 24))

	prog := tea.NewProgram(m, tea.WithAltScreen())
	_, err := prog.Run()
	return err
}
