package viz

import (
	"strings"
	"testing"
	"time"

	"github.com/ark1700/fractal-generator/internal/fractal"
	"github.com/ark1700/fractal-generator/internal/render"
	"github.com/ark1700/fractal-generator/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func newTestModel(t *testing.T) (Model, *session.Session) {
	t.Helper()
	s := session.New(render.New(nil))
	t.Cleanup(s.Close)

	p := fractal.Params{Width: 8, Height: 8, MaxIterations: 16, Zoom: 1, CenterX: -0.5}
	return NewModel(s, p, render.ModeProgressive, time.Millisecond), s
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestResizeFollowsTerminal(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(m, tea.WindowSizeMsg{Width: 40, Height: 14})

	p := m.Params()
	if p.Width != 40 || p.Height != 20 {
		t.Errorf("got %dx%d, want 40x20", p.Width, p.Height)
	}
}

func TestStaleDebounceIgnored(t *testing.T) {
	m, s := newTestModel(t)
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	stale := m.token - 1

	m = update(m, debounceMsg{token: stale})
	if s.Epoch() != 0 {
		t.Fatalf("stale debounce started a run, epoch %d", s.Epoch())
	}

	m = update(m, debounceMsg{token: m.token})
	if m.Epoch() == 0 || !s.IsCurrent(m.Epoch()) {
		t.Errorf("current debounce did not start a run")
	}
	if !m.Running() {
		t.Error("expected running after start")
	}
}

func TestKeysAdjustParams(t *testing.T) {
	tests := []struct {
		key   string
		check func(before, after fractal.Params) bool
	}{
		{"+", func(b, a fractal.Params) bool { return a.Zoom == b.Zoom*zoomStep }},
		{"-", func(b, a fractal.Params) bool { return a.Zoom == b.Zoom/zoomStep }},
		{"]", func(b, a fractal.Params) bool { return a.MaxIterations == b.MaxIterations*2 }},
		{"[", func(b, a fractal.Params) bool { return a.MaxIterations == b.MaxIterations/2 }},
		{"l", func(b, a fractal.Params) bool { return a.CenterX > b.CenterX }},
		{"h", func(b, a fractal.Params) bool { return a.CenterX < b.CenterX }},
		{"j", func(b, a fractal.Params) bool { return a.CenterY > b.CenterY }},
		{"k", func(b, a fractal.Params) bool { return a.CenterY < b.CenterY }},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, _ := newTestModel(t)
			before := m.Params()
			m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)})
			if !tt.check(before, m.Params()) {
				t.Errorf("key %q: %+v -> %+v", tt.key, before, m.Params())
			}
		})
	}
}

func TestIterationsClamped(t *testing.T) {
	m, _ := newTestModel(t)
	for i := 0; i < 10; i++ {
		m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}})
	}
	if got := m.Params().MaxIterations; got != 1 {
		t.Errorf("iterations = %d, want 1", got)
	}
}

func TestResetRestoresView(t *testing.T) {
	m, _ := newTestModel(t)
	initial := m.Params()

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})

	if m.Params() != initial {
		t.Errorf("got %+v, want %+v", m.Params(), initial)
	}
}

func TestStaleEventsDropped(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(m, debounceMsg{token: m.token})
	current := m.Epoch()

	img := fractal.NewImage(m.params.Width, fractal.BandRows)
	stale := session.Event{
		Event: render.Event{Kind: render.EventBand, Image: img, Band: fractal.Band{Height: fractal.BandRows}, Progress: 50},
		Epoch: current - 1,
	}
	m.apply(stale)
	if m.Progress() != 0 {
		t.Errorf("stale event applied, progress %d", m.Progress())
	}

	m.apply(session.Event{Event: render.Event{Kind: render.EventComplete, Progress: 100}, Epoch: current})
	if m.Progress() != 100 || m.Running() {
		t.Errorf("complete not applied: progress %d running %v", m.Progress(), m.Running())
	}
}

func TestErrorEventShown(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(m, debounceMsg{token: m.token})

	m.apply(session.Event{
		Event: render.Event{Kind: render.EventError, Err: fractal.ErrInternal},
		Epoch: m.Epoch(),
	})
	if m.Err() == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(m.View(), "error:") {
		t.Error("view does not show the error")
	}
}

func TestProgressBar(t *testing.T) {
	style := lipgloss.NewStyle()
	tests := []struct {
		percent, width int
		filled         int
	}{
		{0, 10, 0},
		{50, 10, 5},
		{100, 10, 10},
		{150, 10, 10},
		{-5, 10, 0},
	}
	for _, tt := range tests {
		bar := ProgressBar(tt.percent, tt.width, style)
		if got := strings.Count(bar, "█"); got != tt.filled {
			t.Errorf("ProgressBar(%d, %d) filled = %d, want %d", tt.percent, tt.width, got, tt.filled)
		}
		if got := strings.Count(bar, "█") + strings.Count(bar, "░"); got != tt.width {
			t.Errorf("ProgressBar(%d, %d) cells = %d", tt.percent, tt.width, got)
		}
	}
}

func TestNextThemeWraps(t *testing.T) {
	name := Themes[0].Name
	for range Themes {
		name = NextTheme(name).Name
	}
	if name != Themes[0].Name {
		t.Errorf("got %s after full cycle", name)
	}
}

func TestInitialDebounceMatches(t *testing.T) {
	m, s := newTestModel(t)
	m = update(m, debounceMsg{token: m.token})
	if s.Epoch() == 0 {
		t.Error("initial debounce did not start a run")
	}
}
