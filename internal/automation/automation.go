// Package automation renders scripted sequences of viewpoints: YAML tours
// and geometric zoom sweeps. Every frame is written as a PNG.
package automation

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/ark1700/fractal-generator/internal/config"
	"github.com/ark1700/fractal-generator/internal/export"
	"github.com/ark1700/fractal-generator/internal/fractal"
	"github.com/ark1700/fractal-generator/internal/render"
	"github.com/ark1700/fractal-generator/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted tour
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Steps       []Step `yaml:"steps"`
}

// Step is a single viewpoint. A preset provides the starting region; the
// other fields override it when set.
type Step struct {
	Preset     string      `yaml:"preset"`
	Center     *[2]float64 `yaml:"center"`
	Zoom       float64     `yaml:"zoom"`
	Iterations int         `yaml:"iterations"`
	SaveAs     string      `yaml:"save_as"`
}

// Frame describes one written image.
type Frame struct {
	Index    int
	Params   fractal.Params
	Path     string
	Elapsed  time.Duration
	Checksum string
}

// FrameFunc is called after every written frame.
type FrameFunc func(f Frame, total int)

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Params resolves step i of the scenario to generation parameters.
func (s *Scenario) Params(i int) (fractal.Params, error) {
	if i < 0 || i >= len(s.Steps) {
		return fractal.Params{}, fmt.Errorf("step %d out of range (scenario has %d)", i+1, len(s.Steps))
	}
	step := s.Steps[i]

	cfg := config.DefaultConfig()
	if s.Width > 0 {
		cfg.Width = s.Width
	}
	if s.Height > 0 {
		cfg.Height = s.Height
	}
	if step.Preset != "" {
		region, ok := config.GetPreset(step.Preset)
		if !ok {
			return fractal.Params{}, fmt.Errorf("step %d: unknown preset %s", i+1, step.Preset)
		}
		region.Apply(cfg)
	}
	if step.Center != nil {
		cfg.Center.X, cfg.Center.Y = step.Center[0], step.Center[1]
	}
	if step.Zoom != 0 {
		cfg.Zoom = step.Zoom
	}
	if step.Iterations != 0 {
		cfg.Iterations = step.Iterations
	}

	p := cfg.Params()
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("step %d: %w", i+1, err)
	}
	return p, nil
}

// RunScenario renders every step into outDir. Frames written before a
// failure stay on disk and are returned with the error.
func RunScenario(ctx context.Context, r *render.Renderer, scenario *Scenario, outDir string, onFrame FrameFunc) ([]Frame, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}

	frames := make([]Frame, 0, len(scenario.Steps))
	for i, step := range scenario.Steps {
		p, err := scenario.Params(i)
		if err != nil {
			return frames, err
		}

		name := step.SaveAs
		if name == "" {
			name = fmt.Sprintf("step_%03d.png", i+1)
		}

		f, err := renderFrame(ctx, r, p, filepath.Join(outDir, name))
		if err != nil {
			return frames, fmt.Errorf("step %d: %w", i+1, err)
		}
		f.Index = i
		frames = append(frames, f)
		if onFrame != nil {
			onFrame(f, len(scenario.Steps))
		}
	}

	return frames, nil
}

// ZoomSweep zooms geometrically from ZoomFrom to ZoomTo around the center of
// Base, keeping its size and iteration cap.
type ZoomSweep struct {
	Base     fractal.Params
	ZoomFrom float64
	ZoomTo   float64
	Frames   int
}

// Zooms returns the zoom factor of every frame, or nil for a sweep that
// fails validation.
func (z *ZoomSweep) Zooms() []float64 {
	if z.validate() != nil {
		return nil
	}
	if z.Frames == 1 {
		return []float64{z.ZoomFrom}
	}
	ratio := math.Pow(z.ZoomTo/z.ZoomFrom, 1/float64(z.Frames-1))
	zooms := make([]float64, z.Frames)
	zoom := z.ZoomFrom
	for i := range zooms {
		zooms[i] = zoom
		zoom *= ratio
	}
	zooms[len(zooms)-1] = z.ZoomTo
	return zooms
}

func (z *ZoomSweep) validate() error {
	if z.Frames < 1 {
		return fmt.Errorf("%w: frames must be at least 1, got %d", fractal.ErrInvalidParameters, z.Frames)
	}
	if !(z.ZoomFrom > 0) || !(z.ZoomTo > 0) {
		return fmt.Errorf("%w: zoom range must be positive, got %g..%g", fractal.ErrInvalidParameters, z.ZoomFrom, z.ZoomTo)
	}
	return nil
}

// RunSweep renders the sweep into outDir as frame_NNN.png.
func RunSweep(ctx context.Context, r *render.Renderer, sweep *ZoomSweep, outDir string, onFrame FrameFunc) ([]Frame, error) {
	if err := sweep.validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, err
	}

	zooms := sweep.Zooms()
	frames := make([]Frame, 0, len(zooms))
	for i, zoom := range zooms {
		p := sweep.Base
		p.Zoom = zoom

		f, err := renderFrame(ctx, r, p, filepath.Join(outDir, fmt.Sprintf("frame_%03d.png", i)))
		if err != nil {
			return frames, fmt.Errorf("frame %d: %w", i, err)
		}
		f.Index = i
		frames = append(frames, f)
		if onFrame != nil {
			onFrame(f, len(zooms))
		}
	}

	return frames, nil
}

func renderFrame(ctx context.Context, r *render.Renderer, p fractal.Params, path string) (Frame, error) {
	start := time.Now()
	img, err := r.RenderFull(ctx, p)
	if err != nil {
		return Frame{}, err
	}
	elapsed := time.Since(start)

	if err := export.WritePNG(path, img); err != nil {
		return Frame{}, err
	}
	return Frame{
		Params:   p,
		Path:     path,
		Elapsed:  elapsed,
		Checksum: storage.Checksum(img.Pix),
	}, nil
}
