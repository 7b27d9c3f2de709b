package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ark1700/fractal-generator/internal/automation"
	"github.com/ark1700/fractal-generator/internal/compute"
	"github.com/ark1700/fractal-generator/internal/config"
	"github.com/ark1700/fractal-generator/internal/export"
	"github.com/ark1700/fractal-generator/internal/fractal"
	"github.com/ark1700/fractal-generator/internal/metrics"
	"github.com/ark1700/fractal-generator/internal/render"
	"github.com/ark1700/fractal-generator/internal/session"
	"github.com/ark1700/fractal-generator/internal/storage"
	"github.com/ark1700/fractal-generator/internal/viz"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	width      int
	height     int
	iterations int
	zoom       float64
	centerX    float64
	centerY    float64
	mode       string
	backend    string
	bandRows   int
	outFile    string
	inline     bool
	timeout    time.Duration
	noJournal  bool
	configFile string
	preset     string
	debounceMs int
	benchIters int
	outDir     string
	zoomTo     float64
	frames     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "fraclab",
		Short:        "mandelbrot set generator",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".fraclab", "data directory")

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "generate an image",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	addViewFlags(renderCmd)
	renderCmd.Flags().StringVar(&mode, "mode", config.DefaultMode, "whole or progressive")
	renderCmd.Flags().StringVar(&backend, "backend", config.DefaultBackend, "compute backend ("+strings.Join(compute.Names(), ", ")+")")
	renderCmd.Flags().IntVar(&bandRows, "band-rows", fractal.BandRows, "rows per progressive band")
	renderCmd.Flags().StringVarP(&outFile, "out", "o", "", "write png to file")
	renderCmd.Flags().BoolVar(&inline, "inline", false, "show the image inline (iTerm2)")
	renderCmd.Flags().DurationVar(&timeout, "timeout", 0, "abandon the run after this long")
	renderCmd.Flags().BoolVar(&noJournal, "no-journal", false, "do not record the run")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "explore interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addViewFlags(liveCmd)
	liveCmd.Flags().StringVar(&mode, "mode", "", "whole or progressive (default from live.progressive)")
	liveCmd.Flags().StringVar(&backend, "backend", config.DefaultBackend, "compute backend")
	liveCmd.Flags().IntVar(&debounceMs, "debounce", config.DefaultDebounceMs, "delay before regenerating (ms)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot band timings of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare compute backends",
		Args:  cobra.NoArgs,
		RunE:  benchBackends,
	}
	benchCmd.Flags().IntVar(&benchIters, "iterations", 256, "iteration cap")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list named regions",
		RunE:  listPresets,
	}

	tourCmd := &cobra.Command{
		Use:   "tour [scenario.yaml]",
		Short: "render every stop of a scripted tour",
		Args:  cobra.ExactArgs(1),
		RunE:  runTour,
	}
	tourCmd.Flags().StringVar(&outDir, "out", "tour", "output directory")
	tourCmd.Flags().StringVar(&backend, "backend", config.DefaultBackend, "compute backend")

	zoomCmd := &cobra.Command{
		Use:   "zoom",
		Short: "render a geometric zoom sequence",
		Args:  cobra.NoArgs,
		RunE:  runZoom,
	}
	addViewFlags(zoomCmd)
	zoomCmd.Flags().Float64Var(&zoomTo, "to", 1000, "final zoom")
	zoomCmd.Flags().IntVar(&frames, "frames", 30, "number of frames")
	zoomCmd.Flags().StringVar(&outDir, "out", "frames", "output directory")
	zoomCmd.Flags().StringVar(&backend, "backend", config.DefaultBackend, "compute backend")

	rootCmd.AddCommand(renderCmd, liveCmd, listCmd, plotCmd, exportCmd, benchCmd, presetsCmd, tourCmd, zoomCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func addViewFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "image height in pixels")
	cmd.Flags().IntVar(&iterations, "iterations", config.DefaultIterations, "iteration cap")
	cmd.Flags().Float64Var(&zoom, "zoom", config.DefaultZoom, "magnification")
	cmd.Flags().Float64Var(&centerX, "cx", config.DefaultCenterX, "center real part")
	cmd.Flags().Float64Var(&centerY, "cy", config.DefaultCenterY, "center imaginary part")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a named region")
}

// loadConfig layers the config file, the preset and explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	if preset != "" {
		region, ok := config.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
		region.Apply(cfg)
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Width = width
	}
	if flags.Changed("height") {
		cfg.Height = height
	}
	if flags.Changed("iterations") {
		cfg.Iterations = iterations
	}
	if flags.Changed("zoom") {
		cfg.Zoom = zoom
	}
	if flags.Changed("cx") {
		cfg.Center.X = centerX
	}
	if flags.Changed("cy") {
		cfg.Center.Y = centerY
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("backend") {
		cfg.Render.Backend = backend
	}
	if flags.Changed("band-rows") {
		cfg.Render.BandRows = bandRows
	}
	if flags.Changed("debounce") {
		cfg.Live.DebounceMs = debounceMs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRenderer(cfg *config.Config) (*render.Renderer, error) {
	b, err := compute.Lookup(cfg.Render.Backend)
	if err != nil {
		return nil, err
	}
	r := render.New(b)
	if err := r.SetBandRows(cfg.Render.BandRows); err != nil {
		return nil, err
	}
	return r, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	defer r.Backend().Cleanup()

	m, _ := cfg.RenderMode()
	p := cfg.Params()
	out := cmd.OutOrStdout()

	ctx := cmd.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fmt.Fprintf(out, "generating %dx%d, %d iterations, zoom %g at %g%+gi (%s, %s)\n",
		p.Width, p.Height, p.MaxIterations, p.Zoom, p.CenterX, p.CenterY, m, r.Backend().Name())

	stats := metrics.Standard()
	start := time.Now()
	img, timings, runErr := generate(ctx, r, p, m, stats, out)
	elapsed := time.Since(start)

	if !noJournal {
		meta := storage.RunMetadata{
			Params:    p,
			Mode:      m.String(),
			Backend:   r.Backend().Name(),
			BandRows:  r.BandRows(),
			ElapsedMs: millis(elapsed),
			Status:    runStatus(runErr),
		}
		if runErr != nil {
			meta.Error = runErr.Error()
		} else {
			meta.Checksum = storage.Checksum(img.Pix)
			meta.Metrics = metrics.Collect(stats)
		}

		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(meta, timings)
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		fmt.Fprintf(out, "run: %s\n", id)
	}

	if runErr != nil {
		return runErr
	}
	fmt.Fprintf(out, "generated in %.3fs\n", elapsed.Seconds())
	for _, st := range stats {
		fmt.Fprintf(out, "  %-15s %.3f\n", st.Name(), st.Value())
	}

	if outFile != "" {
		if err := export.WritePNG(outFile, img); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
		fmt.Fprintf(out, "saved %s\n", outFile)
	}
	if inline {
		if !export.ITermCompatible() {
			fmt.Fprintln(cmd.ErrOrStderr(), "inline output needs an iTerm2 compatible terminal")
		} else if err := export.InlineImage(out, img); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	return nil
}

// generate runs p, feeding every band to stats and collecting its timing.
// Progressive runs print a progress line per band.
func generate(ctx context.Context, r *render.Renderer, p fractal.Params, m render.Mode, stats []metrics.Metric, out io.Writer) (*fractal.Image, []storage.BandTiming, error) {
	if m == render.ModeWhole {
		start := time.Now()
		img, err := r.RenderFull(ctx, p)
		if err != nil {
			return nil, nil, err
		}
		elapsed := time.Since(start)
		whole := fractal.Band{Height: p.Height}
		metrics.ObserveAll(stats, img, whole, elapsed)
		return img, []storage.BandTiming{{
			Height:   p.Height,
			Progress: 100,
			Millis:   millis(elapsed),
		}}, nil
	}

	asm := export.NewAssembler(p.Width, p.Height)
	var timings []storage.BandTiming
	var putErr error
	last := time.Now()

	err := r.RenderProgressive(ctx, p,
		func(img *fractal.Image, b fractal.Band, progress int) {
			now := time.Now()
			metrics.ObserveAll(stats, img, b, now.Sub(last))
			timings = append(timings, storage.BandTiming{
				StartRow: b.StartRow,
				Height:   b.Height,
				Progress: progress,
				Millis:   millis(now.Sub(last)),
			})
			last = now
			if err := asm.Put(b, img); err != nil && putErr == nil {
				putErr = err
			}
			fmt.Fprintf(out, "\rgenerating %3d%% rows %d-%d", progress, b.StartRow, b.EndRow())
		},
		func() { fmt.Fprintln(out) },
	)
	if err != nil {
		fmt.Fprintln(out)
		return nil, timings, err
	}
	if putErr != nil {
		return nil, timings, putErr
	}
	return asm.Image(), timings, nil
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}

func runStatus(err error) string {
	switch {
	case err == nil:
		return storage.StatusComplete
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return storage.StatusCanceled
	default:
		return storage.StatusError
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	if !export.IsTerminal(os.Stdout) {
		return fmt.Errorf("live needs an interactive terminal")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	r, err := newRenderer(cfg)
	if err != nil {
		return err
	}
	defer r.Backend().Cleanup()

	m, _ := cfg.RenderMode()
	if !cmd.Flags().Changed("mode") && cfg.Live.Progressive {
		m = render.ModeProgressive
	}
	return viz.RunExplorer(session.New(r), cfg.Params(), m, cfg.Debounce())
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSIZE\tITER\tZOOM\tMODE\tBACKEND\tELAPSED\tSTATUS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%g\t%s\t%s\t%.1fms\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.Width, run.Params.Height,
			run.Params.MaxIterations,
			run.Params.Zoom,
			run.Mode,
			run.Backend,
			run.ElapsedMs,
			run.Status,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	bands, err := st.LoadBands(runID)
	if err != nil {
		return err
	}
	if len(bands) == 0 {
		return fmt.Errorf("no band timings to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "mode: %s, backend: %s\n", meta.Mode, meta.Backend)
	fmt.Fprintf(out, "bands: %d\n\n", len(bands))

	data := make([]float64, len(bands))
	for i, b := range bands {
		data[i] = b.Millis
	}
	if len(data) == 1 {
		data = append(data, data[0])
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("ms per band"),
	)
	fmt.Fprintln(out, graph)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportJSON(cmd.OutOrStdout(), args[0])
}

func benchBackends(cmd *cobra.Command, args []string) error {
	sizes := [][2]int{{160, 120}, {640, 480}, {1280, 960}}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "benchmarking backends, %d iterations\n\n", benchIters)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BACKEND\tSIZE\tTIME\tPX/SEC")

	for _, name := range compute.Names() {
		b, err := compute.Lookup(name)
		if err != nil {
			return err
		}
		r := render.New(b)

		for _, sz := range sizes {
			p := fractal.Params{
				Width:         sz[0],
				Height:        sz[1],
				MaxIterations: benchIters,
				Zoom:          config.DefaultZoom,
				CenterX:       config.DefaultCenterX,
				CenterY:       config.DefaultCenterY,
			}

			start := time.Now()
			if _, err := r.RenderFull(cmd.Context(), p); err != nil {
				b.Cleanup()
				return err
			}
			elapsed := time.Since(start)

			pxPerSec := float64(sz[0]*sz[1]) / elapsed.Seconds()
			fmt.Fprintf(w, "%s\t%dx%d\t%v\t%.0f\n", name, sz[0], sz[1], elapsed.Round(time.Microsecond), pxPerSec)
		}
		b.Cleanup()
	}

	return w.Flush()
}

func runTour(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	b, err := compute.Lookup(backend)
	if err != nil {
		return err
	}
	defer b.Cleanup()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "tour: %s (%d stops)\n", scenario.Name, len(scenario.Steps))
	_, err = automation.RunScenario(cmd.Context(), render.New(b), scenario, outDir, printFrame(out))
	return err
}

func runZoom(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	b, err := compute.Lookup(cfg.Render.Backend)
	if err != nil {
		return err
	}
	defer b.Cleanup()

	sweep := &automation.ZoomSweep{
		Base:     cfg.Params(),
		ZoomFrom: cfg.Zoom,
		ZoomTo:   zoomTo,
		Frames:   frames,
	}
	_, err = automation.RunSweep(cmd.Context(), render.New(b), sweep, outDir, printFrame(cmd.OutOrStdout()))
	return err
}

func printFrame(out io.Writer) automation.FrameFunc {
	return func(f automation.Frame, total int) {
		fmt.Fprintf(out, "[%d/%d] zoom %-10.4g %-8s %s\n",
			f.Index+1, total, f.Params.Zoom, f.Elapsed.Round(time.Millisecond), f.Path)
	}
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCENTER\tZOOM\tITER\tDESCRIPTION")

	for _, name := range config.ListPresets() {
		r, _ := config.GetPreset(name)
		x, y := r.Center()
		fmt.Fprintf(w, "%s\t%.4f%+.4fi\t%.1f\t%d\t%s\n", name, x, y, r.Zoom(), r.Iterations, r.Description)
	}
	return w.Flush()
}
