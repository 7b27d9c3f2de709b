package render

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ark1700/fractal-generator/internal/fractal"
	"github.com/fortytw2/leaktest"
)

func TestStreamDeliversBandsThenComplete(t *testing.T) {
	defer leaktest.Check(t)()

	p := fractal.Params{Width: 50, Height: 90, MaxIterations: 30, Zoom: 1, CenterX: -0.5}
	r := New(nil)

	full, err := r.RenderFull(context.Background(), p)
	if err != nil {
		t.Fatalf("full render failed: %v", err)
	}

	var events []Event
	for ev := range r.Stream(context.Background(), p) {
		events = append(events, ev)
	}

	if len(events) != 6 {
		t.Fatalf("expected 5 bands and a completion, got %d events", len(events))
	}

	var joined []uint8
	for i, ev := range events[:5] {
		if ev.Kind != EventBand {
			t.Fatalf("event %d: expected band, got %v", i, ev.Kind)
		}
		if ev.Band.StartRow != i*20 {
			t.Errorf("event %d: expected start row %d, got %d", i, i*20, ev.Band.StartRow)
		}
		joined = append(joined, ev.Image.Pix...)
	}
	if events[5].Kind != EventComplete {
		t.Errorf("expected final completion, got %v", events[5].Kind)
	}
	if !bytes.Equal(joined, full.Pix) {
		t.Error("streamed bands differ from full render")
	}
}

func TestStreamInvalidParameters(t *testing.T) {
	defer leaktest.Check(t)()

	p := fractal.Params{Width: 10, Height: 10, MaxIterations: 0, Zoom: 1}
	var events []Event
	for ev := range New(nil).Stream(context.Background(), p) {
		events = append(events, ev)
	}

	if len(events) != 1 || events[0].Kind != EventError {
		t.Fatalf("expected a single error event, got %v", events)
	}
	if !errors.Is(events[0].Err, fractal.ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters, got %v", events[0].Err)
	}
}

func TestStreamAbandonedConsumer(t *testing.T) {
	defer leaktest.CheckTimeout(t, 5*time.Second)()

	p := fractal.Params{Width: 200, Height: 400, MaxIterations: 200, Zoom: 1}
	ctx, cancel := context.WithCancel(context.Background())

	ch := New(nil).Stream(ctx, p)
	first := <-ch
	if first.Kind != EventBand {
		t.Fatalf("expected a band, got %v", first.Kind)
	}
	cancel()

	// drain whatever was already buffered; the producer must close the channel
	for ev := range ch {
		if ev.Kind == EventError {
			t.Errorf("cancel must not surface as an error event: %v", ev.Err)
		}
	}
}

func TestRenderWholeMode(t *testing.T) {
	defer leaktest.Check(t)()

	p := fractal.Params{Width: 16, Height: 9, MaxIterations: 40, Zoom: 2, CenterX: -0.75}
	var events []Event
	for ev := range New(nil).Render(context.Background(), p, ModeWhole) {
		events = append(events, ev)
	}

	if len(events) != 1 || events[0].Kind != EventImage {
		t.Fatalf("expected a single image event, got %v", events)
	}
	img := events[0].Image
	if img.Width != 16 || img.Height != 9 || len(img.Pix) != 16*9*4 {
		t.Errorf("unexpected image size %dx%d (%d bytes)", img.Width, img.Height, len(img.Pix))
	}
}

func TestRenderWholeModeInvalid(t *testing.T) {
	p := fractal.Params{Width: 0, Height: 9, MaxIterations: 40, Zoom: 2}
	ev, ok := <-New(nil).Render(context.Background(), p, ModeWhole)
	if !ok || ev.Kind != EventError || !errors.Is(ev.Err, fractal.ErrInvalidParameters) {
		t.Errorf("expected invalid parameters error event, got %+v", ev)
	}
}
