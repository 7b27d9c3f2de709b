package render

import (
	"context"

	"github.com/ark1700/fractal-generator/internal/fractal"
)

type EventKind int

const (
	// EventImage carries the whole image of a whole-mode run.
	EventImage EventKind = iota
	// EventBand carries one band of a progressive run.
	EventBand
	// EventComplete follows the last band of a progressive run.
	EventComplete
	// EventError ends a run that could not finish.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventImage:
		return "image"
	case EventBand:
		return "band"
	case EventComplete:
		return "complete"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one delivery from a run. Image is set for EventImage and EventBand;
// Band and Progress for EventBand; Err for EventError.
type Event struct {
	Kind     EventKind
	Image    *fractal.Image
	Band     fractal.Band
	Progress int
	Err      error
}

// Stream runs a progressive render on its own goroutine. The channel carries
// the bands in order followed by EventComplete, or ends with EventError, and
// is closed afterwards. Cancelling ctx stops the producer at the next band
// boundary and closes the channel without a terminal event.
func (r *Renderer) Stream(ctx context.Context, p fractal.Params) <-chan Event {
	out := make(chan Event, 1)

	go func() {
		defer close(out)

		send := func(ev Event) bool {
			select {
			case out <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		err := r.RenderProgressive(ctx, p,
			func(img *fractal.Image, b fractal.Band, progress int) {
				send(Event{Kind: EventBand, Image: img, Band: b, Progress: progress})
			},
			func() {
				send(Event{Kind: EventComplete, Progress: 100})
			},
		)
		if err != nil && ctx.Err() == nil {
			send(Event{Kind: EventError, Err: err})
		}
	}()

	return out
}

// Render runs p in the given mode and reports the outcome on the returned
// channel. Whole mode delivers a single EventImage or EventError.
func (r *Renderer) Render(ctx context.Context, p fractal.Params, mode Mode) <-chan Event {
	if mode == ModeProgressive {
		return r.Stream(ctx, p)
	}

	out := make(chan Event, 1)
	go func() {
		defer close(out)

		img, err := r.RenderFull(ctx, p)
		ev := Event{Kind: EventImage, Image: img, Band: fractal.Band{Height: p.Height}, Progress: 100}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			ev = Event{Kind: EventError, Err: err}
		}

		select {
		case out <- ev:
		case <-ctx.Done():
		}
	}()
	return out
}
