// Package session runs at most one generation at a time on behalf of a
// single consumer.
//
// Every call to Start begins a new epoch and abandons the previous run. The
// abandoned run stops at its next band boundary; anything it still manages to
// emit carries the old epoch, and consumers drop events for which IsCurrent
// reports false.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ark1700/fractal-generator/internal/fractal"
	"github.com/ark1700/fractal-generator/internal/render"
)

// Event is a render event tagged with the epoch of the run that produced it.
type Event struct {
	render.Event
	Epoch   uint64
	Elapsed time.Duration
}

type Session struct {
	renderer *render.Renderer
	events   chan Event

	epoch atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

func New(r *render.Renderer) *Session {
	return &Session{
		renderer: r,
		events:   make(chan Event, 8),
	}
}

// Events delivers the events of every run started on the session. It is
// closed by Close.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Epoch is the tag of the most recently started run; zero before the first.
func (s *Session) Epoch() uint64 {
	return s.epoch.Load()
}

// IsCurrent reports whether epoch belongs to the latest run.
func (s *Session) IsCurrent(epoch uint64) bool {
	return epoch != 0 && epoch == s.epoch.Load()
}

// Start abandons any run in flight and launches p in the given mode. It
// returns the epoch of the new run, or zero if the session is closed.
func (s *Session) Start(p fractal.Params, mode render.Mode) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0
	}
	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	epoch := s.epoch.Add(1)
	started := time.Now()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		for ev := range s.renderer.Render(ctx, p, mode) {
			out := Event{Event: ev, Epoch: epoch, Elapsed: time.Since(started)}
			select {
			case s.events <- out:
			case <-ctx.Done():
			}
		}
	}()

	return epoch
}

// Cancel abandons the run in flight, if any, without starting a new one.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.epoch.Add(1)
}

// Close cancels the current run, waits for its goroutines and closes Events.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
	close(s.events)
}
