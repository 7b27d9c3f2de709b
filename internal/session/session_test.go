package session_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ark1700/fractal-generator/internal/compute"
	"github.com/ark1700/fractal-generator/internal/fractal"
	"github.com/ark1700/fractal-generator/internal/render"
	"github.com/ark1700/fractal-generator/internal/session"
)

// drainUntil reads events until one of the given kinds arrives for epoch,
// discarding stale events on the way.
func drainUntil(s *session.Session, epoch uint64, kinds ...render.EventKind) []session.Event {
	var got []session.Event
	Eventually(func() bool {
		for {
			select {
			case ev, ok := <-s.Events():
				if !ok {
					return true
				}
				if !s.IsCurrent(ev.Epoch) {
					continue
				}
				Expect(ev.Epoch).To(Equal(epoch))
				got = append(got, ev)
				for _, k := range kinds {
					if ev.Kind == k {
						return true
					}
				}
			default:
				return false
			}
		}
	}, 10*time.Second, 5*time.Millisecond).Should(BeTrue())
	return got
}

var _ = Describe("Session", func() {
	var s *session.Session

	small := fractal.Params{Width: 40, Height: 100, MaxIterations: 30, Zoom: 1, CenterX: -0.5}

	BeforeEach(func() {
		s = session.New(render.New(compute.NewCPUBackendN(2)))
	})

	AfterEach(func() {
		s.Close()
	})

	It("starts with no current epoch", func() {
		Expect(s.Epoch()).To(BeZero())
		Expect(s.IsCurrent(0)).To(BeFalse())
	})

	It("delivers ordered bands followed by completion in progressive mode", func() {
		epoch := s.Start(small, render.ModeProgressive)
		Expect(epoch).To(Equal(uint64(1)))

		events := drainUntil(s, epoch, render.EventComplete, render.EventError)
		Expect(events).To(HaveLen(6))

		for i, ev := range events[:5] {
			Expect(ev.Kind).To(Equal(render.EventBand))
			Expect(ev.Band.StartRow).To(Equal(i * 20))
			Expect(ev.Progress).To(Equal((i + 1) * 20))
		}
		Expect(events[5].Kind).To(Equal(render.EventComplete))
	})

	It("delivers a single image in whole mode", func() {
		epoch := s.Start(small, render.ModeWhole)

		events := drainUntil(s, epoch, render.EventImage, render.EventError)
		Expect(events).To(HaveLen(1))
		Expect(events[0].Kind).To(Equal(render.EventImage))
		Expect(events[0].Image.Pix).To(HaveLen(40 * 100 * 4))
		Expect(events[0].Elapsed).To(BeNumerically(">", 0))
	})

	It("abandons the previous run when a new one starts", func() {
		heavy := fractal.Params{Width: 400, Height: 2000, MaxIterations: 2000, Zoom: 1}
		first := s.Start(heavy, render.ModeProgressive)
		second := s.Start(small, render.ModeProgressive)

		Expect(second).To(BeNumerically(">", first))
		Expect(s.IsCurrent(first)).To(BeFalse())
		Expect(s.IsCurrent(second)).To(BeTrue())

		events := drainUntil(s, second, render.EventComplete, render.EventError)
		Expect(events[len(events)-1].Kind).To(Equal(render.EventComplete))
		for _, ev := range events {
			Expect(ev.Epoch).To(Equal(second))
		}
	})

	It("keeps epochs monotonic across many restarts", func() {
		var last uint64
		for i := 0; i < 20; i++ {
			epoch := s.Start(small, render.ModeProgressive)
			Expect(epoch).To(BeNumerically(">", last))
			last = epoch
		}
		Expect(s.Epoch()).To(Equal(last))
	})

	It("reports invalid parameters as a terminal error", func() {
		bad := small
		bad.Zoom = 0
		epoch := s.Start(bad, render.ModeProgressive)

		events := drainUntil(s, epoch, render.EventComplete, render.EventError)
		Expect(events).To(HaveLen(1))
		Expect(events[0].Kind).To(Equal(render.EventError))
		Expect(errors.Is(events[0].Err, fractal.ErrInvalidParameters)).To(BeTrue())
	})

	It("makes in-flight events stale on cancel", func() {
		epoch := s.Start(small, render.ModeProgressive)
		s.Cancel()
		Expect(s.IsCurrent(epoch)).To(BeFalse())
	})

	It("refuses to start after close and closes the events channel", func() {
		s.Close()
		Expect(s.Start(small, render.ModeWhole)).To(BeZero())
		Eventually(s.Events()).Should(BeClosed())
	})
})
