package meter

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battmeter/pkg/canvas"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	// racy timers fire even after Stop, like a runtime timer that already
	// started running its function.
	racy bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	if !t.racy {
		t.stopped = true
	}
	return was
}

// fakeScheduler collects scheduled calls until Fire runs them.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
	racy   bool
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f, racy: s.racy}
	s.timers = append(s.timers, t)
	return t
}

// Fire runs every call scheduled so far that was not stopped. Calls
// scheduled while firing wait for the next Fire.
func (s *fakeScheduler) Fire() int {
	s.mu.Lock()
	pending := s.timers
	s.timers = nil
	s.mu.Unlock()

	n := 0
	for _, t := range pending {
		if t.stopped {
			continue
		}
		t.stopped = true
		t.f()
		n++
	}
	return n
}

func (s *fakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// host draws into a recorder every time the view asks for it.
type host struct {
	v           *View
	sched       *fakeScheduler
	rec         *canvas.Recorder
	invalidated int
}

func newHost(t *testing.T, style Style, w, h int) *host {
	t.Helper()
	sched := &fakeScheduler{}
	v := NewView(DefaultOptions(), sched)
	v.SetStyle(style)
	mw, mh := v.Measure(w, h)
	v.OnSizeChanged(mw, mh, 0, 0)
	hs := &host{v: v, sched: sched, rec: &canvas.Recorder{}}
	v.SetInvalidateFunc(func() {
		hs.invalidated++
		hs.draw()
	})
	return hs
}

func (h *host) draw() {
	h.rec.Reset()
	h.v.Draw(h.rec)
}

func discharging(level int) BatteryState {
	return BatteryState{Present: true, Level: level, Status: StatusDischarging}
}

func charging(level int) BatteryState {
	return BatteryState{Present: true, Level: level, Status: StatusCharging, PlugType: PlugAC}
}

func requireFinite(t *testing.T, ops []canvas.Op) {
	t.Helper()
	finite := func(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
	for _, op := range ops {
		if op.Path != nil {
			for _, c := range op.Path.Contours() {
				for _, p := range c {
					require.True(t, finite(p.X) && finite(p.Y), "non-finite point %v", p)
				}
			}
		}
		for _, f := range []float64{op.Oval.Left, op.Oval.Top, op.Oval.Right, op.Oval.Bottom, op.Sweep, op.X, op.Y, op.TextPaint.Size, op.Paint.StrokeWidth} {
			require.True(t, finite(f), "non-finite value in %+v", op)
		}
	}
}
