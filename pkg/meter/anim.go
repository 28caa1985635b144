package meter

import "time"

const (
	// AnimationTick is the delay between two frames of the charge sweep.
	AnimationTick = 50 * time.Millisecond
	// maxAnimationLevel is the last level of a sweep before it wraps to 0.
	maxAnimationLevel = 100
)

// Timer is a pending scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. It stands in for the host's delayed redraw
// queue so tests can drive ticks by hand.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler schedules calls on the runtime timers.
var RealScheduler Scheduler = realScheduler{}

// Animator is the charge animation state machine. While animating, the
// meter shows Level instead of the battery level, sweeping upwards one step
// per tick and wrapping back to 0 past 100.
//
// Animator is not safe for concurrent use; the View serializes it.
type Animator struct {
	animating bool
	level     int

	sched   Scheduler
	pending Timer
	// gen identifies the pending tick. A tick that fires after a newer one
	// was scheduled, or after Cancel, is dropped.
	gen    uint64
	onTick func(gen uint64)
}

func newAnimator(sched Scheduler, onTick func(gen uint64)) *Animator {
	if sched == nil {
		sched = RealScheduler
	}
	return &Animator{sched: sched, onTick: onTick}
}

// Animating reports whether a sweep is in progress.
func (a *Animator) Animating() bool {
	return a.animating
}

// Level is the level currently shown by the sweep.
func (a *Animator) Level() int {
	return a.level
}

// Start begins a sweep from the current level when the battery indicates
// charging, is not full, and animations are enabled.
func (a *Animator) Start(s BatteryState, enabled bool) {
	if !s.IsIndicatingCharge() || s.Status == StatusFull || !enabled || a.animating {
		return
	}
	a.animating = true
	a.level = s.Level
	a.Update(s, enabled)
}

// Update advances the sweep by one step and schedules the next tick, or
// stops the sweep once it has come back to the battery level.
func (a *Animator) Update(s BatteryState, enabled bool) {
	if (!s.IsIndicatingCharge() && a.level == s.Level) ||
		(!enabled && a.level == s.Level) ||
		(s.Status == StatusFull && a.level >= FullLevel) {
		a.animating = false
		a.level = s.Level
		return
	}

	if a.level > maxAnimationLevel {
		a.level = 0
	} else {
		a.level++
	}
	a.schedule()
}

// Step runs Start or Update, whichever applies after a frame was drawn.
func (a *Animator) Step(s BatteryState, enabled bool) {
	if a.animating {
		a.Update(s, enabled)
	} else {
		a.Start(s, enabled)
	}
}

func (a *Animator) schedule() {
	if a.pending != nil {
		a.pending.Stop()
	}
	a.gen++
	gen := a.gen
	a.pending = a.sched.AfterFunc(AnimationTick, func() {
		if a.onTick != nil {
			a.onTick(gen)
		}
	})
}

// Cancel drops the pending tick, if any.
func (a *Animator) Cancel() {
	if a.pending != nil {
		a.pending.Stop()
		a.pending = nil
	}
	a.gen++
}

// current reports whether gen is the latest scheduled tick.
func (a *Animator) current(gen uint64) bool {
	return a.gen == gen && a.pending != nil
}
