package meter

import (
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Demo mode commands.
const (
	DemoCommandEnter   = "enter"
	DemoCommandExit    = "exit"
	DemoCommandBattery = "battery"
)

// DispatchDemoCommand drives demo mode. "enter" freezes the displayed state
// at the real one, "battery" changes it through the "level" and "plugged"
// arguments, "exit" returns to the real state. Malformed arguments are
// ignored. Commands are only honored while the meter is visible.
func (v *View) DispatchDemoCommand(command string, args map[string]string) {
	v.mu.Lock()
	if !v.visible {
		v.mu.Unlock()
		return
	}
	redraw := false
	switch {
	case !v.demoMode && command == DemoCommandEnter:
		v.demoMode = true
		v.demoTracker = v.tracker
	case v.demoMode && command == DemoCommandExit:
		v.demoMode = false
		redraw = true
	case v.demoMode && command == DemoCommandBattery:
		if s, ok := args["level"]; ok {
			if level, err := strconv.Atoi(s); err == nil {
				v.demoTracker.Level = min(max(level, 0), 100)
			} else {
				logrus.WithError(err).Debugf("ignoring demo level %q", s)
			}
		}
		if s, ok := args["plugged"]; ok {
			if plugged, err := strconv.ParseBool(s); err == nil {
				v.demoTracker.PlugType = PlugNone
				if plugged {
					v.demoTracker.PlugType = PlugAC
				}
			} else {
				logrus.WithError(err).Debugf("ignoring demo plugged %q", s)
			}
		}
		redraw = true
	}
	v.mu.Unlock()
	if redraw {
		v.invalidateIfVisible()
	}
}

// DemoMode reports whether demo mode is active.
func (v *View) DemoMode() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.demoMode
}

// LevelTestStep is the delay between two levels of a level test.
const LevelTestStep = 200 * time.Millisecond

type levelTest struct {
	saved BatteryState
	level int
	incr  int
	timer Timer
}

// StartLevelTest sweeps a synthetic level from 0 to 100 while plugged in and
// back down to 0 unplugged, one step every LevelTestStep. Real states are
// held back until the sweep ends, then the latest one is shown. Starting a
// test while one runs does nothing.
func (v *View) StartLevelTest() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.levelTest != nil {
		return
	}
	logrus.Debug("starting level test")
	v.levelTest = &levelTest{saved: v.tracker, incr: 1}
	v.scheduleLevelTest(0)
}

// LevelTestRunning reports whether a level test is in progress.
func (v *View) LevelTestRunning() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.levelTest != nil
}

func (v *View) scheduleLevelTest(d time.Duration) {
	lt := v.levelTest
	lt.timer = v.sched.AfterFunc(d, func() { v.levelTestStep(lt) })
}

func (v *View) levelTestStep(lt *levelTest) {
	v.mu.Lock()
	if v.levelTest != lt {
		v.mu.Unlock()
		return
	}
	if lt.level < 0 {
		restored := lt.saved
		restored.TestMode = false
		v.levelTest = nil
		v.applyState(restored)
		logrus.Debug("level test finished")
	} else {
		s := BatteryState{
			Present:  true,
			Level:    lt.level,
			Status:   StatusDischarging,
			PlugType: PlugNone,
			TestMode: true,
		}
		if lt.incr > 0 {
			s.Status = StatusCharging
			s.PlugType = PlugAC
		}
		v.applyState(s)

		lt.level += lt.incr
		if lt.level == 100 {
			lt.incr = -1
		}
		v.scheduleLevelTest(LevelTestStep)
	}
	v.mu.Unlock()
	v.invalidateIfVisible()
}

// stopLevelTest aborts a running test and restores the latest real state.
// The lock must be held.
func (v *View) stopLevelTest() {
	lt := v.levelTest
	if lt == nil {
		return
	}
	if lt.timer != nil {
		lt.timer.Stop()
	}
	v.levelTest = nil
	restored := lt.saved
	restored.TestMode = false
	v.applyState(restored)
}
