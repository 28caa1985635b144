package meter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimatorConvergesToLevel(t *testing.T) {
	for _, level := range []int{0, 5, 42, 99, 100} {
		for start := 0; start <= maxAnimationLevel+1; start++ {
			a := newAnimator(&fakeScheduler{}, nil)
			a.animating = true
			a.level = start
			s := discharging(level)

			ticks := 0
			for a.Level() != level {
				a.Update(s, true)
				ticks++
				require.LessOrEqual(t, ticks, 101, "start %d level %d", start, level)
			}
			a.Update(s, true)
			assert.False(t, a.Animating(), "start %d level %d", start, level)
			assert.Equal(t, level, a.Level())
		}
	}
}

func TestAnimatorStart(t *testing.T) {
	tests := []struct {
		name    string
		state   BatteryState
		enabled bool
		want    bool
	}{
		{"charging", charging(40), true, true},
		{"animation disabled", charging(40), false, false},
		{"discharging", discharging(40), true, false},
		{"full and plugged", BatteryState{Present: true, Level: 100, Status: StatusFull, PlugType: PlugAC}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := &fakeScheduler{}
			a := newAnimator(sched, nil)
			a.Start(tt.state, tt.enabled)
			assert.Equal(t, tt.want, a.Animating())
			if tt.want {
				assert.Equal(t, tt.state.Level+1, a.Level())
				assert.Equal(t, 1, sched.Pending())
			} else {
				assert.Equal(t, 0, sched.Pending())
			}
		})
	}
}

func TestAnimatorWrapsAndStopsWhenFull(t *testing.T) {
	a := newAnimator(&fakeScheduler{}, nil)
	a.animating = true
	a.level = 101
	a.Update(charging(50), true)
	assert.Equal(t, 0, a.Level())

	full := BatteryState{Present: true, Level: 100, Status: StatusFull, PlugType: PlugAC}
	a.level = 95
	a.Update(full, true)
	assert.True(t, a.Animating())
	assert.Equal(t, FullLevel, a.Level())
	a.Update(full, true)
	assert.False(t, a.Animating())
	assert.Equal(t, 100, a.Level())
}

func TestAnimatorKeepsSingleTick(t *testing.T) {
	sched := &fakeScheduler{}
	ticks := 0
	var a *Animator
	a = newAnimator(sched, func(gen uint64) {
		if a.current(gen) {
			ticks++
		}
	})
	a.Start(charging(10), true)
	a.Update(charging(10), true)
	a.Update(charging(10), true)
	assert.Equal(t, 1, sched.Pending())

	sched.Fire()
	assert.Equal(t, 1, ticks)

	a.Update(charging(10), true)
	a.Cancel()
	assert.Equal(t, 0, sched.Pending())
}
