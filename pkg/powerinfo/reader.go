// Package powerinfo turns system battery readings into meter.BatteryState
// snapshots and delivers them on a channel at a cron-scheduled cadence.
package powerinfo

import (
	"math"

	"github.com/distatus/battery"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmeter/pkg/meter"
)

// Reader reads the current battery state.
type Reader interface {
	Read() (meter.BatteryState, error)
}

// ReaderFunc adapts a function to a Reader.
type ReaderFunc func() (meter.BatteryState, error)

func (f ReaderFunc) Read() (meter.BatteryState, error) {
	return f()
}

// BatteryReader reads the first system battery through distatus/battery.
type BatteryReader struct {
	getAll func() ([]*battery.Battery, error)
}

var _ Reader = &BatteryReader{}

func NewBatteryReader() *BatteryReader {
	return &BatteryReader{getAll: battery.GetAll}
}

func (r *BatteryReader) Read() (meter.BatteryState, error) {
	batteries, err := r.getAll()
	if err != nil {
		return meter.BatteryState{}, pkgerrors.Wrapf(err, "failed to read batteries")
	}

	if len(batteries) == 0 {
		logrus.Trace("no batteries found")
		s := meter.NewBatteryState()
		s.Present = false
		return s, nil
	}

	// laptops have one battery; the rest are peripherals at best
	return StateFromBattery(batteries[0]), nil
}

// StateFromBattery maps a distatus/battery reading. The library reports no
// plug type, so a charging or full battery is taken to be on AC.
func StateFromBattery(b *battery.Battery) meter.BatteryState {
	s := meter.NewBatteryState()
	if b == nil {
		s.Present = false
		return s
	}

	s.Level = levelOf(b.Current, b.Full)

	switch b.State {
	case battery.Charging:
		s.Status = meter.StatusCharging
		s.PlugType = meter.PlugAC
	case battery.Full:
		s.Status = meter.StatusFull
		s.PlugType = meter.PlugAC
	case battery.Discharging, battery.Empty:
		s.Status = meter.StatusDischarging
		s.PlugType = meter.PlugNone
	default:
		s.Status = meter.StatusUnknown
		s.PlugType = meter.PlugNone
	}

	return s
}

func levelOf(current, full float64) int {
	if full <= 0 || math.IsNaN(current) || math.IsNaN(full) {
		return meter.UnknownLevel
	}
	level := int(math.Round(current / full * 100))
	return min(max(level, 0), 100)
}
