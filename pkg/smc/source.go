//go:build darwin

package smc

import (
	"sync"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/battmeter/pkg/meter"
)

// Source reads meter.BatteryState from the SMC. It satisfies
// powerinfo.Reader.
type Source struct {
	mu  sync.Mutex
	smc *AppleSMC
}

func NewSource(c *AppleSMC) *Source {
	return &Source{smc: c}
}

func (s *Source) Read() (meter.BatteryState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := meter.NewBatteryState()

	level, err := s.smc.GetBatteryCharge()
	if err != nil {
		return state, pkgerrors.Wrapf(err, "failed to read battery charge")
	}
	plugged, err := s.smc.IsPluggedIn()
	if err != nil {
		return state, pkgerrors.Wrapf(err, "failed to read adapter state")
	}
	enabled, err := s.smc.IsChargingEnabled()
	if err != nil {
		return state, pkgerrors.Wrapf(err, "failed to read charging state")
	}

	state.Level = min(max(level, 0), 100)
	switch {
	case !plugged:
		state.Status = meter.StatusDischarging
		state.PlugType = meter.PlugNone
	case state.Level >= 100:
		state.Status = meter.StatusFull
		state.PlugType = meter.PlugAC
	case enabled:
		state.Status = meter.StatusCharging
		state.PlugType = meter.PlugAC
	default:
		state.Status = meter.StatusNotCharging
		state.PlugType = meter.PlugAC
	}

	return state, nil
}
