package powerinfo

import (
	"errors"
	"testing"

	"github.com/distatus/battery"

	"github.com/charlie0129/battmeter/pkg/meter"
)

func TestStateFromBattery(t *testing.T) {
	tests := []struct {
		name   string
		bat    *battery.Battery
		level  int
		status meter.Status
		plug   meter.PlugType
	}{
		{"charging", &battery.Battery{State: battery.Charging, Current: 30, Full: 60}, 50, meter.StatusCharging, meter.PlugAC},
		{"full", &battery.Battery{State: battery.Full, Current: 60, Full: 60}, 100, meter.StatusFull, meter.PlugAC},
		{"discharging", &battery.Battery{State: battery.Discharging, Current: 9, Full: 60}, 15, meter.StatusDischarging, meter.PlugNone},
		{"empty", &battery.Battery{State: battery.Empty, Current: 0, Full: 60}, 0, meter.StatusDischarging, meter.PlugNone},
		{"unknown", &battery.Battery{State: battery.Unknown, Current: 59.9, Full: 60}, 100, meter.StatusUnknown, meter.PlugNone},
		{"no capacity", &battery.Battery{State: battery.Charging, Current: 10, Full: 0}, meter.UnknownLevel, meter.StatusCharging, meter.PlugAC},
		{"over full", &battery.Battery{State: battery.Charging, Current: 70, Full: 60}, 100, meter.StatusCharging, meter.PlugAC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := StateFromBattery(tt.bat)
			if !s.Present {
				t.Fatalf("expected battery to be present")
			}
			if s.Level != tt.level {
				t.Errorf("level = %d, want %d", s.Level, tt.level)
			}
			if s.Status != tt.status {
				t.Errorf("status = %v, want %v", s.Status, tt.status)
			}
			if s.PlugType != tt.plug {
				t.Errorf("plug = %v, want %v", s.PlugType, tt.plug)
			}
		})
	}
}

func TestBatteryReader(t *testing.T) {
	r := &BatteryReader{getAll: func() ([]*battery.Battery, error) {
		return nil, nil
	}}
	s, err := r.Read()
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if s.Present || s.Level != meter.UnknownLevel {
		t.Fatalf("expected an absent battery, got %+v", s)
	}

	r.getAll = func() ([]*battery.Battery, error) {
		return nil, errors.New("boom")
	}
	if _, err := r.Read(); err == nil {
		t.Fatalf("expected read error")
	}

	r.getAll = func() ([]*battery.Battery, error) {
		return []*battery.Battery{
			{State: battery.Discharging, Current: 40, Full: 80},
			{State: battery.Charging, Current: 1, Full: 1},
		}, nil
	}
	s, err = r.Read()
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if s.Level != 50 || s.Status != meter.StatusDischarging {
		t.Fatalf("expected the first battery, got %+v", s)
	}
}
