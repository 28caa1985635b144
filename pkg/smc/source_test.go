//go:build darwin

package smc

import (
	"testing"

	"github.com/charlie0129/battmeter/pkg/meter"
)

func TestSourceRead(t *testing.T) {
	tests := []struct {
		name    string
		charge  byte
		ac      byte
		charge0 byte
		status  meter.Status
		plug    meter.PlugType
	}{
		{"on battery", 42, 0, 0, meter.StatusDischarging, meter.PlugNone},
		{"charging", 42, 1, 0, meter.StatusCharging, meter.PlugAC},
		{"held by a limiter", 80, 1, 2, meter.StatusNotCharging, meter.PlugAC},
		{"full", 100, 1, 0, meter.StatusFull, meter.PlugAC},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewMock(map[string][]byte{
				BatteryChargeKey: {tt.charge},
				ACPowerKey:       {tt.ac},
				ChargingKey:      {tt.charge0},
			})
			s, err := NewSource(c).Read()
			if err != nil {
				t.Fatalf("Read returned error: %v", err)
			}
			if s.Level != int(tt.charge) {
				t.Errorf("level = %d, want %d", s.Level, tt.charge)
			}
			if s.Status != tt.status || s.PlugType != tt.plug {
				t.Errorf("got %v/%v, want %v/%v", s.Status, s.PlugType, tt.status, tt.plug)
			}
		})
	}
}

func TestGetBatteryChargeLength(t *testing.T) {
	c := NewMock(map[string][]byte{BatteryChargeKey: {1, 2}})
	if _, err := c.GetBatteryCharge(); err == nil {
		t.Fatalf("expected a length error")
	}
}
