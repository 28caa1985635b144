package meter

import "fmt"

// UnknownLevel marks a battery level that has not been reported yet.
const UnknownLevel = -1

// Status is the charging status reported by the battery.
type Status int

const (
	StatusUnknown Status = iota
	StatusCharging
	StatusDischarging
	StatusNotCharging
	StatusFull
)

var statusNames = map[Status]string{
	StatusUnknown:     "unknown",
	StatusCharging:    "charging",
	StatusDischarging: "discharging",
	StatusNotCharging: "not-charging",
	StatusFull:        "full",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	for k, v := range statusNames {
		if v == string(b) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown battery status %q", string(b))
}

// PlugType is the kind of power source the device is plugged into.
type PlugType int

const (
	PlugNone PlugType = iota
	PlugAC
	PlugUSB
	PlugWireless
)

var plugNames = map[PlugType]string{
	PlugNone:     "none",
	PlugAC:       "ac",
	PlugUSB:      "usb",
	PlugWireless: "wireless",
}

func (p PlugType) String() string {
	if n, ok := plugNames[p]; ok {
		return n
	}
	return fmt.Sprintf("PlugType(%d)", int(p))
}

func (p PlugType) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PlugType) UnmarshalText(b []byte) error {
	for k, v := range plugNames {
		if v == string(b) {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("unknown plug type %q", string(b))
}

// BatteryState is an immutable snapshot of the battery. It is replaced as a
// whole on every change notification.
type BatteryState struct {
	Present  bool     `json:"present"`
	Level    int      `json:"level"`
	Status   Status   `json:"status"`
	PlugType PlugType `json:"plugType"`
	TestMode bool     `json:"testMode,omitempty"`
}

// NewBatteryState returns the state of a present battery whose level has not
// been reported yet.
func NewBatteryState() BatteryState {
	return BatteryState{Present: true, Level: UnknownLevel}
}

// Plugged reports whether any power source is connected.
func (s BatteryState) Plugged() bool {
	return s.PlugType != PlugNone
}

// IsIndicatingCharge reports whether the meter should show the battery as
// charging: either actively charging, or full while still plugged in.
func (s BatteryState) IsIndicatingCharge() bool {
	if s.Status == StatusCharging {
		return true
	}
	return s.Plugged() && s.Status == StatusFull
}

// KnownLevel reports whether Level carries a meaningful value.
func (s BatteryState) KnownLevel() bool {
	return s.Present && s.Level != UnknownLevel
}
