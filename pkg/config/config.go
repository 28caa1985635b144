package config

import "github.com/charlie0129/battmeter/pkg/meter"

// Source names where the daemon reads battery state from.
const (
	SourceBattery = "battery"
	SourceSMC     = "smc"
)

type Config interface {
	Style() meter.Style
	ShowPercent() bool
	CutOutText() bool
	ChargeAnimation() bool
	PowerSave() bool
	Show100Percent() bool
	// CircleDots returns the dash interval and length of the ring style.
	CircleDots() (interval, length int)
	// FrameSize returns the size the daemon renders frames at.
	FrameSize() (width, height int)
	Colors() meter.Colors
	LowLevel() int
	CriticalLevel() int
	// PollSchedule is a cron expression, e.g. "@every 10s".
	PollSchedule() string
	Source() string
	AllowNonRootAccess() bool

	SetStyle(meter.Style)
	SetShowPercent(bool)
	SetCutOutText(bool)
	SetChargeAnimation(bool)
	SetPowerSave(bool)
	SetShow100Percent(bool)
	SetCircleDots(interval, length int)
	SetFrameSize(width, height int)
	SetColors(meter.Colors)
	SetLowLevel(int)
	SetCriticalLevel(int)
	SetPollSchedule(string)
	SetSource(string)
	SetAllowNonRootAccess(bool)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}

// Options returns the engine options c selects.
func Options(c Config) meter.Options {
	opts := meter.DefaultOptions()
	opts.LowLevel = c.LowLevel()
	opts.CriticalLevel = c.CriticalLevel()
	opts.Show100Percent = c.Show100Percent()
	return opts
}

// Apply pushes the toggles and colors of c into v.
func Apply(c Config, v *meter.View) {
	v.SetColors(c.Colors())
	v.SetShowPercentText(c.ShowPercent())
	v.SetCutOutText(c.CutOutText())
	v.SetShowChargeAnimation(c.ChargeAnimation())
	v.SetPowerSave(c.PowerSave())
	v.SetCircleDotPattern(c.CircleDots())
	v.SetStyle(c.Style())
}
