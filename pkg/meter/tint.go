package meter

import "image/color"

// ResolveTint returns low when percent is at or below lowLevel and power
// saving is off, otherwise tint.
func ResolveTint(percent int, powerSave bool, lowLevel int, low, tint color.NRGBA) color.NRGBA {
	if percent <= lowLevel && !powerSave {
		return low
	}
	return tint
}

// tintProbe is the level the fill and text colors are resolved at. While
// plugged in the neutral probe is used so the low color never flashes during
// the charge sweep.
func tintProbe(s BatteryState) int {
	if s.Plugged() {
		return probeLevel
	}
	return s.Level
}
