//go:build darwin

package smc

// SMC keys on Apple Silicon.
const (
	ACPowerKey       = "AC-W"
	ChargingKey      = "CH0B"
	BatteryChargeKey = "BUIC"
)
