//go:build darwin

package smc

// SMC keys on Intel Macs. Not verified.
const (
	ACPowerKey       = "AC-W"
	ChargingKey      = "CH0B"
	BatteryChargeKey = "BBIF"
)
