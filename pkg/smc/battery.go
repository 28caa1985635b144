//go:build darwin

package smc

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// GetBatteryCharge returns the battery charge in percent.
func (c *AppleSMC) GetBatteryCharge() (int, error) {
	logrus.Tracef("GetBatteryCharge called")

	v, err := c.Read(BatteryChargeKey)
	if err != nil {
		return 0, err
	}

	if len(v.Bytes) != 1 {
		return 0, fmt.Errorf("incorrect data length %d!=1", len(v.Bytes))
	}

	return int(v.Bytes[0]), nil
}

// IsPluggedIn returns whether a power adapter is connected.
func (c *AppleSMC) IsPluggedIn() (bool, error) {
	v, err := c.Read(ACPowerKey)
	if err != nil {
		return false, err
	}

	ret := len(v.Bytes) == 1 && int8(v.Bytes[0]) > 0
	logrus.Tracef("IsPluggedIn returned %t", ret)

	return ret, nil
}

// IsChargingEnabled returns whether charging is allowed. A charge limiter
// may have inhibited it while the adapter stays connected.
func (c *AppleSMC) IsChargingEnabled() (bool, error) {
	v, err := c.Read(ChargingKey)
	if err != nil {
		return false, err
	}

	ret := len(v.Bytes) == 1 && v.Bytes[0] == 0x0
	logrus.Tracef("IsChargingEnabled returned %t", ret)

	return ret, nil
}
