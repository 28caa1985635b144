//go:build darwin

package daemon

import (
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmeter/pkg/config"
	"github.com/charlie0129/battmeter/pkg/powerinfo"
	"github.com/charlie0129/battmeter/pkg/smc"
)

// newReader opens the battery source named in the config. The returned
// function releases it.
func newReader(source string) (powerinfo.Reader, func() error, error) {
	if source != config.SourceSMC {
		return powerinfo.NewBatteryReader(), func() error { return nil }, nil
	}

	conn := smc.New()
	if err := conn.Open(); err != nil {
		return nil, nil, err
	}
	logrus.Info("reading battery state from the SMC")

	return smc.NewSource(conn), conn.Close, nil
}
