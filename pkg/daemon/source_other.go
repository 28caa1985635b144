//go:build !darwin

package daemon

import (
	"fmt"

	"github.com/charlie0129/battmeter/pkg/config"
	"github.com/charlie0129/battmeter/pkg/powerinfo"
)

// newReader opens the battery source named in the config. The returned
// function releases it.
func newReader(source string) (powerinfo.Reader, func() error, error) {
	if source == config.SourceSMC {
		return nil, nil, fmt.Errorf("battery source %q is only available on macOS", source)
	}
	return powerinfo.NewBatteryReader(), func() error { return nil }, nil
}
