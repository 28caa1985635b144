package main

import (
	"github.com/gdamore/tcell/v2"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battmeter/pkg/config"
	"github.com/charlie0129/battmeter/pkg/meter"
	"github.com/charlie0129/battmeter/pkg/preview"
)

func NewPreviewCommand() *cobra.Command {
	o := renderOptions{level: meter.UnknownLevel}

	cmd := &cobra.Command{
		Use:     "preview",
		Short:   "Preview the meter in the terminal",
		GroupID: gMeter,
		Long: `Preview the meter in the terminal.

The meter starts from the battery of this machine, or the state given by the flags, and is then driven by the keyboard: arrows change the level, c plugs the charger in or out, s cycles the styles, p, a and w toggle the percentage text, the charge animation and power save, and t runs the level test. The terminal must support true color.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			conf, err := config.NewFile(configPath)
			if err != nil {
				logrus.WithError(err).Warnf("failed to load %s, using the default config", configPath)
				conf = config.NewFileFromConfig(nil, "")
			}
			if conf.Style() == meter.StyleHidden {
				conf.SetStyle(meter.StyleIconPortrait)
			}

			s, err := o.state()
			if err != nil {
				logrus.WithError(err).Warn("starting from 50%")
				s = meter.NewBatteryState()
				s.Level = 50
				s.Status = meter.StatusDischarging
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return pkgerrors.Wrapf(err, "failed to open terminal")
			}

			// logs would draw over the screen
			logrus.SetLevel(logrus.ErrorLevel)

			return preview.New(screen, conf, s).Run()
		},
	}

	f := cmd.Flags()
	f.IntVar(&o.level, "level", meter.UnknownLevel, "battery level to start from instead of reading the battery")
	f.StringVar(&o.status, "status", "", "battery status to start from")
	f.BoolVar(&o.plugged, "plugged", false, "start plugged in")

	return cmd
}
