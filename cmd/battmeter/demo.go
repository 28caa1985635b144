package main

import (
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battmeter/pkg/events"
	"github.com/charlie0129/battmeter/pkg/meter"
)

func NewDemoCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "demo",
		Short:   "Show a fixed battery state for screenshots",
		GroupID: gDemo,
		Long: `Show a fixed battery state for screenshots.

In demo mode the meter stops following the battery. Enter demo mode first, then set the state to show with "battmeter demo battery". Exiting returns to the real state. Demo commands are ignored while the style is hidden.`,
		Example: `  battmeter demo enter
  battmeter demo battery --level 80 --plugged
  battmeter demo exit`,
	}

	send := func(command string, args map[string]string) error {
		s, err := apiClient.Demo(command, args)
		if err != nil {
			return fmt.Errorf("failed to send demo command: %v", err)
		}
		logrus.Infof("meter shows %s", describeState(s))
		return nil
	}

	var (
		level   int
		plugged bool
	)
	battery := needsDaemon(&cobra.Command{
		Use:   "battery",
		Short: "Set the battery state shown in demo mode",
		RunE: func(cmd *cobra.Command, _ []string) error {
			args := map[string]string{}
			if cmd.Flags().Changed("level") {
				args["level"] = strconv.Itoa(level)
			}
			if cmd.Flags().Changed("plugged") {
				args["plugged"] = strconv.FormatBool(plugged)
			}
			if len(args) == 0 {
				return fmt.Errorf("nothing to change, use --level or --plugged")
			}
			return send(meter.DemoCommandBattery, args)
		},
	})
	battery.Flags().IntVar(&level, "level", 50, "battery level, clamped to [0, 100]")
	battery.Flags().BoolVar(&plugged, "plugged", false, "whether the charger is plugged in")

	cmd.AddCommand(
		needsDaemon(&cobra.Command{
			Use:   "enter",
			Short: "Enter demo mode",
			RunE: func(_ *cobra.Command, _ []string) error {
				return send(meter.DemoCommandEnter, nil)
			},
		}),
		needsDaemon(&cobra.Command{
			Use:   "exit",
			Short: "Exit demo mode",
			RunE: func(_ *cobra.Command, _ []string) error {
				return send(meter.DemoCommandExit, nil)
			},
		}),
		battery,
	)

	return cmd
}

func NewLevelTestCommand() *cobra.Command {
	return needsDaemon(&cobra.Command{
		Use:     "level-test",
		Short:   "Sweep the meter through every level",
		GroupID: gDemo,
		Long: `Sweep the meter through every level from 0 to 100 and back, with the charger plugged in on the way up. The meter returns to the real state afterwards.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ret, err := apiClient.StartLevelTest()
			if err != nil {
				return fmt.Errorf("failed to start level test: %v", err)
			}
			logResponse(ret)
			return nil
		},
	})
}

func describeState(s *events.BatteryStateEvent) string {
	switch {
	case !s.Present:
		return "no battery"
	case !s.KnownLevel():
		return "an unknown level"
	}
	text := fmt.Sprintf("%d%% %s", s.Level, s.Status)
	if s.Plugged() {
		text += ", plugged in"
	}
	if s.DemoMode {
		text += " (demo)"
	}
	return text
}
