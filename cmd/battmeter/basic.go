package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battmeter/pkg/meter"
	"github.com/charlie0129/battmeter/pkg/types"
	"github.com/charlie0129/battmeter/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewStyleCommand() *cobra.Command {
	return needsDaemon(&cobra.Command{
		Use:       "style [portrait|landscape|circle|hidden]",
		Short:     "Set how the battery is drawn",
		GroupID:   gMeter,
		ValidArgs: []string{"portrait", "landscape", "circle", "hidden"},
		Args:      cobra.ExactArgs(1),
		Long: `Set how the battery is drawn.

portrait and landscape draw a battery icon standing up or lying down, circle draws a ring filled clockwise from the top, and hidden draws nothing.`,
		RunE: func(_ *cobra.Command, args []string) error {
			style, err := meter.ParseStyle(args[0])
			if err != nil {
				return err
			}

			ret, err := apiClient.SetStyle(style)
			if err != nil {
				return fmt.Errorf("failed to set style: %v", err)
			}
			logResponse(ret)

			logrus.Infof("successfully set style to %s", style)

			return nil
		},
	})
}

func NewColorsCommand() *cobra.Command {
	var colors types.Colors

	cmd := needsDaemon(&cobra.Command{
		Use:     "colors",
		Short:   "Set the meter colors",
		GroupID: gMeter,
		Long: `Set the meter colors.

Colors are given as #rrggbb or #aarrggbb. Colors that are not given keep their value. The frame follows the fill at 30% opacity unless it is set explicitly.`,
		Example: `  battmeter colors --fill '#ffffff' --low-level '#fff4511e'
  battmeter colors --tint '#ff00ff00'`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if colors == (types.Colors{}) {
				return fmt.Errorf("no color given")
			}

			ret, err := apiClient.SetColors(colors)
			if err != nil {
				return fmt.Errorf("failed to set colors: %v", err)
			}
			logResponse(ret)

			logrus.Infof("successfully set colors")

			return nil
		},
	})

	f := cmd.Flags()
	f.StringVar(&colors.Fill, "fill", "", "color of the fill")
	f.StringVar(&colors.Frame, "frame", "", "color of the empty part of the battery")
	f.StringVar(&colors.Text, "text", "", "color of the percentage text")
	f.StringVar(&colors.LowLevel, "low-level", "", "color of the fill at or below the low level")
	f.StringVar(&colors.Tint, "tint", "", "color of the bolt")

	return cmd
}

func NewLevelsCommand() *cobra.Command {
	return needsDaemon(&cobra.Command{
		Use:     "levels [low] [critical]",
		Short:   "Set the low and critical battery levels",
		GroupID: gMeter,
		Args:    cobra.ExactArgs(2),
		Long: `Set the low and critical battery levels, in percent.

At or below the low level the fill uses the low level color. At or below the critical level the fill is left empty and a warning mark is drawn instead. The levels must satisfy 0 <= critical <= low <= 100.`,
		RunE: func(_ *cobra.Command, args []string) error {
			low, err := parseIntArg(args[:1], "low level")
			if err != nil {
				return err
			}
			critical, err := parseIntArg(args[1:], "critical level")
			if err != nil {
				return err
			}

			ret, err := apiClient.SetLevels(low, critical)
			if err != nil {
				return fmt.Errorf("failed to set levels: %v", err)
			}
			logResponse(ret)

			logrus.Infof("successfully set low/critical levels to %d%%/%d%%", low, critical)

			return nil
		},
	})
}

func NewSizeCommand() *cobra.Command {
	width := 0

	cmd := needsDaemon(&cobra.Command{
		Use:     "size [height]",
		Short:   "Set the size of the rendered meter",
		GroupID: gMeter,
		Long: `Set the size of the rendered meter, in pixels.

By default the width follows from the height and the style. The circle is always square and the landscape icon is wider than it is tall.`,
		RunE: func(_ *cobra.Command, args []string) error {
			height, err := parseIntArg(args, "height")
			if err != nil {
				return err
			}

			size, err := apiClient.SetFrameSize(width, height)
			if err != nil {
				return fmt.Errorf("failed to set size: %v", err)
			}

			logrus.Infof("successfully set size, the meter is now %dx%d", size.Width, size.Height)

			return nil
		},
	})

	cmd.Flags().IntVar(&width, "width", 0, "width offered to the meter, 0 to derive it from the height")

	return cmd
}

func NewCircleDotsCommand() *cobra.Command {
	return needsDaemon(&cobra.Command{
		Use:     "circle-dots [interval] [length]",
		Short:   "Set the dash pattern of the ring",
		GroupID: gAdvanced,
		Args:    cobra.ExactArgs(2),
		Long: `Set the dash pattern of the ring drawn by the circle style, in pixels.

The ring is drawn as dashes of the given length separated by gaps of the given interval. An interval of 0 draws a solid ring.`,
		RunE: func(_ *cobra.Command, args []string) error {
			interval, err := parseIntArg(args[:1], "interval")
			if err != nil {
				return err
			}
			length, err := parseIntArg(args[1:], "length")
			if err != nil {
				return err
			}

			ret, err := apiClient.SetCircleDots(interval, length)
			if err != nil {
				return fmt.Errorf("failed to set circle dots: %v", err)
			}
			logResponse(ret)

			logrus.Infof("successfully set circle dots to interval %d, length %d", interval, length)

			return nil
		},
	})
}

func NewPollScheduleCommand() *cobra.Command {
	return needsDaemon(&cobra.Command{
		Use:     "poll-schedule [cron-expression]",
		Short:   "Set how often the battery is read",
		GroupID: gAdvanced,
		Args:    cobra.ExactArgs(1),
		Long: `Set how often the daemon reads the battery.

Accepts a cron expression with an optional seconds field, or a descriptor such as @every 10s.`,
		Example: `  battmeter poll-schedule '@every 30s'
  battmeter poll-schedule '*/5 * * * * *' (every 5 seconds)`,
		RunE: func(_ *cobra.Command, args []string) error {
			ret, err := apiClient.SetPollSchedule(args[0])
			if err != nil {
				return fmt.Errorf("failed to set poll schedule: %v", err)
			}
			logResponse(ret)

			logrus.Infof("successfully set poll schedule to %q", args[0])

			return nil
		},
	})
}
