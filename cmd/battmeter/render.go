package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battmeter/pkg/config"
	"github.com/charlie0129/battmeter/pkg/meter"
	"github.com/charlie0129/battmeter/pkg/powerinfo"
	"github.com/charlie0129/battmeter/pkg/render"
)

type renderOptions struct {
	output     string
	format     string
	width      int
	height     int
	style      string
	level      int
	status     string
	plugged    bool
	fromDaemon bool
}

func NewRenderCommand() *cobra.Command {
	o := renderOptions{level: meter.UnknownLevel}

	cmd := &cobra.Command{
		Use:     "render",
		Short:   "Render one frame of the meter to a file",
		GroupID: gMeter,
		Long: `Render one frame of the meter as PNG or SVG.

By default the meter is drawn locally from the config file and the battery of this machine. Use --level, --status and --plugged to draw any other state, or --from-daemon to fetch the daemon's current frame.`,
		Example: `  battmeter render -o meter.png
  battmeter render -o meter.svg --style circle --level 42 --status charging --plugged
  battmeter render --from-daemon --height 64 > meter.png`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := o.resolveFormat()
			if err != nil {
				return err
			}

			var b []byte
			if o.fromDaemon {
				b, err = o.fetch(cmd.Context(), format)
			} else {
				b, err = o.renderLocal(format)
			}
			if err != nil {
				return err
			}

			if o.output == "" || o.output == "-" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			if err := os.WriteFile(o.output, b, 0644); err != nil {
				return pkgerrors.Wrapf(err, "failed to write %s", o.output)
			}
			logrus.Infof("wrote %s", o.output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "-", "output file, - for stdout")
	f.StringVar(&o.format, "format", "", "png or svg, by default taken from the output file extension")
	f.IntVar(&o.width, "width", 0, "width offered to the meter, 0 to derive it from the height")
	f.IntVar(&o.height, "height", 0, "height of the meter, 0 to use the configured size")
	f.StringVar(&o.style, "style", "", "style to draw instead of the configured one")
	f.IntVar(&o.level, "level", meter.UnknownLevel, "battery level to draw instead of reading the battery")
	f.StringVar(&o.status, "status", "", "battery status to draw (charging, discharging, not-charging, full)")
	f.BoolVar(&o.plugged, "plugged", false, "draw the battery as plugged in")
	f.BoolVar(&o.fromDaemon, "from-daemon", false, "fetch the frame from the daemon")

	return cmd
}

func (o *renderOptions) resolveFormat() (string, error) {
	format := strings.ToLower(o.format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(o.output)), ".")
	}
	switch format {
	case "", "png":
		return "png", nil
	case "svg":
		return "svg", nil
	default:
		return "", fmt.Errorf("unknown format %q, expected png or svg", format)
	}
}

func (o *renderOptions) fetch(ctx context.Context, format string) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if format == "svg" {
		return apiClient.GetMeterSVG(ctx, o.width, o.height)
	}
	return apiClient.GetMeterPNG(ctx, o.width, o.height)
}

// state returns the battery state to draw: the flags if a level is given,
// the battery of this machine otherwise.
func (o *renderOptions) state() (meter.BatteryState, error) {
	if o.level == meter.UnknownLevel {
		s, err := powerinfo.NewBatteryReader().Read()
		if err != nil {
			return s, pkgerrors.Wrapf(err, "failed to read battery, use --level to draw a fixed state")
		}
		return s, nil
	}
	if o.level < 0 || o.level > 100 {
		return meter.BatteryState{}, fmt.Errorf("level must be in [0, 100], got %d", o.level)
	}

	s := meter.NewBatteryState()
	s.Level = o.level
	s.Status = meter.StatusDischarging
	if o.plugged {
		s.PlugType = meter.PlugAC
		s.Status = meter.StatusCharging
		if o.level == 100 {
			s.Status = meter.StatusFull
		}
	}
	if o.status != "" {
		if err := s.Status.UnmarshalText([]byte(o.status)); err != nil {
			return s, err
		}
	}
	return s, nil
}

func (o *renderOptions) renderLocal(format string) ([]byte, error) {
	conf, err := config.NewFile(configPath)
	if err != nil {
		logrus.WithError(err).Warnf("failed to load %s, using the default config", configPath)
		conf = config.NewFileFromConfig(nil, "")
	}
	if o.style != "" {
		style, err := meter.ParseStyle(o.style)
		if err != nil {
			return nil, err
		}
		conf.SetStyle(style)
	}

	s, err := o.state()
	if err != nil {
		return nil, err
	}

	v := meter.NewView(config.Options(conf), nil)
	defer v.Close()
	config.Apply(conf, v)
	v.OnBatteryStateChanged(s)
	if !v.Visible() {
		return nil, fmt.Errorf("the %s style draws nothing", v.Style())
	}

	width, height := conf.FrameSize()
	if o.width > 0 {
		width = o.width
	}
	if o.height > 0 {
		height = o.height
	}
	w, h := render.Layout(v, width, height)

	if format == "svg" {
		var buf bytes.Buffer
		if err := render.SVG(&buf, v, w, h); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return render.PNG(v, w, h)
}

