package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/charlie0129/battmeter/pkg/config"
	"github.com/charlie0129/battmeter/pkg/events"
	"github.com/charlie0129/battmeter/pkg/meter"
	"github.com/charlie0129/battmeter/pkg/types"
)

type statusData struct {
	State  *events.BatteryStateEvent `json:"state"`
	Config *config.RawFileConfig     `json:"config"`
	Stats  *types.Stats              `json:"stats"`
}

// fetchStatusData gathers all data required for the status command from the daemon.
func fetchStatusData() (*statusData, error) {
	state, err := apiClient.GetState()
	if err != nil {
		return nil, fmt.Errorf("failed to get battery state: %w", err)
	}

	conf, err := apiClient.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	stats, err := apiClient.GetStats()
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return &statusData{
		State:  state,
		Config: conf,
		Stats:  stats,
	}, nil
}

func NewStatusCommand() *cobra.Command {
	asJSON := false

	cmd := needsDaemon(&cobra.Command{
		Use:     "status",
		GroupID: gMeter,
		Short:   "Get the current status of the meter",
		Long:    `Get the battery state shown by the meter, the meter configuration and render statistics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := fetchStatusData()
			if err != nil {
				return err
			}

			if asJSON {
				b, err := json.MarshalIndent(data, "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(b))
				return nil
			}

			printStatus(cmd, data)
			return nil
		},
	})

	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")

	return cmd
}

func printStatus(cmd *cobra.Command, data *statusData) {
	s := data.State
	conf := config.NewFileFromConfig(data.Config, "")

	// Battery state.
	cmd.Println(bold("Battery status:"))
	switch {
	case !s.Present:
		cmd.Println("  No battery found.")
	case !s.KnownLevel():
		cmd.Println("  Level not reported yet.")
	default:
		cmd.Printf("  Level: %s\n", levelText(s.Level, conf))
		cmd.Printf("  State: %s\n", bold("%s", statusText(s.Status)))
		cmd.Printf("  Plugged in: %s\n", bool2Text(s.Plugged()))
	}
	if s.LevelTest {
		cmd.Println("  " + color.YellowString("A level test is running, the meter does not show the real state."))
	} else if s.DemoMode {
		cmd.Println("  " + color.YellowString("Demo mode is on, the meter does not show the real state."))
	}

	cmd.Println()

	// Config.
	cmd.Println(bold("Meter configuration:"))
	cmd.Printf("  Style: %s\n", bold("%s", conf.Style()))
	w, h := data.Stats.Width, data.Stats.Height
	cmd.Printf("  Size: %s\n", bold("%dx%d", w, h))
	cmd.Printf("  Low level: %s\n", bold("%d%%", conf.LowLevel()))
	cmd.Printf("  Critical level: %s\n", bold("%d%%", conf.CriticalLevel()))
	cmd.Printf("  Show percentage: %s\n", bool2Text(conf.ShowPercent()))
	cmd.Printf("  Cut out text: %s\n", bool2Text(conf.CutOutText()))
	cmd.Printf("  Charge animation: %s\n", bool2Text(conf.ChargeAnimation()))
	cmd.Printf("  Power save: %s\n", bool2Text(conf.PowerSave()))
	cmd.Printf("  Show glyphs at 100%%: %s\n", bool2Text(conf.Show100Percent()))
	if interval, length := conf.CircleDots(); interval > 0 {
		cmd.Printf("  Circle dots: %s\n", bold("%d on, %d off", length, interval))
	}
	cmd.Printf("  Poll schedule: %s\n", bold("%s", conf.PollSchedule()))
	cmd.Printf("  Source: %s\n", bold("%s", conf.Source()))
	cmd.Printf("  Allow non-root users to access the daemon: %s\n", bool2Text(conf.AllowNonRootAccess()))

	cmd.Println()

	// Render loop.
	cmd.Println(bold("Renderer:"))
	cmd.Printf("  Frames in the last second: %s\n", bold("%d", data.Stats.FramesLastSecond))
	cmd.Printf("  Animating: %s\n", bool2Text(data.Stats.Animating))
	if !data.Stats.LastFrame.IsZero() {
		cmd.Printf("  Last frame: %s\n", bold("#%d, %s ago", data.Stats.Seq, time.Since(data.Stats.LastFrame).Round(time.Millisecond)))
	}
	if !data.Stats.NextPoll.IsZero() {
		cmd.Printf("  Next battery poll: %s\n", bold("%s", data.Stats.NextPoll.Format(time.Kitchen)))
	}
	cmd.Printf("  Event subscribers: %s\n", bold("%d", data.Stats.Subscribers))
	if data.Stats.DroppedEvents > 0 {
		cmd.Printf("  Dropped events: %s\n", bold("%d", data.Stats.DroppedEvents))
	}
}

func levelText(level int, conf config.Config) string {
	switch {
	case level <= conf.CriticalLevel():
		return color.New(color.Bold, color.FgRed).Sprintf("%d%% (critical)", level)
	case level <= conf.LowLevel():
		return color.New(color.Bold, color.FgYellow).Sprintf("%d%% (low)", level)
	default:
		return bold("%d%%", level)
	}
}

func statusText(s meter.Status) string {
	switch s {
	case meter.StatusCharging:
		return color.GreenString("charging")
	case meter.StatusDischarging:
		return color.RedString("discharging")
	default:
		return s.String()
	}
}
