package gui

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmeter/pkg/config"
	"github.com/charlie0129/battmeter/pkg/events"
	"github.com/charlie0129/battmeter/pkg/meter"
)

// reconnectInterval is how long the tray waits before subscribing again
// after losing the daemon.
const reconnectInterval = 2 * time.Second

// meterAPI is the part of the daemon client the tray uses.
type meterAPI interface {
	SubscribeEvents(ctx context.Context) (<-chan events.Event, error)
	GetMeterPNG(ctx context.Context, width, height int) ([]byte, error)
	GetConfig() (*config.RawFileConfig, error)
	SetStyle(s meter.Style) (string, error)
	SetShowPercent(enabled bool) (string, error)
	SetChargeAnimation(enabled bool) (string, error)
	SetPowerSave(enabled bool) (string, error)
	Demo(command string, args map[string]string) (*events.BatteryStateEvent, error)
}

// controller mirrors the daemon's live meter into the tray. It is kept free
// of systray calls so it can run without a status bar.
type controller struct {
	api meterAPI

	setIcon    func(png []byte)
	setTooltip func(text string)
	// onState is called with every state the daemon reports, nil when the
	// daemon goes away.
	onState func(s *events.BatteryStateEvent)

	frames chan struct{}
	retry  time.Duration
}

func newController(api meterAPI) *controller {
	return &controller{
		api:        api,
		setIcon:    func([]byte) {},
		setTooltip: func(string) {},
		onState:    func(*events.BatteryStateEvent) {},
		frames:     make(chan struct{}, 1),
		retry:      reconnectInterval,
	}
}

// run follows the daemon until ctx is done, reconnecting whenever the event
// stream breaks.
func (c *controller) run(ctx context.Context) {
	go c.frameLoop(ctx)

	for {
		c.follow(ctx)

		c.onState(nil)
		c.setTooltip("battmeter: daemon not running")

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.retry):
		}
	}
}

// follow consumes one event stream until it ends.
func (c *controller) follow(ctx context.Context) {
	ch, err := c.api.SubscribeEvents(ctx)
	if err != nil {
		logrus.WithError(err).Debug("failed to subscribe to daemon events")
		return
	}
	logrus.Info("connected to daemon")

	// draw the current frame even if nothing changes for a while
	c.requestFrame()

	for ev := range ch {
		switch ev.Name {
		case events.MeterFrame:
			c.requestFrame()
		case events.BatteryState:
			s, err := events.DecodeAs[events.BatteryStateEvent](ev)
			if err != nil {
				logrus.WithError(err).Warn("failed to decode battery state")
				continue
			}
			c.setTooltip(tooltip(s))
			c.onState(&s)
		default:
			logrus.Tracef("ignoring event %s", ev.Name)
		}
	}
	logrus.Info("lost connection to daemon")
}

// requestFrame asks frameLoop to fetch the latest frame. Requests made while
// a fetch is pending collapse into one.
func (c *controller) requestFrame() {
	select {
	case c.frames <- struct{}{}:
	default:
	}
}

func (c *controller) frameLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.frames:
		}

		b, err := c.api.GetMeterPNG(ctx, 0, 0)
		if err != nil {
			logrus.WithError(err).Debug("failed to fetch meter frame")
			continue
		}
		c.setIcon(b)
	}
}

// tooltip describes s in one line.
func tooltip(s events.BatteryStateEvent) string {
	var text string
	switch {
	case !s.Present:
		text = "battmeter: no battery"
	case !s.KnownLevel():
		text = "battmeter: level unknown"
	default:
		text = fmt.Sprintf("battmeter: %d%% %s", s.Level, s.Status)
		if s.Plugged() && s.Status != meter.StatusCharging {
			text += ", plugged in"
		}
	}
	switch {
	case s.LevelTest:
		text += " (level test)"
	case s.DemoMode:
		text += " (demo)"
	}
	return text
}
