package gui

import (
	"context"

	"github.com/getlantern/systray"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmeter/pkg/config"
	"github.com/charlie0129/battmeter/pkg/events"
	"github.com/charlie0129/battmeter/pkg/meter"
)

var trayStyles = []meter.Style{
	meter.StyleIconPortrait,
	meter.StyleIconLandscape,
	meter.StyleCircle,
}

type menu struct {
	status     *systray.MenuItem
	styles     map[meter.Style]*systray.MenuItem
	percent    *systray.MenuItem
	animation  *systray.MenuItem
	powerSave  *systray.MenuItem
	demo       *systray.MenuItem
	quit       *systray.MenuItem
	lastDemoOn bool
	// synced is reset whenever the daemon goes away.
	synced bool
}

func addMenu() *menu {
	m := &menu{styles: map[meter.Style]*systray.MenuItem{}}

	m.status = systray.AddMenuItem("Connecting...", "Battery state reported by the daemon")
	m.status.Disable()
	systray.AddSeparator()

	style := systray.AddMenuItem("Style", "How the battery is drawn")
	for _, s := range trayStyles {
		m.styles[s] = style.AddSubMenuItemCheckbox(s.String(), "Draw the battery as "+s.String(), false)
	}
	m.percent = systray.AddMenuItemCheckbox("Show Percentage", "Draw the charge level as text", false)
	m.animation = systray.AddMenuItemCheckbox("Charge Animation", "Animate the fill while charging", false)
	m.powerSave = systray.AddMenuItemCheckbox("Power Save", "Keep the normal colors at low levels", false)
	m.demo = systray.AddMenuItemCheckbox("Demo Mode", "Freeze the meter at a fixed state", false)

	systray.AddSeparator()
	m.quit = systray.AddMenuItem("Quit", "Quit the menubar app, the daemon keeps running")
	return m
}

// sync updates the check marks from the daemon config.
func (m *menu) sync(api meterAPI) {
	raw, err := api.GetConfig()
	if err != nil {
		logrus.WithError(err).Debug("failed to get config")
		return
	}
	conf := config.NewFileFromConfig(raw, "")
	for s, item := range m.styles {
		setChecked(item, conf.Style() == s)
	}
	setChecked(m.percent, conf.ShowPercent())
	setChecked(m.animation, conf.ChargeAnimation())
	setChecked(m.powerSave, conf.PowerSave())
}

func setChecked(item *systray.MenuItem, checked bool) {
	if checked {
		item.Check()
	} else {
		item.Uncheck()
	}
}

// toggle flips item and sends the new value through set.
func toggle(item *systray.MenuItem, set func(bool) (string, error)) {
	want := !item.Checked()
	if _, err := set(want); err != nil {
		logrus.WithError(err).Error("failed to change setting")
		return
	}
	setChecked(item, want)
}

// Run shows the meter in the status bar until the user quits. It returns
// only after the tray has been torn down.
func Run(api meterAPI) {
	ctx, cancel := context.WithCancel(context.Background())

	onReady := func() {
		systray.SetTitle("")
		systray.SetTooltip("battmeter")

		m := addMenu()
		c := newController(api)
		c.setIcon = systray.SetIcon
		c.setTooltip = systray.SetTooltip
		c.onState = func(s *events.BatteryStateEvent) {
			if s == nil {
				m.status.SetTitle("Daemon not running")
				m.synced = false
				return
			}
			m.status.SetTitle(tooltip(*s))
			if s.DemoMode != m.lastDemoOn {
				m.lastDemoOn = s.DemoMode
				setChecked(m.demo, s.DemoMode)
			}
			if !m.synced {
				m.sync(api)
				m.synced = true
			}
		}

		go c.run(ctx)
		go m.handleClicks(ctx, api)
	}

	onExit := func() {
		cancel()
		logrus.Info("battmeter tray exiting")
	}

	systray.Run(onReady, onExit)
}

func (m *menu) handleClicks(ctx context.Context, api meterAPI) {
	styleClicked := make(chan meter.Style)
	for s, item := range m.styles {
		go func(s meter.Style, item *systray.MenuItem) {
			for {
				select {
				case <-ctx.Done():
					return
				case <-item.ClickedCh:
					select {
					case styleClicked <- s:
					case <-ctx.Done():
						return
					}
				}
			}
		}(s, item)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case s := <-styleClicked:
			if _, err := api.SetStyle(s); err != nil {
				logrus.WithError(err).Error("failed to set style")
				continue
			}
			for other, item := range m.styles {
				setChecked(item, other == s)
			}
		case <-m.percent.ClickedCh:
			toggle(m.percent, api.SetShowPercent)
		case <-m.animation.ClickedCh:
			toggle(m.animation, api.SetChargeAnimation)
		case <-m.powerSave.ClickedCh:
			toggle(m.powerSave, api.SetPowerSave)
		case <-m.demo.ClickedCh:
			toggle(m.demo, func(on bool) (string, error) {
				cmd := meter.DemoCommandExit
				if on {
					cmd = meter.DemoCommandEnter
				}
				_, err := api.Demo(cmd, nil)
				return "", err
			})
		case <-m.quit.ClickedCh:
			systray.Quit()
			return
		}
	}
}
