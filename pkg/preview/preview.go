// Package preview shows the meter in a terminal and lets the user drive a
// simulated battery with the keyboard.
package preview

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmeter/pkg/config"
	"github.com/charlie0129/battmeter/pkg/meter"
	"github.com/charlie0129/battmeter/pkg/render"
)

// maxHeight caps the meter height in pixels; larger terminals get margins.
const maxHeight = 96

const help = "←/→ level  c charger  s style  p percent  a animation  w power save  t level test  q quit"

var styles = []meter.Style{meter.StyleIconPortrait, meter.StyleIconLandscape, meter.StyleCircle}

// Background is the color translucent pixels are blended over.
var Background = colorful.Color{R: 0.1, G: 0.1, B: 0.1}

// Preview is a meter.View bound to a terminal screen.
type Preview struct {
	screen tcell.Screen
	view   *meter.View
	state  meter.BatteryState
}

// New returns a preview of a meter configured from conf, showing state.
func New(screen tcell.Screen, conf config.Config, state meter.BatteryState) *Preview {
	v := meter.NewView(config.Options(conf), nil)
	config.Apply(conf, v)
	v.OnBatteryStateChanged(state)

	p := &Preview{screen: screen, view: v, state: state}
	v.SetInvalidateFunc(func() {
		// called from timer goroutines; a full queue drops the redraw
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	return p
}

// Run initializes the screen and handles input until the user quits.
func (p *Preview) Run() error {
	if err := p.screen.Init(); err != nil {
		return pkgerrors.Wrapf(err, "failed to initialize terminal")
	}
	defer p.screen.Fini()
	defer p.view.Close()

	p.screen.SetStyle(tcell.StyleDefault.Background(tcellColor(Background)))
	p.draw()

	for {
		ev := p.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			p.screen.Sync()
			p.draw()
		case *tcell.EventInterrupt:
			p.draw()
		case *tcell.EventKey:
			if !p.handleKey(ev) {
				return nil
			}
			p.draw()
		}
	}
}

// handleKey applies one key press and reports whether to keep running.
func (p *Preview) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		p.setLevel(p.state.Level - 1)
		return true
	case tcell.KeyRight:
		p.setLevel(p.state.Level + 1)
		return true
	case tcell.KeyRune:
	default:
		return true
	}

	s := p.view.Settings()
	switch ev.Rune() {
	case 'q':
		return false
	case 'c':
		if p.state.Plugged() {
			p.state.PlugType = meter.PlugNone
			p.state.Status = meter.StatusDischarging
		} else {
			p.state.PlugType = meter.PlugAC
			p.state.Status = meter.StatusCharging
			if p.state.Level >= 100 {
				p.state.Status = meter.StatusFull
			}
		}
		p.view.OnBatteryStateChanged(p.state)
	case 's':
		p.view.SetStyle(nextStyle(s.Style))
	case 'p':
		p.view.SetShowPercentText(!s.ShowPercent)
	case 'a':
		p.view.SetShowChargeAnimation(!s.ShowChargeAnimation)
	case 'w':
		p.view.SetPowerSave(!s.PowerSave)
	case 't':
		p.view.StartLevelTest()
	}
	return true
}

func (p *Preview) setLevel(level int) {
	if !p.state.KnownLevel() {
		level = 50
	}
	p.state.Level = min(max(level, 0), 100)
	if p.state.Plugged() {
		p.state.Status = meter.StatusCharging
		if p.state.Level == 100 {
			p.state.Status = meter.StatusFull
		}
	}
	p.view.OnBatteryStateChanged(p.state)
}

func nextStyle(s meter.Style) meter.Style {
	for i, v := range styles {
		if v == s {
			return styles[(i+1)%len(styles)]
		}
	}
	return styles[0]
}

// draw renders the view as large as the terminal allows, centered above a
// status line.
func (p *Preview) draw() {
	p.screen.Clear()
	cols, rows := p.screen.Size()

	height := min(2*(rows-2), maxHeight)
	if height > 0 {
		w, h := render.Layout(p.view, 0, height)
		if w > cols {
			// too narrow; size by width instead
			w, h = render.Layout(p.view, cols, height*cols/w)
		}
		if w > 0 && h > 0 {
			img, err := render.Image(p.view, w, h)
			if err != nil {
				logrus.WithError(err).Debug("failed to render preview")
			} else {
				Paint(p.screen, img, (cols-w)/2, (rows-1-(h+1)/2)/2, Background)
			}
		}
	}

	status := p.view.Snapshot()
	line := fmt.Sprintf("%s  %s", describe(status, p.view.Style()), help)
	drawText(p.screen, 0, rows-1, tcell.StyleDefault.Reverse(true), line)
	p.screen.Show()
}

func describe(s meter.BatteryState, style meter.Style) string {
	if !s.KnownLevel() {
		return fmt.Sprintf("[%s] level unknown", style)
	}
	return fmt.Sprintf("[%s] %d%% %s", style, s.Level, s.Status)
}
