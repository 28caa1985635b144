// Package meter renders a battery level indicator in one of several styles:
// an upright or sideways battery icon, or a ring. It owns the geometry, the
// glyph cutouts, the low battery tinting and the charge animation, and draws
// onto any canvas.Canvas.
package meter

import (
	"image/color"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battmeter/pkg/canvas"
	"github.com/charlie0129/battmeter/pkg/glyph"
)

// View is a battery meter. All methods are safe for concurrent use; a paint
// pass holds the lock for its whole duration, so setters never interleave
// with a half-drawn frame.
//
// The View never draws by itself. When it needs a redraw it calls the
// function set with SetInvalidateFunc, and the host calls Draw.
type View struct {
	mu sync.Mutex

	opts   Options
	colors Colors
	face   *glyph.Face
	sched  Scheduler
	anim   *Animator

	style    Style
	drawable drawable
	visible  bool

	tracker     BatteryState
	demoTracker BatteryState
	demoMode    bool
	levelTest   *levelTest

	powerSave           bool
	showPercent         bool
	cutOutText          bool
	showChargeAnimation bool
	circleDotted        bool
	dotLength           int
	dotInterval         int

	padding              Padding
	width, height        int
	measuredW, measuredH int
	// layoutGen changes whenever the size or the padding changes.
	layoutGen uint64

	invalidate func()
}

// NewView returns a portrait meter with opts and the default colors. A nil
// sched uses RealScheduler.
func NewView(opts Options, sched Scheduler) *View {
	if sched == nil {
		sched = RealScheduler
	}
	v := &View{
		opts:       opts,
		colors:     DefaultColors(),
		face:       glyph.Default(),
		sched:      sched,
		style:      StyleIconPortrait,
		visible:    true,
		tracker:    NewBatteryState(),
		cutOutText: true,
	}
	v.demoTracker = v.tracker
	v.anim = newAnimator(sched, v.onTick)
	v.drawable = v.newDrawable(v.style)
	return v
}

func (v *View) newDrawable(s Style) drawable {
	switch s {
	case StyleIconLandscape:
		return newRectMeter(v, true)
	case StyleCircle:
		return newCircleMeter(v)
	case StyleHidden:
		return nil
	default:
		return newRectMeter(v, false)
	}
}

// SetInvalidateFunc sets the function called when the meter needs to be
// redrawn. It is called without the View lock held and may call Draw.
func (v *View) SetInvalidateFunc(f func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.invalidate = f
}

// invalidateIfVisible asks the host for a redraw. It must be called without
// the lock held.
func (v *View) invalidateIfVisible() {
	v.mu.Lock()
	f := v.invalidate
	visible := v.visible
	v.mu.Unlock()
	if visible && f != nil {
		f()
	}
}

// update applies fn under the lock and requests a redraw unless a charge
// animation is running, which redraws on its own.
func (v *View) update(fn func()) {
	v.mu.Lock()
	fn()
	animating := v.anim.Animating()
	v.mu.Unlock()
	if !animating {
		v.invalidateIfVisible()
	}
}

func (v *View) onTick(gen uint64) {
	v.mu.Lock()
	if !v.anim.current(gen) {
		v.mu.Unlock()
		return
	}
	v.anim.pending = nil
	v.mu.Unlock()
	v.invalidateIfVisible()
}

// effective returns the state being displayed.
func (v *View) effective() BatteryState {
	if v.demoMode {
		return v.demoTracker
	}
	return v.tracker
}

func (v *View) tintFor(percent int) color.NRGBA {
	return ResolveTint(percent, v.powerSave, v.opts.LowLevel, v.colors.LowLevel, v.colors.Tint)
}

func (v *View) textColorFor(percent int) color.NRGBA {
	return ResolveTint(percent, v.powerSave, v.opts.LowLevel, v.colors.LowLevel, v.colors.Text)
}

func (v *View) measuredSize() (int, int) {
	if v.measuredW == 0 && v.measuredH == 0 {
		return v.width, v.height
	}
	return v.measuredW, v.measuredH
}

// OnBatteryStateChanged replaces the real battery state. While a level test
// runs, the latest such state is held back and shown when the test ends.
func (v *View) OnBatteryStateChanged(s BatteryState) {
	v.mu.Lock()
	if v.levelTest != nil && !s.TestMode {
		// shown once the test ends
		v.levelTest.saved = s
		v.mu.Unlock()
		logrus.Trace("deferring battery state until the level test ends")
		return
	}
	v.applyState(s)
	v.mu.Unlock()
	v.invalidateIfVisible()
}

func (v *View) applyState(s BatteryState) {
	v.tracker = s
	if v.drawable != nil {
		v.visible = s.Present
	}
}

// Snapshot returns the state currently displayed, which is the demo state
// in demo mode.
func (v *View) Snapshot() BatteryState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.effective()
}

// Visible reports whether the meter is shown at all.
func (v *View) Visible() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.visible
}

// Style returns the current style.
func (v *View) Style() Style {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.style
}

// Animating reports whether a charge animation is running.
func (v *View) Animating() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.anim.Animating()
}

// SetStyle switches the rendering style. The previous style is disposed.
// Setting the current style again does nothing.
func (v *View) SetStyle(s Style) {
	v.mu.Lock()
	if v.style == s {
		v.mu.Unlock()
		return
	}
	logrus.WithFields(logrus.Fields{"from": v.style, "to": s}).Debug("switching meter style")
	v.style = s
	if v.drawable != nil {
		v.drawable.onDispose()
	}
	v.drawable = v.newDrawable(s)
	if v.drawable == nil {
		v.visible = false
		v.mu.Unlock()
		return
	}
	v.drawable.onSizeChanged(v.width, v.height, v.width, v.height)
	v.visible = v.effective().Present
	v.mu.Unlock()
	v.invalidateIfVisible()
}

// Measure returns the size the meter wants for the offered width and
// height. The result is remembered for the ring layout.
func (v *View) Measure(width, height int) (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch v.style {
	case StyleIconLandscape:
		width = int(float64(height) * 1.2)
	case StyleCircle:
		height = int(float64(height) + circleStrokeDivisor/3)
		width = height
	}
	v.measuredW, v.measuredH = width, height
	return width, height
}

// OnSizeChanged sets the size of the drawing area.
func (v *View) OnSizeChanged(w, h, oldw, oldh int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width, v.height = w, h
	v.layoutGen++
	if v.drawable != nil {
		v.drawable.onSizeChanged(w, h, oldw, oldh)
	}
}

// SetPadding sets the insets of the drawing area.
func (v *View) SetPadding(p Padding) {
	v.update(func() {
		v.padding = p
		v.layoutGen++
		if v.drawable != nil {
			v.drawable.onSizeChanged(v.width, v.height, v.width, v.height)
		}
	})
}

// SetColors replaces all colors.
func (v *View) SetColors(c Colors) {
	v.update(func() { v.colors = c })
}

// Colors returns the current colors.
func (v *View) Colors() Colors {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.colors
}

// SetTint sets the color multiplied into the frame and the fill.
func (v *View) SetTint(c color.NRGBA) {
	v.update(func() { v.colors.Tint = c })
}

// SetTextColor sets the color of the percentage and the bolt.
func (v *View) SetTextColor(c color.NRGBA) {
	v.update(func() { v.colors.Text = c })
}

func (v *View) SetShowPercentText(show bool) {
	v.update(func() { v.showPercent = show })
}

func (v *View) SetCutOutText(cutOut bool) {
	v.update(func() { v.cutOutText = cutOut })
}

func (v *View) SetPowerSave(enabled bool) {
	v.update(func() { v.powerSave = enabled })
}

// SetShowChargeAnimation enables the charge sweep. The redraw starts the
// sweep when charging. Disabling it lets a running sweep wind down to the
// battery level.
func (v *View) SetShowChargeAnimation(show bool) {
	v.update(func() { v.showChargeAnimation = show })
}

// SetCircleDotPattern makes the ring's level arc dashed with dashes of
// length separated by interval. An interval of 0 draws a solid arc.
func (v *View) SetCircleDotPattern(interval, length int) {
	v.update(func() {
		v.dotInterval = interval
		if interval == 0 {
			v.dotLength = 0
			v.circleDotted = false
		} else {
			v.dotLength = length
			v.circleDotted = true
		}
	})
}

// Settings is a read-only view of the toggles of a View.
type Settings struct {
	Style               Style   `json:"style"`
	ShowPercent         bool    `json:"showPercent"`
	CutOutText          bool    `json:"cutOutText"`
	ShowChargeAnimation bool    `json:"showChargeAnimation"`
	PowerSave           bool    `json:"powerSave"`
	DotInterval         int     `json:"dotInterval"`
	DotLength           int     `json:"dotLength"`
	Padding             Padding `json:"padding"`
}

// Settings returns the current toggles.
func (v *View) Settings() Settings {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Settings{
		Style:               v.style,
		ShowPercent:         v.showPercent,
		CutOutText:          v.cutOutText,
		ShowChargeAnimation: v.showChargeAnimation,
		PowerSave:           v.powerSave,
		DotInterval:         v.dotInterval,
		DotLength:           v.dotLength,
		Padding:             v.padding,
	}
}

// Draw paints one frame onto c. Nothing is drawn while the meter is hidden
// or the level is unknown. Drawing may advance the charge animation.
func (v *View) Draw(c canvas.Canvas) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.drawable == nil || !v.visible {
		return
	}
	v.drawable.onDraw(c, v.effective())
}

// Close cancels the pending animation tick and any running level test.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.anim.Cancel()
	v.stopLevelTest()
}
