package meter

import (
	"github.com/charlie0129/battmeter/pkg/canvas"
	"github.com/charlie0129/battmeter/pkg/geom"
	"github.com/charlie0129/battmeter/pkg/glyph"
)

// drawable is one rendering style. All calls happen with the View lock held.
type drawable interface {
	onDraw(c canvas.Canvas, s BatteryState)
	onSizeChanged(w, h, oldw, oldh int)
	onDispose()
}

// rectMeter draws the battery as an icon, upright or on its side.
type rectMeter struct {
	v          *View
	horizontal bool
	disposed   bool

	layout    RectLayout
	layoutGen uint64
	hasLayout bool

	boltPoints []float64
	boltFrame  geom.Rect
	boltPath   *geom.Path

	warnSize   float64
	warnAscent float64
}

func newRectMeter(v *View, horizontal bool) *rectMeter {
	pts := glyph.BoltPoints
	if horizontal {
		pts = glyph.InvertedBoltPoints
	}
	return &rectMeter{v: v, horizontal: horizontal, boltPoints: pts}
}

func (m *rectMeter) onSizeChanged(w, h, oldw, oldh int) {
	m.warnSize = float64(h) * 0.75
	m.warnAscent = m.v.face.Ascent(m.warnSize)
	m.hasLayout = false
}

func (m *rectMeter) onDispose() {
	m.v.anim.Cancel()
	m.disposed = true
}

// currentLayout returns the cached layout, recomputing it after a resize or
// a padding change.
func (m *rectMeter) currentLayout() RectLayout {
	v := m.v
	if !m.hasLayout || m.layoutGen != v.layoutGen {
		m.layout = ComputeRectLayout(v.width, v.height, v.padding, m.horizontal, v.opts)
		m.layoutGen = v.layoutGen
		m.hasLayout = true
	}
	return m.layout
}

// bolt returns the bolt polygon for frame, rebuilding it only when the frame
// moved.
func (m *rectMeter) bolt(frame geom.Rect) *geom.Path {
	if m.boltPath == nil || frame != m.boltFrame {
		m.boltFrame = frame
		m.boltPath = glyph.Bolt(m.boltPoints, frame)
	}
	return m.boltPath
}

func (m *rectMeter) compose(s BatteryState) Composition {
	v := m.v
	in := composeInput{
		state:               s,
		animating:           v.anim.Animating(),
		animLevel:           v.anim.Level(),
		showPercent:         v.showPercent,
		showChargeAnimation: v.showChargeAnimation,
		cutOutText:          v.cutOutText,
		viewW:               v.width,
		viewH:               v.height,
		opts:                v.opts,
	}
	return composeRect(m.currentLayout(), in, v.face, m.bolt, m.warnSize, m.warnAscent)
}

func (m *rectMeter) onDraw(c canvas.Canvas, s BatteryState) {
	if m.disposed || s.Level == UnknownLevel {
		return
	}
	v := m.v
	comp := m.compose(s)

	frameFilter := v.tintFor(probeLevel)
	fillFilter := v.tintFor(tintProbe(s))

	c.FillPath(comp.Shape, canvas.Paint{Color: v.colors.Frame, Filter: &frameFilter})
	c.FillPath(comp.Fill, canvas.Paint{Color: v.colors.Fill, Filter: &fillFilter})

	switch comp.Glyph {
	case GlyphBolt:
		if comp.BoltOpaque {
			c.FillPath(comp.Bolt, canvas.Paint{Color: v.textColorFor(probeLevel)})
		}
	case GlyphPercent:
		if comp.TextOpaque {
			c.DrawText(comp.Text, comp.TextX, comp.TextY, canvas.TextPaint{Color: v.textColorFor(tintProbe(s)), Size: comp.TextSize})
		}
	case GlyphWarning:
		c.DrawText(comp.Text, comp.TextX, comp.TextY, canvas.TextPaint{Color: v.colors.LowLevel, Size: comp.TextSize})
	}

	v.anim.Step(s, v.showChargeAnimation)
}
