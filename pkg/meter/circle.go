package meter

import (
	"strconv"

	"github.com/charlie0129/battmeter/pkg/canvas"
	"github.com/charlie0129/battmeter/pkg/geom"
	"github.com/charlie0129/battmeter/pkg/glyph"
)

// unknownStatusText is shown in the ring while the status is unknown.
const unknownStatusText = "?"

// circleMeter draws the battery as a ring with the level as its sweep.
type circleMeter struct {
	v        *View
	disposed bool

	layout    CircleLayout
	layoutGen uint64
	hasLayout bool

	boltFrame geom.Rect
	boltPath  *geom.Path
}

func newCircleMeter(v *View) *circleMeter {
	return &circleMeter{v: v}
}

func (m *circleMeter) onSizeChanged(w, h, oldw, oldh int) {
	m.initLayout()
}

func (m *circleMeter) onDispose() {
	m.v.anim.Cancel()
	m.disposed = true
}

func (m *circleMeter) initLayout() {
	v := m.v
	mw, mh := v.measuredSize()
	face := v.face
	m.layout = ComputeCircleLayout(mw, mh, v.padding.Left, v.opts.Density, func(size float64) float64 {
		return face.Bounds("99", size).Height()
	})
	m.layoutGen = v.layoutGen
	m.hasLayout = true
}

func (m *circleMeter) bolt(frame geom.Rect) *geom.Path {
	if m.boltPath == nil || frame != m.boltFrame {
		m.boltFrame = frame
		m.boltPath = glyph.Bolt(glyph.BoltPoints, frame)
	}
	return m.boltPath
}

func (m *circleMeter) onDraw(c canvas.Canvas, s BatteryState) {
	if m.disposed || s.Level == UnknownLevel {
		return
	}
	if !m.hasLayout || m.layoutGen != m.v.layoutGen {
		m.initLayout()
	}
	m.drawCircle(c, s)
	m.v.anim.Step(s, m.v.showChargeAnimation)
}

func (m *circleMeter) drawCircle(c canvas.Canvas, s BatteryState) {
	v := m.v
	l := m.layout
	unknown := s.Status == StatusUnknown
	level := s.Level

	frameFilter := v.tintFor(probeLevel)
	fillFilter := v.tintFor(tintProbe(s))
	framePaint := canvas.Paint{Color: v.colors.Frame, Filter: &frameFilter, StrokeWidth: l.StrokeWidth}
	fillPaint := canvas.Paint{Color: v.colors.Fill, Filter: &fillFilter, StrokeWidth: l.StrokeWidth}
	if v.circleDotted {
		fillPaint.Dash = []float64{float64(v.dotLength), float64(v.dotInterval)}
	}
	text := canvas.TextPaint{Color: v.textColorFor(tintProbe(s)), Size: l.TextSize}

	paint := fillPaint
	switch {
	case unknown:
		paint = framePaint
		level = 100
	case s.Status == StatusFull:
		level = 100
	}

	c.StrokeArc(l.Oval, 270, 360, framePaint)
	sweep := level
	if v.anim.Animating() {
		sweep = v.anim.Level()
	}
	c.StrokeArc(l.Oval, 270, float64(sweep)*3.6, paint)

	if unknown {
		c.DrawText(unknownStatusText, l.TextX, l.TextY, text)
		return
	}
	switch SelectGlyph(s, level, v.showPercent, v.showChargeAnimation, v.opts) {
	case GlyphBolt:
		c.FillPath(m.bolt(l.Bolt), canvas.Paint{Color: v.textColorFor(probeLevel)})
	case GlyphPercent:
		c.DrawText(strconv.Itoa(level), l.TextX, l.TextY, text)
	case GlyphWarning:
		c.DrawText(v.opts.WarningSymbol, l.TextX, l.TextY, canvas.TextPaint{Color: v.colors.LowLevel, Size: l.TextSize})
	}
}
