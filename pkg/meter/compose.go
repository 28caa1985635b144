package meter

import (
	"strconv"

	"github.com/charlie0129/battmeter/pkg/geom"
)

// GlyphMode is the overlay drawn on top of the fill.
type GlyphMode int

const (
	GlyphNone GlyphMode = iota
	GlyphBolt
	GlyphPercent
	GlyphWarning
)

func (g GlyphMode) String() string {
	switch g {
	case GlyphBolt:
		return "bolt"
	case GlyphPercent:
		return "percent"
	case GlyphWarning:
		return "warning"
	default:
		return "none"
	}
}

// SelectGlyph picks the overlay for level. At or below the critical level
// the warning symbol wins over everything else.
func SelectGlyph(s BatteryState, level int, showPercent, showChargeAnimation bool, opts Options) GlyphMode {
	switch {
	case level <= opts.CriticalLevel:
		return GlyphWarning
	case level == 100 && !opts.Show100Percent:
		return GlyphNone
	case s.IsIndicatingCharge() && !(showPercent && showChargeAnimation):
		return GlyphBolt
	case showPercent:
		return GlyphPercent
	default:
		return GlyphNone
	}
}

// percentTextFraction is the share of the padded height used by the
// percentage digits.
func percentTextFraction(horizontal bool, level int) float64 {
	switch {
	case horizontal && level == 100:
		return 0.60
	case horizontal:
		return 0.75
	case level == 100:
		return 0.45
	default:
		return 0.6
	}
}

// Composition is everything a rectangular frame is painted from.
type Composition struct {
	Layout   RectLayout
	DrawFrac float64
	LevelTop float64

	// Shape is the outline with any cutout, painted with the frame color.
	Shape *geom.Path
	// Fill is Shape clipped to the charge level, painted with the fill color.
	Fill *geom.Path

	Glyph GlyphMode
	// Bolt is set for GlyphBolt. BoltOpaque is false when the bolt was cut
	// out of the shape instead of painted over it.
	Bolt       *geom.Path
	BoltOpaque bool

	// Text is the percentage or the warning symbol. TextOpaque is false when
	// the digits were cut out of the shape.
	Text       string
	TextX      float64
	TextY      float64
	TextSize   float64
	TextOpaque bool
}

// composeInput holds the view state a rectangular frame depends on.
type composeInput struct {
	state               BatteryState
	animating           bool
	animLevel           int
	showPercent         bool
	showChargeAnimation bool
	cutOutText          bool
	viewW, viewH        int
	opts                Options
}

// textMetrics is the part of a font the compositor needs.
type textMetrics interface {
	Ascent(size float64) float64
	Outline(text string, size, x, y float64) *geom.Path
}

// composeRect builds the paths of one rectangular frame. bolt returns the
// bolt polygon for a bolt frame; warnSize and warnAscent describe the
// warning symbol.
func composeRect(l RectLayout, in composeInput, face textMetrics, bolt func(geom.Rect) *geom.Path, warnSize, warnAscent float64) Composition {
	level := in.state.Level
	effective := level
	if in.animating {
		effective = in.animLevel
	}

	c := Composition{
		Layout:     l,
		DrawFrac:   DrawFrac(effective, in.opts.CriticalLevel),
		BoltOpaque: true,
		TextOpaque: true,
	}
	c.LevelTop = l.LevelTop(c.DrawFrac)
	c.Shape = l.Outline()

	c.Glyph = SelectGlyph(in.state, level, in.showPercent, in.showChargeAnimation, in.opts)
	switch c.Glyph {
	case GlyphBolt:
		c.Bolt = bolt(l.Bolt)
		if in.cutOutText {
			c.BoltOpaque = BoltCutoffFraction(l.Horizontal, l.Bolt, c.LevelTop) <= BoltLevelThreshold
		}
		if !c.BoltOpaque {
			c.Shape.Difference(c.Bolt, l.Frame)
		}
	case GlyphPercent:
		c.Text = strconv.Itoa(level)
		c.TextSize = l.Height * percentTextFraction(l.Horizontal, level)
		c.TextX = float64(in.viewW) * 0.5
		c.TextY = (float64(in.viewH) + face.Ascent(c.TextSize)) * 0.47
		if in.cutOutText {
			if l.Horizontal {
				c.TextOpaque = c.TextX > c.LevelTop
			} else {
				c.TextOpaque = c.LevelTop > c.TextY
			}
		}
		if !c.TextOpaque {
			c.Shape.Difference(face.Outline(c.Text, c.TextSize, c.TextX, c.TextY), l.Frame)
		}
	case GlyphWarning:
		c.Text = in.opts.WarningSymbol
		c.TextSize = warnSize
		c.TextX = float64(in.viewW) * 0.5
		c.TextY = (float64(in.viewH) + warnAscent) * 0.48
	}

	c.Fill = c.Shape.Clone()
	c.Fill.Intersect(l.FillRect(c.LevelTop))
	return c
}
