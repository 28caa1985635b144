// Package canvas defines the 2D drawing capability the battery meter renders
// against, together with the paints it uses.
package canvas

import (
	"image/color"

	"github.com/charlie0129/battmeter/pkg/geom"
)

// Canvas is an abstract 2D drawing target. Paths are filled with the
// nonzero winding rule. Angles are in degrees, clockwise on screen, with 0
// pointing to 3 o'clock.
type Canvas interface {
	// FillPath fills p with paint.
	FillPath(p *geom.Path, paint Paint)
	// StrokeArc strokes the arc of the oval inscribed in oval, starting at
	// startDeg and sweeping sweepDeg.
	StrokeArc(oval geom.Rect, startDeg, sweepDeg float64, paint Paint)
	// DrawText draws text horizontally centered on x with its baseline at y.
	DrawText(text string, x, y float64, paint TextPaint)
}

// Paint describes how a path or an arc is painted.
type Paint struct {
	Color color.NRGBA
	// Filter, when set, is multiplied into Color before painting.
	Filter *color.NRGBA
	// StrokeWidth applies to StrokeArc only.
	StrokeWidth float64
	// Dash holds alternating on/off lengths. Empty means solid.
	Dash []float64
}

// Effective returns the color actually painted, with the filter applied.
func (p Paint) Effective() color.NRGBA {
	if p.Filter == nil {
		return p.Color
	}
	return Multiply(p.Color, *p.Filter)
}

// TextPaint describes how text is painted.
type TextPaint struct {
	Color color.NRGBA
	// Size is the font size in pixels.
	Size float64
}
