// Package vector implements canvas.Canvas as an SVG document using
// ajstarks/svgo.
package vector

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/charlie0129/battmeter/pkg/canvas"
	"github.com/charlie0129/battmeter/pkg/geom"
)

// Canvas writes SVG elements as commands arrive. End must be called to
// close the document.
type Canvas struct {
	s *svg.SVG
}

var _ canvas.Canvas = &Canvas{}

// New starts an SVG document of width x height pixels on w.
func New(w io.Writer, width, height int) *Canvas {
	s := svg.New(w)
	s.Start(width, height)
	return &Canvas{s: s}
}

// End closes the document.
func (c *Canvas) End() {
	c.s.End()
}

func rgb(col color.NRGBA) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", col.R, col.G, col.B)
}

func opacity(col color.NRGBA) string {
	return fmt.Sprintf("%.3f", float64(col.A)/255)
}

func (c *Canvas) FillPath(p *geom.Path, paint canvas.Paint) {
	var d strings.Builder
	for _, contour := range p.Contours() {
		if len(contour) < 3 {
			continue
		}
		fmt.Fprintf(&d, "M%.2f %.2f", contour[0].X, contour[0].Y)
		for _, pt := range contour[1:] {
			fmt.Fprintf(&d, " L%.2f %.2f", pt.X, pt.Y)
		}
		d.WriteString(" Z ")
	}
	if d.Len() == 0 {
		return
	}
	col := paint.Effective()
	c.s.Path(strings.TrimSpace(d.String()),
		"fill:"+rgb(col)+";fill-opacity:"+opacity(col)+";fill-rule:nonzero")
}

func (c *Canvas) StrokeArc(oval geom.Rect, startDeg, sweepDeg float64, paint canvas.Paint) {
	if sweepDeg == 0 || oval.Empty() {
		return
	}
	sweepDeg = math.Max(-360, math.Min(360, sweepDeg))

	cx, cy := oval.CenterX(), oval.CenterY()
	rx, ry := oval.Width()/2, oval.Height()/2
	at := func(deg float64) (float64, float64) {
		rad := deg * math.Pi / 180
		return cx + rx*math.Cos(rad), cy + ry*math.Sin(rad)
	}
	sweepFlag := 1
	if sweepDeg < 0 {
		sweepFlag = 0
	}

	// an SVG arc cannot end where it starts, so split the sweep in halves
	half := sweepDeg / 2
	x0, y0 := at(startDeg)
	x1, y1 := at(startDeg + half)
	x2, y2 := at(startDeg + sweepDeg)
	d := fmt.Sprintf("M%.2f %.2f A%.2f %.2f 0 0 %d %.2f %.2f A%.2f %.2f 0 0 %d %.2f %.2f",
		x0, y0, rx, ry, sweepFlag, x1, y1, rx, ry, sweepFlag, x2, y2)

	col := paint.Effective()
	style := "fill:none;stroke:" + rgb(col) + ";stroke-opacity:" + opacity(col) +
		fmt.Sprintf(";stroke-width:%.2f;stroke-linecap:butt", paint.StrokeWidth)
	if len(paint.Dash) > 0 {
		parts := make([]string, len(paint.Dash))
		for i, v := range paint.Dash {
			parts[i] = fmt.Sprintf("%.2f", v)
		}
		style += ";stroke-dasharray:" + strings.Join(parts, ",")
	}
	c.s.Path(d, style)
}

func (c *Canvas) DrawText(text string, x, y float64, paint canvas.TextPaint) {
	if paint.Size <= 0 {
		return
	}
	style := fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-weight:bold;font-size:%.2fpx;fill:%s;fill-opacity:%s",
		paint.Size, rgb(paint.Color), opacity(paint.Color))
	c.s.Text(int(math.Round(x)), int(math.Round(y)), text, style)
}
