// Package raster implements canvas.Canvas on top of fogleman/gg.
package raster

import (
	"image"
	"io"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/image/font"

	"github.com/charlie0129/battmeter/pkg/canvas"
	"github.com/charlie0129/battmeter/pkg/geom"
	"github.com/charlie0129/battmeter/pkg/glyph"
)

var (
	ttf     *truetype.Font
	ttfErr  error
	ttfOnce sync.Once
)

func defaultFont() (*truetype.Font, error) {
	ttfOnce.Do(func() {
		ttf, ttfErr = truetype.Parse(glyph.TTF())
	})
	return ttf, ttfErr
}

// Canvas draws into an RGBA image.
type Canvas struct {
	dc    *gg.Context
	font  *truetype.Font
	faces map[float64]font.Face
}

var _ canvas.Canvas = &Canvas{}

// New returns a transparent canvas of width x height pixels.
func New(width, height int) (*Canvas, error) {
	return NewFromContext(gg.NewContext(max(width, 1), max(height, 1)))
}

// NewFromContext wraps an existing gg context.
func NewFromContext(dc *gg.Context) (*Canvas, error) {
	f, err := defaultFont()
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to load font")
	}
	return &Canvas{
		dc:    dc,
		font:  f,
		faces: make(map[float64]font.Face),
	}, nil
}

func (c *Canvas) FillPath(p *geom.Path, paint canvas.Paint) {
	c.dc.NewSubPath()
	for _, contour := range p.Contours() {
		if len(contour) < 3 {
			continue
		}
		c.dc.MoveTo(contour[0].X, contour[0].Y)
		for _, pt := range contour[1:] {
			c.dc.LineTo(pt.X, pt.Y)
		}
		c.dc.ClosePath()
	}
	c.dc.SetFillRuleWinding()
	c.dc.SetColor(paint.Effective())
	c.dc.Fill()
}

func (c *Canvas) StrokeArc(oval geom.Rect, startDeg, sweepDeg float64, paint canvas.Paint) {
	if sweepDeg == 0 || oval.Empty() {
		return
	}
	c.dc.NewSubPath()
	c.dc.DrawEllipticalArc(
		oval.CenterX(), oval.CenterY(),
		oval.Width()/2, oval.Height()/2,
		gg.Radians(startDeg), gg.Radians(startDeg+sweepDeg),
	)
	c.dc.SetLineWidth(paint.StrokeWidth)
	c.dc.SetLineCapButt()
	c.dc.SetDash(paint.Dash...)
	c.dc.SetColor(paint.Effective())
	c.dc.Stroke()
	c.dc.SetDash()
}

func (c *Canvas) DrawText(text string, x, y float64, paint canvas.TextPaint) {
	if paint.Size <= 0 {
		return
	}
	c.dc.SetFontFace(c.face(paint.Size))
	c.dc.SetColor(paint.Color)
	c.dc.DrawStringAnchored(text, x, y, 0.5, 0)
}

func (c *Canvas) face(size float64) font.Face {
	if f, ok := c.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(c.font, &truetype.Options{Size: size, DPI: 72})
	c.faces[size] = f
	return f
}

// Clear makes the whole canvas transparent.
func (c *Canvas) Clear() {
	c.dc.SetRGBA(0, 0, 0, 0)
	c.dc.Clear()
}

// Image returns the backing image.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// EncodePNG writes the canvas as a PNG image.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return pkgerrors.Wrapf(c.dc.EncodePNG(w), "failed to encode png")
}
