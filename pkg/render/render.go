// Package render lays out a meter.View at a requested size and encodes one
// frame of it as PNG or SVG.
package render

import (
	"bytes"
	"image"
	"io"
	"math"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/battmeter/pkg/canvas/raster"
	"github.com/charlie0129/battmeter/pkg/canvas/vector"
	"github.com/charlie0129/battmeter/pkg/meter"
)

// PortraitAspect is the width to height ratio of the upright icon when no
// width is given.
const PortraitAspect = 9.5 / 14.5

// Layout sizes v for the offered width and height and returns the size it
// took. A width of 0 lets the style pick one from the height.
func Layout(v *meter.View, width, height int) (int, int) {
	if width <= 0 {
		width = int(math.Round(float64(height) * PortraitAspect))
	}
	w, h := v.Measure(width, height)
	v.OnSizeChanged(w, h, w, h)
	return w, h
}

// Image draws one frame of v, which must have been laid out.
func Image(v *meter.View, width, height int) (image.Image, error) {
	c, err := raster.New(width, height)
	if err != nil {
		return nil, err
	}
	v.Draw(c)
	return c.Image(), nil
}

// PNG draws one frame of v as PNG.
func PNG(v *meter.View, width, height int) ([]byte, error) {
	c, err := raster.New(width, height)
	if err != nil {
		return nil, err
	}
	v.Draw(c)

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SVG writes one frame of v as an SVG document to w.
func SVG(w io.Writer, v *meter.View, width, height int) error {
	cw := &errWriter{w: w}
	c := vector.New(cw, width, height)
	v.Draw(c)
	c.End()
	return pkgerrors.Wrapf(cw.err, "failed to write svg")
}

// errWriter keeps the first write error, which svgo drops.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
