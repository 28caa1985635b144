package glyph

import (
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/charlie0129/battmeter/pkg/geom"
)

// curveSteps is the number of line segments a quadratic or cubic segment is
// flattened into.
const curveSteps = 8

// Face turns strings into filled outlines. It is safe for concurrent use.
type Face struct {
	mu  sync.Mutex
	f   *sfnt.Font
	buf sfnt.Buffer
}

var (
	defaultFace     *Face
	defaultFaceOnce sync.Once
)

// Default returns the embedded bold sans-serif face.
func Default() *Face {
	defaultFaceOnce.Do(func() {
		f, err := Parse(gobold.TTF)
		if err != nil {
			// the embedded font is part of the binary
			panic(err)
		}
		defaultFace = f
	})
	return defaultFace
}

// Parse parses a TrueType or OpenType font.
func Parse(ttf []byte) (*Face, error) {
	f, err := sfnt.Parse(ttf)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to parse font")
	}
	return &Face{f: f}, nil
}

// TTF returns the raw bytes of the embedded default font, for backends that
// rasterize text themselves.
func TTF() []byte {
	return gobold.TTF
}

func ppem(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}

func unfix(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Ascent returns the distance from the baseline to the top of the font at
// size pixels, as a positive number.
func (f *Face) Ascent(size float64) float64 {
	if size <= 0 {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	m, err := f.f.Metrics(&f.buf, ppem(size), font.HintingNone)
	if err != nil {
		logrus.WithError(err).Warn("failed to read font metrics")
		return 0
	}
	return unfix(m.Ascent)
}

// Advance returns the horizontal advance of text at size pixels.
func (f *Face) Advance(text string, size float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.advance(text, size)
}

func (f *Face) advance(text string, size float64) float64 {
	var (
		adv  fixed.Int26_6
		prev sfnt.GlyphIndex
	)
	for i, r := range []rune(text) {
		idx, err := f.f.GlyphIndex(&f.buf, r)
		if err != nil {
			continue
		}
		if i > 0 {
			if k, err := f.f.Kern(&f.buf, prev, idx, ppem(size), font.HintingNone); err == nil {
				adv += k
			}
		}
		a, err := f.f.GlyphAdvance(&f.buf, idx, ppem(size), font.HintingNone)
		if err == nil {
			adv += a
		}
		prev = idx
	}
	return unfix(adv)
}

// Outline returns the outline of text at size pixels, horizontally centered
// on x with its baseline at y.
func (f *Face) Outline(text string, size, x, y float64) *geom.Path {
	p := geom.NewPath()
	if size <= 0 || text == "" {
		return p
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	pen := x - f.advance(text, size)/2
	var prev sfnt.GlyphIndex
	for i, r := range []rune(text) {
		idx, err := f.f.GlyphIndex(&f.buf, r)
		if err != nil || idx == 0 {
			logrus.Tracef("no glyph for %q", r)
			continue
		}
		if i > 0 {
			if k, err := f.f.Kern(&f.buf, prev, idx, ppem(size), font.HintingNone); err == nil {
				pen += unfix(k)
			}
		}
		segs, err := f.f.LoadGlyph(&f.buf, idx, ppem(size), nil)
		if err != nil {
			logrus.WithError(err).Warnf("failed to load glyph %q", r)
			continue
		}
		appendSegments(p, segs, pen, y)

		a, err := f.f.GlyphAdvance(&f.buf, idx, ppem(size), font.HintingNone)
		if err == nil {
			pen += unfix(a)
		}
		prev = idx
	}
	return p
}

// Bounds returns the ink bounds of text at size pixels, centered on x=0 with
// the baseline at y=0.
func (f *Face) Bounds(text string, size float64) geom.Rect {
	return f.Outline(text, size, 0, 0).Bounds()
}

func appendSegments(p *geom.Path, segs sfnt.Segments, dx, dy float64) {
	pt := func(v fixed.Point26_6) geom.Point {
		return geom.Point{X: unfix(v.X) + dx, Y: unfix(v.Y) + dy}
	}
	var cur geom.Point
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			cur = pt(s.Args[0])
			p.MoveTo(cur.X, cur.Y)
		case sfnt.SegmentOpLineTo:
			cur = pt(s.Args[0])
			p.LineTo(cur.X, cur.Y)
		case sfnt.SegmentOpQuadTo:
			c, end := pt(s.Args[0]), pt(s.Args[1])
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				u := 1 - t
				p.LineTo(u*u*cur.X+2*u*t*c.X+t*t*end.X, u*u*cur.Y+2*u*t*c.Y+t*t*end.Y)
			}
			cur = end
		case sfnt.SegmentOpCubeTo:
			c1, c2, end := pt(s.Args[0]), pt(s.Args[1]), pt(s.Args[2])
			for i := 1; i <= curveSteps; i++ {
				t := float64(i) / curveSteps
				u := 1 - t
				p.LineTo(
					u*u*u*cur.X+3*u*u*t*c1.X+3*u*t*t*c2.X+t*t*t*end.X,
					u*u*u*cur.Y+3*u*u*t*c1.Y+3*u*t*t*c2.Y+t*t*t*end.Y,
				)
			}
			cur = end
		}
	}
	p.Close()
}
