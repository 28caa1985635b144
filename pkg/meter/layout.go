package meter

import (
	"math"

	"github.com/charlie0129/battmeter/pkg/geom"
)

// Padding is the inset of the drawing area inside the view, in pixels.
type Padding struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// DrawFrac returns the filled fraction of the icon for level. Levels at or
// below critical draw empty, levels at or above FullLevel draw full.
func DrawFrac(level, critical int) float64 {
	switch {
	case level >= FullLevel:
		return 1
	case level <= critical:
		return 0
	default:
		return float64(level) / 100
	}
}

// RectLayout is the size-dependent geometry of a rectangular icon. It only
// changes when the view is resized or re-padded.
type RectLayout struct {
	Horizontal bool
	// Width and Height are the padded drawing area.
	Width, Height float64
	// Frame is the body, Button the cap, both smoothed.
	Frame  geom.Rect
	Button geom.Rect
	Bolt   geom.Rect
}

// ComputeRectLayout lays out a rectangular icon of viewW x viewH pixels.
// Zero or negative sizes produce empty rectangles.
func ComputeRectLayout(viewW, viewH int, pad Padding, horizontal bool, opts Options) RectLayout {
	pt, pb := pad.Top, pad.Bottom
	if horizontal {
		// keep the landscape icon aligned with the digits of the clock
		pt += int(float64(viewH) * 0.12)
		pb += int(float64(viewH) * 0.08)
	}
	w := max(viewW-pad.Left-pad.Right, 0)
	h := max(viewH-pt-pb, 0)
	fw, fh := float64(w), float64(h)

	long := fh
	if horizontal {
		long = fw
	}
	buttonHeight := math.Round(long * opts.ButtonHeightFraction)
	smL, smR := opts.SubpixelSmoothingLeft, opts.SubpixelSmoothingRight

	frame := geom.R(0, 0, fw, fh).Offset(float64(pad.Left), float64(pt))

	var button geom.Rect
	if horizontal {
		button = geom.R(
			frame.Right-buttonHeight,
			frame.Top+math.Round(fh*0.25),
			frame.Right,
			frame.Bottom-math.Round(fh*0.25),
		)
		button.Top += smL
		button.Bottom -= smR
		button.Right -= smR
		frame.Right -= buttonHeight
	} else {
		button = geom.R(
			frame.Left+math.Round(fw*0.25),
			frame.Top,
			frame.Right-math.Round(fw*0.25),
			frame.Top+buttonHeight,
		)
		button.Top += smL
		button.Left += smL
		button.Right -= smR
		frame.Top += buttonHeight
	}
	frame = frame.Contract4(smL, smL, smR, smR)

	if w == 0 || h == 0 {
		frame, button = geom.Rect{}, geom.Rect{}
	}
	return RectLayout{
		Horizontal: horizontal,
		Width:      fw,
		Height:     fh,
		Frame:      frame,
		Button:     button,
		Bolt:       boltFrame(frame, horizontal),
	}
}

// boltFrame is the box the bolt is laid out in, inside the body.
func boltFrame(f geom.Rect, horizontal bool) geom.Rect {
	w, h := f.Width(), f.Height()
	if horizontal {
		return geom.R(f.Left+w/9, f.Top+h/4.5, f.Right-w/6, f.Bottom-h/7)
	}
	return geom.R(f.Left+w/4.5, f.Top+h/6, f.Right-w/7, f.Bottom-h/10)
}

// LevelTop returns the coordinate of the fill's trailing edge for drawFrac.
// It moves along x for horizontal icons and along y for portrait ones, and
// covers the cap when the icon is full.
func (l RectLayout) LevelTop(drawFrac float64) float64 {
	if drawFrac == 1 {
		if l.Horizontal {
			return l.Button.Right
		}
		return l.Button.Top
	}
	if l.Horizontal {
		return l.Frame.Right - l.Frame.Width()*(1-drawFrac)
	}
	return l.Frame.Top + l.Frame.Height()*(1-drawFrac)
}

// FillRect returns the region the fill is clipped to for levelTop.
func (l RectLayout) FillRect(levelTop float64) geom.Rect {
	r := l.Frame
	if l.Horizontal {
		r.Right = levelTop
	} else {
		r.Top = levelTop
	}
	return r
}

// Outline returns the combined outline of the body and the cap as a single
// closed polygon.
func (l RectLayout) Outline() *geom.Path {
	fr, btn := l.Frame, l.Button
	p := geom.NewPath()
	p.MoveTo(btn.Left, btn.Top)
	if l.Horizontal {
		p.LineTo(btn.Right, btn.Top)
		p.LineTo(btn.Right, btn.Bottom)
		p.LineTo(btn.Left, btn.Bottom)
		p.LineTo(fr.Right, fr.Bottom)
		p.LineTo(fr.Left, fr.Bottom)
		p.LineTo(fr.Left, fr.Top)
		p.LineTo(btn.Left, fr.Top)
	} else {
		p.LineTo(btn.Right, btn.Top)
		p.LineTo(btn.Right, fr.Top)
		p.LineTo(fr.Right, fr.Top)
		p.LineTo(fr.Right, fr.Bottom)
		p.LineTo(fr.Left, fr.Bottom)
		p.LineTo(fr.Left, fr.Top)
		p.LineTo(btn.Left, fr.Top)
	}
	p.LineTo(btn.Left, btn.Top)
	p.Close()
	return p
}

// BoltCutoffFraction returns how much of bolt, in [0,1], lies behind the fill
// whose trailing edge is at levelTop.
func BoltCutoffFraction(horizontal bool, bolt geom.Rect, levelTop float64) float64 {
	var pct float64
	if horizontal {
		if bolt.Left == bolt.Right {
			return 0
		}
		pct = (bolt.Left - levelTop) / (bolt.Left - bolt.Right)
	} else {
		if bolt.Bottom == bolt.Top {
			return 0
		}
		pct = (bolt.Bottom - levelTop) / (bolt.Bottom - bolt.Top)
	}
	return math.Min(math.Max(pct, 0), 1)
}

// CircleLayout is the size-dependent geometry of the ring.
type CircleLayout struct {
	Size        float64
	StrokeWidth float64
	Oval        geom.Rect
	TextSize    float64
	TextX       float64
	TextY       float64
	Bolt        geom.Rect
}

// ComputeCircleLayout lays out the ring inside a measured box. digitsHeight
// is the ink height of "99" at half the ring size, supplied by the caller's
// font.
func ComputeCircleLayout(measuredW, measuredH, padLeft int, density float64, digitsHeight func(size float64) float64) CircleLayout {
	size := float64(max(min(measuredW, measuredH), 0))
	s := size / circleStrokeDivisor
	pl := float64(padLeft)

	c := CircleLayout{
		Size:        size,
		StrokeWidth: s,
		Oval:        geom.R(pl+s/2, s/2, size-s/2+pl, size-s/2),
		TextSize:    size / 2,
		TextX:       size/2 + pl,
	}
	var dh float64
	if digitsHeight != nil {
		dh = digitsHeight(c.TextSize)
	}
	c.TextY = size/2 + dh/2 - s/2 + density

	o := c.Oval
	c.Bolt = geom.R(
		math.Trunc(o.Left+o.Width()/3.2),
		math.Trunc(o.Top+o.Height()/4),
		math.Trunc(o.Right-o.Width()/5.2),
		math.Trunc(o.Bottom-o.Height()/8),
	)
	if size <= 0 {
		c.Oval, c.Bolt = geom.Rect{}, geom.Rect{}
	}
	return c
}
