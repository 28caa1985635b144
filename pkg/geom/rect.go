package geom

import "fmt"

// Rect is an axis-aligned rectangle in device pixels. Unlike image.Rectangle
// it uses float coordinates so subpixel smoothing deltas survive.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// R is shorthand for Rect{left, top, right, bottom}.
func R(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// Width returns the horizontal extent of r. It may be negative for an
// inverted rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Empty reports whether r encloses no area.
func (r Rect) Empty() bool { return r.Left >= r.Right || r.Top >= r.Bottom }

// CenterX returns the horizontal center of r.
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }

// CenterY returns the vertical center of r.
func (r Rect) CenterY() float64 { return (r.Top + r.Bottom) / 2 }

// Offset returns r translated by (dx, dy).
func (r Rect) Offset(dx, dy float64) Rect {
	return Rect{r.Left + dx, r.Top + dy, r.Right + dx, r.Bottom + dy}
}

// Contract returns a rectangle resulting from contracting r by n on each side.
func (r Rect) Contract(n float64) Rect {
	return r.Contract4(n, n, n, n)
}

// Contract4 returns a rectangle resulting from adding (left, top) to the
// leading corner of r and subtracting (right, bottom) from the trailing one.
func (r Rect) Contract4(left, top, right, bottom float64) Rect {
	return Rect{r.Left + left, r.Top + top, r.Right - right, r.Bottom - bottom}
}

// Area returns the enclosed area, zero for empty rectangles.
func (r Rect) Area() float64 {
	if r.Empty() {
		return 0
	}
	return r.Width() * r.Height()
}

func (r Rect) String() string {
	return fmt.Sprintf("[%.2f,%.2f %.2f,%.2f]", r.Left, r.Top, r.Right, r.Bottom)
}
