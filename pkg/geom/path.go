package geom

import "math"

// Point is a 2D point in device pixels.
type Point struct {
	X, Y float64
}

// Direction is the winding of a rectangle added to a Path.
type Direction int

const (
	// CW winds clockwise on screen (y grows downwards).
	CW Direction = iota
	// CCW winds counter-clockwise on screen.
	CCW
)

// Path is a set of closed polygonal contours rendered with the nonzero
// winding rule. Curves are flattened by the producer.
//
// Boolean operations are restricted to what the battery glyphs need:
// Difference only subtracts contours that lie inside the receiver, and
// Intersect only intersects with a rectangle. Both keep the result
// renderable with a plain nonzero fill, so every canvas backend can draw it.
type Path struct {
	contours [][]Point
	open     bool
}

// NewPath returns an empty path.
func NewPath() *Path {
	return &Path{}
}

// Reset removes all contours.
func (p *Path) Reset() {
	p.contours = p.contours[:0]
	p.open = false
}

// MoveTo starts a new contour at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.contours = append(p.contours, []Point{{x, y}})
	p.open = true
}

// LineTo adds a line from the current point to (x, y). Without a preceding
// MoveTo it starts a new contour.
func (p *Path) LineTo(x, y float64) {
	if !p.open {
		p.MoveTo(x, y)
		return
	}
	last := len(p.contours) - 1
	p.contours[last] = append(p.contours[last], Point{x, y})
}

// Close ends the current contour. Contours are always treated as closed;
// Close only makes the next LineTo start a new one.
func (p *Path) Close() {
	p.open = false
}

// AddRect appends r as a closed contour with the given winding.
func (p *Path) AddRect(r Rect, dir Direction) {
	pts := []Point{{r.Left, r.Top}, {r.Right, r.Top}, {r.Right, r.Bottom}, {r.Left, r.Bottom}}
	if dir == CCW {
		reverse(pts)
	}
	p.contours = append(p.contours, pts)
	p.open = false
}

// AddContour appends a copy of pts as a closed contour.
func (p *Path) AddContour(pts []Point) {
	if len(pts) == 0 {
		return
	}
	c := make([]Point, len(pts))
	copy(c, pts)
	p.contours = append(p.contours, c)
	p.open = false
}

// Contours returns the contours of p. The slices must not be modified.
func (p *Path) Contours() [][]Point {
	return p.contours
}

// Empty reports whether p has no contour with a non-zero area.
func (p *Path) Empty() bool {
	for _, c := range p.contours {
		if len(c) >= 3 && signedArea(c) != 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of p.
func (p *Path) Clone() *Path {
	q := &Path{contours: make([][]Point, 0, len(p.contours))}
	for _, c := range p.contours {
		q.AddContour(c)
	}
	return q
}

// Bounds returns the bounding box of all points of p.
func (p *Path) Bounds() Rect {
	first := true
	var b Rect
	for _, c := range p.contours {
		for _, pt := range c {
			if first {
				b = Rect{pt.X, pt.Y, pt.X, pt.Y}
				first = false
				continue
			}
			b.Left = math.Min(b.Left, pt.X)
			b.Top = math.Min(b.Top, pt.Y)
			b.Right = math.Max(b.Right, pt.X)
			b.Bottom = math.Max(b.Bottom, pt.Y)
		}
	}
	return b
}

// SignedArea returns the sum of the signed areas of all contours. Clockwise
// contours on screen count positive.
func (p *Path) SignedArea() float64 {
	var a float64
	for _, c := range p.contours {
		a += signedArea(c)
	}
	return a
}

// Area returns the painted area of p under the nonzero rule, assuming p was
// built from an outline plus holes through Difference and Intersect.
func (p *Path) Area() float64 {
	return math.Abs(p.SignedArea())
}

// Difference cuts hole out of p. The contours of hole are first clipped to
// within, which must lie inside the outline of p, then oriented against p.
func (p *Path) Difference(hole *Path, within Rect) {
	if hole == nil || p.Empty() {
		return
	}
	clipped := hole.Clone()
	clipped.Intersect(within)
	if clipped.Empty() {
		return
	}

	flip := math.Signbit(clipped.SignedArea()) == math.Signbit(p.SignedArea())
	for _, c := range clipped.contours {
		if flip {
			reverse(c)
		}
		p.contours = append(p.contours, c)
	}
	p.open = false
}

// Intersect clips every contour of p to r. Contours that vanish are removed.
func (p *Path) Intersect(r Rect) {
	if r.Empty() {
		p.Reset()
		return
	}
	out := p.contours[:0]
	for _, c := range p.contours {
		c = clipEdge(c, func(pt Point) bool { return pt.X >= r.Left }, func(a, b Point) Point { return atX(a, b, r.Left) })
		c = clipEdge(c, func(pt Point) bool { return pt.X <= r.Right }, func(a, b Point) Point { return atX(a, b, r.Right) })
		c = clipEdge(c, func(pt Point) bool { return pt.Y >= r.Top }, func(a, b Point) Point { return atY(a, b, r.Top) })
		c = clipEdge(c, func(pt Point) bool { return pt.Y <= r.Bottom }, func(a, b Point) Point { return atY(a, b, r.Bottom) })
		if len(c) >= 3 {
			out = append(out, c)
		}
	}
	p.contours = out
	p.open = false
}

// clipEdge is one Sutherland–Hodgman pass against a half plane.
func clipEdge(in []Point, inside func(Point) bool, cross func(a, b Point) Point) []Point {
	if len(in) == 0 {
		return nil
	}
	out := make([]Point, 0, len(in)+4)
	prev := in[len(in)-1]
	for _, cur := range in {
		switch {
		case inside(cur):
			if !inside(prev) {
				out = append(out, cross(prev, cur))
			}
			out = append(out, cur)
		case inside(prev):
			out = append(out, cross(prev, cur))
		}
		prev = cur
	}
	return out
}

func atX(a, b Point, x float64) Point {
	if b.X == a.X {
		return Point{x, a.Y}
	}
	t := (x - a.X) / (b.X - a.X)
	return Point{x, a.Y + t*(b.Y-a.Y)}
}

func atY(a, b Point, y float64) Point {
	if b.Y == a.Y {
		return Point{a.X, y}
	}
	t := (y - a.Y) / (b.Y - a.Y)
	return Point{a.X + t*(b.X-a.X), y}
}

func signedArea(c []Point) float64 {
	if len(c) < 3 {
		return 0
	}
	var s float64
	prev := c[len(c)-1]
	for _, cur := range c {
		s += prev.X*cur.Y - cur.X*prev.Y
		prev = cur
	}
	return s / 2
}

func reverse(pts []Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}
