package glyph

import "github.com/charlie0129/battmeter/pkg/geom"

// Raw bolt outlines in design units. The inverted table is the portrait bolt
// turned a quarter clockwise for the landscape icon.
var (
	boltPointsRaw = []int{
		73, 0,
		392, 0,
		201, 259,
		442, 259,
		4, 703,
		157, 334,
		0, 334,
	}
	invertedBoltPointsRaw = []int{
		703, 73,
		703, 392,
		444, 201,
		444, 442,
		0, 4,
		369, 157,
		369, 0,
	}
)

var (
	// BoltPoints is the portrait bolt, normalized to [0,1] on both axes.
	BoltPoints = Normalize(boltPointsRaw)
	// InvertedBoltPoints is the landscape bolt, normalized to [0,1].
	InvertedBoltPoints = Normalize(invertedBoltPointsRaw)
)

// Normalize scales interleaved x,y pairs so the largest coordinate on each
// axis becomes 1. An axis whose coordinates are all zero stays zero. A
// trailing odd value is dropped.
func Normalize(pts []int) []float64 {
	n := len(pts) &^ 1
	maxX, maxY := 0, 0
	for i := 0; i < n; i += 2 {
		maxX = max(maxX, pts[i])
		maxY = max(maxY, pts[i+1])
	}
	// a zero-extent axis maps every point onto 0
	maxX, maxY = max(maxX, 1), max(maxY, 1)

	out := make([]float64, n)
	for i := 0; i < n; i += 2 {
		out[i] = float64(pts[i]) / float64(maxX)
		out[i+1] = float64(pts[i+1]) / float64(maxY)
	}
	return out
}

// Bolt lays the normalized points out inside frame and returns the closed
// polygon.
func Bolt(points []float64, frame geom.Rect) *geom.Path {
	p := geom.NewPath()
	if len(points) < 2 {
		return p
	}
	w, h := frame.Width(), frame.Height()
	p.MoveTo(frame.Left+points[0]*w, frame.Top+points[1]*h)
	for i := 2; i+1 < len(points); i += 2 {
		p.LineTo(frame.Left+points[i]*w, frame.Top+points[i+1]*h)
	}
	p.LineTo(frame.Left+points[0]*w, frame.Top+points[1]*h)
	p.Close()
	return p
}
