package canvas

import "github.com/charlie0129/battmeter/pkg/geom"

// OpKind identifies a recorded draw command.
type OpKind int

const (
	OpFillPath OpKind = iota
	OpStrokeArc
	OpDrawText
)

// Op is one recorded draw command. Only the fields of its kind are set.
type Op struct {
	Kind OpKind

	Path  *geom.Path
	Paint Paint

	Oval  geom.Rect
	Start float64
	Sweep float64

	Text      string
	X, Y      float64
	TextPaint TextPaint
}

// Recorder is a Canvas that keeps every command it receives. It is used by
// tests and to replay a frame onto several backends.
type Recorder struct {
	Ops []Op
}

var _ Canvas = &Recorder{}

func (r *Recorder) FillPath(p *geom.Path, paint Paint) {
	r.Ops = append(r.Ops, Op{Kind: OpFillPath, Path: p.Clone(), Paint: paint})
}

func (r *Recorder) StrokeArc(oval geom.Rect, startDeg, sweepDeg float64, paint Paint) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeArc, Oval: oval, Start: startDeg, Sweep: sweepDeg, Paint: paint})
}

func (r *Recorder) DrawText(text string, x, y float64, paint TextPaint) {
	r.Ops = append(r.Ops, Op{Kind: OpDrawText, Text: text, X: x, Y: y, TextPaint: paint})
}

// Reset drops all recorded commands.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

// Filter returns the recorded commands of the given kind.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Replay sends every recorded command to c, in order.
func (r *Recorder) Replay(c Canvas) {
	for _, op := range r.Ops {
		switch op.Kind {
		case OpFillPath:
			c.FillPath(op.Path, op.Paint)
		case OpStrokeArc:
			c.StrokeArc(op.Oval, op.Start, op.Sweep, op.Paint)
		case OpDrawText:
			c.DrawText(op.Text, op.X, op.Y, op.TextPaint)
		}
	}
}
