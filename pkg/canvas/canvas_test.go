package canvas

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/battmeter/pkg/geom"
)

func TestMultiply(t *testing.T) {
	white := color.NRGBA{0xff, 0xff, 0xff, 0xff}
	orange := ARGB(0xfff4511e)

	assert.Equal(t, orange, Multiply(white, orange))
	assert.Equal(t, color.NRGBA{}, Multiply(orange, color.NRGBA{}))
	assert.Equal(t, uint8(77), Multiply(WithAlpha(white, 77), white).A)
}

func TestPaintEffective(t *testing.T) {
	tint := ARGB(0xff808080)
	p := Paint{Color: ARGB(0xffffffff)}
	assert.Equal(t, ARGB(0xffffffff), p.Effective())

	p.Filter = &tint
	assert.Equal(t, tint, p.Effective())
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "#ff0000", want: color.NRGBA{0xff, 0, 0, 0xff}},
		{in: " #00ff00 ", want: color.NRGBA{0, 0xff, 0, 0xff}},
		{in: "#4dffffff", want: color.NRGBA{0xff, 0xff, 0xff, 0x4d}},
		{in: "#zzzzzz", wantErr: true},
		{in: "x4dffffff", wantErr: true},
		{in: "red", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatColorRoundTrip(t *testing.T) {
	for _, c := range []color.NRGBA{ARGB(0xfff4511e), ARGB(0x4dffffff)} {
		got, err := ParseColor(FormatColor(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestRecorderReplay(t *testing.T) {
	src := &Recorder{}
	p := geom.NewPath()
	p.AddRect(geom.R(0, 0, 4, 4), geom.CW)
	src.FillPath(p, Paint{})
	src.StrokeArc(geom.R(0, 0, 10, 10), 270, 90, Paint{StrokeWidth: 2})
	src.DrawText("42", 5, 6, TextPaint{Size: 3})

	// recorded paths are copies
	p.Reset()
	require.False(t, src.Ops[0].Path.Empty())

	dst := &Recorder{}
	src.Replay(dst)
	assert.Equal(t, src.Ops, dst.Ops)
	assert.Len(t, dst.Filter(OpStrokeArc), 1)

	dst.Reset()
	assert.Empty(t, dst.Ops)
}
