package preview

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// upperHalf is drawn with the upper pixel as foreground and the lower pixel
// as background, so one cell shows two pixel rows.
const upperHalf = '▀'

// Paint draws img onto s with its top left corner at cell (x, y). Every
// cell covers one pixel column and two pixel rows. Translucent pixels are
// blended over bg.
func Paint(s tcell.Screen, img image.Image, x, y int, bg colorful.Color) {
	b := img.Bounds()
	for py := b.Min.Y; py < b.Max.Y; py += 2 {
		row := y + (py-b.Min.Y)/2
		for px := b.Min.X; px < b.Max.X; px++ {
			top := blend(img.At(px, py), bg)
			bottom := tcellColor(bg)
			if py+1 < b.Max.Y {
				bottom = blend(img.At(px, py+1), bg)
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			s.SetContent(x+px-b.Min.X, row, upperHalf, nil, style)
		}
	}
}

func blend(c color.Color, bg colorful.Color) tcell.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0 {
		return tcellColor(bg)
	}
	fg, _ := colorful.MakeColor(color.NRGBA{R: n.R, G: n.G, B: n.B, A: 0xff})
	return tcellColor(bg.BlendRgb(fg, float64(n.A)/0xff))
}

func tcellColor(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// drawText writes text on row y starting at column x, clipped to the
// screen width.
func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	w, _ := s.Size()
	for _, r := range text {
		if x >= w {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
