package meter

import (
	"image/color"

	"github.com/charlie0129/battmeter/pkg/canvas"
)

const (
	// FullLevel is the level from which the icon is drawn completely filled.
	FullLevel = 96
	// BoltLevelThreshold is the fraction of the bolt covered by the fill
	// below which the bolt stays an opaque overlay.
	BoltLevelThreshold = 0.3
	// circleStrokeDivisor relates the ring stroke width to the circle size.
	circleStrokeDivisor = 10.5
	// probeLevel is the neutral level the tint is resolved at for the frame,
	// the bolt, and everything while plugged in.
	probeLevel = 50
)

// Options are the fixed resources of a meter.
type Options struct {
	// LowLevel is the level at or below which the low-level color is used.
	LowLevel int
	// CriticalLevel is the level at or below which the fill is empty and the
	// warning symbol replaces any glyph.
	CriticalLevel int
	// ButtonHeightFraction is the share of the long axis used by the cap.
	ButtonHeightFraction float64
	// SubpixelSmoothingLeft/Right inset leading/trailing edges to avoid
	// anti-aliasing seams between adjacent paths.
	SubpixelSmoothingLeft  float64
	SubpixelSmoothingRight float64
	// Density is the number of pixels per dp.
	Density float64
	// WarningSymbol is drawn at or below the critical level.
	WarningSymbol string
	// Show100Percent keeps the bolt or percentage glyph at level 100.
	Show100Percent bool
}

// DefaultOptions returns the stock resources.
func DefaultOptions() Options {
	return Options{
		LowLevel:               15,
		CriticalLevel:          5,
		ButtonHeightFraction:   0.105,
		SubpixelSmoothingLeft:  0.028,
		SubpixelSmoothingRight: 0.028,
		Density:                1,
		WarningSymbol:          "!",
		Show100Percent:         true,
	}
}

// Colors are the externally configurable colors of a meter.
type Colors struct {
	Frame    color.NRGBA
	Fill     color.NRGBA
	Text     color.NRGBA
	LowLevel color.NRGBA
	Tint     color.NRGBA
}

// frameAlpha is the alpha of the default frame color, 30% of the fill.
const frameAlpha = 77

// DefaultColors returns white fill, text and tint, a 30% white frame and a
// deep orange low-level color.
func DefaultColors() Colors {
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	return Colors{
		Frame:    canvas.WithAlpha(white, frameAlpha),
		Fill:     white,
		Text:     white,
		LowLevel: canvas.ARGB(0xfff4511e),
		Tint:     white,
	}
}

// FrameFor returns the default frame color derived from a fill color.
func FrameFor(fill color.NRGBA) color.NRGBA {
	return canvas.WithAlpha(fill, frameAlpha)
}
