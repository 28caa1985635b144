package canvas

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	pkgerrors "github.com/pkg/errors"
)

// ARGB converts a packed 0xAARRGGBB value.
func ARGB(v uint32) color.NRGBA {
	return color.NRGBA{
		A: uint8(v >> 24),
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// WithAlpha returns c with its alpha replaced.
func WithAlpha(c color.NRGBA, alpha uint8) color.NRGBA {
	c.A = alpha
	return c
}

// Multiply is the MULTIPLY color filter: every component, alpha included,
// is the product of both inputs.
func Multiply(c, filter color.NRGBA) color.NRGBA {
	mul := func(a, b uint8) uint8 {
		return uint8((uint32(a)*uint32(b) + 127) / 255)
	}
	return color.NRGBA{
		R: mul(c.R, filter.R),
		G: mul(c.G, filter.G),
		B: mul(c.B, filter.B),
		A: mul(c.A, filter.A),
	}
}

// ParseColor parses "#rrggbb" (opaque) or "#aarrggbb".
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	switch len(s) {
	case 7:
		c, err := colorful.Hex(s)
		if err != nil {
			return color.NRGBA{}, pkgerrors.Wrapf(err, "invalid color %q", s)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
	case 9:
		if s[0] != '#' {
			return color.NRGBA{}, pkgerrors.Errorf("invalid color %q", s)
		}
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return color.NRGBA{}, pkgerrors.Wrapf(err, "invalid color %q", s)
		}
		return ARGB(uint32(v)), nil
	default:
		return color.NRGBA{}, pkgerrors.Errorf("invalid color %q: want #rrggbb or #aarrggbb", s)
	}
}

// FormatColor formats c as "#aarrggbb", or "#rrggbb" when opaque.
func FormatColor(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.A, c.R, c.G, c.B)
}
