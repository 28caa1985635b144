package meter

import (
	"fmt"
	"strings"
)

// Style selects how the battery is drawn.
type Style int

const (
	StyleIconPortrait Style = iota
	StyleIconLandscape
	StyleCircle
	StyleHidden
)

var styleNames = []string{"portrait", "landscape", "circle", "hidden"}

func (s Style) String() string {
	if s >= 0 && int(s) < len(styleNames) {
		return styleNames[s]
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle parses the name of a style, case-insensitively.
func ParseStyle(name string) (Style, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range styleNames {
		if n == name {
			return Style(i), nil
		}
	}
	return StyleIconPortrait, fmt.Errorf("unknown style %q, expected one of %s", name, strings.Join(styleNames, ", "))
}

// StyleFromIndicator maps the numeric battery indicator setting (0 portrait,
// 1 landscape, 2 circle, 3 hidden). Unrecognized values select portrait.
func StyleFromIndicator(indicator int) Style {
	switch indicator {
	case 1:
		return StyleIconLandscape
	case 2:
		return StyleCircle
	case 3:
		return StyleHidden
	default:
		return StyleIconPortrait
	}
}

func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Style) UnmarshalText(b []byte) error {
	v, err := ParseStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
