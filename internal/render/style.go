package render

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MinFontSize = 16
	MaxFontSize = 48
)

// Style holds the user-adjustable caption appearance. An empty
// BackgroundColor means no background is drawn at all, only text.
type Style struct {
	FontSize          int     `json:"font_size"`
	TextColor         string  `json:"text_color"`
	BackgroundColor   string  `json:"background_color,omitempty"`
	BackgroundOpacity float64 `json:"background_opacity"`
}

// DefaultStyle mirrors the initial values offered to the user.
func DefaultStyle() Style {
	return Style{
		FontSize:          16,
		TextColor:         "#FFFFFF",
		BackgroundColor:   "#000000",
		BackgroundOpacity: 0.5,
	}
}

// Normalize clamps the style into its valid ranges.
func (s Style) Normalize() Style {
	if s.FontSize < MinFontSize {
		s.FontSize = MinFontSize
	}
	if s.FontSize > MaxFontSize {
		s.FontSize = MaxFontSize
	}
	if s.BackgroundOpacity < 0 {
		s.BackgroundOpacity = 0
	}
	if s.BackgroundOpacity > 1 {
		s.BackgroundOpacity = 1
	}
	if s.TextColor == "" {
		s.TextColor = "#FFFFFF"
	}
	return s
}

// parseHexColor reads "#RRGGBB" into normalized RGB components.
func parseHexColor(hex string) (r, g, b float64, err error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid color %q", hex)
	}
	var rv, gv, bv uint64
	if rv, err = strconv.ParseUint(hex[0:2], 16, 8); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q", hex)
	}
	if gv, err = strconv.ParseUint(hex[2:4], 16, 8); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q", hex)
	}
	if bv, err = strconv.ParseUint(hex[4:6], 16, 8); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q", hex)
	}
	return float64(rv) / 255, float64(gv) / 255, float64(bv) / 255, nil
}
