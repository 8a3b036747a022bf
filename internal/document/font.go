package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Font holds character formatting. A zero Size or nil Color inherits.
type Font struct {
	Bold      bool
	Italic    bool
	Underline bool
	Color     *Color
	// Size in points.
	Size float64
}

// Apply sets the flag named by tf.
func (f *Font) Apply(tf TextFormat) {
	if tf&Bold != 0 {
		f.Bold = true
	}
	if tf&Italic != 0 {
		f.Italic = true
	}
	if tf&Underline != 0 {
		f.Underline = true
	}
}

// Color is an RGB color.
type Color struct {
	R, G, B uint8
}

var (
	Black    = Color{0, 0, 0}
	DarkGray = Color{169, 169, 169}
)

// RGB returns a pointer to a new color, for use in Font and Border literals.
func RGB(r, g, b uint8) *Color {
	return &Color{r, g, b}
}

// Hex returns the color as six uppercase hex digits without a leading '#'.
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

var namedColors = map[string]Color{
	"black":    Black,
	"white":    {255, 255, 255},
	"darkgray": DarkGray,
	"gray":     {128, 128, 128},
	"red":      {255, 0, 0},
	"green":    {0, 128, 0},
	"blue":     {0, 0, 255},
}

// ParseColor accepts "#rrggbb", "rrggbb" or a small set of color names.
func ParseColor(s string) (Color, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[v]; ok {
		return c, nil
	}
	v = strings.TrimPrefix(v, "#")
	if len(v) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	return Color{uint8(n >> 16), uint8(n >> 8), uint8(n)}, nil
}
