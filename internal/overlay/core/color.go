package core

import (
	"fmt"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGBA colour with float channels on a 0..1 scale.
// Colors are comparable with == and legend merging relies on exact equality.
type Color struct {
	colorful.Color
	A float64
}

var (
	// Transparent marks "no colour known" (alpha 0).
	Transparent = Color{}
	// Black is the default background for cells without a category.
	Black = Color{Color: colorful.Color{R: 0, G: 0, B: 0}, A: 1}
	// White is the default fallback for unknown table entries.
	White = Color{Color: colorful.Color{R: 1, G: 1, B: 1}, A: 1}
)

// NewColor builds a colour from float channels.
func NewColor(r, g, b, a float64) Color {
	return Color{Color: colorful.Color{R: r, G: g, B: b}, A: a}
}

// FromBytes builds a colour from 8-bit channels.
func FromBytes(r, g, b, a uint8) Color {
	return NewColor(float64(r)/255, float64(g)/255, float64(b)/255, float64(a)/255)
}

// ParseHex parses "#rrggbb" (or "#rgb") into an opaque colour.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Transparent, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return Color{Color: c, A: 1}, nil
}

// MaxComponent returns the largest of the R, G and B channels. Alpha is ignored.
func (c Color) MaxComponent() float64 {
	return math.Max(math.Max(c.R, c.G), c.B)
}

// WithAlpha returns a copy of c with the alpha channel replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// IsTransparent reports whether the colour carries no visible alpha.
func (c Color) IsTransparent() bool {
	return c.A <= 0
}

// Hex formats the RGB part as "#rrggbb", clamping out-of-range channels.
func (c Color) Hex() string {
	return c.Clamped().Hex()
}

// NRGBA converts to a non-premultiplied 8-bit colour.
func (c Color) NRGBA() color.NRGBA {
	cl := c.Clamped()
	return color.NRGBA{
		R: uint8(cl.R*255 + 0.5),
		G: uint8(cl.G*255 + 0.5),
		B: uint8(cl.B*255 + 0.5),
		A: uint8(clamp01(c.A)*255 + 0.5),
	}
}

// RGBA implements color.Color, honouring the alpha channel.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

func (c Color) String() string {
	return fmt.Sprintf("%s/%.2f", c.Hex(), c.A)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
