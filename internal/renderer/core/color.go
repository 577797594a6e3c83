package core

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGBA color with 8-bit channels.
// A is opacity: 0 is fully transparent, 255 fully opaque.
type Color struct {
	R, G, B, A uint8
}

// ColorTransparent is the zero color. Painting it changes nothing.
var ColorTransparent = Color{}

// Common opaque colors.
var (
	ColorBlack   = Color{R: 0, G: 0, B: 0, A: 255}
	ColorWhite   = Color{R: 255, G: 255, B: 255, A: 255}
	ColorRed     = Color{R: 255, G: 0, B: 0, A: 255}
	ColorGreen   = Color{R: 0, G: 255, B: 0, A: 255}
	ColorBlue    = Color{R: 0, G: 0, B: 255, A: 255}
	ColorYellow  = Color{R: 255, G: 255, B: 0, A: 255}
	ColorCyan    = Color{R: 0, G: 255, B: 255, A: 255}
	ColorMagenta = Color{R: 255, G: 0, B: 255, A: 255}
	ColorGray    = Color{R: 128, G: 128, B: 128, A: 255}
)

// RGBA creates a color from all four channels.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// RGB creates a fully opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// ColorFromHex parses "#RGB", "#RRGGBB" or "#RRGGBBAA" (the leading # is optional).
// Colors without an alpha component are opaque.
func ColorFromHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")

	alpha := uint64(255)
	switch len(hex) {
	case 3, 6:
	case 8:
		var err error
		alpha, err = strconv.ParseUint(hex[6:8], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color: %s", hex)
		}
		hex = hex[:6]
	default:
		return Color{}, fmt.Errorf("invalid hex color length: %s", hex)
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color: %s", hex)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: uint8(alpha)}, nil
}

// WithAlpha returns the color with its alpha channel replaced.
func (c Color) WithAlpha(a uint8) Color {
	c.A = a
	return c
}

// IsOpaque reports whether the color fully covers what is beneath it.
func (c Color) IsOpaque() bool {
	return c.A == 255
}

// IsTransparent reports whether the color has no visible effect.
func (c Color) IsTransparent() bool {
	return c.A == 0
}

// Equals returns true if all four channels match.
func (c Color) Equals(other Color) bool {
	return c == other
}

// String returns "#RRGGBB" for opaque colors and "#RRGGBBAA" otherwise.
func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// Lighten returns a lighter version of the color, keeping alpha.
// Amount should be 0.0 to 1.0.
func (c Color) Lighten(amount float64) Color {
	return c.mix(ColorWhite, amount)
}

// Darken returns a darker version of the color, keeping alpha.
// Amount should be 0.0 to 1.0.
func (c Color) Darken(amount float64) Color {
	return c.mix(ColorBlack, amount)
}

func (c Color) mix(toward Color, amount float64) Color {
	amount = min(max(amount, 0), 1)
	from := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	to := colorful.Color{R: float64(toward.R) / 255, G: float64(toward.G) / 255, B: float64(toward.B) / 255}
	r, g, b := from.BlendRgb(to, amount).Clamped().RGB255()
	return Color{R: r, G: g, B: b, A: c.A}
}

// Blend paints fg over bg using fg's alpha.
//
// Each color channel is fg*A/255 + bg*(255-A)/255 and the result alpha is
// A + bg.A*(255-A)/255, both rounded to nearest. The divisor is odd, so a
// quotient never lands exactly on .5 and the rounding is unambiguous
// (round-half-up is what the integer form below computes).
//
// A fully opaque fg returns fg; a fully transparent fg returns bg.
// Several overlays compose by folding Blend in paint order.
func Blend(bg, fg Color) Color {
	switch fg.A {
	case 255:
		return fg
	case 0:
		return bg
	}

	a := uint32(fg.A)
	inv := 255 - a
	return Color{
		R: blendChannel(fg.R, bg.R, a, inv),
		G: blendChannel(fg.G, bg.G, a, inv),
		B: blendChannel(fg.B, bg.B, a, inv),
		A: uint8(min(255, a+div255(uint32(bg.A)*inv))),
	}
}

func blendChannel(fg, bg uint8, a, inv uint32) uint8 {
	return uint8(min(255, div255(uint32(fg)*a+uint32(bg)*inv)))
}

// div255 divides by 255 rounding to nearest.
func div255(n uint32) uint32 {
	return (n + 127) / 255
}
