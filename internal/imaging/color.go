package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// PixelResult is the value of one pixel in several representations.
type PixelResult struct {
	X   int      `json:"x"`
	Y   int      `json:"y"`
	Hex string   `json:"hex"` // "#RRGGBB", alpha excluded
	RGB RGBColor `json:"rgb"`
	A   uint8    `json:"a"`
	HSL HSLColor `json:"hsl"`
}

// SampleColor reads the pixel at (x, y).
//
// Coordinates are 0-based with origin at the top-left; (x, y) must lie inside
// img.Bounds(). 16-bit images are scaled down to 8 bits per channel.
func SampleColor(img image.Image, x, y int) (*PixelResult, error) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	// Non-premultiplied so translucent pixels report their true colour.
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)

	cf := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	h, s, l := cf.Hsl()

	return &PixelResult{
		X:   x,
		Y:   y,
		Hex: strings.ToUpper(cf.Hex()),
		RGB: RGBColor{R: c.R, G: c.G, B: c.B},
		A:   c.A,
		HSL: HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}, nil
}

// ParseHexColor parses "#RRGGBB", "#RGB" or "#RRGGBBAA".
func ParseHexColor(hex string) (color.NRGBA, error) {
	if hex == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}

	alpha := uint8(255)
	if len(hex) == 9 {
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in %q: %w", hex, err)
		}
		alpha = uint8(a)
		hex = hex[:7]
	}

	cf, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := cf.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
