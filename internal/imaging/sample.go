package imaging

import (
	"fmt"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a pixel value in several representations.
type ColorResult struct {
	X         uint32    `json:"x"`
	Y         uint32    `json:"y"`
	Hex       string    `json:"hex"`       // "#RRGGBB" (no alpha)
	RGBA      RGBAColor `json:"rgba"`      // raw buffer bytes
	HSL       HSLColor  `json:"hsl"`       // HSL representation
	Luminance uint8     `json:"luminance"` // same weighting as Luminance grayscale
}

// SampleColor reads the pixel at (x, y) of the buffer described by info.
//
// Returns an error if the coordinates are outside the image. The hex and HSL
// forms ignore alpha; use RGBA.A for transparency.
func SampleColor(info ImageInfo, pix []byte, x, y uint32) (*ColorResult, error) {
	if x >= info.Width || y >= info.Height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside %dx%d image", x, y, info.Width, info.Height)
	}
	p := info.PixelAt(pix, x, y)

	c := colorful.Color{
		R: float64(p[0]) / 255.0,
		G: float64(p[1]) / 255.0,
		B: float64(p[2]) / 255.0,
	}
	h, s, l := c.Hsl()

	return &ColorResult{
		X:    x,
		Y:    y,
		Hex:  strings.ToUpper(c.Hex()),
		RGBA: RGBAColor{R: p[0], G: p[1], B: p[2], A: p[3]},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
		Luminance: Luma(p[0], p[1], p[2]),
	}, nil
}
