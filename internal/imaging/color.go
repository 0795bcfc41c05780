package imaging

import (
	"fmt"
	"strings"
)

// GrayscaleMode selects how R, G and B collapse into one gray value.
type GrayscaleMode int

const (
	// Average uses (R+G+B)/3.
	Average GrayscaleMode = iota
	// Brightness uses max(R, G, B).
	Brightness
	// Luminance uses the fixed-point weighting (77R + 150G + 29B) / 256.
	Luminance
)

func (m GrayscaleMode) String() string {
	switch m {
	case Average:
		return "average"
	case Brightness:
		return "brightness"
	case Luminance:
		return "luminance"
	}
	return fmt.Sprintf("GrayscaleMode(%d)", int(m))
}

// ParseGrayscaleMode accepts "average", "brightness" and "luminance".
func ParseGrayscaleMode(s string) (GrayscaleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "average", "avg":
		return Average, nil
	case "brightness", "max":
		return Brightness, nil
	case "luminance", "luma":
		return Luminance, nil
	}
	return 0, fmt.Errorf("%w: grayscale mode %q", ErrUnknownMode, s)
}

// Luma returns the fixed-point luminance of an RGB triple.
func Luma(r, g, b uint8) uint8 {
	return uint8((int(r)*77 + int(g)*150 + int(b)*29) / 256)
}

// Grayscale replaces R, G and B of every pixel with one value computed per
// mode. Alpha is untouched. The conversion happens in place.
func Grayscale(pix []byte, mode GrayscaleMode) error {
	var gray func(r, g, b uint8) uint8
	switch mode {
	case Average:
		gray = func(r, g, b uint8) uint8 {
			return uint8((int(r) + int(g) + int(b)) / 3)
		}
	case Brightness:
		gray = func(r, g, b uint8) uint8 {
			return max(r, g, b)
		}
	case Luminance:
		gray = Luma
	default:
		return fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}

	for i := 0; i+BytesPerPixel <= len(pix); i += BytesPerPixel {
		v := gray(pix[i], pix[i+1], pix[i+2])
		pix[i], pix[i+1], pix[i+2] = v, v, v
	}
	return nil
}

// IsDark runs a luminance-weighted majority test over the visible pixels.
//
// Every pixel whose alpha exceeds alphaThreshold adds its luminance to a sum
// seeded with seed, and adds darkThreshold to a second sum seeded with
// darkThreshold. The image is dark when the first sum is strictly less than
// the second.
func IsDark(pix []byte, seed, darkThreshold, alphaThreshold uint8) bool {
	lum := uint64(seed)
	limit := uint64(darkThreshold)
	for i := 0; i+BytesPerPixel <= len(pix); i += BytesPerPixel {
		if pix[i+3] > alphaThreshold {
			lum += uint64(Luma(pix[i], pix[i+1], pix[i+2]))
			limit += uint64(darkThreshold)
		}
	}
	return lum < limit
}

// Blend composites rhs over lhs.
//
// The backdrop weight uses a divisor of 256 rather than 255. With an opaque
// lhs the resulting alpha is always 255.
func Blend(lhs, rhs Pixel) Pixel {
	ra := int(rhs[3])
	switch ra {
	case 0xFF:
		return rhs
	case 0:
		return lhs
	}

	la := int(lhs[3]) * (256 - ra) / 256
	sa := ra + la
	if sa == 0 {
		return Pixel{}
	}
	return Pixel{
		uint8((int(lhs[0])*la + int(rhs[0])*ra) / sa),
		uint8((int(lhs[1])*la + int(rhs[1])*ra) / sa),
		uint8((int(lhs[2])*la + int(rhs[2])*ra) / sa),
		uint8(sa),
	}
}

var (
	// White is the flattening backdrop for dark images.
	White = Pixel{0xFF, 0xFF, 0xFF, 0xFF}
	// Black is the flattening backdrop for light images.
	Black = Pixel{0, 0, 0, 0xFF}
)

// Background picks the flattening backdrop for pix: white behind a dark
// image, black behind a light one.
func Background(pix []byte) Pixel {
	if IsDark(pix, 0xFF, 0xC0, 64) {
		return White
	}
	return Black
}

// Flatten blends every pixel of pix over bg in place.
func Flatten(pix []byte, bg Pixel) {
	for i := 0; i+BytesPerPixel <= len(pix); i += BytesPerPixel {
		var p Pixel
		copy(p[:], pix[i:i+BytesPerPixel])
		p = Blend(bg, p)
		copy(pix[i:i+BytesPerPixel], p[:])
	}
}
