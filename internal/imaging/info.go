package imaging

import "errors"

// BytesPerPixel is the size of one pixel in a PixelBuffer: R, G, B, A.
const BytesPerPixel = 4

// ErrShortBuffer is returned when a pixel buffer holds fewer bytes than its
// ImageInfo requires.
var ErrShortBuffer = errors.New("pixel buffer shorter than width*height*4")

// Transparency records whether any pixel of an image was translucent when
// the ImageInfo was last derived.
type Transparency int

const (
	// Opaque means every alpha byte was 255.
	Opaque Transparency = iota
	// Translucent means at least one alpha byte was not 255.
	Translucent
)

// String returns "opaque" or "translucent".
func (t Transparency) String() string {
	if t == Translucent {
		return "translucent"
	}
	return "opaque"
}

// TransparencyFromAlpha maps a has-alpha flag to a Transparency value.
func TransparencyFromAlpha(hasAlpha bool) Transparency {
	if hasAlpha {
		return Translucent
	}
	return Opaque
}

// ImageInfo describes the layout of a PixelBuffer.
//
// A PixelBuffer is a flat byte slice with 4 bytes per pixel in R, G, B, A
// order, row-major with the top row first. Pixel (x, y) starts at byte
// offset (y*Width + x) * 4.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width uint32 `json:"width"`

	// Height is the image height in pixels.
	Height uint32 `json:"height"`

	// IsGrayscale is set once a grayscale conversion has been applied.
	IsGrayscale bool `json:"is_grayscale"`

	// Transparency is derived whenever a buffer is freshly assigned.
	Transparency Transparency `json:"-"`
}

// NewImageInfo returns an ImageInfo with IsGrayscale cleared.
func NewImageInfo(width, height uint32, t Transparency) ImageInfo {
	return ImageInfo{
		Width:        width,
		Height:       height,
		Transparency: t,
	}
}

// NumPixels returns Width*Height.
func (i ImageInfo) NumPixels() int {
	return int(i.Width) * int(i.Height)
}

// ImageSize returns the number of bytes a PixelBuffer of this size holds.
func (i ImageInfo) ImageSize() int {
	return i.NumPixels() * BytesPerPixel
}

// IsEmpty reports whether no live image is described.
func (i ImageInfo) IsEmpty() bool {
	return i.Width == 0 || i.Height == 0
}

// IsOpaque reports whether the image was opaque when last derived.
func (i ImageInfo) IsOpaque() bool {
	return i.Transparency == Opaque
}

// IsTranslucent is the negation of IsOpaque.
func (i ImageInfo) IsTranslucent() bool {
	return !i.IsOpaque()
}

// Pixel is one RGBA8 pixel.
type Pixel [4]uint8

// PixelAt returns the pixel at (x, y). Coordinates outside the image, or a
// buffer too short to hold the pixel, yield a zero (transparent black) pixel.
func (i ImageInfo) PixelAt(pix []byte, x, y uint32) Pixel {
	if x >= i.Width || y >= i.Height {
		return Pixel{}
	}
	off := (int(y)*int(i.Width) + int(x)) * BytesPerPixel
	if off+BytesPerPixel > len(pix) {
		return Pixel{}
	}
	return Pixel{pix[off], pix[off+1], pix[off+2], pix[off+3]}
}

// DetectTransparency scans every alpha byte of pix and reports Translucent
// as soon as one is not 255.
func DetectTransparency(pix []byte) Transparency {
	for i := 3; i < len(pix); i += BytesPerPixel {
		if pix[i] != 0xFF {
			return Translucent
		}
	}
	return Opaque
}

// DeriveInfo builds a fresh ImageInfo for pix: IsGrayscale is cleared and
// Transparency is recomputed from the alpha channel.
//
// Returns ErrShortBuffer if pix is smaller than width*height*4.
func DeriveInfo(pix []byte, width, height uint32) (ImageInfo, error) {
	info := NewImageInfo(width, height, Opaque)
	if len(pix) < info.ImageSize() {
		return ImageInfo{}, ErrShortBuffer
	}
	info.Transparency = DetectTransparency(pix[:info.ImageSize()])
	return info, nil
}
