package imaging

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned when a crop rectangle is empty or does not
// fit inside the source image.
var ErrInvalidGeometry = errors.New("invalid crop geometry")

// Rect is a crop rectangle: origin (X, Y) inclusive, extent W x H.
type Rect struct {
	X, Y uint32
	W, H uint32
}

// Fits reports whether r is a non-empty rectangle entirely inside info.
//
// The right and bottom edges are computed with saturating addition so that
// x+w near the top of the uint32 range cannot wrap around and pass the check.
func (r Rect) Fits(info ImageInfo) bool {
	if r.W < 1 || r.H < 1 {
		return false
	}
	if r.X >= info.Width || r.Y >= info.Height {
		return false
	}
	return saturatingAdd(r.X, r.W) <= info.Width && saturatingAdd(r.Y, r.H) <= info.Height
}

// Crop copies the rectangle r out of pix into a newly allocated buffer.
//
// Parameters:
//   - info: Layout of the source buffer.
//   - pix: Source PixelBuffer. Must hold at least info.ImageSize() bytes.
//   - r: Region to extract.
//
// Returns:
//   - []byte: The r.W x r.H PixelBuffer. The source is never modified.
//   - error: ErrInvalidGeometry if r does not fit, ErrShortBuffer if pix is
//     truncated.
//
// Each output row is one contiguous slice of r.W*4 bytes taken from the
// matching source row at byte offset r.X*4.
func Crop(info ImageInfo, pix []byte, r Rect) ([]byte, error) {
	if !r.Fits(info) {
		return nil, fmt.Errorf("%w: (%d,%d) %dx%d in %dx%d image",
			ErrInvalidGeometry, r.X, r.Y, r.W, r.H, info.Width, info.Height)
	}
	if len(pix) < info.ImageSize() {
		return nil, ErrShortBuffer
	}

	stride := int(info.Width) * BytesPerPixel
	lineLen := int(r.W) * BytesPerPixel
	lineOff := int(r.X) * BytesPerPixel

	out := make([]byte, 0, int(r.W)*int(r.H)*BytesPerPixel)
	for y := int(r.Y); y < int(r.Y)+int(r.H); y++ {
		start := y*stride + lineOff
		out = append(out, pix[start:start+lineLen]...)
	}
	return out, nil
}

func saturatingAdd(a, b uint32) uint32 {
	if s := a + b; s >= a {
		return s
	}
	return ^uint32(0)
}
