package imaging

import (
	"errors"
	"fmt"
	"math"
)

// ErrTooFewLevels is returned when a posterize level count is below 2.
var ErrTooFewLevels = errors.New("posterize needs at least 2 levels per channel")

// Floyd–Steinberg neighbor offsets and weights (in sixteenths).
var diffusion = [...]struct {
	dx, dy int
	weight int
}{
	{1, 0, 7},
	{-1, 1, 3},
	{0, 1, 5},
	{1, 1, 1},
}

// LevelTable maps every input byte onto one of levels evenly spaced outputs:
//
//	table[i] = ceil((255 / (levels-1)) * floor(levels*i / 256))
//
// The table is monotonically non-decreasing, starts at 0 and ends at 255.
func LevelTable(levels uint8) [256]uint8 {
	var table [256]uint8
	n := float64(levels)
	step := 255 / (n - 1)
	for i := range table {
		q := math.Floor(n * float64(i) / 256)
		table[i] = clampToByte(math.Ceil(step * q))
	}
	return table
}

// Posterize reduces R, G and B of pix to the given level counts in place.
//
// Parameters:
//   - info: Layout of pix.
//   - pix: PixelBuffer to quantize. Alpha is never touched.
//   - dither: When true, Floyd–Steinberg error diffusion is applied.
//   - red, green, blue: Levels per channel, each at least 2.
//
// Returns ErrTooFewLevels (with pix untouched) if any level count is below 2.
//
// # Dithering
//
// A zeroed error plane holds one signed byte per R, G, B of every pixel.
// Pixels are visited row-major; the accumulated error is added to each
// channel, the sum is clamped for the table lookup but the unclamped sum is
// kept for the residual. Non-zero residuals are pushed to the right,
// lower-left, lower and lower-right neighbors with weights 7, 3, 5 and 1
// sixteenths, each stored value clamped to [-127, 127].
func Posterize(info ImageInfo, pix []byte, dither bool, red, green, blue uint8) error {
	if red < 2 || green < 2 || blue < 2 {
		return fmt.Errorf("%w: got %d,%d,%d", ErrTooFewLevels, red, green, blue)
	}
	if len(pix) < info.ImageSize() {
		return ErrShortBuffer
	}

	tables := [3][256]uint8{LevelTable(red), LevelTable(green), LevelTable(blue)}

	if !dither {
		for i := 0; i+BytesPerPixel <= info.ImageSize(); i += BytesPerPixel {
			for ch := range tables {
				pix[i+ch] = tables[ch][pix[i+ch]]
			}
		}
		return nil
	}

	w := int(info.Width)
	h := int(info.Height)
	errs := make([][3]int8, info.NumPixels())

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			off := idx * BytesPerPixel

			var residual [3]int
			nonZero := false
			for ch := range tables {
				sum := int(pix[off+ch]) + int(errs[idx][ch])
				q := tables[ch][min(max(sum, 0), 255)]
				pix[off+ch] = q
				residual[ch] = sum - int(q)
				if residual[ch] != 0 {
					nonZero = true
				}
			}
			if !nonZero {
				continue
			}

			for _, d := range diffusion {
				nx, ny := x+d.dx, y+d.dy
				if nx < 0 || nx >= w || ny >= h {
					continue
				}
				n := &errs[ny*w+nx]
				for ch := range n {
					v := int(n[ch]) + residual[ch]*d.weight/16
					n[ch] = int8(min(max(v, -127), 127))
				}
			}
		}
	}
	return nil
}
