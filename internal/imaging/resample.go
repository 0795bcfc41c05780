package imaging

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrInvalidSize is returned when a requested output extent is zero.
	ErrInvalidSize = errors.New("output width and height must be at least 1")

	// ErrUnknownMode is returned for an unrecognized scale or grayscale mode.
	ErrUnknownMode = errors.New("unknown mode")
)

// ScaleMode selects the resampling strategy used by Scale.
type ScaleMode int

const (
	// NearestNeighbor picks the source pixel at floor(x*srcW/dstW).
	NearestNeighbor ScaleMode = iota
	// Bilinear blends the 2x2 neighborhood. Uniform shrinks use box reduction.
	Bilinear
	// Bicubic convolves the 4x4 neighborhood. Uniform shrinks use box reduction.
	Bicubic
)

var scaleModeNames = map[ScaleMode]string{
	NearestNeighbor: "nearest",
	Bilinear:        "bilinear",
	Bicubic:         "bicubic",
}

func (m ScaleMode) String() string {
	if s, ok := scaleModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("ScaleMode(%d)", int(m))
}

// ParseScaleMode accepts "nearest" (or "nearest-neighbor"), "bilinear" and
// "bicubic", case-insensitively.
func ParseScaleMode(s string) (ScaleMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nearest", "nearest-neighbor", "nearest_neighbor", "nn":
		return NearestNeighbor, nil
	case "bilinear", "linear":
		return Bilinear, nil
	case "bicubic", "cubic":
		return Bicubic, nil
	}
	return 0, fmt.Errorf("%w: scale mode %q", ErrUnknownMode, s)
}

// Kernel computes one destination pixel from a source buffer.
//
// Implementations carry the destination extent they were built for; src
// describes the buffer being sampled.
type Kernel interface {
	Sample(src ImageInfo, pix []byte, x, y uint32) Pixel
}

// NearestKernel maps destination x to source floor(x*srcW/dstW).
type NearestKernel struct {
	DstWidth, DstHeight uint32
}

// Sample implements Kernel.
func (k NearestKernel) Sample(src ImageInfo, pix []byte, x, y uint32) Pixel {
	vx := float64(x) * float64(src.Width) / float64(k.DstWidth)
	vy := float64(y) * float64(src.Height) / float64(k.DstHeight)
	return src.PixelAt(pix, uint32(math.Floor(vx)), uint32(math.Floor(vy)))
}

// BilinearKernel blends the 2x2 neighborhood around the sample point with
// area weights.
type BilinearKernel struct {
	DstWidth, DstHeight uint32
}

// Sample implements Kernel.
func (k BilinearKernel) Sample(src ImageInfo, pix []byte, x, y uint32) Pixel {
	sw := float64(src.Width)
	sh := float64(src.Height)

	vx := math.Max(edgeToEdge(x, sw, k.DstWidth)-0.5, 0)
	vy := math.Max(edgeToEdge(y, sh, k.DstHeight)-0.5, 0)

	lx := math.Floor(vx)
	ly := math.Floor(vy)
	xf := vx - lx
	yf := vy - ly

	hx := math.Min(math.Floor(lx+1), sw-1)
	hy := math.Min(math.Floor(ly+1), sh-1)

	vll := src.PixelAt(pix, uint32(lx), uint32(ly))
	vlh := src.PixelAt(pix, uint32(lx), uint32(hy))
	vhl := src.PixelAt(pix, uint32(hx), uint32(ly))
	vhh := src.PixelAt(pix, uint32(hx), uint32(hy))

	var out Pixel
	for i := range out {
		a := float64(vll[i])
		b := float64(vhl[i])
		c := float64(vlh[i])
		d := float64(vhh[i])

		// Explicit conversions keep each product rounded on its own so no
		// platform fuses them into multiply-adds.
		q := float64(a*(1-xf)*(1-yf)) +
			float64(b*xf*(1-yf)) +
			float64(c*yf*(1-xf)) +
			float64(d*(xf*yf))

		out[i] = clampToByte(q)
	}
	return out
}

// BicubicKernel applies a Catmull-Rom cubic Hermite convolution over the 4x4
// neighborhood, first along x for each row, then along y.
//
// Unlike BilinearKernel it does not pin a one-pixel destination extent to
// coordinate 0: the mapping divides by zero, the NaN propagates through the
// convolution and every channel of the sample saturates to 0.
type BicubicKernel struct {
	DstWidth, DstHeight uint32
}

// Sample implements Kernel.
func (k BicubicKernel) Sample(src ImageInfo, pix []byte, x, y uint32) Pixel {
	sw := float64(src.Width)
	sh := float64(src.Height)

	vx := float64(x)*sw/(float64(k.DstWidth)-1) - 0.5
	vy := float64(y)*sh/(float64(k.DstHeight)-1) - 0.5

	lx := math.Floor(vx)
	ly := math.Floor(vy)
	xf := vx - lx
	yf := vy - ly

	xs := [4]uint32{
		clampIndex(lx-1, sw),
		clampIndex(lx, sw),
		clampIndex(lx+1, sw),
		clampIndex(lx+2, sw),
	}
	ys := [4]uint32{
		clampIndex(ly-1, sh),
		clampIndex(ly, sh),
		clampIndex(ly+1, sh),
		clampIndex(ly+2, sh),
	}

	var grid [4][4]Pixel
	for j, sy := range ys {
		for i, sx := range xs {
			grid[j][i] = src.PixelAt(pix, sx, sy)
		}
	}

	var out Pixel
	for ch := range out {
		var rows [4]float64
		for j := range grid {
			rows[j] = cubicHermite(
				float64(grid[j][0][ch]),
				float64(grid[j][1][ch]),
				float64(grid[j][2][ch]),
				float64(grid[j][3][ch]),
				xf,
			)
		}
		out[ch] = clampToByte(cubicHermite(rows[0], rows[1], rows[2], rows[3], yf))
	}
	return out
}

// BoxKernel averages every source pixel covered by the destination pixel.
// It is only used when both output extents shrink.
type BoxKernel struct {
	DstWidth, DstHeight uint32
}

// Sample implements Kernel.
func (k BoxKernel) Sample(src ImageInfo, pix []byte, x, y uint32) Pixel {
	sw := float64(src.Width)
	sh := float64(src.Height)
	dw := float64(k.DstWidth)
	dh := float64(k.DstHeight)

	vx := float64(x) * sw / dw
	vy := float64(y) * sh / dh

	lx := uint32(math.Floor(vx))
	ly := uint32(math.Floor(vy))
	hx := uint32(math.Min(math.Ceil(vx+sw/dw), sw-1))
	hy := uint32(math.Min(math.Ceil(vy+sh/dh), sh-1))

	var acc [4]float64
	for sy := ly; sy < hy; sy++ {
		for sx := lx; sx < hx; sx++ {
			p := src.PixelAt(pix, sx, sy)
			for ch := range acc {
				acc[ch] += float64(p[ch])
			}
		}
	}

	var out Pixel
	count := (float64(hy) - float64(ly)) * (float64(hx) - float64(lx))
	if count <= 0 {
		return out
	}
	for ch := range out {
		out[ch] = clampToByte(acc[ch] / count)
	}
	return out
}

// SelectKernel applies the dispatch rule of Scale.
//
// NearestNeighbor always uses NearestKernel. Bilinear and Bicubic fall back to
// BoxKernel when both destination extents are smaller than the source, so a
// uniform shrink is always area-averaged.
func SelectKernel(src ImageInfo, dstW, dstH uint32, mode ScaleMode) (Kernel, error) {
	switch mode {
	case NearestNeighbor:
		return NearestKernel{DstWidth: dstW, DstHeight: dstH}, nil
	case Bilinear, Bicubic:
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}

	if dstW < src.Width && dstH < src.Height {
		return BoxKernel{DstWidth: dstW, DstHeight: dstH}, nil
	}
	if mode == Bicubic {
		return BicubicKernel{DstWidth: dstW, DstHeight: dstH}, nil
	}
	return BilinearKernel{DstWidth: dstW, DstHeight: dstH}, nil
}

// Resample runs k over every destination pixel in row-major order and
// returns the freshly allocated dstW x dstH buffer.
func Resample(src ImageInfo, pix []byte, dstW, dstH uint32, k Kernel) []byte {
	out := make([]byte, 0, int(dstW)*int(dstH)*BytesPerPixel)
	for y := uint32(0); y < dstH; y++ {
		for x := uint32(0); x < dstW; x++ {
			p := k.Sample(src, pix, x, y)
			out = append(out, p[:]...)
		}
	}
	return out
}

// Scale resizes pix to width x height using mode.
//
// Parameters:
//   - info: Layout of the source buffer.
//   - pix: Source PixelBuffer, left untouched.
//   - width, height: Output extent, both at least 1.
//   - mode: NearestNeighbor, Bilinear or Bicubic (see SelectKernel).
//
// Returns:
//   - []byte: The new PixelBuffer.
//   - error: ErrInvalidSize, ErrUnknownMode or ErrShortBuffer.
//
// # Coordinate Mapping
//
// NearestNeighbor maps x to x*srcW/dstW. The interpolating kernels map x to
// x*srcW/(dstW-1), so the last destination column lands on the source edge.
// For a one-pixel destination extent Bilinear samples source coordinate 0
// while Bicubic produces all-zero pixels.
func Scale(info ImageInfo, pix []byte, width, height uint32, mode ScaleMode) ([]byte, error) {
	if width < 1 || height < 1 {
		return nil, ErrInvalidSize
	}
	if len(pix) < info.ImageSize() {
		return nil, ErrShortBuffer
	}
	k, err := SelectKernel(info, width, height, mode)
	if err != nil {
		return nil, err
	}
	return Resample(info, pix, width, height, k), nil
}

// edgeToEdge maps destination coordinate d onto a source extent so that the
// first and last destination samples hit the source edges. A one-pixel
// extent maps to 0, which is where the bilinear clamp would put it.
func edgeToEdge(d uint32, srcExtent float64, dstExtent uint32) float64 {
	if dstExtent <= 1 {
		return 0
	}
	return float64(d) * srcExtent / float64(dstExtent-1)
}

func cubicHermite(a, b, c, d, t float64) float64 {
	c0 := -a/2 + (3*b)/2 - (3*c)/2 + d/2
	c1 := a - (5*b)/2 + float64(2*c) - d/2
	c2 := -a/2 + c/2

	return float64(c0*t*t*t) + float64(c1*t*t) + float64(c2*t) + b
}

// clampIndex pins v into [0, extent-1]. NaN maps to 0.
func clampIndex(v, extent float64) uint32 {
	switch {
	case !(v > 0):
		return 0
	case v > extent-1:
		return uint32(extent - 1)
	}
	return uint32(v)
}

// clampToByte saturates v into [0, 255] and truncates toward zero. NaN maps
// to 0.
func clampToByte(v float64) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
