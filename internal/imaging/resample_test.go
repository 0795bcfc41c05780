package imaging

import (
	"errors"
	"math"
	"testing"
)

func TestSelectKernel(t *testing.T) {
	src := NewImageInfo(4, 4, Opaque)

	tests := []struct {
		name       string
		dstW, dstH uint32
		mode       ScaleMode
		want       string
	}{
		{"nearest shrink", 2, 2, NearestNeighbor, "nearest"},
		{"nearest grow", 8, 8, NearestNeighbor, "nearest"},
		{"bilinear uniform shrink", 2, 2, Bilinear, "box"},
		{"bicubic uniform shrink", 3, 1, Bicubic, "box"},
		{"bilinear mixed", 2, 8, Bilinear, "bilinear"},
		{"bilinear same height", 2, 4, Bilinear, "bilinear"},
		{"bicubic grow", 8, 8, Bicubic, "bicubic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := SelectKernel(src, tt.dstW, tt.dstH, tt.mode)
			if err != nil {
				t.Fatalf("SelectKernel failed: %v", err)
			}
			var got string
			switch k.(type) {
			case NearestKernel:
				got = "nearest"
			case BilinearKernel:
				got = "bilinear"
			case BicubicKernel:
				got = "bicubic"
			case BoxKernel:
				got = "box"
			}
			if got != tt.want {
				t.Errorf("kernel: got %s (%T), want %s", got, k, tt.want)
			}
		})
	}
}

func TestScale_NearestUpscale(t *testing.T) {
	info := NewImageInfo(2, 2, Opaque)
	buf := createPatternBuffer(2, 2)

	out, err := Scale(info, buf, 4, 4, NearestNeighbor)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}

	dst := NewImageInfo(4, 4, Opaque)
	for y := uint32(0); y < 4; y++ {
		for x := uint32(0); x < 4; x++ {
			got := dst.PixelAt(out, x, y)
			want := info.PixelAt(buf, x/2, y/2)
			if got != want {
				t.Errorf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestScale_NearestShrink(t *testing.T) {
	red := Pixel{255, 0, 0, 255}
	green := Pixel{0, 255, 0, 255}
	blue := Pixel{0, 0, 255, 255}
	buf := append(append(append([]byte{}, red[:]...), green[:]...), blue[:]...)

	out, err := Scale(NewImageInfo(3, 1, Opaque), buf, 2, 1, NearestNeighbor)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	dst := NewImageInfo(2, 1, Opaque)
	if got := dst.PixelAt(out, 0, 0); got != red {
		t.Errorf("x=0: got %v, want red", got)
	}
	if got := dst.PixelAt(out, 1, 0); got != green {
		t.Errorf("x=1: got %v, want green", got)
	}
}

func TestScale_BilinearEdgeToEdge(t *testing.T) {
	buf := []byte{
		0, 0, 0, 255,
		200, 0, 0, 255,
	}

	out, err := Scale(NewImageInfo(2, 1, Opaque), buf, 3, 1, Bilinear)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}

	want := []uint8{0, 100, 200}
	for x, w := range want {
		if got := out[x*4]; got != w {
			t.Errorf("x=%d red: got %d, want %d", x, got, w)
		}
		if got := out[x*4+3]; got != 255 {
			t.Errorf("x=%d alpha: got %d, want 255", x, got)
		}
	}
}

func TestScale_SinglePixelExtent(t *testing.T) {
	// A one-pixel destination extent samples source coordinate 0.
	info := NewImageInfo(4, 1, Opaque)
	buf := createPatternBuffer(4, 1)

	out, err := Scale(info, buf, 1, 2, Bilinear)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	first := info.PixelAt(buf, 0, 0)
	dst := NewImageInfo(1, 2, Opaque)
	for y := uint32(0); y < 2; y++ {
		if got := dst.PixelAt(out, 0, y); got != first {
			t.Errorf("row %d: got %v, want %v", y, got, first)
		}
	}
}

func TestScale_BoxReduction(t *testing.T) {
	red := Pixel{255, 0, 0, 255}
	blue := Pixel{0, 0, 255, 255}

	info := NewImageInfo(4, 4, Opaque)
	buf := make([]byte, info.ImageSize())
	for y := uint32(0); y < 4; y++ {
		for x := uint32(0); x < 4; x++ {
			p := red
			if x >= 2 {
				p = blue
			}
			setPixel(info, buf, x, y, p)
		}
	}

	out, err := Scale(info, buf, 2, 2, Bilinear)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	dst := NewImageInfo(2, 2, Opaque)
	for y := uint32(0); y < 2; y++ {
		if got := dst.PixelAt(out, 0, y); got != red {
			t.Errorf("(0,%d): got %v, want red", y, got)
		}
		if got := dst.PixelAt(out, 1, y); got != blue {
			t.Errorf("(1,%d): got %v, want blue", y, got)
		}
	}
}

func TestScale_BicubicPreservesSolidColor(t *testing.T) {
	c := Pixel{12, 34, 56, 200}
	info := NewImageInfo(3, 3, Translucent)
	buf := createSolidBuffer(3, 3, c)

	out, err := Scale(info, buf, 7, 5, Bicubic)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if len(out) != 7*5*4 {
		t.Fatalf("output length: got %d, want %d", len(out), 7*5*4)
	}
	for i := 0; i < len(out); i += 4 {
		if got := (Pixel{out[i], out[i+1], out[i+2], out[i+3]}); got != c {
			t.Fatalf("pixel %d: got %v, want %v", i/4, got, c)
		}
	}
}

func TestScale_BicubicGolden(t *testing.T) {
	info := NewImageInfo(3, 3, Translucent)
	buf := []byte{
		0, 250, 0, 255, 100, 250, 0, 215, 200, 250, 0, 175,
		20, 150, 0, 255, 120, 150, 60, 215, 220, 150, 120, 175,
		40, 50, 0, 255, 140, 50, 120, 215, 240, 50, 240, 175,
	}

	out, err := Scale(info, buf, 5, 4, Bicubic)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}

	want := []byte{
		0, 255, 0, 255, 16, 255, 0, 247, 98, 255, 0, 215, 180, 255, 0, 182, 205, 255, 0, 172,
		2, 206, 0, 255, 26, 206, 4, 247, 108, 206, 26, 215, 190, 206, 47, 182, 215, 206, 54, 172,
		25, 93, 0, 255, 49, 93, 16, 247, 131, 93, 93, 215, 213, 93, 170, 182, 237, 93, 193, 172,
		35, 43, 0, 255, 59, 43, 22, 247, 141, 43, 123, 215, 223, 43, 225, 182, 247, 43, 255, 172,
	}
	if len(out) != len(want) {
		t.Fatalf("output length: got %d, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("pixel (%d,%d) channel %d: got %d, want %d",
				i/4%5, i/4/5, i%4, out[i], want[i])
		}
	}
}

func TestScale_BicubicSinglePixelExtent(t *testing.T) {
	// The edge-to-edge mapping divides by zero for a one-pixel extent and
	// every sample collapses to transparent black.
	tests := []struct {
		name       string
		srcW, srcH uint32
		dstW, dstH uint32
	}{
		{"one column", 1, 2, 1, 4},
		{"one row", 4, 1, 8, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewImageInfo(tt.srcW, tt.srcH, Opaque)
			buf := createSolidBuffer(int(tt.srcW), int(tt.srcH), Pixel{100, 100, 100, 255})
			if tt.srcH == 2 {
				copy(buf[4:], []byte{200, 200, 200, 255})
			}

			k, err := SelectKernel(info, tt.dstW, tt.dstH, Bicubic)
			if err != nil {
				t.Fatalf("SelectKernel failed: %v", err)
			}
			if _, ok := k.(BicubicKernel); !ok {
				t.Fatalf("kernel: got %T, want BicubicKernel", k)
			}

			out, err := Scale(info, buf, tt.dstW, tt.dstH, Bicubic)
			if err != nil {
				t.Fatalf("Scale failed: %v", err)
			}
			if len(out) != int(tt.dstW*tt.dstH)*BytesPerPixel {
				t.Fatalf("output length: got %d", len(out))
			}
			for i, b := range out {
				if b != 0 {
					t.Fatalf("byte %d: got %d, want 0", i, b)
				}
			}
		})
	}
}

func TestClampIndex(t *testing.T) {
	tests := []struct {
		v, extent float64
		want      uint32
	}{
		{math.NaN(), 4, 0},
		{-1, 4, 0},
		{2.9, 4, 2},
		{3, 4, 3},
		{7, 4, 3},
	}
	for _, tt := range tests {
		if got := clampIndex(tt.v, tt.extent); got != tt.want {
			t.Errorf("clampIndex(%v, %v): got %d, want %d", tt.v, tt.extent, got, tt.want)
		}
	}
}

func TestScale_Errors(t *testing.T) {
	info := NewImageInfo(2, 2, Opaque)
	buf := createPatternBuffer(2, 2)

	if _, err := Scale(info, buf, 0, 2, Bilinear); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero width: got %v, want ErrInvalidSize", err)
	}
	if _, err := Scale(info, buf, 2, 0, Bilinear); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero height: got %v, want ErrInvalidSize", err)
	}
	if _, err := Scale(info, buf, 3, 3, ScaleMode(42)); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("bad mode: got %v, want ErrUnknownMode", err)
	}
	if _, err := Scale(info, buf[:8], 3, 3, Bilinear); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("short buffer: got %v, want ErrShortBuffer", err)
	}
}

func TestParseScaleMode(t *testing.T) {
	for in, want := range map[string]ScaleMode{
		"nearest":          NearestNeighbor,
		"Nearest-Neighbor": NearestNeighbor,
		"bilinear":         Bilinear,
		"BICUBIC":          Bicubic,
	} {
		got, err := ParseScaleMode(in)
		if err != nil || got != want {
			t.Errorf("ParseScaleMode(%q): got %v, %v", in, got, err)
		}
	}
	if _, err := ParseScaleMode("lanczos"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("lanczos: got %v, want ErrUnknownMode", err)
	}
}

func TestClampToByte(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{math.NaN(), 0},
		{-5, 0},
		{0, 0},
		{12.9, 12},
		{254.99, 254},
		{255, 255},
		{300, 255},
		{math.Inf(1), 255},
	}
	for _, tt := range tests {
		if got := clampToByte(tt.in); got != tt.want {
			t.Errorf("clampToByte(%v): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEdgeToEdge(t *testing.T) {
	if got := edgeToEdge(5, 10, 1); got != 0 {
		t.Errorf("one-pixel extent: got %v, want 0", got)
	}
	if got := edgeToEdge(3, 10, 4); got != 10 {
		t.Errorf("last column: got %v, want 10", got)
	}
}
