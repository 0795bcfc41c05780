package editor

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/pixel-editor/internal/codec"
	"github.com/ironsheep/pixel-editor/internal/imaging"
)

func translucentGradient(w, h int) []byte {
	buf := gradient(w, h)
	for i := 3; i < len(buf); i += 4 {
		buf[i] = byte(i)
	}
	return buf
}

func TestQOIRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		buf   []byte
		alpha bool
	}{
		{"opaque", gradient(17, 9), false},
		{"translucent", translucentGradient(17, 9), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := loaded(t, tt.buf, 17, 9)
			data, err := src.Encode(codec.QOI)
			require.NoError(t, err)
			assert.Equal(t, "qoif", string(data[:4]))

			dst := New()
			require.NoError(t, dst.Decode(data))
			assert.Equal(t, uint32(17), dst.Width())
			assert.Equal(t, uint32(9), dst.Height())
			assert.Equal(t, tt.alpha, dst.HasAlpha())
			assert.Equal(t, tt.buf, dst.Pixels())
		})
	}
}

func TestJPEGRoundTrip(t *testing.T) {
	gray := imaging.Pixel{128, 128, 128, 0xFF}
	src := loaded(t, solid(16, 16, gray), 16, 16)
	data, err := src.Encode(codec.JPEG)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, data[:3])

	dst := New()
	require.NoError(t, dst.Decode(data))
	assert.False(t, dst.HasAlpha())

	info := dst.Info()
	pix := dst.Pixels()
	p := info.PixelAt(pix, 8, 8)
	for ch := 0; ch < 3; ch++ {
		assert.InDelta(t, 128, int(p[ch]), 3)
	}
	assert.Equal(t, byte(0xFF), p[3])
}

func TestJPEGDropsAlpha(t *testing.T) {
	src := loaded(t, translucentGradient(8, 8), 8, 8)
	data, err := src.Encode(codec.JPEG)
	require.NoError(t, err)

	dst := New()
	require.NoError(t, dst.Decode(data))
	assert.False(t, dst.HasAlpha())
}

func TestPNGColorType(t *testing.T) {
	tests := []struct {
		name      string
		buf       []byte
		grayscale bool
		colorType byte
		model     any
	}{
		{"rgb", gradient(5, 4), false, 2, &image.RGBA{}},
		{"rgba", translucentGradient(5, 4), false, 6, &image.NRGBA{}},
		{"gray", gradient(5, 4), true, 0, &image.Gray{}},
		{"gray alpha", translucentGradient(5, 4), true, 4, &image.NRGBA{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loaded(t, tt.buf, 5, 4)
			if tt.grayscale {
				require.NoError(t, s.Grayscale(imaging.Luminance))
			}
			data, err := s.Encode(codec.PNG)
			require.NoError(t, err)

			// IHDR color type: 8 signature + 8 chunk header + 9 bytes in.
			assert.Equal(t, tt.colorType, data[25])

			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.IsType(t, tt.model, img)
			assert.Equal(t, image.Rect(0, 0, 5, 4), img.Bounds())

			info := s.Info()
			pix := s.Pixels()
			r, g, b, a := img.At(3, 2).RGBA()
			want := info.PixelAt(pix, 3, 2)
			if tt.colorType == 6 || tt.colorType == 4 {
				// Non-premultiplied source; compare in NRGBA space.
				n := img.(*image.NRGBA).NRGBAAt(3, 2)
				assert.Equal(t, imaging.Pixel{n.R, n.G, n.B, n.A}, want)
				return
			}
			assert.Equal(t, imaging.Pixel{byte(r >> 8), byte(g >> 8), byte(b >> 8), byte(a >> 8)}, want)
		})
	}
}

func TestPNGIsEncodeOnly(t *testing.T) {
	src := loaded(t, gradient(4, 4), 4, 4)
	data, err := src.Encode(codec.PNG)
	require.NoError(t, err)

	dst := New()
	assert.ErrorIs(t, dst.Decode(data), ErrUnrecognizedFormat)
}

func TestDecodeFailureLeavesStateUntouched(t *testing.T) {
	orig := gradient(3, 3)
	s := loaded(t, orig, 3, 3)
	s.SnapshotSave()

	qoi, err := s.Encode(codec.QOI)
	require.NoError(t, err)

	inputs := map[string][]byte{
		"empty":     nil,
		"garbage":   []byte("definitely not an image"),
		"qoi magic": []byte("qoif"),
		"truncated": qoi[:len(qoi)/2],
		"jpeg soi":  {0xFF, 0xD8, 0xFF, 0xE0, 0, 0},
	}
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, s.Decode(data), ErrUnrecognizedFormat)
			assert.Equal(t, orig, s.Pixels())
			assert.True(t, s.HasSnapshot())
		})
	}
}

func TestDecodeClearsSnapshotAndGrayscale(t *testing.T) {
	s := loaded(t, gradient(3, 3), 3, 3)
	data, err := s.Encode(codec.QOI)
	require.NoError(t, err)

	require.NoError(t, s.Grayscale(imaging.Average))
	s.SnapshotSave()
	require.NoError(t, s.Decode(data))

	assert.False(t, s.HasSnapshot())
	assert.False(t, s.IsGrayscale())
}

func TestDecodeRespectsPixelLimit(t *testing.T) {
	src := loaded(t, gradient(10, 10), 10, 10)
	data, err := src.Encode(codec.QOI)
	require.NoError(t, err)

	dst := New(WithMaxPixels(99))
	assert.ErrorIs(t, dst.Decode(data), ErrUnrecognizedFormat)
	assert.Equal(t, uint32(0), dst.Width())
}

func TestDecoderPriority(t *testing.T) {
	src := loaded(t, gradient(4, 4), 4, 4)
	data, err := src.Encode(codec.QOI)
	require.NoError(t, err)

	jpegOnly := New(WithDecoders(codec.JPEGCodec{}))
	assert.ErrorIs(t, jpegOnly.Decode(data), ErrUnrecognizedFormat)
}

func TestEncodeErrors(t *testing.T) {
	_, err := New().Encode(codec.QOI)
	assert.ErrorIs(t, err, ErrNoImage)

	s := loaded(t, gradient(2, 2), 2, 2)
	_, err = s.Encode(codec.Format(42))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEncodeLeavesImageUntouched(t *testing.T) {
	orig := translucentGradient(6, 6)
	s := loaded(t, orig, 6, 6)
	require.NoError(t, s.Grayscale(imaging.Brightness))
	before := s.Pixels()

	for _, f := range []codec.Format{codec.QOI, codec.JPEG, codec.PNG} {
		_, err := s.Encode(f)
		require.NoError(t, err, f.String())
	}
	assert.Equal(t, before, s.Pixels())
	assert.True(t, s.HasAlpha())
	assert.True(t, s.IsGrayscale())
}

func TestEncodeLayout(t *testing.T) {
	opaque := imaging.NewImageInfo(1, 1, imaging.Opaque)
	clear := imaging.NewImageInfo(1, 1, imaging.Translucent)
	grayOpaque, grayClear := opaque, clear
	grayOpaque.IsGrayscale = true
	grayClear.IsGrayscale = true

	tests := []struct {
		format codec.Format
		info   imaging.ImageInfo
		want   codec.Layout
	}{
		{codec.QOI, opaque, codec.RGB},
		{codec.QOI, clear, codec.RGBA},
		{codec.QOI, grayClear, codec.RGBA},
		{codec.JPEG, clear, codec.RGB},
		{codec.JPEG, grayOpaque, codec.RGB},
		{codec.PNG, opaque, codec.RGB},
		{codec.PNG, clear, codec.RGBA},
		{codec.PNG, grayOpaque, codec.Gray},
		{codec.PNG, grayClear, codec.GrayAlpha},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EncodeLayout(tt.format, tt.info), "%v %+v", tt.format, tt.info)
	}
}

func TestPack(t *testing.T) {
	pix := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	assert.Equal(t, []byte{1, 5}, Pack(pix, codec.Gray))
	assert.Equal(t, []byte{1, 4, 5, 8}, Pack(pix, codec.GrayAlpha))
	assert.Equal(t, []byte{1, 2, 3, 5, 6, 7}, Pack(pix, codec.RGB))
	assert.Equal(t, pix, Pack(pix, codec.RGBA))
}
