package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// createNoise returns n bytes from a fixed linear congruential sequence.
func createNoise(n int, seed uint32) []byte {
	out := make([]byte, n)
	for i := range out {
		seed = seed*1664525 + 1013904223
		out[i] = byte(seed >> 24)
	}
	return out
}

// createQOIFixture packs a 40x30 image that exercises every chunk type:
// long runs, small diffs, luma diffs, index hits and alpha changes.
func createQOIFixture(channels int) []byte {
	const w, h = 40, 30
	noise := createNoise(w*h*channels, 7)
	pix := make([]byte, 0, w*h*channels)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var p [4]byte
			switch {
			case y < 5:
				p = [4]byte{10, 20, 30, 255} // runs across rows
			case y < 10:
				p = [4]byte{byte(x), byte(x), byte(x), 255} // diff
			case y < 15:
				p = [4]byte{byte(x * 5), byte(x * 6), byte(x * 7), 255} // luma
			case y < 20:
				p = [4]byte{byte(x % 3 * 80), 0, 0, 255} // index
			default:
				off := (y*w + x) * channels
				copy(p[:], noise[off:off+channels])
				if channels == 3 {
					p[3] = 255
				}
			}
			if channels == 4 && y >= 15 && y < 20 {
				p[3] = byte(x % 2 * 128)
			}
			pix = append(pix, p[:channels]...)
		}
	}
	return pix
}

func TestQOI_RoundTrip(t *testing.T) {
	for _, layout := range []Layout{RGB, RGBA} {
		t.Run(layout.String(), func(t *testing.T) {
			h := Header{Width: 40, Height: 30, Layout: layout}
			pix := createQOIFixture(layout.Channels())

			data, err := QOICodec{}.Encode(pix, h)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			gotH, gotPix, err := QOICodec{}.Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if gotH != h {
				t.Errorf("header: got %+v, want %+v", gotH, h)
			}
			if !bytes.Equal(gotPix, pix) {
				t.Error("pixel data differs after round trip")
			}
		})
	}
}

func TestQOI_EncodeHeader(t *testing.T) {
	pix := []byte{1, 2, 3, 4, 5, 6}
	h := Header{Width: 2, Height: 1, Layout: RGB}

	data, err := QOICodec{}.Encode(pix, h)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if string(data[:4]) != "qoif" {
		t.Errorf("magic: got %q", data[:4])
	}
	if w := binary.BigEndian.Uint32(data[4:8]); w != 2 {
		t.Errorf("width: got %d, want 2", w)
	}
	if ht := binary.BigEndian.Uint32(data[8:12]); ht != 1 {
		t.Errorf("height: got %d, want 1", ht)
	}
	if data[12] != 3 {
		t.Errorf("channels: got %d, want 3", data[12])
	}
	if data[13] != qoiLinear {
		t.Errorf("colorspace: got %d, want linear", data[13])
	}
	if !bytes.HasSuffix(data, qoiEndMarker[:]) {
		t.Error("missing end marker")
	}
}

func TestQOI_DecodeAcceptsSRGBTag(t *testing.T) {
	pix := []byte{1, 2, 3, 4, 5, 6}
	data, err := QOICodec{}.Encode(pix, Header{Width: 2, Height: 1, Layout: RGB})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	data[13] = qoiSRGB

	_, got, err := QOICodec{}.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Equal(got, pix) {
		t.Errorf("pixels: got %v, want %v", got, pix)
	}
}

func TestQOI_RunOfStartPixel(t *testing.T) {
	// Pixels equal to the implicit opaque-black predecessor encode as a run.
	data, err := QOICodec{}.Encode(make([]byte, 6), Header{Width: 2, Height: 1, Layout: RGB})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	body := data[qoiHeaderLen : len(data)-len(qoiEndMarker)]
	if !bytes.Equal(body, []byte{qoiOpRun | 1}) {
		t.Errorf("body: got %x, want c1", body)
	}
}

func TestQOI_DecodeRGBAChunk(t *testing.T) {
	data := []byte{'q', 'o', 'i', 'f', 0, 0, 0, 1, 0, 0, 0, 1, 4, 0}
	data = append(data, qoiOpRGBA, 9, 8, 7, 6)
	data = append(data, qoiEndMarker[:]...)

	h, pix, err := QOICodec{}.Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if h.Layout != RGBA {
		t.Errorf("layout: got %v, want rgba", h.Layout)
	}
	if !bytes.Equal(pix, []byte{9, 8, 7, 6}) {
		t.Errorf("pixel: got %v", pix)
	}
}

func TestQOI_MissingEndMarker(t *testing.T) {
	pix := createQOIFixture(4)
	h := Header{Width: 40, Height: 30, Layout: RGBA}
	data, err := QOICodec{}.Encode(pix, h)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	_, got, err := QOICodec{}.Decode(data[:len(data)-len(qoiEndMarker)])
	if err != nil {
		t.Fatalf("Decode without end marker failed: %v", err)
	}
	if !bytes.Equal(got, pix) {
		t.Error("pixel data differs")
	}
}

func TestQOI_DecodeErrors(t *testing.T) {
	valid, err := QOICodec{}.Encode(createQOIFixture(3), Header{Width: 40, Height: 30, Layout: RGB})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	patch := func(i int, b byte) []byte {
		out := bytes.Clone(valid)
		out[i] = b
		return out
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short header", valid[:10]},
		{"bad magic", patch(0, 'x')},
		{"bad channels", patch(12, 5)},
		{"bad colorspace", patch(13, 2)},
		{"zero width", append([]byte{'q', 'o', 'i', 'f', 0, 0, 0, 0, 0, 0, 0, 1, 3, 0}, qoiEndMarker[:]...)},
		{"header only", valid[:qoiHeaderLen]},
		{"truncated stream", valid[:len(valid)/2]},
		{"truncated rgb chunk", []byte{'q', 'o', 'i', 'f', 0, 0, 0, 1, 0, 0, 0, 1, 3, 0, qoiOpRGB, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := QOICodec{}.Decode(tt.data)
			var fe FormatError
			if !errors.As(err, &fe) {
				t.Errorf("got %v, want FormatError", err)
			}
		})
	}
}

func TestQOI_EncodeErrors(t *testing.T) {
	tests := []struct {
		name string
		pix  []byte
		h    Header
	}{
		{"gray layout", make([]byte, 4), Header{Width: 2, Height: 2, Layout: Gray}},
		{"zero size", nil, Header{Width: 0, Height: 2, Layout: RGB}},
		{"short data", make([]byte, 5), Header{Width: 2, Height: 1, Layout: RGB}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := (QOICodec{}).Encode(tt.pix, tt.h); err == nil {
				t.Error("expected error")
			}
		})
	}
}
