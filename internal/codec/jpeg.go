package codec

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is used when JPEGCodec.Quality is zero.
const DefaultJPEGQuality = 90

// JPEGCodec reads and writes baseline JPEG. The format has no alpha channel:
// Decode always yields RGB and Encode only accepts RGB.
type JPEGCodec struct {
	// Quality is the encoder quality, 1-100.
	Quality int
}

// Format implements Decoder and Encoder.
func (JPEGCodec) Format() Format { return JPEG }

// Decode parses a JPEG stream into packed RGB.
//
// Only input starting with the JPEG start-of-image marker is accepted, so
// other containers the image package knows how to read are rejected here.
func (JPEGCodec) Decode(data []byte) (Header, []byte, error) {
	if len(data) < 3 || data[0] != 0xFF || data[1] != 0xD8 || data[2] != 0xFF {
		return Header{}, nil, FormatError("jpeg: missing SOI marker")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return Header{}, nil, FormatError(fmt.Sprintf("jpeg: %v", err))
	}

	b := img.Bounds()
	h := Header{Width: uint32(b.Dx()), Height: uint32(b.Dy()), Layout: RGB}
	if err := h.validate(); err != nil {
		return Header{}, nil, err
	}

	nrgba := imaging.Clone(img)
	out := make([]byte, 0, h.PixelDataSize())
	for y := 0; y < b.Dy(); y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			out = append(out, row[i], row[i+1], row[i+2])
		}
	}
	return h, out, nil
}

// Encode writes packed RGB pixels as JPEG.
func (c JPEGCodec) Encode(pix []byte, h Header) ([]byte, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}
	if h.Layout != RGB {
		return nil, FormatError(fmt.Sprintf("jpeg: unsupported layout %v", h.Layout))
	}
	if len(pix) < h.PixelDataSize() {
		return nil, FormatError("jpeg: pixel data shorter than header")
	}

	quality := c.Quality
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(h.Width), int(h.Height)))
	for i, j := 0, 0; j < len(img.Pix); i, j = i+3, j+4 {
		img.Pix[j] = pix[i]
		img.Pix[j+1] = pix[i+1]
		img.Pix[j+2] = pix[i+2]
		img.Pix[j+3] = 0xFF
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("jpeg: encode: %w", err)
	}
	return buf.Bytes(), nil
}
