package codec

import (
	"encoding/binary"
	"fmt"
)

const (
	qoiMagic     = "qoif"
	qoiHeaderLen = 14
	qoiMaxRun    = 62

	qoiSRGB   = 0 // sRGB with linear alpha
	qoiLinear = 1 // all channels linear
)

var qoiEndMarker = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

// Start-of-chunk tags.
const (
	qoiOpIndex = 0b0000_0000
	qoiOpDiff  = 0b0100_0000
	qoiOpLuma  = 0b1000_0000
	qoiOpRun   = 0b1100_0000
	qoiOpRGB   = 0b1111_1110
	qoiOpRGBA  = 0b1111_1111

	qoiMask2 = 0b1100_0000
)

type qoiPixel [4]uint8

func (p qoiPixel) hash() int {
	return (int(p[0])*3 + int(p[1])*5 + int(p[2])*7 + int(p[3])*11) % 64
}

// QOICodec reads and writes QOI images with 3 (RGB) or 4 (RGBA) channels.
// Both color-space tags are accepted on decode; encode always writes the
// linear tag.
type QOICodec struct{}

// Format implements Decoder and Encoder.
func (QOICodec) Format() Format { return QOI }

// Decode parses a complete QOI stream. The returned layout is RGB or RGBA
// depending on the channel count in the header. A truncated chunk stream is
// an error; a missing end marker is tolerated.
func (QOICodec) Decode(data []byte) (Header, []byte, error) {
	if len(data) < qoiHeaderLen {
		return Header{}, nil, FormatError("qoi: short header")
	}
	if string(data[:4]) != qoiMagic {
		return Header{}, nil, FormatError("qoi: not a QOI file")
	}

	h := Header{
		Width:  binary.BigEndian.Uint32(data[4:8]),
		Height: binary.BigEndian.Uint32(data[8:12]),
	}
	switch data[12] {
	case 3:
		h.Layout = RGB
	case 4:
		h.Layout = RGBA
	default:
		return Header{}, nil, FormatError("qoi: invalid channel count")
	}
	if cs := data[13]; cs != qoiSRGB && cs != qoiLinear {
		return Header{}, nil, FormatError("qoi: invalid color space")
	}
	if err := h.validate(); err != nil {
		return Header{}, nil, err
	}

	channels := h.Layout.Channels()
	n := int(h.Width) * int(h.Height)
	// Every chunk is at least one byte and encodes at most 62 pixels.
	if maxPixels := (len(data) - qoiHeaderLen) * qoiMaxRun; n > maxPixels {
		return Header{}, nil, FormatError("qoi: truncated stream")
	}

	out := make([]byte, n*channels)
	var index [64]qoiPixel
	px := qoiPixel{0, 0, 0, 0xFF}
	p := qoiHeaderLen
	run := 0

	for i := 0; i < n; i++ {
		if run > 0 {
			run--
		} else {
			if p >= len(data) {
				return Header{}, nil, FormatError("qoi: truncated stream")
			}
			b1 := data[p]
			p++

			switch {
			case b1 == qoiOpRGB:
				if p+3 > len(data) {
					return Header{}, nil, FormatError("qoi: truncated stream")
				}
				px[0], px[1], px[2] = data[p], data[p+1], data[p+2]
				p += 3
			case b1 == qoiOpRGBA:
				if p+4 > len(data) {
					return Header{}, nil, FormatError("qoi: truncated stream")
				}
				px = qoiPixel{data[p], data[p+1], data[p+2], data[p+3]}
				p += 4
			case b1&qoiMask2 == qoiOpIndex:
				px = index[b1]
			case b1&qoiMask2 == qoiOpDiff:
				px[0] += (b1>>4)&0x03 - 2
				px[1] += (b1>>2)&0x03 - 2
				px[2] += b1&0x03 - 2
			case b1&qoiMask2 == qoiOpLuma:
				if p >= len(data) {
					return Header{}, nil, FormatError("qoi: truncated stream")
				}
				b2 := data[p]
				p++
				vg := b1&0x3f - 32
				px[0] += vg - 8 + (b2>>4)&0x0f
				px[1] += vg
				px[2] += vg - 8 + b2&0x0f
			case b1&qoiMask2 == qoiOpRun:
				run = int(b1 & 0x3f)
			}

			index[px.hash()] = px
		}

		copy(out[i*channels:], px[:channels])
	}

	return h, out, nil
}

// Encode writes pix, packed per h.Layout (RGB or RGBA), as a QOI stream.
func (QOICodec) Encode(pix []byte, h Header) ([]byte, error) {
	if err := h.validate(); err != nil {
		return nil, err
	}
	if h.Layout != RGB && h.Layout != RGBA {
		return nil, FormatError(fmt.Sprintf("qoi: unsupported layout %v", h.Layout))
	}
	if len(pix) < h.PixelDataSize() {
		return nil, FormatError("qoi: pixel data shorter than header")
	}

	channels := h.Layout.Channels()
	n := int(h.Width) * int(h.Height)

	out := make([]byte, qoiHeaderLen, qoiHeaderLen+n*(channels+1)+len(qoiEndMarker))
	copy(out, qoiMagic)
	binary.BigEndian.PutUint32(out[4:8], h.Width)
	binary.BigEndian.PutUint32(out[8:12], h.Height)
	out[12] = byte(channels)
	out[13] = qoiLinear

	var index [64]qoiPixel
	prev := qoiPixel{0, 0, 0, 0xFF}
	px := prev
	run := 0

	for i := 0; i < n; i++ {
		off := i * channels
		copy(px[:], pix[off:off+channels])

		if px == prev {
			run++
			if run == qoiMaxRun || i == n-1 {
				out = append(out, qoiOpRun|byte(run-1))
				run = 0
			}
			continue
		}

		if run > 0 {
			out = append(out, qoiOpRun|byte(run-1))
			run = 0
		}

		idx := px.hash()
		switch {
		case index[idx] == px:
			out = append(out, qoiOpIndex|byte(idx))
		case px[3] == prev[3]:
			index[idx] = px
			vr := int8(px[0] - prev[0])
			vg := int8(px[1] - prev[1])
			vb := int8(px[2] - prev[2])
			vgr := vr - vg
			vgb := vb - vg

			switch {
			case vr > -3 && vr < 2 && vg > -3 && vg < 2 && vb > -3 && vb < 2:
				out = append(out, qoiOpDiff|byte(vr+2)<<4|byte(vg+2)<<2|byte(vb+2))
			case vgr > -9 && vgr < 8 && vg > -33 && vg < 32 && vgb > -9 && vgb < 8:
				out = append(out, qoiOpLuma|byte(vg+32), byte(vgr+8)<<4|byte(vgb+8))
			default:
				out = append(out, qoiOpRGB, px[0], px[1], px[2])
			}
		default:
			index[idx] = px
			out = append(out, qoiOpRGBA, px[0], px[1], px[2], px[3])
		}
		prev = px
	}

	out = append(out, qoiEndMarker[:]...)
	return out, nil
}
