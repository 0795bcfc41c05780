package editor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/pixel-editor/internal/codec"
	"github.com/ironsheep/pixel-editor/internal/imaging"
)

// Decode replaces the live image with the first decoding of data that a
// registered decoder accepts.
//
// Decoders are tried in priority order. A decoder that reads the header but
// then fails, or yields an image above the pixel limit, counts as a failure
// and the next one is tried. On success the snapshot is discarded,
// transparency follows the decoded layout and IsGrayscale is cleared.
//
// Returns ErrUnrecognizedFormat when every decoder rejects data. Nothing
// changes on error.
func (s *Session) Decode(data []byte) error {
	for _, d := range s.decoders {
		h, raw, err := d.Decode(data)
		if err != nil {
			s.logger.Debug("decoder rejected input",
				zap.Stringer("format", d.Format()),
				zap.Error(err))
			continue
		}

		pix, err := s.expand(h, raw)
		if err != nil {
			s.logger.Debug("decoded image rejected",
				zap.Stringer("format", d.Format()),
				zap.Error(err))
			continue
		}

		info := imaging.NewImageInfo(h.Width, h.Height, imaging.TransparencyFromAlpha(h.Layout.HasAlpha()))
		s.SnapshotClear()
		s.commit(info, pix)
		s.logger.Debug("image decoded",
			zap.Stringer("format", d.Format()),
			zap.Stringer("layout", h.Layout),
			zap.Int("bytes", len(data)))
		return nil
	}
	return fmt.Errorf("%w (%d bytes)", ErrUnrecognizedFormat, len(data))
}

// expand widens packed decoder output to RGBA8.
func (s *Session) expand(h codec.Header, raw []byte) ([]byte, error) {
	if err := s.checkLimit(h.Width, h.Height); err != nil {
		return nil, err
	}
	if len(raw) < h.PixelDataSize() {
		return nil, ErrShortBuffer
	}

	n := int(h.Width) * int(h.Height)
	if h.Layout == codec.RGBA {
		return raw[:n*imaging.BytesPerPixel], nil
	}

	out := make([]byte, n*imaging.BytesPerPixel)
	ch := h.Layout.Channels()
	for i := 0; i < n; i++ {
		src := raw[i*ch : i*ch+ch]
		dst := out[i*imaging.BytesPerPixel : (i+1)*imaging.BytesPerPixel]
		switch h.Layout {
		case codec.Gray:
			dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], 0xFF
		case codec.GrayAlpha:
			dst[0], dst[1], dst[2], dst[3] = src[0], src[0], src[0], src[1]
		case codec.RGB:
			dst[0], dst[1], dst[2], dst[3] = src[0], src[1], src[2], 0xFF
		default:
			return nil, fmt.Errorf("unsupported decoder layout %v", h.Layout)
		}
	}
	return out, nil
}

// Encode serializes the live image in format f. The store is not changed.
//
// The layout handed to the encoder depends on the format and on the image
// metadata:
//   - QOI: RGBA when translucent, RGB otherwise.
//   - JPEG: always RGB; alpha is dropped.
//   - PNG: gray or gray+alpha once IsGrayscale is set, RGB or RGBA otherwise.
//
// Returns ErrNoImage for an empty store and ErrUnsupportedFormat when no
// encoder is registered for f.
func (s *Session) Encode(f codec.Format) ([]byte, error) {
	if s.info.IsEmpty() {
		return nil, ErrNoImage
	}
	enc, ok := s.encoders[f]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}

	layout := EncodeLayout(f, s.info)
	h := codec.Header{Width: s.info.Width, Height: s.info.Height, Layout: layout}
	out, err := enc.Encode(Pack(s.pix, layout), h)
	if err != nil {
		return nil, fmt.Errorf("encode %v: %w", f, err)
	}

	s.logger.Debug("image encoded",
		zap.Stringer("format", f),
		zap.Stringer("layout", layout),
		zap.Int("bytes", len(out)))
	return out, nil
}

// EncodeLayout returns the channel layout Encode uses for f.
func EncodeLayout(f codec.Format, info imaging.ImageInfo) codec.Layout {
	alpha := info.IsTranslucent()
	switch f {
	case codec.JPEG:
		return codec.RGB
	case codec.PNG:
		switch {
		case info.IsGrayscale && alpha:
			return codec.GrayAlpha
		case info.IsGrayscale:
			return codec.Gray
		}
	}
	if alpha {
		return codec.RGBA
	}
	return codec.RGB
}

// Pack narrows an RGBA8 buffer to layout. Gray layouts take the red channel.
// For RGBA the input slice is returned as is.
func Pack(pix []byte, layout codec.Layout) []byte {
	if layout == codec.RGBA {
		return pix
	}
	n := len(pix) / imaging.BytesPerPixel
	out := make([]byte, 0, n*layout.Channels())
	for i := 0; i+imaging.BytesPerPixel <= len(pix); i += imaging.BytesPerPixel {
		switch layout {
		case codec.Gray:
			out = append(out, pix[i])
		case codec.GrayAlpha:
			out = append(out, pix[i], pix[i+3])
		case codec.RGB:
			out = append(out, pix[i], pix[i+1], pix[i+2])
		}
	}
	return out
}
