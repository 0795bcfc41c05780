package editor

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/ironsheep/pixel-editor/internal/codec"
	"github.com/ironsheep/pixel-editor/internal/imaging"
)

// DefaultMaxPixels caps output buffers at 100 megapixels (400 MB of RGBA).
const DefaultMaxPixels = 100_000_000

// Session owns one live image and at most one snapshot of it.
//
// A Session is not safe for concurrent use; the host serializes calls. Every
// operation either commits a complete new state or returns an error and
// leaves the image and snapshot byte-for-byte unchanged.
type Session struct {
	info imaging.ImageInfo
	pix  []byte
	snap *snapshot

	decoders  []codec.Decoder
	encoders  map[codec.Format]codec.Encoder
	maxPixels int64
	logger    *zap.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for debug tracing. Defaults to a no-op.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxPixels sets the largest width*height any operation may allocate.
// Values <= 0 keep the default.
func WithMaxPixels(n int64) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxPixels = n
		}
	}
}

// WithDecoders replaces the decode priority list. Decoders are tried in the
// order given; the first to accept the input wins.
func WithDecoders(d ...codec.Decoder) Option {
	return func(s *Session) {
		s.decoders = slices.Clone(d)
	}
}

// WithEncoder registers e for its format, replacing any previous encoder.
func WithEncoder(e codec.Encoder) Option {
	return func(s *Session) {
		s.encoders[e.Format()] = e
	}
}

// WithJPEGQuality sets the quality of the default JPEG encoder.
func WithJPEGQuality(q int) Option {
	return func(s *Session) {
		s.encoders[codec.JPEG] = codec.JPEGCodec{Quality: q}
	}
}

// New returns an empty session. By default QOI is tried before JPEG on
// decode, and QOI, JPEG and PNG can be encoded.
func New(opts ...Option) *Session {
	s := &Session{
		decoders: []codec.Decoder{codec.QOICodec{}, codec.JPEGCodec{}},
		encoders: map[codec.Format]codec.Encoder{
			codec.QOI:  codec.QOICodec{},
			codec.JPEG: codec.JPEGCodec{},
			codec.PNG:  codec.PNGCodec{},
		},
		maxPixels: DefaultMaxPixels,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Width returns the width of the live image, 0 when empty.
func (s *Session) Width() uint32 { return s.info.Width }

// Height returns the height of the live image, 0 when empty.
func (s *Session) Height() uint32 { return s.info.Height }

// HasAlpha reports whether the live image was translucent when its info was
// last derived.
func (s *Session) HasAlpha() bool { return s.info.IsTranslucent() }

// IsGrayscale reports whether a grayscale conversion has been applied.
func (s *Session) IsGrayscale() bool { return s.info.IsGrayscale }

// Info returns a copy of the live image metadata.
func (s *Session) Info() imaging.ImageInfo { return s.info }

// Pixels returns a copy of the live RGBA buffer.
func (s *Session) Pixels() []byte { return slices.Clone(s.pix) }

// LoadRaw replaces the live image with a raw RGBA8 buffer.
//
// Exactly width*height*4 bytes are copied from buf; extra bytes are ignored.
// Transparency is derived from the alpha bytes and IsGrayscale is cleared.
// On success any snapshot is discarded.
//
// Returns ErrInvalidSize for a zero extent, ErrTooLarge above the pixel
// limit, and ErrShortBuffer if buf is too small. Nothing changes on error.
func (s *Session) LoadRaw(buf []byte, width, height uint32) error {
	if width == 0 || height == 0 {
		return ErrInvalidSize
	}
	if err := s.checkLimit(width, height); err != nil {
		return err
	}
	info, err := imaging.DeriveInfo(buf, width, height)
	if err != nil {
		s.logger.Debug("load raw rejected",
			zap.Int("len", len(buf)),
			zap.Uint32("width", width),
			zap.Uint32("height", height))
		return fmt.Errorf("load raw %dx%d from %d bytes: %w", width, height, len(buf), err)
	}

	s.SnapshotClear()
	s.commit(info, slices.Clone(buf[:info.ImageSize()]))
	return nil
}

// commit installs a new state. pix must be owned by the session from here on.
func (s *Session) commit(info imaging.ImageInfo, pix []byte) {
	s.info = info
	s.pix = pix
	s.logger.Debug("image committed",
		zap.Uint32("width", info.Width),
		zap.Uint32("height", info.Height),
		zap.Stringer("transparency", info.Transparency),
		zap.Bool("grayscale", info.IsGrayscale))
}

// commitDerived installs a freshly built buffer, rederiving transparency and
// clearing IsGrayscale the way LoadRaw does.
func (s *Session) commitDerived(pix []byte, width, height uint32) {
	info := imaging.NewImageInfo(width, height, imaging.DetectTransparency(pix))
	s.commit(info, pix)
}

func (s *Session) checkLimit(width, height uint32) error {
	if int64(width)*int64(height) > s.maxPixels {
		return fmt.Errorf("%w: %dx%d > %d pixels", ErrTooLarge, width, height, s.maxPixels)
	}
	return nil
}
