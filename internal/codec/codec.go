package codec

import (
	"fmt"
	"strings"
)

// MaxPixels bounds the pixel count any codec will allocate for.
const MaxPixels = 400_000_000

// Format identifies one of the supported container formats.
type Format int

const (
	// QOI is the lossless "Quite OK Image" format, with or without alpha.
	QOI Format = iota
	// JPEG is the lossy, alpha-less format.
	JPEG
	// PNG is the generic still-image format. Encode only.
	PNG
)

var formatNames = map[Format]string{
	QOI:  "qoi",
	JPEG: "jpeg",
	PNG:  "png",
}

var formatMimeTypes = map[Format]string{
	QOI:  "image/qoi",
	JPEG: "image/jpeg",
	PNG:  "image/png",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// MimeType returns the media type written by the format's encoder.
func (f Format) MimeType() string {
	if s, ok := formatMimeTypes[f]; ok {
		return s
	}
	return "application/octet-stream"
}

// Extension returns the conventional file extension, including the dot.
func (f Format) Extension() string {
	if f == JPEG {
		return ".jpg"
	}
	return "." + f.String()
}

// ParseFormat converts a format name or file extension ("qoi", ".jpg",
// "JPEG", "png") into a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "qoi":
		return QOI, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "png":
		return PNG, nil
	}
	return 0, fmt.Errorf("unknown image format %q", s)
}

// Layout is the channel arrangement of a pixel stream handed to or returned
// from a codec. Every layout uses 8 bits per channel.
type Layout int

const (
	Gray      Layout = 1
	GrayAlpha Layout = 2
	RGB       Layout = 3
	RGBA      Layout = 4
)

// Channels returns the number of bytes per pixel.
func (l Layout) Channels() int {
	return int(l)
}

// HasAlpha reports whether the layout carries an alpha channel.
func (l Layout) HasAlpha() bool {
	return l == GrayAlpha || l == RGBA
}

func (l Layout) String() string {
	switch l {
	case Gray:
		return "gray"
	case GrayAlpha:
		return "gray+alpha"
	case RGB:
		return "rgb"
	case RGBA:
		return "rgba"
	}
	return fmt.Sprintf("Layout(%d)", int(l))
}

// Header describes a pixel stream.
type Header struct {
	Width  uint32
	Height uint32
	Layout Layout
}

// PixelDataSize returns Width*Height*Channels.
func (h Header) PixelDataSize() int {
	return int(h.Width) * int(h.Height) * h.Layout.Channels()
}

func (h Header) validate() error {
	if h.Width == 0 || h.Height == 0 {
		return FormatError(fmt.Sprintf("invalid image size: %dx%d", h.Width, h.Height))
	}
	if uint64(h.Width)*uint64(h.Height) > MaxPixels {
		return FormatError(fmt.Sprintf("image too large: %dx%d", h.Width, h.Height))
	}
	return nil
}

// Decoder parses a container into a header and packed pixel data in the
// header's layout.
type Decoder interface {
	Format() Format
	Decode(data []byte) (Header, []byte, error)
}

// Encoder serializes packed pixel data described by a header.
type Encoder interface {
	Format() Format
	Encode(pix []byte, h Header) ([]byte, error)
}

// A FormatError reports that input is not valid for a format, or that a
// header cannot be represented by it.
type FormatError string

func (e FormatError) Error() string {
	return "codec: " + string(e)
}
