package editor

import (
	"errors"

	"github.com/ironsheep/pixel-editor/internal/imaging"
)

var (
	// ErrNoImage is returned by operations that need a live image.
	ErrNoImage = errors.New("no image loaded")

	// ErrTooLarge is returned when an output buffer would exceed the
	// session's pixel limit.
	ErrTooLarge = errors.New("image exceeds pixel limit")

	// ErrUnrecognizedFormat is returned by Decode when no decoder accepts
	// the input.
	ErrUnrecognizedFormat = errors.New("input not recognized by any decoder")

	// ErrUnsupportedFormat is returned by Encode for a format without an
	// encoder.
	ErrUnsupportedFormat = errors.New("no encoder for format")

	// ErrNoSnapshot is returned by SnapshotRestore when nothing was saved.
	ErrNoSnapshot = errors.New("no snapshot saved")
)

// Validation errors raised by the pixel algorithms.
var (
	ErrShortBuffer     = imaging.ErrShortBuffer
	ErrInvalidGeometry = imaging.ErrInvalidGeometry
	ErrInvalidSize     = imaging.ErrInvalidSize
	ErrTooFewLevels    = imaging.ErrTooFewLevels
	ErrUnknownMode     = imaging.ErrUnknownMode
)
