package editor

import (
	"go.uber.org/zap"

	"github.com/ironsheep/pixel-editor/internal/imaging"
)

// Crop replaces the live image with the width x height region whose top-left
// corner is (x, y). The region must lie inside the image.
//
// The result is committed as a new image: transparency is rederived and
// IsGrayscale is cleared. Returns ErrInvalidGeometry when the region does
// not fit; the image is unchanged in that case.
func (s *Session) Crop(x, y, width, height uint32) error {
	r := imaging.Rect{X: x, Y: y, W: width, H: height}
	out, err := imaging.Crop(s.info, s.pix, r)
	if err != nil {
		s.logger.Debug("crop rejected", zap.Error(err))
		return err
	}
	s.commitDerived(out, width, height)
	return nil
}

// Scale resizes the live image to width x height.
//
// Scaling to the current size succeeds without touching the image, whatever
// the mode. Otherwise both extents must be at least 1 and the output must
// stay within the pixel limit. See imaging.SelectKernel for how mode picks
// the sampling kernel.
func (s *Session) Scale(width, height uint32, mode imaging.ScaleMode) error {
	if width == s.info.Width && height == s.info.Height {
		return nil
	}
	if width < 1 || height < 1 {
		return ErrInvalidSize
	}
	if s.info.IsEmpty() {
		return ErrNoImage
	}
	if err := s.checkLimit(width, height); err != nil {
		return err
	}

	out, err := imaging.Scale(s.info, s.pix, width, height, mode)
	if err != nil {
		s.logger.Debug("scale rejected", zap.Error(err))
		return err
	}
	s.logger.Debug("image scaled",
		zap.Stringer("mode", mode),
		zap.Uint32("from_width", s.info.Width),
		zap.Uint32("from_height", s.info.Height))
	s.commitDerived(out, width, height)
	return nil
}
