package editor

import (
	"github.com/ironsheep/pixel-editor/internal/imaging"
)

// Grayscale converts the live image in place and sets IsGrayscale, which
// makes the PNG encoder emit a gray layout. Alpha is left alone.
//
// Once IsGrayscale is set the call does nothing, whatever the mode, until a
// new image is committed by a load, decode, crop or scale.
func (s *Session) Grayscale(mode imaging.GrayscaleMode) error {
	if s.info.IsGrayscale {
		return nil
	}
	if err := imaging.Grayscale(s.pix, mode); err != nil {
		return err
	}
	s.info.IsGrayscale = true
	return nil
}

// Posterize reduces each color channel to the given number of levels,
// optionally with Floyd-Steinberg error diffusion. Every level count must be
// at least 2; otherwise ErrTooFewLevels is returned and nothing changes.
func (s *Session) Posterize(dither bool, red, green, blue uint8) error {
	return imaging.Posterize(s.info, s.pix, dither, red, green, blue)
}

// IsDark reports whether the luminance of the visible pixels, summed onto
// seed, stays below darkThreshold per visible pixel (plus one for the seed).
// Pixels with alpha <= alphaThreshold are ignored. An empty or fully hidden
// image is dark exactly when seed < darkThreshold.
func (s *Session) IsDark(seed, darkThreshold, alphaThreshold uint8) bool {
	return imaging.IsDark(s.pix, seed, darkThreshold, alphaThreshold)
}

// MakeOpaque flattens a translucent image onto white if it is dark and onto
// black otherwise, then marks it opaque. Opaque images are left untouched.
func (s *Session) MakeOpaque() {
	if s.info.IsOpaque() {
		return
	}
	imaging.Flatten(s.pix, imaging.Background(s.pix))
	s.info.Transparency = imaging.Opaque
}
