package server

import (
	"encoding/base64"
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/pixel-editor/internal/codec"
	"github.com/ironsheep/pixel-editor/internal/config"
	"github.com/ironsheep/pixel-editor/internal/editor"
	pixels "github.com/ironsheep/pixel-editor/internal/imaging"
)

const maxPreviewSize = config.MaxPreviewSize

// PreviewResult is a PNG thumbnail of a session image.
type PreviewResult struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// renderPreview scales the image down so its longest side is at most
// maxSize and encodes it as PNG. Smaller images are encoded as they are.
// The PNG layout follows the image's grayscale and alpha flags.
func renderPreview(info pixels.ImageInfo, pix []byte, maxSize int) (*PreviewResult, error) {
	w, h := int(info.Width), int(info.Height)
	src := &image.NRGBA{
		Pix:    pix,
		Stride: w * pixels.BytesPerPixel,
		Rect:   image.Rect(0, 0, w, h),
	}

	tw, th := fitWithin(w, h, maxSize)
	thumb := src
	if tw != w || th != h {
		thumb = imaging.Clone(transform.Resize(src, tw, th, transform.Linear))
	}

	thumbInfo := info
	thumbInfo.Width, thumbInfo.Height = uint32(tw), uint32(th)
	layout := editor.EncodeLayout(codec.PNG, thumbInfo)
	header := codec.Header{Width: thumbInfo.Width, Height: thumbInfo.Height, Layout: layout}

	data, err := codec.PNGCodec{}.Encode(editor.Pack(thumb.Pix, layout), header)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{
		Width:    tw,
		Height:   th,
		MimeType: codec.PNG.MimeType(),
		Data:     base64.StdEncoding.EncodeToString(data),
	}, nil
}

// fitWithin scales (w, h) down, keeping the aspect ratio, so neither side
// exceeds maxSize. Each side stays at least 1.
func fitWithin(w, h, maxSize int) (int, int) {
	if w <= maxSize && h <= maxSize {
		return w, h
	}
	if w >= h {
		return maxSize, max(1, (h*maxSize+w/2)/w)
	}
	return max(1, (w*maxSize+h/2)/h), maxSize
}
