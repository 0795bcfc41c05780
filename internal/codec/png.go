package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zlib"
)

const pngSignature = "\x89PNG\r\n\x1a\n"

// PNG color types, indexed by Layout.
var pngColorType = map[Layout]byte{
	Gray:      0,
	RGB:       2,
	GrayAlpha: 4,
	RGBA:      6,
}

// Row filter types.
const (
	pngFilterNone = iota
	pngFilterSub
	pngFilterUp
	pngFilterAverage
	pngFilterPaeth
	pngNumFilters
)

// PNGCodec writes 8-bit PNG in any of the four layouts at the best zlib
// compression. Unlike image/png it emits gray+alpha directly instead of
// widening it to RGBA.
type PNGCodec struct{}

// Format implements Encoder.
func (PNGCodec) Format() Format { return PNG }

// Encode returns pix, packed per h.Layout, as a PNG file.
func (c PNGCodec) Encode(pix []byte, h Header) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Write(&buf, pix, h); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the PNG file to w. It fails at the first stage (header,
// image data, finish) whose write fails.
func (PNGCodec) Write(w io.Writer, pix []byte, h Header) error {
	if err := h.validate(); err != nil {
		return err
	}
	if _, ok := pngColorType[h.Layout]; !ok {
		return FormatError(fmt.Sprintf("png: unsupported layout %v", h.Layout))
	}
	if len(pix) < h.PixelDataSize() {
		return FormatError("png: pixel data shorter than header")
	}

	pw := &pngWriter{w: w, h: h}
	if err := pw.writeHeader(); err != nil {
		return fmt.Errorf("png: write header: %w", err)
	}
	if err := pw.writeImageData(pix); err != nil {
		return fmt.Errorf("png: write image data: %w", err)
	}
	if err := pw.finish(); err != nil {
		return fmt.Errorf("png: finish: %w", err)
	}
	return nil
}

type pngWriter struct {
	w   io.Writer
	h   Header
	tmp [8]byte
}

func (pw *pngWriter) writeChunk(name string, data []byte) error {
	binary.BigEndian.PutUint32(pw.tmp[:4], uint32(len(data)))
	copy(pw.tmp[4:8], name)

	crc := crc32.NewIEEE()
	crc.Write(pw.tmp[4:8])
	crc.Write(data)

	if _, err := pw.w.Write(pw.tmp[:8]); err != nil {
		return err
	}
	if _, err := pw.w.Write(data); err != nil {
		return err
	}
	binary.BigEndian.PutUint32(pw.tmp[:4], crc.Sum32())
	_, err := pw.w.Write(pw.tmp[:4])
	return err
}

func (pw *pngWriter) writeHeader() error {
	if _, err := io.WriteString(pw.w, pngSignature); err != nil {
		return err
	}

	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:4], pw.h.Width)
	binary.BigEndian.PutUint32(ihdr[4:8], pw.h.Height)
	ihdr[8] = 8 // bit depth
	ihdr[9] = pngColorType[pw.h.Layout]
	ihdr[10] = 0 // deflate
	ihdr[11] = 0 // adaptive filtering
	ihdr[12] = 0 // no interlace
	return pw.writeChunk("IHDR", ihdr[:])
}

// Write makes pngWriter the sink for the zlib stream: every flush of the
// buffered writer becomes one IDAT chunk.
func (pw *pngWriter) Write(b []byte) (int, error) {
	if err := pw.writeChunk("IDAT", b); err != nil {
		return 0, err
	}
	return len(b), nil
}

func (pw *pngWriter) writeImageData(pix []byte) error {
	bw := bufio.NewWriterSize(pw, 1<<15)
	zw, err := zlib.NewWriterLevel(bw, zlib.BestCompression)
	if err != nil {
		return err
	}

	bpp := pw.h.Layout.Channels()
	rowLen := int(pw.h.Width) * bpp

	var cr [pngNumFilters][]byte
	for f := range cr {
		cr[f] = make([]byte, 1+rowLen)
		cr[f][0] = byte(f)
	}
	prev := make([]byte, rowLen)

	for y := 0; y < int(pw.h.Height); y++ {
		cur := pix[y*rowLen : (y+1)*rowLen]
		f := filterRow(&cr, cur, prev, bpp)
		if _, err := zw.Write(cr[f]); err != nil {
			return err
		}
		prev = cur
	}

	if err := zw.Close(); err != nil {
		return err
	}
	return bw.Flush()
}

func (pw *pngWriter) finish() error {
	return pw.writeChunk("IEND", nil)
}

// filterRow fills every candidate filter row and returns the one with the
// smallest sum of absolute signed residuals.
func filterRow(cr *[pngNumFilters][]byte, cur, prev []byte, bpp int) int {
	for i, x := range cur {
		var a, c byte
		if i >= bpp {
			a = cur[i-bpp]
			c = prev[i-bpp]
		}
		b := prev[i]

		cr[pngFilterNone][i+1] = x
		cr[pngFilterSub][i+1] = x - a
		cr[pngFilterUp][i+1] = x - b
		cr[pngFilterAverage][i+1] = x - byte((int(a)+int(b))/2)
		cr[pngFilterPaeth][i+1] = x - paeth(a, b, c)
	}

	best, bestSum := pngFilterNone, -1
	for f := range cr {
		sum := 0
		for _, v := range cr[f][1:] {
			sum += absInt(int(int8(v)))
		}
		if bestSum < 0 || sum < bestSum {
			best, bestSum = f, sum
		}
	}
	return best
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := absInt(p - int(a))
	pb := absInt(p - int(b))
	pc := absInt(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
