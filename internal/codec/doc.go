// Package codec holds the container formats the editor reads and writes.
//
// Codecs are black boxes to the rest of the module: a Decoder turns bytes
// into a Header plus packed pixel data, an Encoder does the reverse. Pixel
// data is packed per Header.Layout (1 to 4 bytes per pixel) with no row
// padding, rows top to bottom.
//
// # Formats
//
//   - QOI: lossless, RGB or RGBA. Own implementation of the QOI
//     specification (https://qoiformat.org/qoi-specification.pdf).
//   - JPEG: lossy, RGB only. Backed by github.com/disintegration/imaging.
//   - PNG: encode only, gray, gray+alpha, RGB or RGBA, zlib stream from
//     github.com/klauspost/compress.
//
// # Error Handling
//
// Malformed input and headers a format cannot represent are reported as
// FormatError. Errors from the underlying writer are wrapped with the stage
// that failed.
package codec
