// Package imaging provides the pixel algorithms behind the editor.
//
// Every function in this package works on a PixelBuffer described by an
// ImageInfo. A PixelBuffer is a flat []byte with 4 bytes per pixel in R, G,
// B, A order, row-major with the top row first, 8 bits per channel.
// Coordinates are 0-based with (0,0) at the top-left corner, X increasing
// rightward and Y increasing downward.
//
// # Operations
//
// Geometry:
//   - Crop: copy a sub-rectangle into a new buffer
//   - Scale: resample through a Kernel (nearest, bilinear, bicubic, box)
//
// Color:
//   - Grayscale: average, brightness or luminance conversion
//   - Posterize: per-channel level reduction with optional Floyd–Steinberg
//     dithering
//   - IsDark, Blend, Background, Flatten: luminance test and compositing onto
//     an opaque backdrop
//   - SampleColor: read one pixel in hex, RGBA and HSL form
//
// # Buffer Ownership
//
// Crop and Scale never modify their input and always return a freshly
// allocated buffer. Grayscale, Posterize and Flatten rewrite the buffer in
// place and only after all of their arguments have been validated, so a
// failing call leaves the buffer untouched.
//
// # Numeric Behavior
//
// The integer formulas (luminance, blend, posterize tables) and the
// floating-point kernels are written to produce identical bytes on every
// platform. Kernel results are clamped to [0, 255] and truncated, never
// rounded.
//
// # Thread Safety
//
// Functions are stateless. Calls on different buffers may run concurrently;
// calls that share a buffer must be serialized by the caller.
package imaging
