// Package imgcodec wraps the image libraries used by the image RPC system behind a
// small set of functions operating on encoded payloads and decoded images.
//
// The package focuses on:
//   - Strict decoding of untrusted payloads (header check, then pixel decode)
//   - The two transforms offered by the service (rotation and mean filter)
//   - Re-encoding into a canonical container format
//   - Reading and writing image files on the client side
//
// Key Components:
//
//   - DecodeAndVerify: Validates the header and dimensions of a payload with a config
//     pass and decodes the pixels from a fresh reader afterwards. Every failure is
//     reported as *DecodeError, malformed input never panics.
//
//   - Rotate / BoxBlur: Clockwise rotation by multiples of 90 degrees with an expanded
//     canvas (disintegration/imaging) and a box blur with clamped edges (bild).
//
//   - IsColored: Grayscale heuristic comparing the per-channel sums of an image.
//
//   - Encode: Encodes an image by format name, falling back to CanonicalFormat for
//     formats without an encoder.
//
//   - LoadFile / WriteFile: File helpers of the client. The loaded payload keeps the
//     original bytes and container format of the file.
//
// Supported input formats are png, jpeg and gif (standard library) as well as bmp, tiff
// and webp (golang.org/x/image). All functions are safe for concurrent use.
package imgcodec
