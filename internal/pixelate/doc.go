// Package pixelate collapses a pixel buffer into uniform square blocks.
//
// A block area A gives a block side S = floor(sqrt(A)). The buffer is divided
// into floor(W/S) columns by floor(H/S) rows of S x S blocks; leftover rows and
// columns past the grid are not part of any block. Each block's r, g, b and a
// channels are summed and integer-divided by the number of pixels in the block
// (truncating, no rounding).
//
// Two output policies share that core:
//
//   - Pixelate writes the average back over every pixel of its block, keeping
//     the buffer dimensions.
//   - Reduce writes one averaged pixel per block into a new cols x rows buffer.
//
// Both premultiply alpha before averaging and tag the result as 8-bit RGBA.
//
// # Non-square areas
//
// An area that is not a perfect square is truncated to S*S pixels per block
// rather than rejected. Use IsPerfectSquare to fail fast instead.
package pixelate
