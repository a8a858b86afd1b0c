// Package quantize reduces pixel buffers to a fixed palette.
//
// Two quantizers are provided. They share the nearest-entry search but differ in
// metric and in which pixels they leave alone:
//
//   - Euclidean: 4-D Euclidean distance over r, g, b and a. A pixel with any
//     channel equal to zero is treated as background and skipped. The input
//     format tag is kept.
//   - Manhattan: 4-D L1 distance over r, g, b and a. The buffer is
//     alpha-premultiplied first and only fully transparent pixels (a == 0) are
//     skipped. The result is tagged as 8-bit RGBA.
//
// The two skip rules are deliberately kept distinct.
//
// # Tie-break
//
// The search seeds with palette entry 0 and only replaces the best match on a
// strictly smaller distance, so the earliest entry wins ties.
package quantize
