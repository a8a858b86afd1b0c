// Package pixbuf defines the in-memory pixel buffer shared by every transform in
// this module, together with the coordinate mapping between linear pixel indices
// and 2D points.
//
// # Layout
//
// A Buffer stores Width*Height colors in row-major order:
//   - index = y*Width + x
//   - index 0 is the top-left pixel
//   - indices increase left-to-right, then top-to-bottom
//
// Every channel is an 8-bit unsigned value. Colors are straight (not
// premultiplied) unless an operation documents otherwise; PremultiplyAlpha
// produces the premultiplied form some transforms require.
//
// # Ownership
//
// Transforms in this module never mutate their input. They return a new Buffer
// which the caller owns exclusively, and the caller decides whether to replace
// its existing handle. A Buffer must not be read and written from two goroutines
// at the same time.
//
// # Errors
//
// ErrInvalidArgument and ErrEmptyBuffer are the two error kinds shared by the
// transform packages. Check them with errors.Is; they are always wrapped with
// context.
package pixbuf
