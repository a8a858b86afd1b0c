// Package pipeline chains buffer transforms and owns the buffer between them.
//
// A [Handle] holds the single current buffer. Every transform reads it and
// returns a new buffer, which the handle installs in place of the old one; a
// failed transform leaves the handle untouched. A [Pipeline] is an ordered list
// of such transforms built from JSON-friendly [Step] descriptions and validated
// before any of them run.
//
// Three drivers sit on top:
//
//   - [Pipeline.Run] transforms one buffer synchronously.
//   - [Runner] transforms on a background goroutine and hands each finished
//     buffer to a presenter over a channel. Ownership moves with the value.
//   - [Batch] transforms many files with a bounded worker pool and writes
//     content-addressed outputs.
//
// # Thread Safety
//
// A Pipeline is immutable after Build and may be shared between goroutines.
// A Handle is not safe for concurrent use.
package pipeline
