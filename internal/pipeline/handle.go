package pipeline

import (
	"github.com/ironsheep/pixel-mosaic-mcp/internal/pixbuf"
)

// Handle owns the current buffer of one transformation chain.
//
// The buffer inside a handle is never shared: Load stores a private copy and
// Take hands the buffer out while emptying the handle. The zero value is an
// empty handle ready for Load.
type Handle struct {
	buf *pixbuf.Buffer
}

// NewHandle returns a handle holding a private copy of buf.
func NewHandle(buf *pixbuf.Buffer) *Handle {
	h := &Handle{}
	h.Load(buf)
	return h
}

// Load discards the current buffer and installs a copy of buf. The caller
// keeps ownership of buf itself, which may be shared with a cache.
func (h *Handle) Load(buf *pixbuf.Buffer) {
	h.buf = buf.Clone()
}

// Current returns the buffer held by the handle, or nil after Release or
// Take. The result is borrowed and must not be retained across Replace.
func (h *Handle) Current() *pixbuf.Buffer {
	return h.buf
}

// Replace installs buf as the current buffer and drops the previous one. The
// handle takes ownership of buf.
func (h *Handle) Replace(buf *pixbuf.Buffer) {
	h.buf = buf
}

// Release drops the current buffer.
func (h *Handle) Release() {
	h.buf = nil
}

// Take returns the current buffer and empties the handle, transferring
// ownership to the caller.
func (h *Handle) Take() *pixbuf.Buffer {
	buf := h.buf
	h.buf = nil
	return buf
}

// Apply runs stage on the current buffer and installs its result. On error the
// current buffer is kept as it was.
func (h *Handle) Apply(stage Stage) error {
	out, err := stage(h.buf)
	if err != nil {
		return err
	}
	h.Replace(out)
	return nil
}
