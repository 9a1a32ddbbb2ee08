// Package errwriter provides a io.Writer wrapper that remembers the
// first write error it sees, so a sequence of small, unconditional
// writes (assembling a disassembly listing, for instance) can skip
// checking every individual Write call and check once at the end.
package errwriter

import (
	"io"

	"github.com/pkg/errors"
)

// Writer wraps an io.Writer and tracks the first error Write returns.
// Once set, Err short-circuits every subsequent Write.
type Writer struct {
	w   io.Writer
	Err error
}

func (w *Writer) Write(p []byte) (n int, err error) {
	if w.Err != nil {
		return 0, w.Err
	}
	n, err = w.w.Write(p)
	if err != nil {
		w.Err = errors.Wrap(err, "write failed")
	}
	return n, w.Err
}

// New returns a Writer wrapping w.
func New(w io.Writer) *Writer {
	return &Writer{w: w}
}
