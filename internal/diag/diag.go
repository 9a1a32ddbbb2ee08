// Package diag is the central error reporter shared by every other
// package in this module. Each package (lexer, types, compiler, vm)
// defines its own sentinel error type for the conditions it can raise
// (lexer.ErrLex, types.ErrDuplicateSymbol, compiler.ErrSyntax, vm.ErrStack,
// ...); diag does not know about any of them by name. It only requires
// that a fatal error optionally implement LineError, and it renders
// whichever of the two shapes it gets in the one required form:
// "Error at line L: <message>".
//
// This generalizes internal/ngi.ErrWriter from the teacher: where
// ErrWriter holds the first I/O error seen on a writer and keeps
// returning it, Reporter holds the first fatal pipeline error seen and
// drives the process exit code from it.
package diag

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// LineError is implemented by any error that knows the source line it
// was raised at. All of this module's taxonomy types (ErrLex, ErrSyntax,
// ErrDuplicateSymbol, ErrUndefinedSymbol, ErrScope, ErrTypeMismatch, ErrMember,
// ErrArity, ErrArraySize, ErrStack, ErrInvalidOpcode) implement it.
type LineError interface {
	error
	Line() int
}

// causer mirrors github.com/pkg/errors' private causer interface so
// Report can unwrap an errors.Wrap chain down to the LineError that
// caused it, the same way cmd/retro/main.go uses errors.Cause.
type causer interface {
	Cause() error
}

// Reporter accumulates the first fatal diagnostic written to it and
// formats every subsequent one the same way. It is sticky: once Err is
// set, further Report calls do not overwrite it.
type Reporter struct {
	w   io.Writer
	Err error
}

// NewReporter returns a Reporter writing formatted diagnostics to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Report writes err's formatted diagnostic to the underlying writer and
// records it as the reporter's sticky error. A nil err is a no-op.
func (r *Reporter) Report(err error) {
	if err == nil {
		return
	}
	if r.Err == nil {
		r.Err = err
	}
	fmt.Fprintln(r.w, Format(err))
}

// Failed reports whether a diagnostic has been recorded.
func (r *Reporter) Failed() bool { return r.Err != nil }

// ExitCode returns the process exit code appropriate for the reporter's
// current state: 0 if nothing failed, 1 otherwise.
func (r *Reporter) ExitCode() int {
	if r.Err != nil {
		return 1
	}
	return 0
}

// Format renders err as "Error at line L: <message>" if err (or its
// errors.Cause chain) implements LineError, and as a plain "Error:
// <message>" otherwise. Taxonomy error types' Error() methods return a
// bare message with no "line N" prefix of their own, so Format is the
// only place the required wording is assembled.
func Format(err error) string {
	if le, ok := AsLineError(err); ok {
		return fmt.Sprintf("Error at line %d: %s", le.Line(), le.Error())
	}
	return "Error: " + errors.Cause(err).Error()
}

// AsLineError walks err's Cause() chain looking for a LineError, the way
// errors.Cause walks a github.com/pkg/errors wrap chain.
func AsLineError(err error) (LineError, bool) {
	for err != nil {
		if le, ok := err.(LineError); ok {
			return le, true
		}
		c, ok := err.(causer)
		if !ok {
			return nil, false
		}
		err = c.Cause()
	}
	return nil, false
}
