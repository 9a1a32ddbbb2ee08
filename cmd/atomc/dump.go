package main

import (
	"io"

	"github.com/zademn/AtomC-compiler/bytecode"
	"github.com/zademn/AtomC-compiler/internal/errwriter"
)

// dumpProgram writes prog's disassembly to w, numbered by the same
// flattened instruction index the vm package resolves jump/call targets
// to at construction time. Disassemble itself ignores individual write
// errors; wrapping w in an errwriter catches a failure (a closed
// stdout, say) without checking every line.
func dumpProgram(prog *bytecode.Program, w io.Writer) error {
	ew := errwriter.New(w)
	prog.Disassemble(ew)
	return ew.Err
}
