package compiler

import (
	"github.com/zademn/AtomC-compiler/bytecode"
	"github.com/zademn/AtomC-compiler/types"
)

// emit appends an instruction to whichever program is currently the
// active code-generation target. Array-size expressions (spec.md
// §4.3.6) redirect this to a throwaway scratch Program via
// withSuppressedGen so they never contribute real instructions, even
// though they are parsed with the same expr() used everywhere else.
func (p *parser) emit(op bytecode.Op, args ...bytecode.Arg) *bytecode.Instruction {
	in := p.gen.Emit(op, args...)
	in.Line = p.cur().Line()
	return in
}

func (p *parser) insertAfter(after *bytecode.Instruction, op bytecode.Op, args ...bytecode.Arg) *bytecode.Instruction {
	in := p.gen.InsertAfter(after, op, args...)
	in.Line = after.Line
	return in
}

// rval makes sure rv's value, not its address, sits on top of the
// stack, emitting an OpLoad of the value's byte width if rv is
// currently an lvalue (address on stack). Mutates rv.IsLValue to false
// so callers cannot accidentally load twice.
func (p *parser) rval(rv *RetVal) {
	if rv.IsLValue {
		p.emit(bytecode.OpLoad, bytecode.Int64(rv.Type.Size()))
		rv.IsLValue = false
	}
}

// numBase maps a numeric SymbolType base to the NumBase selector used
// by the arithmetic/relational opcode tables. ok is false for Struct,
// Func, or Void.
func numBase(b types.Base) (bytecode.NumBase, bool) {
	switch b {
	case types.Char:
		return bytecode.BaseChar, true
	case types.Int:
		return bytecode.BaseInt, true
	case types.Double:
		return bytecode.BaseDouble, true
	default:
		return 0, false
	}
}

// wideBase is numBase extended with the address width, used by
// equality and logical opcode tables. types.Base has no dedicated
// "address" case — it is reached only via a struct/array's decayed
// storage address, which the parser selects explicitly rather than
// inferring from a SymbolType.
func wideBase(b types.Base) (bytecode.WideBase, bool) {
	switch b {
	case types.Char:
		return bytecode.WideChar, true
	case types.Int:
		return bytecode.WideInt, true
	case types.Double:
		return bytecode.WideDouble, true
	default:
		return 0, false
	}
}

// castOp returns the scalar CAST_xy opcode converting src to dst, and
// false if the two already share a base (no cast instruction needed:
// same-type cast, struct-to-itself, or an array recast that changes
// nothing at runtime).
func castOp(src, dst types.SymbolType) (bytecode.Op, bool) {
	switch {
	case src.Base == dst.Base:
		return 0, false
	case src.Base == types.Char && dst.Base == types.Int:
		return bytecode.OpCastCI, true
	case src.Base == types.Char && dst.Base == types.Double:
		return bytecode.OpCastCD, true
	case src.Base == types.Int && dst.Base == types.Char:
		return bytecode.OpCastIC, true
	case src.Base == types.Int && dst.Base == types.Double:
		return bytecode.OpCastID, true
	case src.Base == types.Double && dst.Base == types.Char:
		return bytecode.OpCastDC, true
	case src.Base == types.Double && dst.Base == types.Int:
		return bytecode.OpCastDI, true
	default:
		return 0, false
	}
}

// emitCast appends a cast from src to dst after whatever is currently
// on top of the generation target.
func (p *parser) emitCast(src, dst types.SymbolType) {
	if op, ok := castOp(src, dst); ok {
		p.emit(op)
	}
}

// insertCast splices a cast from src to dst immediately after an
// earlier instruction, for the left operand of a binary operator:
// its value is already on the stack (pushed before the right operand),
// but the common result type — and hence whether a cast is needed at
// all — is only known once the right operand has also been parsed.
// The doubly-linked instruction list (see bytecode.Program.InsertAfter)
// exists precisely so this can be patched in after the fact.
func (p *parser) insertCast(after *bytecode.Instruction, src, dst types.SymbolType) {
	if op, ok := castOp(src, dst); ok {
		p.insertAfter(after, op)
	}
}

// withScratchGen runs fn with code generation redirected to a fresh,
// throwaway Program and returns that program (non-empty only if fn
// actually emitted anything). Callers either discard the result
// (array-size expressions, via withSuppressedGen) or splice it onto
// the real program once they know it is needed (the for-loop
// increment, evaluated here so its tokens are consumed in place but
// whose code must run after the loop body, not before it).
func (p *parser) withScratchGen(fn func() error) (*bytecode.Program, error) {
	saved := p.gen
	scratch := bytecode.NewProgram()
	p.gen = scratch
	err := fn()
	p.gen = saved
	return scratch, err
}

// withSuppressedGen runs fn with code generation redirected to a
// throwaway Program, for expressions (array sizes) that are evaluated
// purely for their constant value and must not contribute to the real
// instruction stream.
func (p *parser) withSuppressedGen(fn func() error) error {
	_, err := p.withScratchGen(fn)
	return err
}
