package compiler

import (
	"github.com/zademn/AtomC-compiler/bytecode"
	"github.com/zademn/AtomC-compiler/token"
	"github.com/zademn/AtomC-compiler/types"
)

// blockBody recognizes '{' ( declVar | stm )* '}' without pushing a
// scope of its own — used for a function's top-level body, whose
// scope is the parameter scope already pushed by declFunc.
func (p *parser) blockBody() error {
	if _, err := p.expect(token.LBrace); err != nil {
		return err
	}
	if err := p.blockItems(); err != nil {
		return err
	}
	_, err := p.expect(token.RBrace)
	return err
}

// stmCompound is blockBody's counterpart for a nested block: it opens
// and closes a Local scope around the same loop.
func (p *parser) stmCompound() error {
	if _, err := p.expect(token.LBrace); err != nil {
		return err
	}
	p.scope.Push(types.Local)
	err := p.blockItems()
	p.scope.Pop()
	if err != nil {
		return err
	}
	_, err = p.expect(token.RBrace)
	return err
}

func (p *parser) blockItems() error {
	for !p.is(token.RBrace) && !p.is(token.End) {
		var err error
		if p.isTypeStart() {
			err = p.declVar()
		} else {
			err = p.stm()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) stm() error {
	switch {
	case p.is(token.LBrace):
		return p.stmCompound()
	case p.is(token.KwIf):
		return p.stmIf()
	case p.is(token.KwWhile):
		return p.stmWhile()
	case p.is(token.KwFor):
		return p.stmFor()
	case p.is(token.KwBreak):
		return p.stmBreak()
	case p.is(token.KwReturn):
		return p.stmReturn()
	default:
		return p.stmExpr()
	}
}

// condWideBase picks the JF/JT width for a statement's condition
// value: structs are rejected outright, arrays decay to the address
// width (addresses are always truthy, so this only matters for
// well-formedness of the opcode, not for any meaningful test), and
// scalars use their own width.
func (p *parser) condWideBase(rv RetVal, line int) (bytecode.WideBase, error) {
	if rv.Type.Base == types.Struct {
		return 0, &types.ErrTypeMismatch{AtLine: line, Msg: "condition cannot be a struct"}
	}
	if rv.Type.IsArray() {
		return bytecode.WideAddr, nil
	}
	wb, ok := wideBase(rv.Type.Base)
	if !ok {
		return 0, &types.ErrTypeMismatch{AtLine: line, Msg: "condition has invalid type " + rv.Type.String()}
	}
	return wb, nil
}

// emitJF validates rv as a condition, makes sure its value (not an
// lvalue address) is on the stack, and emits a JF with a placeholder
// target the caller patches once the landing point is known.
func (p *parser) emitJF(rv RetVal, line int) (*bytecode.Instruction, error) {
	wb, err := p.condWideBase(rv, line)
	if err != nil {
		return nil, err
	}
	if rv.Type.IsArray() {
		p.arrayBase(&rv)
	} else {
		p.rval(&rv)
	}
	return p.emit(bytecode.JfOp(wb)), nil
}

// dropExpr discards an expression statement's result: the address for
// an lvalue (nothing downstream ever needed the value), or the full
// value width otherwise — the same rule a trailing assignment result
// falls under, since OpStore leaves the assigned value (not its
// address) on the stack.
func (p *parser) dropExpr(rv RetVal) {
	if rv.IsLValue {
		p.emit(bytecode.OpDrop, bytecode.Int64(8))
		return
	}
	if sz := rv.Type.Size(); sz > 0 {
		p.emit(bytecode.OpDrop, bytecode.Int64(sz))
	}
}

func (p *parser) stmIf() error {
	p.advance()
	if _, err := p.expect(token.LPar); err != nil {
		return err
	}
	line := p.cur().Line()
	cond, err := p.expr()
	if err != nil {
		return err
	}
	if _, err := p.expect(token.RPar); err != nil {
		return err
	}
	jf, err := p.emitJF(cond, line)
	if err != nil {
		return err
	}
	if err := p.stm(); err != nil {
		return err
	}
	if _, ok := p.accept(token.KwElse); ok {
		jmpEnd := p.emit(bytecode.OpJmp)
		elseLabel := p.emit(bytecode.OpNop)
		jf.Arg1 = bytecode.To(elseLabel)
		if err := p.stm(); err != nil {
			return err
		}
		end := p.emit(bytecode.OpNop)
		jmpEnd.Arg1 = bytecode.To(end)
		return nil
	}
	end := p.emit(bytecode.OpNop)
	jf.Arg1 = bytecode.To(end)
	return nil
}

func (p *parser) pushBreakTarget() {
	p.breakTargets = append(p.breakTargets, nil)
}

// popBreakTarget pops and returns the innermost loop's accumulated
// break jumps, to be patched once that loop's exit label is known.
func (p *parser) popBreakTarget() []*bytecode.Instruction {
	n := len(p.breakTargets) - 1
	top := p.breakTargets[n]
	p.breakTargets = p.breakTargets[:n]
	return top
}

func (p *parser) patchBreaks(end *bytecode.Instruction) {
	for _, jmp := range p.popBreakTarget() {
		jmp.Arg1 = bytecode.To(end)
	}
}

func (p *parser) stmWhile() error {
	p.advance()
	if _, err := p.expect(token.LPar); err != nil {
		return err
	}
	condStart := p.emit(bytecode.OpNop)
	line := p.cur().Line()
	cond, err := p.expr()
	if err != nil {
		return err
	}
	if _, err := p.expect(token.RPar); err != nil {
		return err
	}
	jf, err := p.emitJF(cond, line)
	if err != nil {
		return err
	}
	p.pushBreakTarget()
	if err := p.stm(); err != nil {
		p.popBreakTarget()
		return err
	}
	p.emit(bytecode.OpJmp, bytecode.To(condStart))
	end := p.emit(bytecode.OpNop)
	jf.Arg1 = bytecode.To(end)
	p.patchBreaks(end)
	return nil
}

// stmFor recognizes 'for' '(' expr? ';' expr? ';' expr? ')' stm. The
// increment clause is parsed where it appears syntactically (right
// after the second ';') but must run after the body, not before it:
// it is generated into a scratch Program via withScratchGen and
// spliced onto the real program after the body's own code.
func (p *parser) stmFor() error {
	p.advance()
	if _, err := p.expect(token.LPar); err != nil {
		return err
	}

	if !p.is(token.Semi) {
		init, err := p.expr()
		if err != nil {
			return err
		}
		p.dropExpr(init)
	}
	if _, err := p.expect(token.Semi); err != nil {
		return err
	}

	condStart := p.emit(bytecode.OpNop)
	var jf *bytecode.Instruction
	if !p.is(token.Semi) {
		line := p.cur().Line()
		cond, err := p.expr()
		if err != nil {
			return err
		}
		jf, err = p.emitJF(cond, line)
		if err != nil {
			return err
		}
	}
	if _, err := p.expect(token.Semi); err != nil {
		return err
	}

	var incProg *bytecode.Program
	if !p.is(token.RPar) {
		var err error
		incProg, err = p.withScratchGen(func() error {
			inc, e := p.expr()
			if e != nil {
				return e
			}
			p.dropExpr(inc)
			return nil
		})
		if err != nil {
			return err
		}
	}
	if _, err := p.expect(token.RPar); err != nil {
		return err
	}

	p.pushBreakTarget()
	if err := p.stm(); err != nil {
		p.popBreakTarget()
		return err
	}
	if incProg != nil {
		p.gen.Append(incProg)
	}
	p.emit(bytecode.OpJmp, bytecode.To(condStart))
	end := p.emit(bytecode.OpNop)
	if jf != nil {
		jf.Arg1 = bytecode.To(end)
	}
	p.patchBreaks(end)
	return nil
}

func (p *parser) stmBreak() error {
	line := p.cur().Line()
	p.advance()
	if len(p.breakTargets) == 0 {
		return &types.ErrScope{AtLine: line, Msg: "break used outside a loop"}
	}
	jmp := p.emit(bytecode.OpJmp)
	top := len(p.breakTargets) - 1
	p.breakTargets[top] = append(p.breakTargets[top], jmp)
	_, err := p.expect(token.Semi)
	return err
}

func (p *parser) stmReturn() error {
	line := p.cur().Line()
	p.advance()
	if _, ok := p.accept(token.Semi); ok {
		if p.funcRet.Base != types.Void {
			return &types.ErrTypeMismatch{AtLine: line, Msg: "missing return value in function returning " + p.funcRet.String()}
		}
		p.emit(bytecode.OpRet, bytecode.Int64(p.funcArgBytes), bytecode.Int64(0))
		return nil
	}
	rv, err := p.expr()
	if err != nil {
		return err
	}
	if p.funcRet.Base == types.Void {
		return &types.ErrTypeMismatch{AtLine: line, Msg: "void function cannot return a value"}
	}
	if !types.Cast(rv.Type, p.funcRet) {
		return &types.ErrTypeMismatch{AtLine: line, Msg: "cannot return " + rv.Type.String() + " as " + p.funcRet.String()}
	}
	p.rval(&rv)
	p.emitCast(rv.Type, p.funcRet)
	p.emit(bytecode.OpRet, bytecode.Int64(p.funcArgBytes), bytecode.Int64(p.funcRet.Size()))
	_, err = p.expect(token.Semi)
	return err
}

func (p *parser) stmExpr() error {
	if _, ok := p.accept(token.Semi); ok {
		return nil
	}
	rv, err := p.expr()
	if err != nil {
		return err
	}
	p.dropExpr(rv)
	_, err = p.expect(token.Semi)
	return err
}
