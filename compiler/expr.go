package compiler

import (
	"fmt"

	"github.com/zademn/AtomC-compiler/bytecode"
	"github.com/zademn/AtomC-compiler/token"
	"github.com/zademn/AtomC-compiler/types"
)

func (p *parser) expr() (RetVal, error) { return p.exprAssign() }

// exprAssign implements `exprUnary '=' exprAssign | exprOr`. The two
// alternatives share an arbitrarily long exprUnary prefix, so rather
// than resuming mid-chain on failure, it speculatively parses exprUnary
// into a throwaway program (see withSuppressedGen) purely to check
// whether an '=' follows; symbol lookups are read-only, so nothing
// needs to be undone on mismatch besides the token cursor.
func (p *parser) exprAssign() (RetVal, error) {
	m := p.mark()
	err := p.withSuppressedGen(func() error {
		_, e := p.exprUnary()
		return e
	})
	if err == nil && p.is(token.Assign) {
		p.restore(m)
		lhs, err := p.exprUnary()
		if err != nil {
			return RetVal{}, err
		}
		eqTok := p.advance() // '='
		if !lhs.IsLValue {
			return RetVal{}, &types.ErrTypeMismatch{AtLine: eqTok.Line(), Msg: "left side of = is not assignable"}
		}
		if lhs.Type.IsArray() {
			return RetVal{}, &types.ErrTypeMismatch{AtLine: eqTok.Line(), Msg: "cannot assign to an array"}
		}
		rhs, err := p.exprAssign()
		if err != nil {
			return RetVal{}, err
		}
		if rhs.Type.IsArray() {
			return RetVal{}, &types.ErrTypeMismatch{AtLine: eqTok.Line(), Msg: "cannot assign an array"}
		}
		if !types.Cast(rhs.Type, lhs.Type) {
			return RetVal{}, &types.ErrTypeMismatch{AtLine: eqTok.Line(), Msg: "cannot assign " + rhs.Type.String() + " to " + lhs.Type.String()}
		}
		p.rval(&rhs)
		p.emitCast(rhs.Type, lhs.Type)
		// Stack is [lhs address][rhs value], lhs's address pushed first
		// since it was parsed and emitted first. That is exactly what
		// OpStore consumes (an address below the value), so no splice is
		// needed to reorder anything before the store.
		p.emit(bytecode.OpStore, bytecode.Int64(lhs.Type.Size()))
		return RetVal{Type: lhs.Type}, nil
	}
	p.restore(m)
	return p.exprOr()
}

// exprOr implements `exprAnd ( '||' exprAnd )*`, short-circuiting: if
// the left operand is true, the right is never evaluated and the
// result is 1; otherwise the result is the (Int-cast) right operand.
func (p *parser) exprOr() (RetVal, error) {
	lhs, err := p.exprAnd()
	if err != nil {
		return RetVal{}, err
	}
	for {
		opTok, ok := p.accept(token.Or)
		if !ok {
			return lhs, nil
		}
		if err := p.requireScalar(lhs, opTok.Line()); err != nil {
			return RetVal{}, err
		}
		p.rval(&lhs)
		p.emitCast(lhs.Type, types.Scalar(types.Int))
		jt := p.emit(bytecode.JtOp(bytecode.WideInt))

		rhs, err := p.exprAnd()
		if err != nil {
			return RetVal{}, err
		}
		if err := p.requireScalar(rhs, opTok.Line()); err != nil {
			return RetVal{}, err
		}
		p.rval(&rhs)
		p.emitCast(rhs.Type, types.Scalar(types.Int))
		jmpEnd := p.emit(bytecode.OpJmp)
		trueLabel := p.emit(bytecode.OpNop)
		jt.Arg1 = bytecode.To(trueLabel)
		p.emit(bytecode.OpPushCtI, bytecode.Int64(1))
		end := p.emit(bytecode.OpNop)
		jmpEnd.Arg1 = bytecode.To(end)
		lhs = RetVal{Type: types.Scalar(types.Int)}
	}
}

// exprAnd implements `exprEq ( '&&' exprEq )*`, the JF-guarded mirror
// of exprOr: a false left operand short-circuits to 0.
func (p *parser) exprAnd() (RetVal, error) {
	lhs, err := p.exprEq()
	if err != nil {
		return RetVal{}, err
	}
	for {
		opTok, ok := p.accept(token.And)
		if !ok {
			return lhs, nil
		}
		if err := p.requireScalar(lhs, opTok.Line()); err != nil {
			return RetVal{}, err
		}
		p.rval(&lhs)
		p.emitCast(lhs.Type, types.Scalar(types.Int))
		jf := p.emit(bytecode.JfOp(bytecode.WideInt))

		rhs, err := p.exprEq()
		if err != nil {
			return RetVal{}, err
		}
		if err := p.requireScalar(rhs, opTok.Line()); err != nil {
			return RetVal{}, err
		}
		p.rval(&rhs)
		p.emitCast(rhs.Type, types.Scalar(types.Int))
		jmpEnd := p.emit(bytecode.OpJmp)
		falseLabel := p.emit(bytecode.OpNop)
		jf.Arg1 = bytecode.To(falseLabel)
		p.emit(bytecode.OpPushCtI, bytecode.Int64(0))
		end := p.emit(bytecode.OpNop)
		jmpEnd.Arg1 = bytecode.To(end)
		lhs = RetVal{Type: types.Scalar(types.Int)}
	}
}

// requireScalar rejects struct- and array-typed operands, the uniform
// restriction spec.md places on relational/equality/logical operators
// (unlike an if/while/for condition, where an array is legal but
// meaningless — see condWideBase in stmt.go).
func (p *parser) requireScalar(rv RetVal, line int) error {
	if rv.Type.IsArray() || rv.Type.Base == types.Struct {
		return &types.ErrTypeMismatch{AtLine: line, Msg: "operand must be a scalar numeric value, got " + rv.Type.String()}
	}
	return nil
}

// exprEq implements `exprRel ( ('=='|'!=') exprRel )*`.
func (p *parser) exprEq() (RetVal, error) {
	lhs, err := p.exprRel()
	if err != nil {
		return RetVal{}, err
	}
	for p.is(token.Eq) || p.is(token.Neq) {
		opTok := p.advance()
		if err := p.requireScalar(lhs, opTok.Line()); err != nil {
			return RetVal{}, err
		}
		p.rval(&lhs)
		lhsEnd := p.gen.Tail()

		rhs, err := p.exprRel()
		if err != nil {
			return RetVal{}, err
		}
		if err := p.requireScalar(rhs, opTok.Line()); err != nil {
			return RetVal{}, err
		}
		p.rval(&rhs)

		result, ok := types.ArithResult(lhs.Type, rhs.Type)
		if !ok {
			return RetVal{}, &types.ErrTypeMismatch{AtLine: opTok.Line(), Msg: "cannot compare " + lhs.Type.String() + " and " + rhs.Type.String()}
		}
		p.insertCast(lhsEnd, lhs.Type, result)
		p.emitCast(rhs.Type, result)
		nb, _ := numBase(result.Base)
		wb := bytecode.WideBase(nb)
		if opTok.Kind == token.Eq {
			p.emit(bytecode.EqOp(wb))
		} else {
			p.emit(bytecode.NotEqOp(wb))
		}
		lhs = RetVal{Type: types.Scalar(types.Int)}
	}
	return lhs, nil
}

// exprRel implements `exprAdd ( ('<'|'<='|'>'|'>=') exprAdd )*`.
func (p *parser) exprRel() (RetVal, error) {
	lhs, err := p.exprAdd()
	if err != nil {
		return RetVal{}, err
	}
	for p.is(token.Lt) || p.is(token.Leq) || p.is(token.Gt) || p.is(token.Geq) {
		opTok := p.advance()
		if err := p.requireScalar(lhs, opTok.Line()); err != nil {
			return RetVal{}, err
		}
		p.rval(&lhs)
		lhsEnd := p.gen.Tail()

		rhs, err := p.exprAdd()
		if err != nil {
			return RetVal{}, err
		}
		if err := p.requireScalar(rhs, opTok.Line()); err != nil {
			return RetVal{}, err
		}
		p.rval(&rhs)

		result, ok := types.ArithResult(lhs.Type, rhs.Type)
		if !ok {
			return RetVal{}, &types.ErrTypeMismatch{AtLine: opTok.Line(), Msg: "cannot compare " + lhs.Type.String() + " and " + rhs.Type.String()}
		}
		p.insertCast(lhsEnd, lhs.Type, result)
		p.emitCast(rhs.Type, result)
		nb, _ := numBase(result.Base)
		switch opTok.Kind {
		case token.Lt:
			p.emit(bytecode.LessOp(nb))
		case token.Leq:
			p.emit(bytecode.LessEqOp(nb))
		case token.Gt:
			p.emit(bytecode.GreaterOp(nb))
		case token.Geq:
			p.emit(bytecode.GreaterEqOp(nb))
		}
		lhs = RetVal{Type: types.Scalar(types.Int)}
	}
	return lhs, nil
}

// exprAdd implements `exprMul ( ('+'|'-') exprMul )*`.
func (p *parser) exprAdd() (RetVal, error) {
	lhs, err := p.exprMul()
	if err != nil {
		return RetVal{}, err
	}
	for p.is(token.Plus) || p.is(token.Minus) {
		opTok := p.advance()
		if err := p.requireScalar(lhs, opTok.Line()); err != nil {
			return RetVal{}, err
		}
		p.rval(&lhs)
		lhsEnd := p.gen.Tail()

		rhs, err := p.exprMul()
		if err != nil {
			return RetVal{}, err
		}
		if err := p.requireScalar(rhs, opTok.Line()); err != nil {
			return RetVal{}, err
		}
		p.rval(&rhs)

		result, ok := types.ArithResult(lhs.Type, rhs.Type)
		if !ok {
			return RetVal{}, &types.ErrTypeMismatch{AtLine: opTok.Line(), Msg: "cannot apply arithmetic to " + lhs.Type.String() + " and " + rhs.Type.String()}
		}
		p.insertCast(lhsEnd, lhs.Type, result)
		p.emitCast(rhs.Type, result)
		nb, _ := numBase(result.Base)
		if opTok.Kind == token.Plus {
			p.emit(bytecode.AddOp(nb))
		} else {
			p.emit(bytecode.SubOp(nb))
		}
		lhs = RetVal{Type: result}
	}
	return lhs, nil
}

// exprMul implements `exprCast ( ('*'|'/') exprCast )*`.
func (p *parser) exprMul() (RetVal, error) {
	lhs, err := p.exprCast()
	if err != nil {
		return RetVal{}, err
	}
	for p.is(token.Mul) || p.is(token.Div) {
		opTok := p.advance()
		if err := p.requireScalar(lhs, opTok.Line()); err != nil {
			return RetVal{}, err
		}
		p.rval(&lhs)
		lhsEnd := p.gen.Tail()

		rhs, err := p.exprCast()
		if err != nil {
			return RetVal{}, err
		}
		if err := p.requireScalar(rhs, opTok.Line()); err != nil {
			return RetVal{}, err
		}
		p.rval(&rhs)

		result, ok := types.ArithResult(lhs.Type, rhs.Type)
		if !ok {
			return RetVal{}, &types.ErrTypeMismatch{AtLine: opTok.Line(), Msg: "cannot apply arithmetic to " + lhs.Type.String() + " and " + rhs.Type.String()}
		}
		p.insertCast(lhsEnd, lhs.Type, result)
		p.emitCast(rhs.Type, result)
		nb, _ := numBase(result.Base)
		if opTok.Kind == token.Mul {
			p.emit(bytecode.MulOp(nb))
		} else {
			p.emit(bytecode.DivOp(nb))
		}
		lhs = RetVal{Type: result}
	}
	return lhs, nil
}

// isTypeStartKind reports whether k can begin a typeBase, used by
// exprCast to decide — by a single token of lookahead past the '(' —
// between a cast and a parenthesized expression. No backtracking is
// needed: typeBase's leading keywords can never begin an exprPrimary.
func isTypeStartKind(k token.Kind) bool {
	switch k {
	case token.KwInt, token.KwDouble, token.KwChar, token.KwStruct:
		return true
	}
	return false
}

// exprCast implements `'(' typeName ')' exprCast | exprUnary`.
func (p *parser) exprCast() (RetVal, error) {
	if !p.is(token.LPar) || !isTypeStartKind(p.peek(1).Kind) {
		return p.exprUnary()
	}
	line := p.cur().Line()
	p.advance()
	target, err := p.typeName()
	if err != nil {
		return RetVal{}, err
	}
	if _, err := p.expect(token.RPar); err != nil {
		return RetVal{}, err
	}
	rv, err := p.exprCast()
	if err != nil {
		return RetVal{}, err
	}
	if !types.Cast(rv.Type, target) {
		return RetVal{}, &types.ErrTypeMismatch{AtLine: line, Msg: "cannot cast " + rv.Type.String() + " to " + target.String()}
	}
	p.rval(&rv)
	p.emitCast(rv.Type, target)
	return RetVal{Type: target}, nil
}

// exprUnary implements `('-'|'!') exprUnary | exprPostfix`.
func (p *parser) exprUnary() (RetVal, error) {
	if tok, ok := p.accept(token.Minus); ok {
		rv, err := p.exprUnary()
		if err != nil {
			return RetVal{}, err
		}
		if rv.Type.IsArray() || rv.Type.Base == types.Struct {
			return RetVal{}, &types.ErrTypeMismatch{AtLine: tok.Line(), Msg: "unary - requires a numeric operand, got " + rv.Type.String()}
		}
		p.rval(&rv)
		nb, ok := numBase(rv.Type.Base)
		if !ok {
			return RetVal{}, &types.ErrTypeMismatch{AtLine: tok.Line(), Msg: "unary - requires a numeric operand, got " + rv.Type.String()}
		}
		p.emit(bytecode.NegOp(nb))
		return RetVal{Type: rv.Type}, nil
	}
	if tok, ok := p.accept(token.Not); ok {
		rv, err := p.exprUnary()
		if err != nil {
			return RetVal{}, err
		}
		if rv.Type.Base == types.Struct {
			return RetVal{}, &types.ErrTypeMismatch{AtLine: tok.Line(), Msg: "unary ! cannot apply to a struct"}
		}
		p.rval(&rv)
		p.emitCast(rv.Type, types.Scalar(types.Int))
		p.emit(bytecode.NotOp(bytecode.WideInt))
		return RetVal{Type: types.Scalar(types.Int)}, nil
	}
	return p.exprPostfix()
}

// arrayBase leaves the array's base address on top of the stack: for a
// sized array the lvalue address exprPrimary already produced IS the
// base address (the elements live inline), but an unspecified-size
// array (a parameter or a decayed string literal) stores only an
// 8-byte pointer, which must be loaded first.
func (p *parser) arrayBase(rv *RetVal) {
	if rv.Type.NElements == 0 {
		p.rval(rv)
	}
	rv.IsLValue = false
}

// exprPostfix implements `exprPrimary ( '[' expr ']' | '.' ID )*`.
func (p *parser) exprPostfix() (RetVal, error) {
	rv, err := p.exprPrimary()
	if err != nil {
		return RetVal{}, err
	}
	for {
		switch {
		case p.is(token.LBracket):
			line := p.cur().Line()
			p.advance()
			if !rv.Type.IsArray() {
				return RetVal{}, &types.ErrTypeMismatch{AtLine: line, Msg: "indexed expression is not an array"}
			}
			elemType := types.SymbolType{Base: rv.Type.Base, StructRef: rv.Type.StructRef, NElements: -1}
			elemSize := elemType.Size()
			p.arrayBase(&rv)

			idx, err := p.expr()
			if err != nil {
				return RetVal{}, err
			}
			if !types.Cast(idx.Type, types.Scalar(types.Int)) {
				return RetVal{}, &types.ErrTypeMismatch{AtLine: line, Msg: "array index must be castable to int"}
			}
			p.rval(&idx)
			p.emitCast(idx.Type, types.Scalar(types.Int))
			if elemSize != 1 {
				p.emit(bytecode.OpPushCtI, bytecode.Int64(elemSize))
				p.emit(bytecode.MulOp(bytecode.BaseInt))
			}
			p.emit(bytecode.OpOffset)
			if _, err := p.expect(token.RBracket); err != nil {
				return RetVal{}, err
			}
			rv = RetVal{Type: elemType, IsLValue: true}

		case p.is(token.Dot):
			p.advance()
			id, err := p.expect(token.Ident)
			if err != nil {
				return RetVal{}, err
			}
			if rv.Type.Base != types.Struct || rv.Type.StructRef == nil {
				return RetVal{}, &ErrMember{AtLine: id.Line(), Msg: ". applied to a non-struct value"}
			}
			if !rv.IsLValue {
				return RetVal{}, &ErrMember{AtLine: id.Line(), Msg: "struct value has no address to access a member of"}
			}
			field, ok := rv.Type.StructRef.Members.Get(id.Ident)
			if !ok {
				return RetVal{}, &ErrMember{AtLine: id.Line(), Msg: "struct " + rv.Type.StructRef.Name + " has no member " + id.Ident}
			}
			if field.Offset != 0 {
				p.emit(bytecode.OpPushCtI, bytecode.Int64(field.Offset))
				p.emit(bytecode.OpOffset)
			}
			rv = RetVal{Type: field.Type, IsLValue: true}

		default:
			return rv, nil
		}
	}
}

// emitAddr pushes the address of a variable symbol: an absolute
// constant for Global/Builtin storage, or a frame-relative one for
// Local/Arg storage.
func (p *parser) emitAddr(sym *types.Symbol) {
	switch sym.Storage {
	case types.Global, types.Builtin:
		p.emit(bytecode.OpPushCtA, bytecode.Int64(sym.Addr))
	default:
		p.emit(bytecode.OpPushFPAddr, bytecode.Int64(sym.Offset))
	}
}

// call parses a function call's argument list, already past the
// opening '(', and emits CALL or CALLEXT as appropriate. Each
// argument's implicit cast is emitted right after that argument's own
// code (while it is still on top of the stack), rather than deferred,
// since positional argument order already matches the emission order.
func (p *parser) call(sym *types.Symbol, idTok token.Token) (RetVal, error) {
	if sym.Class != types.ClassFunc && sym.Class != types.ClassExtFunc {
		return RetVal{}, &types.ErrTypeMismatch{AtLine: idTok.Line(), Msg: idTok.Ident + " is not a function"}
	}
	params := sym.Members.InOrder()
	n := 0
	if !p.is(token.RPar) {
		for {
			argLine := p.cur().Line()
			arg, err := p.expr()
			if err != nil {
				return RetVal{}, err
			}
			p.rval(&arg)
			if n < len(params) {
				if !types.Cast(arg.Type, params[n].Type) {
					return RetVal{}, &types.ErrTypeMismatch{AtLine: argLine, Msg: fmt.Sprintf("argument %d to %s: cannot convert %s to %s", n+1, idTok.Ident, arg.Type, params[n].Type)}
				}
				p.emitCast(arg.Type, params[n].Type)
			}
			n++
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
	}
	if _, err := p.expect(token.RPar); err != nil {
		return RetVal{}, err
	}
	if n != len(params) {
		return RetVal{}, &ErrArity{AtLine: idTok.Line(), Msg: fmt.Sprintf("%s expects %d argument(s), got %d", idTok.Ident, len(params), n)}
	}
	if sym.Storage == types.Builtin {
		p.emit(bytecode.OpCallExt, bytecode.Int64(sym.Addr))
	} else {
		entry, ok := p.funcEntry[sym]
		if !ok {
			return RetVal{}, &ErrUndefinedSymbol{AtLine: idTok.Line(), Name: idTok.Ident}
		}
		p.emit(bytecode.OpCall, bytecode.To(entry))
	}
	return RetVal{Type: sym.Type}, nil
}

// exprPrimary implements the grammar's leaves: identifiers (bare,
// subscripted later by exprPostfix, or immediately called), literals,
// and a fully parenthesized sub-expression.
func (p *parser) exprPrimary() (RetVal, error) {
	tok := p.cur()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		sym, ok := p.scope.Find(tok.Ident)
		if !ok {
			return RetVal{}, &ErrUndefinedSymbol{AtLine: tok.Line(), Name: tok.Ident}
		}
		if _, ok := p.accept(token.LPar); ok {
			return p.call(sym, tok)
		}
		if sym.Class == types.ClassFunc || sym.Class == types.ClassExtFunc {
			return RetVal{}, &types.ErrTypeMismatch{AtLine: tok.Line(), Msg: tok.Ident + " must be called"}
		}
		p.emitAddr(sym)
		return RetVal{Type: sym.Type, IsLValue: true}, nil

	case token.IntLit:
		p.advance()
		p.emit(bytecode.OpPushCtI, bytecode.Int64(tok.Int))
		return RetVal{Type: types.Scalar(types.Int), IsConst: true, ConstKind: ConstInt, IntVal: tok.Int}, nil

	case token.RealLit:
		p.advance()
		p.emit(bytecode.OpPushCtD, bytecode.Float64(float64(tok.Real)))
		return RetVal{Type: types.Scalar(types.Double), IsConst: true, ConstKind: ConstDouble, DoubleVal: float64(tok.Real)}, nil

	case token.CharLit:
		p.advance()
		p.emit(bytecode.OpPushCtC, bytecode.Int64(int64(tok.Char)))
		return RetVal{Type: types.Scalar(types.Char), IsConst: true, ConstKind: ConstInt, IntVal: int64(tok.Char)}, nil

	case token.StringLit:
		p.advance()
		addr := p.global
		p.global += int64(len(tok.Str)) + 1
		p.gen.AddData(addr, append(append([]byte(nil), tok.Str...), 0))
		p.emit(bytecode.OpPushCtA, bytecode.Int64(addr))
		return RetVal{
			Type: types.SymbolType{Base: types.Char, NElements: 0},
			IsConst: true, ConstKind: ConstString, StrVal: tok.Str,
		}, nil

	case token.LPar:
		p.advance()
		rv, err := p.expr()
		if err != nil {
			return RetVal{}, err
		}
		if _, err := p.expect(token.RPar); err != nil {
			return RetVal{}, err
		}
		return rv, nil

	default:
		return RetVal{}, syntaxf(tok.Line(), "expected an expression, got %s", tok)
	}
}
