package compiler

import (
	"github.com/zademn/AtomC-compiler/bytecode"
	"github.com/zademn/AtomC-compiler/token"
	"github.com/zademn/AtomC-compiler/types"
)

// unit is the grammar's start symbol: a sequence of struct, function,
// and variable declarations terminated by End.
func (p *parser) unit() error {
	for !p.is(token.End) {
		switch {
		case p.is(token.KwStruct) && p.peek(2).Kind == token.LBrace:
			if err := p.declStruct(); err != nil {
				return err
			}
		case p.is(token.KwVoid):
			if err := p.declFunc(); err != nil {
				return err
			}
		case p.isTypeStart():
			if p.looksLikeFuncDecl() {
				if err := p.declFunc(); err != nil {
					return err
				}
			} else {
				if err := p.declVar(); err != nil {
					return err
				}
			}
		default:
			return syntaxf(p.cur().Line(), "expected a declaration, got %s", p.cur())
		}
	}
	_, err := p.expect(token.End)
	return err
}

// looksLikeFuncDecl disambiguates declFunc from declVar, both of which
// start with typeBase: a function continues with an optional '*', an
// ID, then '('; a variable declaration's ID is never followed by '('.
// Pure lookahead — no scope or codegen state is touched.
func (p *parser) looksLikeFuncDecl() bool {
	m := p.mark()
	defer p.restore(m)
	if _, err := p.typeBase(); err != nil {
		return false
	}
	p.accept(token.Mul)
	if !p.is(token.Ident) {
		return false
	}
	p.advance()
	return p.is(token.LPar)
}

// declStruct recognizes 'struct' ID '{' declVar* '}' ';'. Members are
// appended directly to the struct symbol's own MemberList (no scope is
// pushed for the body: struct-member lookup never consults enclosing
// scopes, per the symbol model's lookup rules), with a running byte
// offset assigned as each field is seen.
func (p *parser) declStruct() error {
	p.advance() // 'struct'
	id, err := p.expect(token.Ident)
	if err != nil {
		return err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return err
	}
	sym := types.NewStruct(id.Ident, p.scope.Top().Depth, id.Line())
	var offset int64
	for p.isTypeStart() {
		if err := p.structMember(sym, &offset); err != nil {
			return err
		}
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return err
	}
	if _, err := p.expect(token.Semi); err != nil {
		return err
	}
	return p.scope.Add(sym)
}

// structMember recognizes one declVar-shaped line inside a struct body
// and appends each declared field to owner.Members, advancing *offset
// by each field's size.
func (p *parser) structMember(owner *types.Symbol, offset *int64) error {
	base, err := p.typeBase()
	if err != nil {
		return err
	}
	for {
		id, err := p.expect(token.Ident)
		if err != nil {
			return err
		}
		typ := base
		n, present, err := p.arrayDecl()
		if err != nil {
			return err
		}
		if present {
			if n == 0 {
				return &ErrArraySize{AtLine: id.Line(), Msg: "struct field " + id.Ident + " cannot have an unspecified size"}
			}
			typ.NElements = n
		}
		field := types.NewVar(id.Ident, types.StructMember, typ, owner.Depth+1, id.Line())
		field.Offset = *offset
		*offset += typ.Size()
		if !owner.Members.Add(field) {
			return &types.ErrDuplicateSymbol{AtLine: id.Line(), Name: id.Ident}
		}
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	_, err = p.expect(token.Semi)
	return err
}

// declVar recognizes typeBase ID arrayDecl? ( ',' ID arrayDecl? )* ';'.
// Storage is Local inside a function, Global otherwise (struct fields
// go through structMember instead). An unspecified-size array ('[]')
// is rejected here: per spec.md's open question, only function
// parameters and string literals may carry n_elements == 0.
func (p *parser) declVar() error {
	base, err := p.typeBase()
	if err != nil {
		return err
	}
	for {
		id, err := p.expect(token.Ident)
		if err != nil {
			return err
		}
		typ := base
		n, present, err := p.arrayDecl()
		if err != nil {
			return err
		}
		if present {
			if n == 0 {
				return &ErrArraySize{AtLine: id.Line(), Msg: "variable " + id.Ident + " cannot have an unspecified array size"}
			}
			typ.NElements = n
		}

		storage := types.Global
		if p.inFunc {
			storage = types.Local
		}
		sym := types.NewVar(id.Ident, storage, typ, p.scope.Top().Depth, id.Line())
		if storage == types.Global {
			sym.Addr = p.global
			p.global += typ.Size()
		} else {
			sym.Offset = p.funcLocalLen
			p.funcLocalLen += typ.Size()
		}
		if err := p.scope.Add(sym); err != nil {
			return err
		}
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	_, err = p.expect(token.Semi)
	return err
}

// declFunc recognizes ( typeBase '*'? | 'void' ) ID '(' funcArg,* ')'
// '{' body '}'. The function symbol is added to the global scope
// before its body is parsed, so a function may call itself. The
// parameter scope doubles as the body's own scope (no extra push for
// the top-level stmCompound), per the "is_function_context" rule.
func (p *parser) declFunc() error {
	var retType types.SymbolType
	if _, ok := p.accept(token.KwVoid); ok {
		retType = types.Scalar(types.Void)
	} else {
		base, err := p.typeBase()
		if err != nil {
			return err
		}
		if _, ok := p.accept(token.Mul); ok {
			// typeBase '*' denotes a function returning the address of a
			// T, which this type system represents the same way it
			// represents any other decayed-to-address value: an
			// unspecified-size array of T (n_elements == 0, Size() == 8).
			base.NElements = 0
		} else {
			base.NElements = -1
		}
		retType = base
	}
	id, err := p.expect(token.Ident)
	if err != nil {
		return err
	}
	if p.scope.Top().Depth != 0 {
		return &types.ErrScope{AtLine: id.Line(), Msg: "function " + id.Ident + " declared outside global scope"}
	}

	fn := types.NewFunc(id.Ident, false, retType, 0, id.Line())
	if err := p.scope.Add(fn); err != nil {
		return err
	}

	if _, err := p.expect(token.LPar); err != nil {
		return err
	}
	p.scope.Push(types.Arg)
	savedInFunc, savedRet, savedLocalLen, savedArgBytes := p.inFunc, p.funcRet, p.funcLocalLen, p.funcArgBytes
	p.inFunc, p.funcRet, p.funcLocalLen = true, retType, 0
	restore := func() {
		p.scope.Pop()
		p.inFunc, p.funcRet, p.funcLocalLen, p.funcArgBytes = savedInFunc, savedRet, savedLocalLen, savedArgBytes
	}

	if !p.is(token.RPar) {
		if err := p.funcArg(fn); err != nil {
			restore()
			return err
		}
		for {
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
			if err := p.funcArg(fn); err != nil {
				restore()
				return err
			}
		}
	}
	if _, err := p.expect(token.RPar); err != nil {
		restore()
		return err
	}

	params := fn.Members.InOrder()
	offset := int64(-16)
	for i := len(params) - 1; i >= 0; i-- {
		offset -= params[i].Type.Size()
		params[i].Offset = offset
	}
	p.scope.Global().Update(fn)
	p.funcArgBytes = fn.Members.TotalSize()

	enter := p.emit(bytecode.OpEnter, bytecode.Int64(0))
	// Recorded before the body is parsed, not after: a recursive call to
	// fn from within its own body must already be able to resolve fn's
	// entry point.
	p.funcEntry[fn] = enter

	if err := p.blockBody(); err != nil {
		restore()
		return err
	}

	argBytes := fn.Members.TotalSize()
	p.emit(bytecode.OpRet, bytecode.Int64(argBytes), bytecode.Int64(retType.Size()))
	enter.Arg1 = bytecode.Int64(p.funcLocalLen)
	restore()
	return nil
}

// funcArg recognizes one typeBase ID arrayDecl? parameter, adding it
// both to the parameter scope (for body-local lookup) and to fn's
// MemberList (for positional call-site checking).
func (p *parser) funcArg(fn *types.Symbol) error {
	base, err := p.typeBase()
	if err != nil {
		return err
	}
	id, err := p.expect(token.Ident)
	if err != nil {
		return err
	}
	typ := base
	n, present, err := p.arrayDecl()
	if err != nil {
		return err
	}
	if present {
		typ.NElements = n
	}
	sym := types.NewVar(id.Ident, types.Arg, typ, p.scope.Top().Depth, id.Line())
	if err := p.scope.Add(sym); err != nil {
		return err
	}
	if !fn.Members.Add(sym) {
		return &types.ErrDuplicateSymbol{AtLine: id.Line(), Name: id.Ident}
	}
	return nil
}
