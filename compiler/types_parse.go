package compiler

import (
	"github.com/zademn/AtomC-compiler/token"
	"github.com/zademn/AtomC-compiler/types"
)

// typeBase recognizes 'int' | 'double' | 'char' | 'struct' ID and
// returns the corresponding scalar SymbolType (NElements == -1;
// callers layer arrayDecl on top when the grammar allows one). Most
// callers have already checked isTypeStart(); funcArg has not, and a
// non-type token there gets the default case's ErrSyntax.
func (p *parser) typeBase() (types.SymbolType, error) {
	switch {
	case p.is(token.KwInt):
		p.advance()
		return types.Scalar(types.Int), nil
	case p.is(token.KwDouble):
		p.advance()
		return types.Scalar(types.Double), nil
	case p.is(token.KwChar):
		p.advance()
		return types.Scalar(types.Char), nil
	case p.is(token.KwStruct):
		p.advance()
		id, err := p.expect(token.Ident)
		if err != nil {
			return types.SymbolType{}, err
		}
		sym, ok := p.scope.FindGlobal(id.Ident)
		if !ok {
			return types.SymbolType{}, &ErrUndefinedSymbol{AtLine: id.Line(), Name: id.Ident}
		}
		if sym.Class != types.ClassStruct {
			return types.SymbolType{}, &types.ErrScope{AtLine: id.Line(), Msg: id.Ident + " is not a struct"}
		}
		return types.StructType(sym), nil
	default:
		return types.SymbolType{}, syntaxf(p.cur().Line(), "expected a type, got %s", p.cur())
	}
}

// arrayDecl recognizes an optional '[' expr? ']'. present is false if
// no '[' was seen at all; n is the resolved element count when present
// is true (0 for an empty '[]').
func (p *parser) arrayDecl() (n int, present bool, err error) {
	if _, ok := p.accept(token.LBracket); !ok {
		return 0, false, nil
	}
	if _, ok := p.accept(token.RBracket); ok {
		return 0, true, nil
	}
	line := p.cur().Line()
	var rv RetVal
	if err := p.withSuppressedGen(func() error {
		var e error
		rv, e = p.expr()
		return e
	}); err != nil {
		return 0, false, err
	}
	if !rv.IsConst || rv.ConstKind != ConstInt {
		return 0, false, &ErrArraySize{AtLine: line, Msg: "array size must be a constant integer expression"}
	}
	if _, err := p.expect(token.RBracket); err != nil {
		return 0, false, err
	}
	return int(rv.IntVal), true, nil
}

// typeName recognizes typeBase arrayDecl? and folds the two into one
// SymbolType, used for declVar/funcArg element types and for the cast
// target in exprCast.
func (p *parser) typeName() (types.SymbolType, error) {
	base, err := p.typeBase()
	if err != nil {
		return types.SymbolType{}, err
	}
	n, present, err := p.arrayDecl()
	if err != nil {
		return types.SymbolType{}, err
	}
	if present {
		base.NElements = n
	}
	return base, nil
}
