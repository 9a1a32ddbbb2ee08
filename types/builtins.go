package types

import "fmt"

// BuiltinSpec describes one host routine's calling signature. Builtins
// is the single source of truth for both halves of the built-in
// machinery: RegisterBuiltins uses it to populate the global scope with
// ExtFunc symbols, and the host package uses the same slice (by index)
// to bind each symbol's Addr to an actual Go implementation, so the two
// can never drift out of sync.
type BuiltinSpec struct {
	Name   string
	Params []SymbolType
	Return SymbolType
}

// Builtins lists every host routine AtomC programs may call, in the
// fixed order their Addr is assigned from.
var Builtins = []BuiltinSpec{
	{Name: "put_s", Params: []SymbolType{{Base: Char, NElements: 0}}, Return: Scalar(Void)},
	{Name: "get_s", Params: []SymbolType{{Base: Char, NElements: 0}}, Return: Scalar(Void)},
	{Name: "put_i", Params: []SymbolType{Scalar(Int)}, Return: Scalar(Void)},
	{Name: "get_i", Return: Scalar(Int)},
	{Name: "put_d", Params: []SymbolType{Scalar(Double)}, Return: Scalar(Void)},
	{Name: "get_d", Return: Scalar(Double)},
	{Name: "put_c", Params: []SymbolType{Scalar(Char)}, Return: Scalar(Void)},
	{Name: "get_c", Return: Scalar(Char)},
	{Name: "seconds", Return: Scalar(Double)},
}

// RegisterBuiltins binds every entry of Builtins as an ExtFunc symbol in
// the global scope, with Addr set to its index in Builtins. Called once,
// before the source program's own declarations are processed, so a
// program attempting to redeclare a built-in name hits the ordinary
// ErrDuplicateSymbol path.
func RegisterBuiltins(global *Scope) {
	for i, b := range Builtins {
		sym := NewFunc(b.Name, true, b.Return, 0, 0)
		sym.Storage = Builtin
		sym.Addr = int64(i)
		for pi, pt := range b.Params {
			sym.Members.Add(&Symbol{
				Name: fmt.Sprintf("arg%d", pi), Class: ClassVar,
				Storage: Arg, Type: pt, Depth: 0,
			})
		}
		_ = global.Add(sym)
	}
}
