package types

import "fmt"

// ErrDuplicateSymbol is raised by Scope.Add when a name is already bound
// in that same scope. Per the original implementation (symbols.rs'
// add_symbol), this is always fatal — AtomC has no shadowing-by-redeclaration
// within a single scope.
type ErrDuplicateSymbol struct {
	AtLine int
	Name   string
}

func (e *ErrDuplicateSymbol) Error() string {
	return fmt.Sprintf("symbol %q already defined in this scope", e.Name)
}
func (e *ErrDuplicateSymbol) Line() int { return e.AtLine }

// ErrScope is raised by Stack operations that are called in an invalid
// scope-nesting state (e.g. popping the global scope), and by the
// compiler for a function declared outside global scope, a break
// outside a loop, or a non-struct name used as a struct type.
type ErrScope struct {
	AtLine int
	Msg    string
}

func (e *ErrScope) Error() string { return e.Msg }
func (e *ErrScope) Line() int     { return e.AtLine }

// ErrTypeMismatch is raised by Cast/ArithResult call sites (in the
// compiler) when two types cannot be reconciled.
type ErrTypeMismatch struct {
	AtLine int
	Msg    string
}

func (e *ErrTypeMismatch) Error() string { return e.Msg }
func (e *ErrTypeMismatch) Line() int     { return e.AtLine }
