package compiler

import "fmt"

// ErrSyntax is raised on a committed grammar failure: a required
// follow-token is missing after a prefix the parser has already locked
// into (per spec.md's bounded-backtracking rule, a committed rule never
// backtracks).
type ErrSyntax struct {
	AtLine int
	Msg    string
}

func (e *ErrSyntax) Error() string { return e.Msg }
func (e *ErrSyntax) Line() int     { return e.AtLine }

func syntaxf(line int, format string, args ...interface{}) error {
	return &ErrSyntax{AtLine: line, Msg: fmt.Sprintf(format, args...)}
}

// ErrUndefinedSymbol is raised when an identifier does not resolve in
// the current scope stack.
type ErrUndefinedSymbol struct {
	AtLine int
	Name   string
}

func (e *ErrUndefinedSymbol) Error() string { return fmt.Sprintf("undefined symbol %q", e.Name) }
func (e *ErrUndefinedSymbol) Line() int     { return e.AtLine }

// ErrMember is raised by `.ID` access on a non-struct operand or an
// unknown field name.
type ErrMember struct {
	AtLine int
	Msg    string
}

func (e *ErrMember) Error() string { return e.Msg }
func (e *ErrMember) Line() int     { return e.AtLine }

// ErrArity is raised by a call with too few or too many arguments.
type ErrArity struct {
	AtLine int
	Msg    string
}

func (e *ErrArity) Error() string { return e.Msg }
func (e *ErrArity) Line() int     { return e.AtLine }

// ErrArraySize is raised when an array-size expression is not a
// constant, or not of Int type.
type ErrArraySize struct {
	AtLine int
	Msg    string
}

func (e *ErrArraySize) Error() string { return e.Msg }
func (e *ErrArraySize) Line() int     { return e.AtLine }
