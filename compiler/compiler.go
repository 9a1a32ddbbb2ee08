// Package compiler implements AtomC's recursive-descent parser,
// semantic analyzer, and code generator as a single pass: the grammar in
// spec.md's §4.3 is walked top-down with bounded backtracking at the
// points where the grammar is genuinely ambiguous, a types.Stack of
// scopes is built and consulted as declarations and references are seen,
// and bytecode.Instructions are emitted into a bytecode.Program as each
// construct is recognized.
package compiler

import (
	"github.com/pkg/errors"

	"github.com/zademn/AtomC-compiler/bytecode"
	"github.com/zademn/AtomC-compiler/lexer"
	"github.com/zademn/AtomC-compiler/token"
	"github.com/zademn/AtomC-compiler/types"
)

// Compile runs the full pipeline — lex, then parse+analyze+generate —
// over src and returns the resulting program. filename is used only for
// diagnostic positions.
func Compile(filename, src string) (*bytecode.Program, error) {
	toks, err := lexer.Tokens(filename, src)
	if err != nil {
		return nil, errors.Wrap(err, "lexing failed")
	}
	p := newParser(toks)
	if err := p.unit(); err != nil {
		return nil, err
	}
	return p.link(), nil
}

// link assembles the final program: a two-instruction bootstrap header
// (CALL main; HALT) followed by every function body, in declaration
// order. p.main accumulates only function bodies as declFunc runs (see
// the parser struct's doc comment) — nothing else in the grammar emits
// code — so the head of the returned Program is always the bootstrap
// header regardless of where "main" was declared relative to other
// functions, matching "C6 walks that list from its head until HALT"
// (spec.md §6): a program with no main, or no declarations at all,
// still halts immediately instead of falling into the first function
// body lexically seen.
func (p *parser) link() *bytecode.Program {
	final := bytecode.NewProgram()
	var call *bytecode.Instruction
	var mainSym *types.Symbol
	if sym, ok := p.scope.Global().Find("main"); ok && sym.Class == types.ClassFunc {
		mainSym = sym
		call = final.Emit(bytecode.OpCall, bytecode.To(nil))
	}
	final.Emit(bytecode.OpHalt)
	final.Append(p.main)
	if call != nil {
		call.Arg1 = bytecode.To(p.funcEntry[mainSym])
	}
	return final
}

// parser holds all mutable state for one compilation: the token cursor,
// the live scope stack, the program being emitted, and the handful of
// pieces of per-function state (the running local-variable byte offset,
// the enclosing function's return type and argument frame size, and the
// break-target patch lists for enclosing loops).
//
// gen is the active code-generation target and main is the program that
// ends up as the compiled result; they are almost always the same
// *bytecode.Program. They diverge only while gen is redirected to a
// scratch Program, via codegen.go's withSuppressedGen (array-size
// expressions, and exprAssign's speculative exprUnary lookahead, neither
// of which may emit real instructions) or withScratchGen (a for-loop's
// increment clause, spliced onto main with Program.Append once the loop
// body's own code has been emitted).
type parser struct {
	toks []token.Token
	pos  int

	scope  *types.Stack
	main   *bytecode.Program
	gen    *bytecode.Program
	global int64 // next free global-area address, shared by globals and string-literal data

	inFunc       bool
	funcRet      types.SymbolType
	funcLocalLen int64
	funcArgBytes int64

	breakTargets [][]*bytecode.Instruction

	// funcEntry maps a user-defined function's symbol to its ENTER
	// instruction, the CALL target. Builtins are called by index (see
	// types.BuiltinSpec) through CALLEXT instead and need no entry here.
	funcEntry map[*types.Symbol]*bytecode.Instruction
}

func newParser(toks []token.Token) *parser {
	prog := bytecode.NewProgram()
	p := &parser{
		toks: toks, scope: types.NewStack(), main: prog, gen: prog,
		funcEntry: make(map[*types.Symbol]*bytecode.Instruction),
	}
	types.RegisterBuiltins(p.scope.Global())
	return p
}

func (p *parser) cur() token.Token { return p.toks[p.pos] }

func (p *parser) peek(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) is(k token.Kind) bool { return p.cur().Kind == k }

// advance consumes and returns the current token. It never advances past
// token.End.
func (p *parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

// accept consumes the current token if it has kind k.
func (p *parser) accept(k token.Kind) (token.Token, bool) {
	if p.is(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// expect consumes the current token, which must have kind k; otherwise
// it raises a committed ErrSyntax. Used once a rule has already
// committed to a production and a specific follow-token is now
// required.
func (p *parser) expect(k token.Kind) (token.Token, error) {
	if p.is(k) {
		return p.advance(), nil
	}
	return token.Token{}, syntaxf(p.cur().Line(), "expected %s, got %s", k, p.cur())
}

// mark/restore implement the bounded-backtracking primitive: mark
// snapshots the cursor, restore resets it. No other parser state
// (scope inserts, emitted instructions) may be committed before a rule
// has locked in, per spec.md's "Bounded backtracking" design note.
func (p *parser) mark() int       { return p.pos }
func (p *parser) restore(m int)   { p.pos = m }

// isTypeStart reports whether the current token can begin a typeBase.
func (p *parser) isTypeStart() bool { return isTypeStartKind(p.cur().Kind) }
