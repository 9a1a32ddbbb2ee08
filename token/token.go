// Package token defines the lexical tokens produced by the AtomC lexer.
//
// Kind is a closed, 8-bit tagged enumeration: the parser matches solely on
// the tag (see Kind's doc comment), never on payload values, so every
// variant must be cheaply comparable and exhaustively switchable.
package token

import "github.com/alecthomas/participle/v2/lexer"

// Kind tags a Token with its lexical category. It is kept as a stable
// 8-bit value (rather than a string or an interface) because the parser's
// hot path is "is the current token an ID/INT/LPAR/...", executed on every
// grammar rule attempt.
type Kind uint8

// The closed set of token kinds. Keywords are their own kinds (rather than
// Ident carrying a "is this a keyword" flag) so that a rule like `'if'`
// matches by comparing Kind alone.
const (
	End Kind = iota
	Error

	Ident
	IntLit
	RealLit
	CharLit
	StringLit

	KwBreak
	KwChar
	KwDouble
	KwElse
	KwFor
	KwIf
	KwInt
	KwReturn
	KwStruct
	KwVoid
	KwWhile

	Comma
	Semi
	LPar
	RPar
	LBrace
	RBrace
	LBracket
	RBracket
	Dot

	Assign
	Eq
	Neq
	Lt
	Leq
	Gt
	Geq
	Plus
	Minus
	Mul
	Div
	And // &&
	Or  // ||
	Not
)

var names = [...]string{
	End:       "end of input",
	Error:     "error",
	Ident:     "identifier",
	IntLit:    "int literal",
	RealLit:   "real literal",
	CharLit:   "char literal",
	StringLit: "string literal",
	KwBreak:   "break",
	KwChar:    "char",
	KwDouble:  "double",
	KwElse:    "else",
	KwFor:     "for",
	KwIf:      "if",
	KwInt:     "int",
	KwReturn:  "return",
	KwStruct:  "struct",
	KwVoid:    "void",
	KwWhile:   "while",
	Comma:     ",",
	Semi:      ";",
	LPar:      "(",
	RPar:      ")",
	LBrace:    "{",
	RBrace:    "}",
	LBracket:  "[",
	RBracket:  "]",
	Dot:       ".",
	Assign:    "=",
	Eq:        "==",
	Neq:       "!=",
	Lt:        "<",
	Leq:       "<=",
	Gt:        ">",
	Geq:       ">=",
	Plus:      "+",
	Minus:     "-",
	Mul:       "*",
	Div:       "/",
	And:       "&&",
	Or:        "||",
	Not:       "!",
}

// Keywords maps the reserved-word spelling to its Kind. Populated once so
// the lexer can reclassify an identifier-shaped lexeme with a single map
// lookup.
var Keywords = map[string]Kind{
	"break":  KwBreak,
	"char":   KwChar,
	"double": KwDouble,
	"else":   KwElse,
	"for":    KwFor,
	"if":     KwIf,
	"int":    KwInt,
	"return": KwReturn,
	"struct": KwStruct,
	"void":   KwVoid,
	"while":  KwWhile,
}

// String renders the Kind's canonical display form, used in diagnostics
// ("expected ;, got if").
func (k Kind) String() string {
	if int(k) < len(names) && names[k] != "" {
		return names[k]
	}
	return "unknown"
}

// Token is an immutable record produced once by the lexer and never
// mutated afterwards. Pos reuses participle's lexer.Position rather than a
// bespoke struct: it already carries Filename/Offset/Line/Column, and the
// parser only ever reads Pos.Line.
type Token struct {
	Kind Kind
	Pos  lexer.Position

	Ident string // valid when Kind == Ident
	Int   int64  // valid when Kind == IntLit
	Real  float32
	Char  byte
	Str   []byte // valid when Kind == StringLit; owned, never aliases the source buffer
}

// Line reports the 1-based source line the token was emitted on.
func (t Token) Line() int { return t.Pos.Line }

// Is reports whether the token has the given kind. Trivial, but reads
// better at call sites than a bare field comparison in the parser's
// dense alternation chains.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// String renders the token for diagnostics and test failure messages.
func (t Token) String() string {
	switch t.Kind {
	case Ident:
		return t.Ident
	case IntLit:
		return names[IntLit]
	case RealLit:
		return names[RealLit]
	case CharLit:
		return names[CharLit]
	case StringLit:
		return names[StringLit]
	default:
		return t.Kind.String()
	}
}
