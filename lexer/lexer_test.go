package lexer_test

import (
	"testing"

	"github.com/zademn/AtomC-compiler/lexer"
	"github.com/zademn/AtomC-compiler/token"
)

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestTokens_empty(t *testing.T) {
	toks, err := lexer.Tokens("t", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 1 || toks[0].Kind != token.End {
		t.Fatalf("expected [End], got %v", kinds(toks))
	}
}

func TestTokens_arithmetic(t *testing.T) {
	src := `int main(){ put_i(3+4*2); return 0; }`
	toks, err := lexer.Tokens("t", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 14 meaningful tokens + End, per spec.md scenario 2.
	if len(toks) != 15 {
		t.Fatalf("expected 15 tokens (14 + End), got %d: %v", len(toks), kinds(toks))
	}
	if toks[len(toks)-1].Kind != token.End {
		t.Fatalf("expected final End token, got %v", toks[len(toks)-1].Kind)
	}
	for _, tok := range toks {
		if tok.Kind == token.Error {
			t.Fatalf("unexpected error token in %q", src)
		}
	}
}

func TestTokens_numbers(t *testing.T) {
	data := []struct {
		src     string
		kind    token.Kind
		intVal  int64
		realVal float32
	}{
		{"0", token.IntLit, 0, 0},
		{"017", token.IntLit, 15, 0}, // octal
		{"019", token.IntLit, 19, 0}, // escalates to decimal on 8/9
		{"0x1F", token.IntLit, 31, 0},
		{"42", token.IntLit, 42, 0},
		{"3.14", token.RealLit, 0, 3.14},
		{"1e3", token.RealLit, 0, 1000},
		{"1.5e-2", token.RealLit, 0, 0.015},
	}
	for _, d := range data {
		toks, err := lexer.Tokens("t", d.src)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", d.src, err)
		}
		if len(toks) != 2 {
			t.Fatalf("%q: expected 1 token + End, got %v", d.src, kinds(toks))
		}
		tok := toks[0]
		if tok.Kind != d.kind {
			t.Fatalf("%q: expected kind %v, got %v", d.src, d.kind, tok.Kind)
		}
		switch d.kind {
		case token.IntLit:
			if tok.Int != d.intVal {
				t.Fatalf("%q: expected int %d, got %d", d.src, d.intVal, tok.Int)
			}
		case token.RealLit:
			if tok.Real != d.realVal {
				t.Fatalf("%q: expected real %v, got %v", d.src, d.realVal, tok.Real)
			}
		}
	}
}

func TestTokens_charAndString(t *testing.T) {
	toks, err := lexer.Tokens("t", `'a' '\n' '\0' "hello" ""`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []struct {
		kind token.Kind
		char byte
		str  string
	}{
		{token.CharLit, 'a', ""},
		{token.CharLit, '\n', ""},
		{token.CharLit, 0, ""},
		{token.StringLit, 0, "hello"},
		{token.StringLit, 0, ""},
	}
	if len(toks) != len(want)+1 {
		t.Fatalf("expected %d tokens + End, got %v", len(want), kinds(toks))
	}
	for i, w := range want {
		tok := toks[i]
		if tok.Kind != w.kind {
			t.Fatalf("token %d: expected %v, got %v", i, w.kind, tok.Kind)
		}
		if w.kind == token.CharLit && tok.Char != w.char {
			t.Fatalf("token %d: expected char %v, got %v", i, w.char, tok.Char)
		}
		if w.kind == token.StringLit && string(tok.Str) != w.str {
			t.Fatalf("token %d: expected string %q, got %q", i, w.str, string(tok.Str))
		}
	}
}

func TestTokens_comments(t *testing.T) {
	src := "int x; // trailing comment\n/* block\ncomment */ int y;"
	toks, err := lexer.Tokens("t", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := kinds(toks)
	want := []token.Kind{token.KwInt, token.Ident, token.Semi, token.KwInt, token.Ident, token.Semi, token.End}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	// the line of "int y" must account for both comment lines.
	if toks[3].Line() != 3 {
		t.Fatalf("expected second 'int' on line 3, got %d", toks[3].Line())
	}
}

func TestTokens_errors(t *testing.T) {
	data := []struct {
		name string
		src  string
	}{
		{"stray byte", "int x = @;"},
		{"unterminated string", "\"hello"},
		{"unterminated string with newline", "\"hello\nworld\""},
		{"unterminated comment", "/* never closed"},
		{"bad escape", `'\q'`},
		{"lone ampersand", "a & b"},
		{"lone pipe", "a | b"},
	}
	for _, d := range data {
		toks, err := lexer.Tokens("t", d.src)
		if err == nil {
			t.Errorf("%s: expected error, got none", d.name)
			continue
		}
		if toks[len(toks)-1].Kind != token.Error {
			t.Errorf("%s: expected trailing Error token, got %v", d.name, kinds(toks))
		}
	}
}

func TestTokens_operators(t *testing.T) {
	src := "+ - * / . && || ! != == = < <= > >= , ; ( ) [ ] { }"
	want := []token.Kind{
		token.Plus, token.Minus, token.Mul, token.Div, token.Dot,
		token.And, token.Or, token.Not, token.Neq, token.Eq, token.Assign,
		token.Lt, token.Leq, token.Gt, token.Geq, token.Comma, token.Semi,
		token.LPar, token.RPar, token.LBracket, token.RBracket, token.LBrace, token.RBrace,
		token.End,
	}
	toks, err := lexer.Tokens("t", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestTokens_lineTracking(t *testing.T) {
	src := "int x;\nint y;\n\nint z;"
	toks, err := lexer.Tokens("t", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lastLine := 0
	for _, tok := range toks {
		if tok.Line() < lastLine {
			t.Fatalf("line numbers not non-decreasing: %v", toks)
		}
		lastLine = tok.Line()
	}
	// "z" is declared on line 4
	for _, tok := range toks {
		if tok.Kind == token.Ident && tok.Ident == "z" {
			if tok.Line() != 4 {
				t.Fatalf("expected z on line 4, got %d", tok.Line())
			}
		}
	}
}
