package compiler_test

import (
	"errors"
	"testing"

	"github.com/zademn/AtomC-compiler/bytecode"
	"github.com/zademn/AtomC-compiler/compiler"
	"github.com/zademn/AtomC-compiler/types"
)

func countOp(prog *bytecode.Program, op bytecode.Op) int {
	n := 0
	for _, in := range prog.Instructions() {
		if in.Op == op {
			n++
		}
	}
	return n
}

func TestCompile_empty(t *testing.T) {
	prog, err := compiler.Compile("t", "\x00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prog.Len() != 1 {
		t.Fatalf("expected no emitted instructions besides HALT for an empty program, got %d", prog.Len())
	}
	if prog.Head().Op != bytecode.OpHalt {
		t.Fatalf("expected the sole instruction to be HALT, got %v", prog.Head().Op)
	}
}

func TestCompile_arithmetic(t *testing.T) {
	src := `int main(){ put_i(3+4*2); return 0; }`
	prog, err := compiler.Compile("t", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if countOp(prog, bytecode.OpCallExt) != 1 {
		t.Fatalf("expected exactly one CALLEXT (put_i), got %d", countOp(prog, bytecode.OpCallExt))
	}
	if countOp(prog, bytecode.OpMulI) != 1 {
		t.Fatalf("expected 4*2 to compile to one MULI, got %d", countOp(prog, bytecode.OpMulI))
	}
	if countOp(prog, bytecode.OpAddI) != 1 {
		t.Fatalf("expected 3+(4*2) to compile to one ADDI, got %d", countOp(prog, bytecode.OpAddI))
	}
	var sawThree, sawIntRet bool
	for _, in := range prog.Instructions() {
		if in.Op == bytecode.OpPushCtI && in.Arg1.Int == 3 {
			sawThree = true
		}
	}
	for _, in := range prog.Instructions() {
		if in.Op == bytecode.OpRet && in.Arg2.Int == 8 {
			sawIntRet = true
		}
	}
	if !sawThree {
		t.Fatalf("expected a PUSHCTI 3 among main's operands")
	}
	if !sawIntRet {
		t.Fatalf("expected main's RET to report an 8-byte int return value")
	}
	if prog.Head().Op != bytecode.OpCall {
		t.Fatalf("expected the program to open with the bootstrap CALL main, got %v", prog.Head().Op)
	}
	if prog.Head().Next.Op != bytecode.OpHalt {
		t.Fatalf("expected the bootstrap CALL to be followed immediately by HALT, got %v", prog.Head().Next.Op)
	}
	if prog.Head().Arg1.Target.Op != bytecode.OpEnter {
		t.Fatalf("expected the bootstrap CALL to target main's ENTER, got %v", prog.Head().Arg1.Target.Op)
	}
}

func TestCompile_assignStructLiteralTypeError(t *testing.T) {
	src := `int x; struct S{int a;}; void f(){ x = (struct S){0}; }`
	_, err := compiler.Compile("t", src)
	if err == nil {
		t.Fatalf("expected a type error, got none")
	}
}

func TestCompile_arrayToScalarTypeError(t *testing.T) {
	src := `int a[3]; int i; void f(){ i=a; }`
	_, err := compiler.Compile("t", src)
	var mismatch *types.ErrTypeMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *types.ErrTypeMismatch, got %v", err)
	}
}

func TestCompile_structMember(t *testing.T) {
	src := `struct P{int x; int y;}; struct P p; void f(){ p.x = 5; p.y = p.x + 1; }`
	prog, err := compiler.Compile("t", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if countOp(prog, bytecode.OpOffset) != 1 {
		t.Fatalf("expected one OFFSET for p.y's non-zero field offset, got %d", countOp(prog, bytecode.OpOffset))
	}
	if countOp(prog, bytecode.OpStore) != 2 {
		t.Fatalf("expected two STOREs (p.x and p.y assignments), got %d", countOp(prog, bytecode.OpStore))
	}
}

func TestCompile_whileLoop(t *testing.T) {
	src := `int n; void f(){ n = 3; while(n){ put_i(n); n = n - 1; } }`
	prog, err := compiler.Compile("t", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if countOp(prog, bytecode.OpJfI) != 1 {
		t.Fatalf("expected one JFI guarding the loop body, got %d", countOp(prog, bytecode.OpJfI))
	}
	if countOp(prog, bytecode.OpJmp) != 1 {
		t.Fatalf("expected one JMP back to the condition, got %d", countOp(prog, bytecode.OpJmp))
	}
	if countOp(prog, bytecode.OpCallExt) != 1 {
		t.Fatalf("expected one put_i call inside the loop body, got %d", countOp(prog, bytecode.OpCallExt))
	}
}

func TestCompile_duplicateSymbol(t *testing.T) {
	src := `int x; int x;`
	_, err := compiler.Compile("t", src)
	var dup *types.ErrDuplicateSymbol
	if !errors.As(err, &dup) {
		t.Fatalf("expected *types.ErrDuplicateSymbol, got %v", err)
	}
}

func TestCompile_undefinedSymbol(t *testing.T) {
	src := `void f(){ y = 1; }`
	_, err := compiler.Compile("t", src)
	if err == nil {
		t.Fatalf("expected an undefined-symbol error, got none")
	}
}

func TestCompile_breakOutsideLoop(t *testing.T) {
	src := `void f(){ break; }`
	_, err := compiler.Compile("t", src)
	var scope *types.ErrScope
	if !errors.As(err, &scope) {
		t.Fatalf("expected *types.ErrScope, got %v", err)
	}
}

func TestCompile_recursiveFunction(t *testing.T) {
	src := `int fact(int n){ if(n < 2) return 1; return n * fact(n-1); }`
	prog, err := compiler.Compile("t", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if countOp(prog, bytecode.OpCall) != 1 {
		t.Fatalf("expected one recursive CALL, got %d", countOp(prog, bytecode.OpCall))
	}
}

func TestCompile_unspecifiedArrayRejectedOnLocal(t *testing.T) {
	src := `void f(){ int a[]; }`
	_, err := compiler.Compile("t", src)
	var sz *compiler.ErrArraySize
	if !errors.As(err, &sz) {
		t.Fatalf("expected *compiler.ErrArraySize, got %v", err)
	}
}

func TestCompile_unspecifiedArrayPermittedOnParameter(t *testing.T) {
	src := `void f(int a[]){ }`
	_, err := compiler.Compile("t", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
