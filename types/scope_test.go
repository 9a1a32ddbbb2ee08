package types_test

import (
	"testing"

	"github.com/zademn/AtomC-compiler/types"
)

func TestStack_addAndFind(t *testing.T) {
	st := types.NewStack()
	x := types.NewVar("x", types.Global, types.Scalar(types.Int), 0, 1)
	if err := st.Add(x); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := st.Find("x"); !ok {
		t.Fatal("expected to find x")
	}
	if _, ok := st.Find("y"); ok {
		t.Fatal("did not expect to find y")
	}
}

func TestStack_duplicateInSameScope(t *testing.T) {
	st := types.NewStack()
	a := types.NewVar("x", types.Global, types.Scalar(types.Int), 0, 1)
	b := types.NewVar("x", types.Global, types.Scalar(types.Double), 0, 2)
	if err := st.Add(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := st.Add(b)
	if err == nil {
		t.Fatal("expected ErrDuplicateSymbol")
	}
	if _, ok := err.(*types.ErrDuplicateSymbol); !ok {
		t.Fatalf("expected *ErrDuplicateSymbol, got %T", err)
	}
}

func TestStack_shadowingAcrossScopes(t *testing.T) {
	st := types.NewStack()
	outer := types.NewVar("x", types.Global, types.Scalar(types.Int), 0, 1)
	if err := st.Add(outer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st.Push(types.Local)
	inner := types.NewVar("x", types.Local, types.Scalar(types.Double), 1, 2)
	if err := st.Add(inner); err != nil {
		t.Fatalf("expected shadowing to be legal across scopes, got %v", err)
	}
	found, _ := st.Find("x")
	if found.Type.Base != types.Double {
		t.Fatalf("expected innermost x (double), got %v", found.Type.Base)
	}
	if err := st.Pop(); err != nil {
		t.Fatalf("unexpected error popping: %v", err)
	}
	found, _ = st.Find("x")
	if found.Type.Base != types.Int {
		t.Fatalf("expected outer x (int) after pop, got %v", found.Type.Base)
	}
}

func TestStack_cannotPopGlobal(t *testing.T) {
	st := types.NewStack()
	if err := st.Pop(); err == nil {
		t.Fatal("expected error popping the global scope")
	}
}

func TestStack_findGlobalIgnoresInnerScopes(t *testing.T) {
	st := types.NewStack()
	g := types.NewFunc("f", false, types.Scalar(types.Void), 0, 1)
	if err := st.Add(g); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st.Push(types.Local)
	if _, ok := st.FindGlobal("f"); !ok {
		t.Fatal("expected to find f in global scope from a nested scope")
	}
}

func TestRegisterBuiltins(t *testing.T) {
	st := types.NewStack()
	types.RegisterBuiltins(st.Global())
	for _, b := range types.Builtins {
		sym, ok := st.FindGlobal(b.Name)
		if !ok {
			t.Fatalf("expected builtin %s to be registered", b.Name)
		}
		if sym.Class != types.ClassExtFunc {
			t.Fatalf("%s: expected ClassExtFunc, got %v", b.Name, sym.Class)
		}
		if sym.Members.Len() != len(b.Params) {
			t.Fatalf("%s: expected %d params, got %d", b.Name, len(b.Params), sym.Members.Len())
		}
	}
}

func TestMemberList_duplicateRejected(t *testing.T) {
	m := types.NewMemberList()
	if !m.Add(&types.Symbol{Name: "a"}) {
		t.Fatal("expected first add to succeed")
	}
	if m.Add(&types.Symbol{Name: "a"}) {
		t.Fatal("expected duplicate add to fail")
	}
}

func TestMemberList_order(t *testing.T) {
	m := types.NewMemberList()
	m.Add(&types.Symbol{Name: "z"})
	m.Add(&types.Symbol{Name: "a"})
	m.Add(&types.Symbol{Name: "m"})
	got := m.Names()
	want := []string{"z", "a", "m"}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("position %d: got %s, want %s", i, got[i], w)
		}
	}
}
