package types_test

import (
	"testing"

	"github.com/zademn/AtomC-compiler/types"
)

func TestCast(t *testing.T) {
	data := []struct {
		name     string
		src, dst types.SymbolType
		want     bool
	}{
		{"int to double", types.Scalar(types.Int), types.Scalar(types.Double), true},
		{"double to char", types.Scalar(types.Double), types.Scalar(types.Char), true},
		{"char to int", types.Scalar(types.Char), types.Scalar(types.Int), true},
		{"int to int", types.Scalar(types.Int), types.Scalar(types.Int), true},
		{"void to int", types.Scalar(types.Void), types.Scalar(types.Int), false},
		{"int to void", types.Scalar(types.Int), types.Scalar(types.Void), false},
		{"array to scalar", types.SymbolType{Base: types.Int, NElements: 0}, types.Scalar(types.Int), false},
		{"scalar to array", types.Scalar(types.Int), types.SymbolType{Base: types.Int, NElements: 0}, false},
		{"array to array same base", types.SymbolType{Base: types.Char, NElements: 10}, types.SymbolType{Base: types.Char, NElements: 0}, true},
		{"array to array diff base", types.SymbolType{Base: types.Int, NElements: 10}, types.SymbolType{Base: types.Char, NElements: 0}, false},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			if got := types.Cast(d.src, d.dst); got != d.want {
				t.Errorf("Cast(%v, %v) = %v, want %v", d.src, d.dst, got, d.want)
			}
		})
	}
}

func TestCast_struct(t *testing.T) {
	a := types.NewStruct("A", 0, 1)
	b := types.NewStruct("B", 0, 1)
	if !types.Cast(types.StructType(a), types.StructType(a)) {
		t.Fatal("expected a struct to cast to itself")
	}
	if types.Cast(types.StructType(a), types.StructType(b)) {
		t.Fatal("expected distinct structs not to cast")
	}
}

func TestArithResult(t *testing.T) {
	data := []struct {
		name string
		a, b types.SymbolType
		want types.Base
		ok   bool
	}{
		{"char+char", types.Scalar(types.Char), types.Scalar(types.Char), types.Char, true},
		{"int+char", types.Scalar(types.Int), types.Scalar(types.Char), types.Int, true},
		{"char+int", types.Scalar(types.Char), types.Scalar(types.Int), types.Int, true},
		{"double+int", types.Scalar(types.Double), types.Scalar(types.Int), types.Double, true},
		{"int+double", types.Scalar(types.Int), types.Scalar(types.Double), types.Double, true},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			got, ok := types.ArithResult(d.a, d.b)
			if ok != d.ok {
				t.Fatalf("ok = %v, want %v", ok, d.ok)
			}
			if ok && got.Base != d.want {
				t.Fatalf("base = %v, want %v", got.Base, d.want)
			}
		})
	}
}

func TestArithResult_rejectsNonNumeric(t *testing.T) {
	arr := types.SymbolType{Base: types.Int, NElements: 3}
	if _, ok := types.ArithResult(arr, types.Scalar(types.Int)); ok {
		t.Fatal("expected array operand to be rejected")
	}
	s := types.StructType(types.NewStruct("S", 0, 1))
	if _, ok := types.ArithResult(s, types.Scalar(types.Int)); ok {
		t.Fatal("expected struct operand to be rejected")
	}
}
