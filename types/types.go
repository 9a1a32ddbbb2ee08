// Package types implements AtomC's symbol model: the type representation
// attached to every symbol and expression result, the symbol table itself
// (Symbol, Scope, and a Stack of scopes), and the two pieces of shared type
// logic the analyzer needs at every expression node: cast compatibility and
// binary arithmetic result typing.
package types

import "fmt"

// Base names a symbol's base type. Struct carries a reference to the
// defining Symbol (see SymbolType.StructRef); the other variants are
// self-contained.
type Base uint8

const (
	Int Base = iota
	Double
	Char
	Struct
	Func
	Void
)

func (b Base) String() string {
	switch b {
	case Int:
		return "int"
	case Double:
		return "double"
	case Char:
		return "char"
	case Struct:
		return "struct"
	case Func:
		return "func"
	case Void:
		return "void"
	default:
		return "unknown"
	}
}

// SymbolType is the type carried by every Symbol and every expression's
// RetVal. NElements is a tri-state array marker: -1 means scalar, 0 means
// an array of unspecified size (a function parameter, a string literal,
// or a 'T *' return type), and
// a positive value is an array of that many elements.
type SymbolType struct {
	Base      Base
	StructRef *Symbol // non-nil iff Base == Struct
	NElements int
}

// Scalar constructs a non-array SymbolType of the given base.
func Scalar(b Base) SymbolType { return SymbolType{Base: b, NElements: -1} }

// StructType constructs a non-array struct-typed SymbolType referring to
// the struct's defining Symbol.
func StructType(def *Symbol) SymbolType {
	return SymbolType{Base: Struct, StructRef: def, NElements: -1}
}

// IsArray reports whether t denotes an array (sized or unspecified-size).
func (t SymbolType) IsArray() bool { return t.NElements >= 0 }

// IsNumeric reports whether t is a scalar int/double/char, the three
// bases that participate in arithmetic and implicit numeric casts.
func (t SymbolType) IsNumeric() bool {
	return !t.IsArray() && (t.Base == Int || t.Base == Double || t.Base == Char)
}

// Equal reports whether two SymbolTypes name the same type: same base,
// same struct identity when Base == Struct, and the same array-ness
// (element counts themselves are not compared — spec.md's array typing
// rules only distinguish scalar vs. array, not length).
func (t SymbolType) Equal(o SymbolType) bool {
	if t.Base != o.Base || t.IsArray() != o.IsArray() {
		return false
	}
	if t.Base == Struct && t.StructRef != o.StructRef {
		return false
	}
	return true
}

func (t SymbolType) String() string {
	s := t.Base.String()
	if t.Base == Struct && t.StructRef != nil {
		s = "struct " + t.StructRef.Name
	}
	if t.IsArray() {
		if t.NElements > 0 {
			return fmt.Sprintf("%s[%d]", s, t.NElements)
		}
		return s + "[]"
	}
	return s
}

// Cast reports whether a value of type src may be cast (explicitly or
// implicitly) to dst. Array-ness must match on both sides; struct types
// only cast to themselves; int/double/char cast freely among each other;
// everything else (Func, Void, mismatched structs, scalar<->array) is
// rejected.
func Cast(src, dst SymbolType) bool {
	if src.IsArray() != dst.IsArray() {
		return false
	}
	if src.IsArray() {
		return src.Base == dst.Base
	}
	if src.Base == Struct || dst.Base == Struct {
		return src.Base == Struct && dst.Base == Struct && src.StructRef == dst.StructRef
	}
	return src.IsNumeric() && dst.IsNumeric()
}

// Size reports the byte width a value of this type occupies on the VM
// stack or in the globals area: 1 for Char, 8 for Int/Double/Func (an
// entry-point address) and for an unspecified-size array (which decays
// to the address of its first element), 0 for Void, and for a sized
// array or a struct the element size times the element count or the sum
// of the struct's member sizes, respectively.
func (t SymbolType) Size() int64 {
	if t.IsArray() {
		if t.NElements <= 0 {
			return 8
		}
		return t.elemSize() * int64(t.NElements)
	}
	return t.elemSize()
}

func (t SymbolType) elemSize() int64 {
	switch t.Base {
	case Char:
		return 1
	case Void:
		return 0
	case Struct:
		if t.StructRef == nil || t.StructRef.Members == nil {
			return 8
		}
		return t.StructRef.Members.TotalSize()
	default: // Int, Double, Func
		return 8
	}
}

// ArithResult computes the result type of a binary arithmetic operator
// applied to operands of type a and b, following AtomC's numeric
// promotion: char+char stays char; int mixed with char promotes to int;
// double mixed with anything numeric promotes to double. Neither operand
// may be an array, a struct, Func, or Void.
func ArithResult(a, b SymbolType) (SymbolType, bool) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return SymbolType{}, false
	}
	if a.Base == Double || b.Base == Double {
		return Scalar(Double), true
	}
	if a.Base == Int || b.Base == Int {
		return Scalar(Int), true
	}
	return Scalar(Char), true
}
