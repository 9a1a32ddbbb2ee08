package compiler

import "github.com/zademn/AtomC-compiler/types"

// ConstKind tags which field of RetVal's constant payload is meaningful.
type ConstKind uint8

const (
	ConstNone ConstKind = iota
	ConstInt
	ConstDouble
	ConstString
)

// RetVal is the result of analyzing one expression node: its type, its
// lvalue-ness, and — for the handful of primaries the grammar requires
// to fold — its constant value. Only array-size expressions actually
// consult IsConst/IntVal; the rest of the fields exist because a
// primary's constant-ness must still be tracked through exprCast and
// member access even when nothing downstream needs it.
type RetVal struct {
	Type     types.SymbolType
	IsLValue bool

	IsConst   bool
	ConstKind ConstKind
	IntVal    int64
	DoubleVal float64
	StrVal    []byte
}
