package types

import "github.com/samber/lo"

// Class names what kind of thing a Symbol denotes.
type Class uint8

const (
	ClassVar Class = iota
	ClassFunc
	ClassExtFunc
	ClassStruct
)

func (c Class) String() string {
	switch c {
	case ClassVar:
		return "var"
	case ClassFunc:
		return "func"
	case ClassExtFunc:
		return "extfunc"
	case ClassStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// Storage names where a Symbol's value lives at run time.
type Storage uint8

const (
	Global Storage = iota
	Local
	Arg
	StructMember
	Builtin
)

func (s Storage) String() string {
	switch s {
	case Global:
		return "global"
	case Local:
		return "local"
	case Arg:
		return "arg"
	case StructMember:
		return "member"
	case Builtin:
		return "builtin"
	default:
		return "unknown"
	}
}

// Symbol is the one representation used for variables, functions,
// external (host) functions, and struct definitions alike. Addr and
// Offset form the addr_or_offset tagged union: Addr holds an absolute
// address for Global storage and, for a Builtin ExtFunc, its index into
// Builtins (a user Func's entry point is tracked by the compiler, not
// stored here); Offset holds a signed byte offset for
// Local/Arg storage and for StructMember fields within their owning
// struct's layout. Which field is meaningful is determined entirely by
// Storage/Class, never stored as an explicit tag.
type Symbol struct {
	Name    string
	Class   Class
	Storage Storage
	Type    SymbolType
	Depth   int
	Line    int

	Addr   int64
	Offset int64

	// Members holds, in declaration order, the parameters of a
	// Func/ExtFunc symbol or the fields of a Struct symbol. Nil for
	// ClassVar.
	Members *MemberList
}

// NewVar constructs a variable symbol.
func NewVar(name string, storage Storage, typ SymbolType, depth, line int) *Symbol {
	return &Symbol{Name: name, Class: ClassVar, Storage: storage, Type: typ, Depth: depth, Line: line}
}

// NewFunc constructs a function symbol (ClassFunc or ClassExtFunc
// depending on isExt) with an empty, ready-to-populate parameter list.
func NewFunc(name string, isExt bool, retType SymbolType, depth, line int) *Symbol {
	class := ClassFunc
	if isExt {
		class = ClassExtFunc
	}
	return &Symbol{
		Name: name, Class: class, Storage: Global, Type: retType,
		Depth: depth, Line: line, Members: NewMemberList(),
	}
}

// NewStruct constructs a struct-definition symbol with an empty,
// ready-to-populate member list.
func NewStruct(name string, depth, line int) *Symbol {
	return &Symbol{
		Name: name, Class: ClassStruct, Storage: Global, Type: Scalar(Void),
		Depth: depth, Line: line, Members: NewMemberList(),
	}
}

// MemberList is an insertion-order-preserving map from name to *Symbol.
// Used for struct fields and function parameters, both of which are
// looked up by name (field access, named diagnostics) and walked in
// declaration order (positional argument checking, struct layout).
type MemberList struct {
	order []string
	byName map[string]*Symbol
}

// NewMemberList returns an empty MemberList.
func NewMemberList() *MemberList {
	return &MemberList{byName: make(map[string]*Symbol)}
}

// Add appends sym to the list. ok is false if a member with the same
// name already exists, in which case the list is unchanged.
func (m *MemberList) Add(sym *Symbol) bool {
	if _, exists := m.byName[sym.Name]; exists {
		return false
	}
	m.order = append(m.order, sym.Name)
	m.byName[sym.Name] = sym
	return true
}

// Get looks up a member by name.
func (m *MemberList) Get(name string) (*Symbol, bool) {
	s, ok := m.byName[name]
	return s, ok
}

// Len reports the number of members.
func (m *MemberList) Len() int { return len(m.order) }

// InOrder returns the members in declaration order. The returned slice
// is owned by the caller and safe to range over while the list is
// otherwise read-only.
func (m *MemberList) InOrder() []*Symbol {
	return lo.Map(m.order, func(name string, _ int) *Symbol {
		return m.byName[name]
	})
}

// Names returns the member names in declaration order.
func (m *MemberList) Names() []string {
	return append([]string(nil), m.order...)
}

// TotalSize sums the byte size of every member, in declaration order.
// Used to compute a struct's total footprint and a function's total
// argument byte count. Field offsets are assigned separately, from a
// running offset kept while the struct body is parsed.
func (m *MemberList) TotalSize() int64 {
	var total int64
	for _, s := range m.InOrder() {
		total += s.Type.Size()
	}
	return total
}
