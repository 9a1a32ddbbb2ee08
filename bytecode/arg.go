package bytecode

// ArgKind tags which field of Arg is meaningful.
type ArgKind uint8

const (
	ArgNone ArgKind = iota
	ArgInt          // a signed integer constant or byte count
	ArgDouble       // a double constant
	ArgTarget       // a jump/call target, resolved to another *Instruction
)

// Arg is an Instruction operand: a scalar constant, or (for jumps and
// calls) a reference to another instruction in the same Program. Using a
// pointer rather than a numeric label lets Program.InsertAfter splice
// instructions without renumbering anything.
type Arg struct {
	Kind   ArgKind
	Int    int64
	Double float64
	Target *Instruction
}

// Int64 returns an ArgInt operand.
func Int64(v int64) Arg { return Arg{Kind: ArgInt, Int: v} }

// Float64 returns an ArgDouble operand.
func Float64(v float64) Arg { return Arg{Kind: ArgDouble, Double: v} }

// To returns an ArgTarget operand pointing at target.
func To(target *Instruction) Arg { return Arg{Kind: ArgTarget, Target: target} }
