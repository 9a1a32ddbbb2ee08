package bytecode

// Instruction is one node of the doubly-linked instruction list that
// backs a Program. Two links (rather than a single append-only slice)
// are required because a binary operator's left-operand cast is only
// known to be needed once its right operand has also been type-checked,
// so it is spliced in after the fact (see Program.InsertAfter) rather
// than emitted in its final position to begin with.
type Instruction struct {
	Op   Op
	Arg1 Arg
	Arg2 Arg

	// Line is the source line the compiler was processing when this
	// instruction was emitted, or 0 for instructions with no single
	// originating line (the bootstrap CALL/HALT pair compiler.link
	// assembles after parsing finishes). The vm package reports it on a
	// runtime error, the same way the compiler reports it on a
	// compile-time one.
	Line int

	Prev, Next *Instruction
}

// DataEntry preloads the VM's globals area with constant bytes at a
// fixed address: a global variable's initial zero value needs no entry,
// but a string literal's characters must exist before the program's
// first instruction runs, since nothing in the instruction stream
// writes them.
type DataEntry struct {
	Addr  int64
	Bytes []byte
}

// Program is the append-and-splice instruction list the compiler emits
// into and the vm package walks. The zero value is not usable; use
// NewProgram.
type Program struct {
	head, tail *Instruction
	len        int

	Data []DataEntry
}

// NewProgram returns an empty Program.
func NewProgram() *Program { return &Program{} }

// AddData records addr as preloaded with bytes, for a string literal's
// backing storage.
func (p *Program) AddData(addr int64, bytes []byte) {
	p.Data = append(p.Data, DataEntry{Addr: addr, Bytes: bytes})
}

// Len reports the number of instructions currently in the program.
func (p *Program) Len() int { return p.len }

// Head returns the first instruction, or nil if the program is empty.
func (p *Program) Head() *Instruction { return p.head }

// Tail returns the last instruction, or nil if the program is empty.
func (p *Program) Tail() *Instruction { return p.tail }

// Emit appends a new instruction at the end of the program and returns
// it, so callers can later patch a jump's Arg1 to point at it (for
// forward jumps, by holding the returned pointer; for backward jumps,
// by emitting the jump after the target is already known).
func (p *Program) Emit(op Op, args ...Arg) *Instruction {
	in := &Instruction{Op: op}
	switch len(args) {
	case 0:
	case 1:
		in.Arg1 = args[0]
	case 2:
		in.Arg1, in.Arg2 = args[0], args[1]
	default:
		panic("bytecode: Emit accepts at most two args")
	}
	if p.tail == nil {
		p.head, p.tail = in, in
	} else {
		in.Prev = p.tail
		p.tail.Next = in
		p.tail = in
	}
	p.len++
	return in
}

// InsertAfter splices a new instruction immediately after after and
// returns it. Used to splice a binary operator's left-operand cast in
// after the fact, once the right-hand operand has already been emitted
// and the pair's common arithmetic type is known.
func (p *Program) InsertAfter(after *Instruction, op Op, args ...Arg) *Instruction {
	in := &Instruction{Op: op}
	switch len(args) {
	case 0:
	case 1:
		in.Arg1 = args[0]
	case 2:
		in.Arg1, in.Arg2 = args[0], args[1]
	default:
		panic("bytecode: InsertAfter accepts at most two args")
	}
	in.Prev = after
	in.Next = after.Next
	if after.Next != nil {
		after.Next.Prev = in
	} else {
		p.tail = in
	}
	after.Next = in
	p.len++
	return in
}

// Append relinks other's instructions onto the end of p and empties
// other. Used for a for-loop's increment clause, which is parsed in its
// syntactic position (right after the second ';') into a scratch
// Program and only appended to the real one once the loop body's own
// code has been emitted, since the increment must run after the body.
func (p *Program) Append(other *Program) {
	p.Data = append(p.Data, other.Data...)
	other.Data = nil
	if other.head == nil {
		return
	}
	if p.tail == nil {
		p.head = other.head
	} else {
		p.tail.Next = other.head
		other.head.Prev = p.tail
	}
	p.tail = other.tail
	p.len += other.len
	other.head, other.tail, other.len = nil, nil, 0
}

// Instructions returns every instruction in order, head to tail. The
// returned slice is a snapshot; mutating it does not affect the
// program's internal links.
func (p *Program) Instructions() []*Instruction {
	out := make([]*Instruction, 0, p.len)
	for in := p.head; in != nil; in = in.Next {
		out = append(out, in)
	}
	return out
}
