package vm

import (
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/zademn/AtomC-compiler/bytecode"
)

const (
	defaultGlobalsSize = 32 * 1024
	defaultStackSize   = 32 * 1024
)

// Option configures an Instance at construction time.
type Option func(*Instance) error

// GlobalsSize overrides the default 32 KiB globals area.
func GlobalsSize(n int64) Option {
	return func(i *Instance) error { i.globalsSize = n; return nil }
}

// StackSize overrides the default 32 KiB runtime stack.
func StackSize(n int64) Option {
	return func(i *Instance) error { i.stackSize = n; return nil }
}

// Host binds the host-routine table a CALLEXT instruction's operand
// indexes into, in the same order as types.Builtins. Every built-in an
// AtomC program calls must have a corresponding non-nil entry.
func Host(fns []HostFunc) Option {
	return func(i *Instance) error { i.host = fns; return nil }
}

// Input sets the reader Instance.Input returns. The host package's
// get_c/get_s/get_i/get_d read from the reader given to host.New instead.
func Input(r io.Reader) Option {
	return func(i *Instance) error { i.input = r; return nil }
}

// Output sets the writer Instance.Output returns. The host package's
// put_c/put_s/put_i/put_d write to the writer given to host.New instead.
func Output(w io.Writer) Option {
	return func(i *Instance) error { i.output = w; return nil }
}

// Trace enables per-instruction tracing to w: one line per dispatched
// instruction, written before it executes.
func Trace(w io.Writer) Option {
	return func(i *Instance) error { i.trace = w; return nil }
}

// Instance is one executing AtomC program.
type Instance struct {
	mem         []byte
	globalsSize int64
	stackSize   int64

	sp, fp  int64
	ip      int
	curLine int // source line of the instruction currently dispatching, for host-routine errors

	code       []*bytecode.Instruction
	jumpTarget []int // jumpTarget[k] is code[k]'s resolved Arg1.Target index, or -1

	host   []HostFunc
	input  io.Reader
	output io.Writer
	trace  io.Writer

	insCount int64
}

// New flattens prog's instruction list, preloads the globals area from
// prog.Data, and returns a ready-to-run Instance. Execution always
// starts at prog's head (index 0 of the flattened list) — see
// compiler.parser.link and DESIGN.md's "program's entry point" note.
func New(prog *bytecode.Program, opts ...Option) (*Instance, error) {
	i := &Instance{globalsSize: defaultGlobalsSize, stackSize: defaultStackSize}
	for _, opt := range opts {
		if err := opt(i); err != nil {
			return nil, err
		}
	}
	if i.input == nil {
		i.input = strings.NewReader("")
	}
	if i.output == nil {
		i.output = io.Discard
	}

	i.mem = make([]byte, i.globalsSize+i.stackSize)
	for _, d := range prog.Data {
		if d.Addr < 0 || d.Addr+int64(len(d.Bytes)) > i.globalsSize {
			return nil, errors.Errorf("vm: data entry at address %d (%d bytes) overflows the %d-byte globals area", d.Addr, len(d.Bytes), i.globalsSize)
		}
		copy(i.mem[d.Addr:], d.Bytes)
	}

	i.code, i.jumpTarget = flatten(prog)
	i.sp, i.fp = i.globalsSize, i.globalsSize
	return i, nil
}

// flatten walks prog once, head to tail, and resolves every
// target-bearing instruction's Arg1.Target pointer to a plain index
// into the returned slice, so Run need never chase a live
// *bytecode.Instruction pointer during dispatch.
func flatten(prog *bytecode.Program) ([]*bytecode.Instruction, []int) {
	code := prog.Instructions()
	index := make(map[*bytecode.Instruction]int, len(code))
	for k, in := range code {
		index[in] = k
	}
	target := make([]int, len(code))
	for k, in := range code {
		if in.Arg1.Kind == bytecode.ArgTarget && in.Arg1.Target != nil {
			target[k] = index[in.Arg1.Target]
		} else {
			target[k] = -1
		}
	}
	return code, target
}

// SP, FP, and IP expose the current register values, mainly for tests
// and trace output.
func (i *Instance) SP() int64 { return i.sp }
func (i *Instance) FP() int64 { return i.fp }
func (i *Instance) IP() int   { return i.ip }

// InstructionCount reports how many instructions Run has dispatched.
func (i *Instance) InstructionCount() int64 { return i.insCount }
