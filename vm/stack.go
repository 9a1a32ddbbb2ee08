package vm

import (
	"encoding/binary"
	"fmt"
	"math"
)

// pushBytes appends b to the top of the stack.
func (i *Instance) pushBytes(line int, b []byte) error {
	n := int64(len(b))
	if i.sp+n > int64(len(i.mem)) {
		return &ErrStack{AtLine: line, Msg: fmt.Sprintf("stack overflow pushing %d bytes at sp=%d", n, i.sp)}
	}
	copy(i.mem[i.sp:], b)
	i.sp += n
	return nil
}

// popBytes removes and returns a copy of the top n bytes of the stack.
// Never pops past the floor of the stack region (globalsSize): doing so
// is always a StackError, even for a syntactically valid RET whose
// frame bookkeeping has been corrupted by a bug elsewhere in the VM.
func (i *Instance) popBytes(line int, n int64) ([]byte, error) {
	if i.sp-n < i.globalsSize {
		return nil, &ErrStack{AtLine: line, Msg: fmt.Sprintf("stack underflow popping %d bytes at sp=%d", n, i.sp)}
	}
	out := make([]byte, n)
	copy(out, i.mem[i.sp-n:i.sp])
	i.sp -= n
	return out, nil
}

func (i *Instance) pushInt64(line int, v int64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	return i.pushBytes(line, b[:])
}

func (i *Instance) popInt64(line int) (int64, error) {
	b, err := i.popBytes(line, 8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (i *Instance) pushFloat64(line int, v float64) error {
	return i.pushInt64(line, int64(math.Float64bits(v)))
}

func (i *Instance) popFloat64(line int) (float64, error) {
	v, err := i.popInt64(line)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(v)), nil
}

func (i *Instance) pushByte(line int, v byte) error {
	return i.pushBytes(line, []byte{v})
}

func (i *Instance) popByte(line int) (byte, error) {
	b, err := i.popBytes(line, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// truthy reports whether an 8-byte scalar or address value counts as
// true for JT/JF and the logical operators: nonzero for any numeric
// width, non-null for an address.
func truthyInt64(v int64) bool { return v != 0 }
func truthyByte(v byte) bool   { return v != 0 }
func truthyFloat64(v float64) bool { return v != 0 }
