package vm

import "fmt"

// checkAddr reports an ErrStack if [addr, addr+n) falls outside the
// combined globals+stack region. Every LOAD/STORE/OFFSET-adjacent
// memory access goes through this, regardless of which region addr
// happens to land in — see DESIGN.md's "VM address representation"
// note.
func (i *Instance) checkAddr(line int, addr, n int64) error {
	if addr < 0 || n < 0 || addr+n > int64(len(i.mem)) {
		return &ErrStack{AtLine: line, Msg: fmt.Sprintf("address %d (%d bytes) out of bounds (memory size %d)", addr, n, len(i.mem))}
	}
	return nil
}

// readBytes returns a copy of the n bytes at addr.
func (i *Instance) readBytes(line int, addr, n int64) ([]byte, error) {
	if err := i.checkAddr(line, addr, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, i.mem[addr:addr+n])
	return out, nil
}

// writeBytes copies b into memory starting at addr.
func (i *Instance) writeBytes(line int, addr int64, b []byte) error {
	if err := i.checkAddr(line, addr, int64(len(b))); err != nil {
		return err
	}
	copy(i.mem[addr:], b)
	return nil
}

