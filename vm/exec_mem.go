package vm

import "fmt"

// execLoad implements LOAD n: pop an address, push the n bytes at it.
func (i *Instance) execLoad(line int, n int64) error {
	addr, err := i.popInt64(line)
	if err != nil {
		return err
	}
	b, err := i.readBytes(line, addr, n)
	if err != nil {
		return err
	}
	return i.pushBytes(line, b)
}

// execStore implements STORE n: pop n bytes of value, then the
// destination address beneath them, and write the value there.
func (i *Instance) execStore(line int, n int64) error {
	value, err := i.popBytes(line, n)
	if err != nil {
		return err
	}
	addr, err := i.popInt64(line)
	if err != nil {
		return err
	}
	return i.writeBytes(line, addr, value)
}

// execOffset implements OFFSET: pop an int index, then an address
// beneath it, and push their sum.
func (i *Instance) execOffset(line int) error {
	idx, err := i.popInt64(line)
	if err != nil {
		return err
	}
	addr, err := i.popInt64(line)
	if err != nil {
		return err
	}
	return i.pushInt64(line, addr+idx)
}

// execInsert implements INSERT idst nbytes: the top nbytes and the
// idst bytes beneath them trade places, without disturbing anything
// further down the stack. The compiler never emits INSERT; only a
// hand-built program contains it.
func (i *Instance) execInsert(line int, idst, nbytes int64) error {
	total := idst + nbytes
	if i.sp-total < i.globalsSize {
		return &ErrStack{AtLine: line, Msg: fmt.Sprintf("stack underflow in INSERT at sp=%d", i.sp)}
	}
	base := i.sp - total
	tmp := make([]byte, total)
	copy(tmp, i.mem[base:i.sp])
	copy(i.mem[base:base+nbytes], tmp[idst:idst+nbytes])
	copy(i.mem[base+nbytes:i.sp], tmp[0:idst])
	return nil
}

// execEnter implements ENTER n: push the caller's fp, make fp the new
// frame's base, and reserve n bytes of locals above it.
func (i *Instance) execEnter(line int, n int64) error {
	if err := i.pushInt64(line, i.fp); err != nil {
		return err
	}
	i.fp = i.sp
	if i.fp+n > int64(len(i.mem)) {
		return &ErrStack{AtLine: line, Msg: fmt.Sprintf("stack overflow reserving %d bytes of locals at sp=%d", n, i.fp)}
	}
	i.sp = i.fp + n
	return nil
}

// execRet implements RET pop_args ret_bytes: snapshot the ret_bytes
// return value sitting on top of the frame, unwind back to the
// caller's fp and saved return ip, drop the popArgs bytes of arguments
// the caller pushed, and leave the return value on top in their place.
func (i *Instance) execRet(line int, popArgs, retBytes int64) error {
	ret, err := i.popBytes(line, retBytes)
	if err != nil {
		return err
	}
	i.sp = i.fp
	oldFP, err := i.popInt64(line)
	if err != nil {
		return err
	}
	retIP, err := i.popInt64(line)
	if err != nil {
		return err
	}
	if i.sp-popArgs < i.globalsSize {
		return &ErrStack{AtLine: line, Msg: fmt.Sprintf("stack underflow popping %d bytes of arguments at sp=%d", popArgs, i.sp)}
	}
	i.sp -= popArgs
	if err := i.pushBytes(line, ret); err != nil {
		return err
	}
	i.fp = oldFP
	i.ip = int(retIP)
	return nil
}

// execCallExt implements CALLEXT addr: addr is an index into the host
// routine table bound via the Host Option.
func (i *Instance) execCallExt(line int, addr int64) error {
	idx := int(addr)
	if idx < 0 || idx >= len(i.host) || i.host[idx] == nil {
		return &ErrStack{AtLine: line, Msg: fmt.Sprintf("CALLEXT: no host routine bound at index %d", idx)}
	}
	return i.host[idx](i)
}
