package vm

import (
	"bytes"
	"io"
)

// HostFunc is one host routine's implementation: it reads its own
// arguments off i's stack and, if its AtomC signature is non-void,
// pushes exactly one result. The host package binds a HostFunc slice indexed
// the same way as types.Builtins and passes it in via the Host Option.
type HostFunc func(i *Instance) error

// PopInt, PopDouble, PopChar, and PopAddr pop one argument of the named
// width off the stack, in the order a HostFunc should read them: AtomC
// pushes arguments left to right, so the last-declared parameter is
// popped first.
func (i *Instance) PopInt() (int64, error)      { return i.popInt64(i.curLine) }
func (i *Instance) PopDouble() (float64, error) { return i.popFloat64(i.curLine) }
func (i *Instance) PopChar() (byte, error)      { return i.popByte(i.curLine) }
func (i *Instance) PopAddr() (int64, error)     { return i.popInt64(i.curLine) }

// PushInt, PushDouble, PushChar, and PushAddr push a HostFunc's return
// value. A void-returning routine pushes nothing.
func (i *Instance) PushInt(v int64) error      { return i.pushInt64(i.curLine, v) }
func (i *Instance) PushDouble(v float64) error { return i.pushFloat64(i.curLine, v) }
func (i *Instance) PushChar(v byte) error      { return i.pushByte(i.curLine, v) }
func (i *Instance) PushAddr(v int64) error     { return i.pushInt64(i.curLine, v) }

// ReadCString reads a NUL-terminated byte string starting at addr, the
// address a char[] argument decays to (put_s's parameter). The NUL is
// not included in the result.
func (i *Instance) ReadCString(addr int64) (string, error) {
	var buf bytes.Buffer
	for {
		b, err := i.readBytes(i.curLine, addr, 1)
		if err != nil {
			return "", err
		}
		if b[0] == 0 {
			return buf.String(), nil
		}
		buf.WriteByte(b[0])
		addr++
	}
}

// WriteCString writes s followed by a terminating NUL byte starting at
// addr, the address get_s's destination-buffer argument decays to.
func (i *Instance) WriteCString(addr int64, s string) error {
	b := append([]byte(s), 0)
	return i.writeBytes(i.curLine, addr, b)
}

// Input and Output expose the streams configured by the Input and
// Output Options to a HostFunc. The host package's built-ins do not use
// them; they read and write the streams passed to host.New.
func (i *Instance) Input() io.Reader  { return i.input }
func (i *Instance) Output() io.Writer { return i.output }
