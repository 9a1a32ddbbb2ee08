// Package host implements the nine built-in routines every AtomC program
// may call without declaring them: put_s, get_s, put_i, get_i, put_d,
// get_d, put_c, get_c, and seconds. It has no knowledge of the compiler
// or the VM's instruction set beyond vm.HostFunc's calling convention —
// it only knows how to read CALLEXT's arguments off an *vm.Instance and
// push a result back.
package host

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/zademn/AtomC-compiler/types"
	"github.com/zademn/AtomC-compiler/vm"
)

// New returns the host routine table a CALLEXT instruction's operand
// indexes into, ordered identically to types.Builtins (the order
// types.RegisterBuiltins assigned each name's index in) rather than the
// declaration order below, so the two can't drift silently out of sync.
// get_c/get_s/get_i/get_d read from r through one shared *bufio.Reader —
// constructed once here, not per call, so a get_i that only consumes
// part of a line leaves the rest buffered for the next read, the same
// way reading stdin token-by-token normally works. put_c/put_s/put_i/
// put_d write to w directly.
func New(r io.Reader, w io.Writer) []vm.HostFunc {
	in := bufio.NewReader(r)
	fns := make([]vm.HostFunc, len(types.Builtins))
	fns[indexOf("put_s")] = putS(w)
	fns[indexOf("get_s")] = getS(in)
	fns[indexOf("put_i")] = putI(w)
	fns[indexOf("get_i")] = getI(in)
	fns[indexOf("put_d")] = putD(w)
	fns[indexOf("get_d")] = getD(in)
	fns[indexOf("put_c")] = putC(w)
	fns[indexOf("get_c")] = getC(in)
	fns[indexOf("seconds")] = seconds
	return fns
}

func indexOf(name string) int {
	for i, b := range types.Builtins {
		if b.Name == name {
			return i
		}
	}
	panic("host: " + name + " is not a registered builtin")
}

func putS(w io.Writer) vm.HostFunc {
	return func(i *vm.Instance) error {
		addr, err := i.PopAddr()
		if err != nil {
			return err
		}
		s, err := i.ReadCString(addr)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s)
		return err
	}
}

func getS(in *bufio.Reader) vm.HostFunc {
	return func(i *vm.Instance) error {
		addr, err := i.PopAddr()
		if err != nil {
			return err
		}
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return errors.Wrap(err, "get_s")
		}
		return i.WriteCString(addr, strings.TrimRight(line, "\r\n"))
	}
}

func putI(w io.Writer) vm.HostFunc {
	return func(i *vm.Instance) error {
		v, err := i.PopInt()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%d", v)
		return err
	}
}

func getI(in *bufio.Reader) vm.HostFunc {
	return func(i *vm.Instance) error {
		var v int64
		if _, err := fmt.Fscan(in, &v); err != nil {
			return errors.Wrap(err, "get_i")
		}
		return i.PushInt(v)
	}
}

func putD(w io.Writer) vm.HostFunc {
	return func(i *vm.Instance) error {
		v, err := i.PopDouble()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%g", v)
		return err
	}
}

func getD(in *bufio.Reader) vm.HostFunc {
	return func(i *vm.Instance) error {
		var v float64
		if _, err := fmt.Fscan(in, &v); err != nil {
			return errors.Wrap(err, "get_d")
		}
		return i.PushDouble(v)
	}
}

func putC(w io.Writer) vm.HostFunc {
	return func(i *vm.Instance) error {
		c, err := i.PopChar()
		if err != nil {
			return err
		}
		_, err = w.Write([]byte{c})
		return err
	}
}

func getC(in *bufio.Reader) vm.HostFunc {
	return func(i *vm.Instance) error {
		b, err := in.ReadByte()
		if err != nil {
			return errors.Wrap(err, "get_c")
		}
		return i.PushChar(b)
	}
}

// seconds returns the current Unix time, fractional, matching the
// original implementation's use of it as a coarse wall-clock source for
// timing loops rather than a monotonic one.
func seconds(i *vm.Instance) error {
	return i.PushDouble(float64(time.Now().UnixNano()) / 1e9)
}
