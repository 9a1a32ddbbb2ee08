package vm_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zademn/AtomC-compiler/bytecode"
	"github.com/zademn/AtomC-compiler/vm"
)

// arithmeticProgram computes 2+3 and halts, leaving the sum on top of
// the stack.
func arithmeticProgram() *bytecode.Program {
	p := bytecode.NewProgram()
	p.Emit(bytecode.OpPushCtI, bytecode.Int64(2))
	p.Emit(bytecode.OpPushCtI, bytecode.Int64(3))
	p.Emit(bytecode.OpAddI)
	p.Emit(bytecode.OpHalt)
	return p
}

func TestRun_Arithmetic(t *testing.T) {
	i, err := vm.New(arithmeticProgram())
	require.NoError(t, err)
	require.NoError(t, i.Run())

	v, err := i.PopInt()
	require.NoError(t, err)
	require.Equal(t, int64(5), v)
	require.Equal(t, int64(4), i.InstructionCount())
}

// callReturnProgram builds: push 10, call addOne(n) = n+1, halt. addOne
// reads its single int argument at fp-24 (the compiler's own convention
// for the last, and here only, 8-byte parameter — see decl.go's
// backwards-from-fp-16 offset walk) and returns n+1 in an 8-byte result.
func callReturnProgram() *bytecode.Program {
	p := bytecode.NewProgram()
	p.Emit(bytecode.OpPushCtI, bytecode.Int64(10))
	call := p.Emit(bytecode.OpCall, bytecode.Arg{})
	p.Emit(bytecode.OpHalt)

	enter := p.Emit(bytecode.OpEnter, bytecode.Int64(0))
	p.Emit(bytecode.OpPushFPAddr, bytecode.Int64(-24))
	p.Emit(bytecode.OpLoad, bytecode.Int64(8))
	p.Emit(bytecode.OpPushCtI, bytecode.Int64(1))
	p.Emit(bytecode.OpAddI)
	p.Emit(bytecode.OpRet, bytecode.Int64(8), bytecode.Int64(8))

	call.Arg1 = bytecode.To(enter)
	return p
}

func TestRun_CallAndReturn(t *testing.T) {
	i, err := vm.New(callReturnProgram())
	require.NoError(t, err)
	require.NoError(t, i.Run())

	v, err := i.PopInt()
	require.NoError(t, err)
	require.Equal(t, int64(11), v)
	require.Equal(t, i.FP(), i.SP()) // frame fully unwound: fp restored to the caller's, return value already popped
}

// globalStoreLoadProgram round-trips a value through the globals area at
// address 0 via STORE then LOAD.
func globalStoreLoadProgram() *bytecode.Program {
	p := bytecode.NewProgram()
	p.Emit(bytecode.OpPushCtA, bytecode.Int64(0))
	p.Emit(bytecode.OpPushCtI, bytecode.Int64(99))
	p.Emit(bytecode.OpStore, bytecode.Int64(8))
	p.Emit(bytecode.OpPushCtA, bytecode.Int64(0))
	p.Emit(bytecode.OpLoad, bytecode.Int64(8))
	p.Emit(bytecode.OpHalt)
	return p
}

func TestRun_GlobalStoreLoad(t *testing.T) {
	i, err := vm.New(globalStoreLoadProgram())
	require.NoError(t, err)
	require.NoError(t, i.Run())

	v, err := i.PopInt()
	require.NoError(t, err)
	require.Equal(t, int64(99), v)
}

// arrayOffsetProgram writes 7 into the second element of a 3-int array
// at address 0 (byte offset 8) and reads it back through OFFSET, the
// same address+index construction exprPostfix emits for a[1].
func arrayOffsetProgram() *bytecode.Program {
	p := bytecode.NewProgram()
	p.Emit(bytecode.OpPushCtA, bytecode.Int64(0))
	p.Emit(bytecode.OpPushCtI, bytecode.Int64(8))
	p.Emit(bytecode.OpOffset)
	p.Emit(bytecode.OpPushCtI, bytecode.Int64(7))
	p.Emit(bytecode.OpStore, bytecode.Int64(8))
	p.Emit(bytecode.OpPushCtA, bytecode.Int64(0))
	p.Emit(bytecode.OpPushCtI, bytecode.Int64(8))
	p.Emit(bytecode.OpOffset)
	p.Emit(bytecode.OpLoad, bytecode.Int64(8))
	p.Emit(bytecode.OpHalt)
	return p
}

func TestRun_ArrayOffset(t *testing.T) {
	i, err := vm.New(arrayOffsetProgram())
	require.NoError(t, err)
	require.NoError(t, i.Run())

	v, err := i.PopInt()
	require.NoError(t, err)
	require.Equal(t, int64(7), v)
}

func TestRun_StackUnderflow(t *testing.T) {
	p := bytecode.NewProgram()
	p.Emit(bytecode.OpAddI)
	p.Emit(bytecode.OpHalt)

	i, err := vm.New(p)
	require.NoError(t, err)

	err = i.Run()
	require.Error(t, err)
	var stackErr *vm.ErrStack
	require.True(t, errors.As(err, &stackErr))
}

func TestRun_StackOverflow(t *testing.T) {
	p := bytecode.NewProgram()
	for n := 0; n < 10; n++ {
		p.Emit(bytecode.OpPushCtI, bytecode.Int64(int64(n)))
	}
	p.Emit(bytecode.OpHalt)

	i, err := vm.New(p, vm.StackSize(16))
	require.NoError(t, err)

	err = i.Run()
	require.Error(t, err)
	var stackErr *vm.ErrStack
	require.True(t, errors.As(err, &stackErr))
}

func TestRun_InvalidOpcode(t *testing.T) {
	p := bytecode.NewProgram()
	p.Emit(bytecode.Op(250))

	i, err := vm.New(p)
	require.NoError(t, err)

	err = i.Run()
	require.Error(t, err)
	var opErr *vm.ErrInvalidOpcode
	require.True(t, errors.As(err, &opErr))
}

func TestRun_CallExtHost(t *testing.T) {
	var captured int64 = -1
	host := []vm.HostFunc{
		func(i *vm.Instance) error {
			v, err := i.PopInt()
			if err != nil {
				return err
			}
			captured = v
			return nil
		},
	}

	p := bytecode.NewProgram()
	p.Emit(bytecode.OpPushCtI, bytecode.Int64(123))
	p.Emit(bytecode.OpCallExt, bytecode.Int64(0))
	p.Emit(bytecode.OpHalt)

	i, err := vm.New(p, vm.Host(host))
	require.NoError(t, err)
	require.NoError(t, i.Run())
	require.Equal(t, int64(123), captured)
}

func TestRun_CallExtUnboundIndex(t *testing.T) {
	p := bytecode.NewProgram()
	p.Emit(bytecode.OpCallExt, bytecode.Int64(0))
	p.Emit(bytecode.OpHalt)

	i, err := vm.New(p)
	require.NoError(t, err)

	err = i.Run()
	require.Error(t, err)
	var stackErr *vm.ErrStack
	require.True(t, errors.As(err, &stackErr))
}

func TestRun_ConditionalJump(t *testing.T) {
	// PUSHCTI 0; JFI skip; PUSHCTI 11; JMP done; skip: PUSHCTI 22; done: HALT
	p := bytecode.NewProgram()
	p.Emit(bytecode.OpPushCtI, bytecode.Int64(0))
	jf := p.Emit(bytecode.OpJfI, bytecode.Arg{})
	p.Emit(bytecode.OpPushCtI, bytecode.Int64(11))
	jmp := p.Emit(bytecode.OpJmp, bytecode.Arg{})
	skip := p.Emit(bytecode.OpPushCtI, bytecode.Int64(22))
	done := p.Emit(bytecode.OpHalt)

	jf.Arg1 = bytecode.To(skip)
	jmp.Arg1 = bytecode.To(done)

	i, err := vm.New(p)
	require.NoError(t, err)
	require.NoError(t, i.Run())

	v, err := i.PopInt()
	require.NoError(t, err)
	require.Equal(t, int64(22), v)
}

func TestRun_Trace(t *testing.T) {
	var buf bytes.Buffer
	i, err := vm.New(arithmeticProgram(), vm.Trace(&buf))
	require.NoError(t, err)
	require.NoError(t, i.Run())
	require.NotEmpty(t, buf.String())
}

func TestRun_CastAndFloatArithmetic(t *testing.T) {
	p := bytecode.NewProgram()
	p.Emit(bytecode.OpPushCtI, bytecode.Int64(2))
	p.Emit(bytecode.OpCastID)
	p.Emit(bytecode.OpPushCtD, bytecode.Float64(0.5))
	p.Emit(bytecode.OpAddD)
	p.Emit(bytecode.OpHalt)

	i, err := vm.New(p)
	require.NoError(t, err)
	require.NoError(t, i.Run())

	v, err := i.PopDouble()
	require.NoError(t, err)
	require.Equal(t, 2.5, v)
}
