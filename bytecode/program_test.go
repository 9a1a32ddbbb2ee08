package bytecode_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zademn/AtomC-compiler/bytecode"
)

func TestProgram_emitAppends(t *testing.T) {
	p := bytecode.NewProgram()
	a := p.Emit(bytecode.OpPushCtI, bytecode.Int64(3))
	b := p.Emit(bytecode.OpPushCtI, bytecode.Int64(4))
	c := p.Emit(bytecode.OpAddI)

	require.Equal(t, 3, p.Len())
	assert.Equal(t, a, p.Head())
	assert.Equal(t, c, p.Tail())
	assert.Equal(t, b, a.Next)
	assert.Equal(t, a, b.Prev)
	assert.Nil(t, c.Next)
}

func TestProgram_insertAfterSplicesMidList(t *testing.T) {
	p := bytecode.NewProgram()
	cond := p.Emit(bytecode.OpPushCtI, bytecode.Int64(1))
	jf := p.Emit(bytecode.OpJfI)
	rhs := p.Emit(bytecode.OpPushCtI, bytecode.Int64(0))
	jf.Arg1 = bytecode.To(rhs)

	// splice an instruction right after cond, after later instructions
	// already exist, the way the compiler splices a binary operator's
	// left-operand cast in once the right operand's code is emitted.
	ins := p.InsertAfter(cond, bytecode.OpInsert)

	require.Equal(t, 4, p.Len())
	assert.Equal(t, ins, cond.Next)
	assert.Equal(t, jf, ins.Next)
	assert.Equal(t, ins, jf.Prev)

	got := p.Instructions()
	require.Len(t, got, 4)
	assert.Same(t, cond, got[0])
	assert.Same(t, ins, got[1])
	assert.Same(t, jf, got[2])
	assert.Same(t, rhs, got[3])
}

func TestProgram_insertAfterAtTail(t *testing.T) {
	p := bytecode.NewProgram()
	a := p.Emit(bytecode.OpNop)
	b := p.InsertAfter(a, bytecode.OpHalt)
	assert.Equal(t, b, p.Tail())
}

func TestProgram_disassembleResolvesTargets(t *testing.T) {
	p := bytecode.NewProgram()
	top := p.Emit(bytecode.OpPushCtI, bytecode.Int64(0))
	jmp := p.Emit(bytecode.OpJmp)
	end := p.Emit(bytecode.OpHalt)
	jmp.Arg1 = bytecode.To(top)
	jmp.Arg2 = bytecode.To(end)

	var buf bytes.Buffer
	p.Disassemble(&buf)
	out := buf.String()
	assert.Contains(t, out, "PUSHCTI")
	assert.Contains(t, out, "JMP")
	assert.Contains(t, out, "->0")
	assert.Contains(t, out, "->2")
}

func TestOpSelectors(t *testing.T) {
	assert.Equal(t, bytecode.OpAddI, bytecode.AddOp(bytecode.BaseInt))
	assert.Equal(t, bytecode.OpAddD, bytecode.AddOp(bytecode.BaseDouble))
	assert.Equal(t, bytecode.OpAddC, bytecode.AddOp(bytecode.BaseChar))
	assert.Equal(t, bytecode.OpLessEqD, bytecode.LessEqOp(bytecode.BaseDouble))
	assert.Equal(t, bytecode.OpGreaterI, bytecode.GreaterOp(bytecode.BaseInt))
}

func TestOp_stringIsStable(t *testing.T) {
	assert.Equal(t, "ADDI", bytecode.OpAddI.String())
	assert.Equal(t, "CALLEXT", bytecode.OpCallExt.String())
	assert.Equal(t, "HALT", bytecode.OpHalt.String())
}
