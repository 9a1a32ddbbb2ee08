package vm

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/zademn/AtomC-compiler/bytecode"
)

// Run executes instructions starting at the program's head until HALT
// runs or a fatal error occurs. Expected, named failure modes (stack
// over/underflow, an invalid or unbound CALLEXT index) are returned
// directly as *ErrStack/*ErrInvalidOpcode so callers can type-switch on
// them. A host routine's own error is returned as the routine produced
// it. A Go runtime panic (a VM bug, or integer division by zero) is
// recovered and wrapped with the dispatch state at the point of
// failure, the same shape core.go's Run uses in the teacher.
func (i *Instance) Run() (err error) {
	defer func() {
		if e := recover(); e != nil {
			if re, ok := e.(error); ok {
				err = errors.Wrapf(re, "recovered panic at ip=%d/%d sp=%d fp=%d", i.ip, len(i.code), i.sp, i.fp)
				return
			}
			panic(e)
		}
	}()

	i.insCount = 0
	for i.ip < len(i.code) {
		in := i.code[i.ip]
		i.curLine = in.Line
		if i.trace != nil {
			fmt.Fprintf(i.trace, "%04d: %-11s sp=%d fp=%d\n", i.ip, in.Op, i.sp, i.fp)
		}
		jumped, err := i.step(in)
		if err != nil {
			return err
		}
		if !jumped {
			i.ip++
		}
		i.insCount++
	}
	return nil
}

// step dispatches one instruction. jumped reports whether it already
// set i.ip to its intended next value (a taken jump, CALL, or RET);
// Run advances i.ip itself otherwise.
func (i *Instance) step(in *bytecode.Instruction) (jumped bool, err error) {
	line := in.Line
	switch in.Op {
	case bytecode.OpNop:
		// no-op

	case bytecode.OpPushCtA, bytecode.OpPushCtI:
		err = i.pushInt64(line, in.Arg1.Int)
	case bytecode.OpPushCtD:
		err = i.pushFloat64(line, in.Arg1.Double)
	case bytecode.OpPushCtC:
		err = i.pushByte(line, byte(in.Arg1.Int))
	case bytecode.OpPushFPAddr:
		err = i.pushInt64(line, i.fp+in.Arg1.Int)

	case bytecode.OpLoad:
		err = i.execLoad(line, in.Arg1.Int)
	case bytecode.OpStore:
		err = i.execStore(line, in.Arg1.Int)
	case bytecode.OpOffset:
		err = i.execOffset(line)
	case bytecode.OpDrop:
		_, err = i.popBytes(line, in.Arg1.Int)
	case bytecode.OpInsert:
		err = i.execInsert(line, in.Arg1.Int, in.Arg2.Int)

	case bytecode.OpAddC, bytecode.OpSubC, bytecode.OpMulC, bytecode.OpDivC, bytecode.OpNegC:
		err = i.execArithC(line, in.Op)
	case bytecode.OpAddI, bytecode.OpSubI, bytecode.OpMulI, bytecode.OpDivI, bytecode.OpNegI:
		err = i.execArithI(line, in.Op)
	case bytecode.OpAddD, bytecode.OpSubD, bytecode.OpMulD, bytecode.OpDivD, bytecode.OpNegD:
		err = i.execArithD(line, in.Op)

	case bytecode.OpLessC, bytecode.OpLessEqC, bytecode.OpGreaterC, bytecode.OpGreaterEqC:
		err = i.execRelC(line, in.Op)
	case bytecode.OpLessI, bytecode.OpLessEqI, bytecode.OpGreaterI, bytecode.OpGreaterEqI:
		err = i.execRelI(line, in.Op)
	case bytecode.OpLessD, bytecode.OpLessEqD, bytecode.OpGreaterD, bytecode.OpGreaterEqD:
		err = i.execRelD(line, in.Op)

	case bytecode.OpEqA, bytecode.OpNotEqA, bytecode.OpAndA, bytecode.OpOrA:
		err = i.execWideInt64(line, in.Op)
	case bytecode.OpEqI, bytecode.OpNotEqI, bytecode.OpAndI, bytecode.OpOrI:
		err = i.execWideInt64(line, in.Op)
	case bytecode.OpEqC, bytecode.OpNotEqC, bytecode.OpAndC, bytecode.OpOrC:
		err = i.execWideByte(line, in.Op)
	case bytecode.OpEqD, bytecode.OpNotEqD, bytecode.OpAndD, bytecode.OpOrD:
		err = i.execWideFloat64(line, in.Op)
	case bytecode.OpNotA, bytecode.OpNotI:
		err = i.execNotInt64(line)
	case bytecode.OpNotC:
		err = i.execNotByte(line)
	case bytecode.OpNotD:
		err = i.execNotFloat64(line)

	case bytecode.OpCastCI, bytecode.OpCastCD:
		err = i.execCastFromChar(line, in.Op)
	case bytecode.OpCastIC, bytecode.OpCastID:
		err = i.execCastFromInt(line, in.Op)
	case bytecode.OpCastDC, bytecode.OpCastDI:
		err = i.execCastFromDouble(line, in.Op)

	case bytecode.OpJmp:
		i.ip = i.jumpTarget[i.ip]
		jumped = true
	case bytecode.OpJtA, bytecode.OpJfA, bytecode.OpJtI, bytecode.OpJfI:
		jumped, err = i.execJumpInt64(line, in)
	case bytecode.OpJtC, bytecode.OpJfC:
		jumped, err = i.execJumpByte(line, in)
	case bytecode.OpJtD, bytecode.OpJfD:
		jumped, err = i.execJumpFloat64(line, in)

	case bytecode.OpEnter:
		err = i.execEnter(line, in.Arg1.Int)
	case bytecode.OpRet:
		jumped, err = true, i.execRet(line, in.Arg1.Int, in.Arg2.Int)
	case bytecode.OpCall:
		err = i.pushInt64(line, int64(i.ip+1))
		if err == nil {
			i.ip = i.jumpTarget[i.ip]
			jumped = true
		}
	case bytecode.OpCallExt:
		err = i.execCallExt(line, in.Arg1.Int)

	case bytecode.OpHalt:
		i.ip = len(i.code)
		jumped = true

	default:
		err = &ErrInvalidOpcode{AtLine: line, Op: in.Op}
	}
	return jumped, err
}
