package vm

import "github.com/zademn/AtomC-compiler/bytecode"

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// execArithC implements the char-width arithmetic family. NEG is unary;
// the rest pop rhs then lhs, matching operand push order. Division by
// zero is left to panic naturally (Go's int8 division does this on its
// own) and surfaces through Run's recover, same as the teacher's core.go.
func (i *Instance) execArithC(line int, op bytecode.Op) error {
	if op == bytecode.OpNegC {
		v, err := i.popByte(line)
		if err != nil {
			return err
		}
		return i.pushByte(line, byte(-int8(v)))
	}
	rhs, err := i.popByte(line)
	if err != nil {
		return err
	}
	lhs, err := i.popByte(line)
	if err != nil {
		return err
	}
	var res int8
	switch op {
	case bytecode.OpAddC:
		res = int8(lhs) + int8(rhs)
	case bytecode.OpSubC:
		res = int8(lhs) - int8(rhs)
	case bytecode.OpMulC:
		res = int8(lhs) * int8(rhs)
	case bytecode.OpDivC:
		res = int8(lhs) / int8(rhs)
	}
	return i.pushByte(line, byte(res))
}

func (i *Instance) execArithI(line int, op bytecode.Op) error {
	if op == bytecode.OpNegI {
		v, err := i.popInt64(line)
		if err != nil {
			return err
		}
		return i.pushInt64(line, -v)
	}
	rhs, err := i.popInt64(line)
	if err != nil {
		return err
	}
	lhs, err := i.popInt64(line)
	if err != nil {
		return err
	}
	var res int64
	switch op {
	case bytecode.OpAddI:
		res = lhs + rhs
	case bytecode.OpSubI:
		res = lhs - rhs
	case bytecode.OpMulI:
		res = lhs * rhs
	case bytecode.OpDivI:
		res = lhs / rhs
	}
	return i.pushInt64(line, res)
}

func (i *Instance) execArithD(line int, op bytecode.Op) error {
	if op == bytecode.OpNegD {
		v, err := i.popFloat64(line)
		if err != nil {
			return err
		}
		return i.pushFloat64(line, -v)
	}
	rhs, err := i.popFloat64(line)
	if err != nil {
		return err
	}
	lhs, err := i.popFloat64(line)
	if err != nil {
		return err
	}
	var res float64
	switch op {
	case bytecode.OpAddD:
		res = lhs + rhs
	case bytecode.OpSubD:
		res = lhs - rhs
	case bytecode.OpMulD:
		res = lhs * rhs
	case bytecode.OpDivD:
		res = lhs / rhs
	}
	return i.pushFloat64(line, res)
}

// execRelC/I/D pop rhs then lhs and push a 0/1 int regardless of the
// operand width, the same convention the compiler's exprRel codegen
// assumes when it types every comparison's result as int.
func (i *Instance) execRelC(line int, op bytecode.Op) error {
	rhs, err := i.popByte(line)
	if err != nil {
		return err
	}
	lhs, err := i.popByte(line)
	if err != nil {
		return err
	}
	var res bool
	switch op {
	case bytecode.OpLessC:
		res = int8(lhs) < int8(rhs)
	case bytecode.OpLessEqC:
		res = int8(lhs) <= int8(rhs)
	case bytecode.OpGreaterC:
		res = int8(lhs) > int8(rhs)
	case bytecode.OpGreaterEqC:
		res = int8(lhs) >= int8(rhs)
	}
	return i.pushInt64(line, boolInt(res))
}

func (i *Instance) execRelI(line int, op bytecode.Op) error {
	rhs, err := i.popInt64(line)
	if err != nil {
		return err
	}
	lhs, err := i.popInt64(line)
	if err != nil {
		return err
	}
	var res bool
	switch op {
	case bytecode.OpLessI:
		res = lhs < rhs
	case bytecode.OpLessEqI:
		res = lhs <= rhs
	case bytecode.OpGreaterI:
		res = lhs > rhs
	case bytecode.OpGreaterEqI:
		res = lhs >= rhs
	}
	return i.pushInt64(line, boolInt(res))
}

func (i *Instance) execRelD(line int, op bytecode.Op) error {
	rhs, err := i.popFloat64(line)
	if err != nil {
		return err
	}
	lhs, err := i.popFloat64(line)
	if err != nil {
		return err
	}
	var res bool
	switch op {
	case bytecode.OpLessD:
		res = lhs < rhs
	case bytecode.OpLessEqD:
		res = lhs <= rhs
	case bytecode.OpGreaterD:
		res = lhs > rhs
	case bytecode.OpGreaterEqD:
		res = lhs >= rhs
	}
	return i.pushInt64(line, boolInt(res))
}

// execWideInt64/Byte/Float64 implement EQ/NOTEQ/AND/OR for their width,
// pop rhs then lhs, and push a 0/1 int. AND/OR test truthiness rather
// than requiring the canonical 0/1 encoding, since PUSHCT_A and any
// non-null address both count as true.
func (i *Instance) execWideInt64(line int, op bytecode.Op) error {
	rhs, err := i.popInt64(line)
	if err != nil {
		return err
	}
	lhs, err := i.popInt64(line)
	if err != nil {
		return err
	}
	var res bool
	switch op {
	case bytecode.OpEqA, bytecode.OpEqI:
		res = lhs == rhs
	case bytecode.OpNotEqA, bytecode.OpNotEqI:
		res = lhs != rhs
	case bytecode.OpAndA, bytecode.OpAndI:
		res = truthyInt64(lhs) && truthyInt64(rhs)
	case bytecode.OpOrA, bytecode.OpOrI:
		res = truthyInt64(lhs) || truthyInt64(rhs)
	}
	return i.pushInt64(line, boolInt(res))
}

func (i *Instance) execWideByte(line int, op bytecode.Op) error {
	rhs, err := i.popByte(line)
	if err != nil {
		return err
	}
	lhs, err := i.popByte(line)
	if err != nil {
		return err
	}
	var res bool
	switch op {
	case bytecode.OpEqC:
		res = lhs == rhs
	case bytecode.OpNotEqC:
		res = lhs != rhs
	case bytecode.OpAndC:
		res = truthyByte(lhs) && truthyByte(rhs)
	case bytecode.OpOrC:
		res = truthyByte(lhs) || truthyByte(rhs)
	}
	return i.pushInt64(line, boolInt(res))
}

func (i *Instance) execWideFloat64(line int, op bytecode.Op) error {
	rhs, err := i.popFloat64(line)
	if err != nil {
		return err
	}
	lhs, err := i.popFloat64(line)
	if err != nil {
		return err
	}
	var res bool
	switch op {
	case bytecode.OpEqD:
		res = lhs == rhs
	case bytecode.OpNotEqD:
		res = lhs != rhs
	case bytecode.OpAndD:
		res = truthyFloat64(lhs) && truthyFloat64(rhs)
	case bytecode.OpOrD:
		res = truthyFloat64(lhs) || truthyFloat64(rhs)
	}
	return i.pushInt64(line, boolInt(res))
}

func (i *Instance) execNotInt64(line int) error {
	v, err := i.popInt64(line)
	if err != nil {
		return err
	}
	return i.pushInt64(line, boolInt(!truthyInt64(v)))
}

func (i *Instance) execNotByte(line int) error {
	v, err := i.popByte(line)
	if err != nil {
		return err
	}
	return i.pushInt64(line, boolInt(!truthyByte(v)))
}

func (i *Instance) execNotFloat64(line int) error {
	v, err := i.popFloat64(line)
	if err != nil {
		return err
	}
	return i.pushInt64(line, boolInt(!truthyFloat64(v)))
}

// execCastFromChar/Int/Double implement the six CAST_xy opcodes the
// compiler's arithmetic-conversion and explicit-cast codegen emit.
func (i *Instance) execCastFromChar(line int, op bytecode.Op) error {
	v, err := i.popByte(line)
	if err != nil {
		return err
	}
	switch op {
	case bytecode.OpCastCI:
		return i.pushInt64(line, int64(int8(v)))
	case bytecode.OpCastCD:
		return i.pushFloat64(line, float64(int8(v)))
	}
	return nil
}

func (i *Instance) execCastFromInt(line int, op bytecode.Op) error {
	v, err := i.popInt64(line)
	if err != nil {
		return err
	}
	switch op {
	case bytecode.OpCastIC:
		return i.pushByte(line, byte(int8(v)))
	case bytecode.OpCastID:
		return i.pushFloat64(line, float64(v))
	}
	return nil
}

func (i *Instance) execCastFromDouble(line int, op bytecode.Op) error {
	v, err := i.popFloat64(line)
	if err != nil {
		return err
	}
	switch op {
	case bytecode.OpCastDC:
		return i.pushByte(line, byte(int8(v)))
	case bytecode.OpCastDI:
		return i.pushInt64(line, int64(v))
	}
	return nil
}

// execJumpInt64/Byte/Float64 pop one value of the named width, test its
// truthiness, and jump via the precomputed jumpTarget table when the
// condition matches the opcode's polarity (JT on true, JF on false).
func (i *Instance) execJumpInt64(line int, in *bytecode.Instruction) (bool, error) {
	v, err := i.popInt64(line)
	if err != nil {
		return false, err
	}
	take := truthyInt64(v)
	if in.Op == bytecode.OpJfA || in.Op == bytecode.OpJfI {
		take = !take
	}
	if !take {
		return false, nil
	}
	i.ip = i.jumpTarget[i.ip]
	return true, nil
}

func (i *Instance) execJumpByte(line int, in *bytecode.Instruction) (bool, error) {
	v, err := i.popByte(line)
	if err != nil {
		return false, err
	}
	take := truthyByte(v)
	if in.Op == bytecode.OpJfC {
		take = !take
	}
	if !take {
		return false, nil
	}
	i.ip = i.jumpTarget[i.ip]
	return true, nil
}

func (i *Instance) execJumpFloat64(line int, in *bytecode.Instruction) (bool, error) {
	v, err := i.popFloat64(line)
	if err != nil {
		return false, err
	}
	take := truthyFloat64(v)
	if in.Op == bytecode.OpJfD {
		take = !take
	}
	if !take {
		return false, nil
	}
	i.ip = i.jumpTarget[i.ip]
	return true, nil
}
