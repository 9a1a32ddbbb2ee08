package bytecode

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
)

// Disassemble writes one line per instruction to w, in program order,
// resolving ArgTarget operands to the target instruction's index
// rather than printing a raw pointer.
func (p *Program) Disassemble(w io.Writer) {
	instrs := p.Instructions()
	index := make(map[*Instruction]int, len(instrs))
	for i, in := range instrs {
		index[in] = i
	}
	lines := lo.Map(instrs, func(in *Instruction, i int) string {
		return fmt.Sprintf("%4d  %-11s%s", i, in.Op, formatArgs(in, index))
	})
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	for _, d := range p.Data {
		fmt.Fprintf(w, "data @%d: %d byte(s)\n", d.Addr, len(d.Bytes))
	}
}

func formatArgs(in *Instruction, index map[*Instruction]int) string {
	var parts []string
	for _, a := range []Arg{in.Arg1, in.Arg2} {
		switch a.Kind {
		case ArgNone:
			continue
		case ArgInt:
			parts = append(parts, fmt.Sprintf("%d", a.Int))
		case ArgDouble:
			parts = append(parts, fmt.Sprintf("%g", a.Double))
		case ArgTarget:
			if i, ok := index[a.Target]; ok {
				parts = append(parts, fmt.Sprintf("->%d", i))
			} else {
				parts = append(parts, "->?")
			}
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, ", ")
}
