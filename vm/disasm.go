package vm

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of code, one instruction per
// line. Undefined opcodes are listed by value.
func Disassemble(code []byte) string {
	var sb strings.Builder

	offset := uint64(0)
	for offset < uint64(len(code)) {
		offset = disassembleInstruction(&sb, code, offset)
	}

	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, code []byte, offset uint64) uint64 {
	inst := Instruction(code[offset])
	sb.WriteString(fmt.Sprintf("%04d %s", offset, inst))

	next := offset + 1
	if n := inst.PushSize(); n > 0 {
		end := next + n
		imm := code[next:min(end, uint64(len(code)))]
		sb.WriteString(fmt.Sprintf(" 0x%x", imm))
		if uint64(len(imm)) < n {
			sb.WriteString(" (truncated)")
		}
		next = end
	}
	sb.WriteString("\n")

	return next
}
