package vm

import "fmt"

type Instruction byte

const (
	InstructionStop Instruction = 0x00
	InstructionAdd  Instruction = 0x01
	InstructionMul  Instruction = 0x02

	// push n immediate bytes, n = 1..32
	InstructionPush1  Instruction = 0x60
	InstructionPush32 Instruction = 0x7f
)

// mnemonics is only used for logging and disassembly. Dispatch goes
// through instructionTable.
var mnemonics = func() [256]string {
	var m [256]string
	m[InstructionStop] = "STOP"
	m[InstructionAdd] = "ADD"
	m[InstructionMul] = "MUL"
	for i := InstructionPush1; i <= InstructionPush32; i++ {
		m[i] = fmt.Sprintf("PUSH%d", i.PushSize())
	}
	return m
}()

// IsPush reports whether the instruction carries immediate data.
func (i Instruction) IsPush() bool {
	return i >= InstructionPush1 && i <= InstructionPush32
}

// PushSize is the number of immediate bytes following a push, 0 otherwise.
func (i Instruction) PushSize() uint64 {
	if !i.IsPush() {
		return 0
	}
	return uint64(i-InstructionPush1) + 1
}

// Defined reports whether the instruction has a handler.
func (i Instruction) Defined() bool {
	return instructionTable[i] != nil
}

func (i Instruction) String() string {
	if name := mnemonics[i]; name != "" {
		return name
	}
	return fmt.Sprintf("0x%02x", byte(i))
}

// Instructions lists every defined instruction in ascending order.
func Instructions() []Instruction {
	out := make([]Instruction, 0, 35)
	for i := 0; i < len(instructionTable); i++ {
		if instructionTable[i] != nil {
			out = append(out, Instruction(i))
		}
	}
	return out
}
