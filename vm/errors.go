package vm

import (
	"errors"
	"fmt"
)

var (
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrInvalidAccess  = errors.New("invalid memory access")
	ErrInvalidValue   = errors.New("invalid memory value")
	ErrInvalidOpcode  = errors.New("invalid opcode")
)

// ExecError describes a fault raised while executing an instruction.
type ExecError struct {
	PC  uint64      // address of the faulting instruction
	Op  Instruction // instruction that raised the fault
	Err error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%s: %s at pc=%d", e.Op, e.Err, e.PC)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

var kinds = []struct {
	err  error
	name string
}{
	{ErrStackOverflow, "StackOverflow"},
	{ErrStackUnderflow, "StackUnderflow"},
	{ErrInvalidAccess, "InvalidAccess"},
	{ErrInvalidValue, "InvalidValue"},
	{ErrInvalidOpcode, "InvalidOpcode"},
}

// Kind names the fault class of err, "" for nil and "Unknown" for errors
// that did not come from the vm.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Unknown"
}
