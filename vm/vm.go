package vm

import (
	"fmt"

	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// VM is the execution context of a single program. It owns the stack,
// the memory and the program counter, and is discarded once halted.
type VM struct {
	// program bytecode, never modified
	code []byte
	// program counter
	pc uint64
	// pc of the last decoded instruction
	opPC   uint64
	halted bool
	// first fault, sticky
	err error

	stack  *Stack
	memory *Memory

	stackOpts  []StackOpt
	memoryOpts []MemoryOpt
	logger     *zap.Logger
}

type VMOpt func(*VM) *VM

func LoggerOpt(l *zap.Logger) VMOpt {
	return func(vm *VM) *VM {
		vm.logger = l
		return vm
	}
}

func StackOpts(opts ...StackOpt) VMOpt {
	return func(vm *VM) *VM {
		vm.stackOpts = append(vm.stackOpts, opts...)
		return vm
	}
}

func MemoryOpts(opts ...MemoryOpt) VMOpt {
	return func(vm *VM) *VM {
		vm.memoryOpts = append(vm.memoryOpts, opts...)
		return vm
	}
}

func NewVM(code []byte, opts ...VMOpt) *VM {
	vm := &VM{
		code:   append([]byte(nil), code...),
		pc:     0,
		logger: zap.L(),
	}

	for _, opt := range opts {
		vm = opt(vm)
	}

	vm.stack = NewStack(vm.stackOpts...)
	vm.memory = NewMemory(vm.memoryOpts...)
	vm.logger = vm.logger.Named("vm")

	return vm
}

// Run executes instructions until the program halts. A nil error means the
// program halted, either on STOP or by running off the end of the code.
func (vm *VM) Run() error {
	for !vm.halted {
		if err := vm.Step(); err != nil {
			return fmt.Errorf("vm run: %w", err)
		}
	}
	return nil
}

// Step decodes and executes a single instruction. It does nothing once the
// VM has halted.
func (vm *VM) Step() error {
	if vm.err != nil {
		return vm.err
	}
	if vm.halted {
		return nil
	}
	return vm.Exec(vm.Decode())
}

// Decode reads the instruction at pc and advances past it. A pc at or past
// the end of the code decodes as STOP without advancing.
func (vm *VM) Decode() Instruction {
	vm.opPC = vm.pc
	if vm.pc >= uint64(len(vm.code)) {
		return InstructionStop
	}
	inst := Instruction(vm.code[vm.pc])
	vm.pc++
	return inst
}

// Exec dispatches an already decoded instruction. On failure the stack and
// memory are left as they were before the call and the VM refuses to run
// further.
func (vm *VM) Exec(inst Instruction) error {
	if vm.err != nil {
		return vm.err
	}
	at := vm.opPC
	vm.opPC = vm.pc

	if ce := vm.logger.Check(zap.DebugLevel, "exec"); ce != nil {
		ce.Write(zap.Uint64("pc", at), zap.Stringer("op", inst))
	}

	op := instructionTable[inst]
	if op == nil {
		return vm.fault(at, inst, ErrInvalidOpcode)
	}
	if err := vm.checkStack(op); err != nil {
		return vm.fault(at, inst, err)
	}
	if err := op.execute(vm); err != nil {
		return vm.fault(at, inst, err)
	}

	if ce := vm.logger.Check(zap.DebugLevel, "state"); ce != nil {
		ce.Write(
			zap.Int("stack", vm.stack.Len()),
			zap.Int("memory", vm.memory.Len()),
			zap.Bool("halted", vm.halted),
		)
	}
	return nil
}

func (vm *VM) checkStack(op *operation) error {
	n := vm.stack.Len()
	if n < op.pops {
		return fmt.Errorf("%w: need %d, have %d", ErrStackUnderflow, op.pops, n)
	}
	if n-op.pops+op.pushes > vm.stack.Limit() {
		return fmt.Errorf("%w: depth %d", ErrStackOverflow, vm.stack.Limit())
	}
	return nil
}

func (vm *VM) fault(pc uint64, inst Instruction, err error) error {
	vm.err = &ExecError{
		PC:  pc,
		Op:  inst,
		Err: err,
	}
	return vm.err
}

// readCode returns the next n code bytes and advances pc by n. Bytes past
// the end of the code read as zero.
func (vm *VM) readCode(n uint64) []byte {
	out := make([]byte, n)
	if size := uint64(len(vm.code)); vm.pc < size {
		copy(out, vm.code[vm.pc:])
	}
	vm.pc += n
	return out
}

func (vm *VM) Halted() bool {
	return vm.halted
}

func (vm *VM) PC() uint64 {
	return vm.pc
}

// Err returns the fault that aborted execution, if any.
func (vm *VM) Err() error {
	return vm.err
}

// Stack returns a snapshot of the operand stack, bottom first.
func (vm *VM) Stack() []uint256.Int {
	return vm.stack.Items()
}

// Memory returns a snapshot of the materialised memory.
func (vm *VM) Memory() []uint256.Int {
	return vm.memory.Data()
}

// Code returns a copy of the program.
func (vm *VM) Code() []byte {
	return append([]byte(nil), vm.code...)
}
