package vm

import "github.com/holiman/uint256"

type executionFunc func(vm *VM) error

type operation struct {
	execute executionFunc
	// pops is the number of words the operation takes from the stack
	pops int
	// pushes is the number of words it leaves behind
	pushes int
}

// JumpTable maps every opcode value to its operation, nil when undefined.
type JumpTable [256]*operation

// instructionTable is built once and never modified.
var instructionTable = newInstructionTable()

func newInstructionTable() JumpTable {
	var tbl JumpTable
	tbl[InstructionStop] = &operation{execute: opStop}
	tbl[InstructionAdd] = &operation{execute: opAdd, pops: 2, pushes: 1}
	tbl[InstructionMul] = &operation{execute: opMul, pops: 2, pushes: 1}
	for i := InstructionPush1; i <= InstructionPush32; i++ {
		tbl[i] = &operation{execute: makePush(i.PushSize()), pushes: 1}
	}
	return tbl
}

func opStop(vm *VM) error {
	vm.halted = true
	return nil
}

func opAdd(vm *VM) error {
	a, err := vm.stack.Pop()
	if err != nil {
		return err
	}
	b, err := vm.stack.Pop()
	if err != nil {
		return err
	}
	var sum uint256.Int
	sum.Add(&a, &b)
	return vm.stack.Push(sum)
}

func opMul(vm *VM) error {
	a, err := vm.stack.Pop()
	if err != nil {
		return err
	}
	b, err := vm.stack.Pop()
	if err != nil {
		return err
	}
	var product uint256.Int
	product.Mul(&a, &b)
	return vm.stack.Push(product)
}

// makePush reads size immediate bytes as a big-endian word.
func makePush(size uint64) executionFunc {
	return func(vm *VM) error {
		var w uint256.Int
		w.SetBytes(vm.readCode(size))
		return vm.stack.Push(w)
	}
}
