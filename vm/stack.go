package vm

import (
	"fmt"

	"github.com/holiman/uint256"
)

const DefaultStackDepth = 1024

// Stack is the bounded operand stack of 256-bit words.
// It is owned by a single VM and is not safe for concurrent use.
type Stack struct {
	data []uint256.Int
	// ptr is the next write slot
	ptr int

	depth int
}

type StackOpt func(*Stack) *Stack

// MaxStack sets the capacity. Non-positive values keep the default.
func MaxStack(max int) StackOpt {
	return func(s *Stack) *Stack {
		if max > 0 {
			s.depth = max
		}
		return s
	}
}

func NewStack(opts ...StackOpt) *Stack {
	s := &Stack{
		ptr:   0,
		depth: DefaultStackDepth,
	}
	for _, opt := range opts {
		s = opt(s)
	}
	s.data = make([]uint256.Int, s.depth)
	return s
}

func (s *Stack) Push(w uint256.Int) error {
	if s.ptr >= s.depth {
		return fmt.Errorf("%w: depth %d", ErrStackOverflow, s.depth)
	}

	s.data[s.ptr] = w
	s.ptr += 1

	return nil
}

func (s *Stack) Pop() (uint256.Int, error) {
	if s.ptr == 0 {
		return uint256.Int{}, ErrStackUnderflow
	}

	s.ptr -= 1
	w := s.data[s.ptr]
	s.data[s.ptr] = uint256.Int{}

	return w, nil
}

func (s *Stack) Len() int {
	return s.ptr
}

// Limit is the maximum number of words the stack holds.
func (s *Stack) Limit() int {
	return s.depth
}

// Items returns a copy of the stack contents, bottom first.
func (s *Stack) Items() []uint256.Int {
	out := make([]uint256.Int, s.ptr)
	copy(out, s.data[:s.ptr])
	return out
}
