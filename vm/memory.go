package vm

import (
	"fmt"

	"github.com/holiman/uint256"
)

// DefaultMemoryLimit bounds the addressable cells of a Memory.
const DefaultMemoryLimit uint64 = 1 << 20

// Memory is a word addressed, zero initialised memory. Cells are only
// materialised up to the highest offset written, and the materialised
// length never shrinks.
type Memory struct {
	cells []uint256.Int
	limit uint64
}

type MemoryOpt func(*Memory) *Memory

// MaxMemory sets the number of addressable cells. Zero keeps the default.
func MaxMemory(cells uint64) MemoryOpt {
	return func(m *Memory) *Memory {
		if cells > 0 {
			m.limit = cells
		}
		return m
	}
}

func NewMemory(opts ...MemoryOpt) *Memory {
	m := &Memory{
		cells: make([]uint256.Int, 0),
		limit: DefaultMemoryLimit,
	}
	for _, opt := range opts {
		m = opt(m)
	}
	return m
}

// Store writes value at offset, first extending the memory with zero cells
// up to and including offset.
func (m *Memory) Store(offset uint64, value *uint256.Int) error {
	if value == nil {
		return ErrInvalidValue
	}
	if offset >= m.limit {
		return fmt.Errorf("%w: offset %d, limit %d", ErrInvalidAccess, offset, m.limit)
	}

	if size := uint64(len(m.cells)); offset >= size {
		m.cells = append(m.cells, make([]uint256.Int, offset-size+1)...)
	}
	m.cells[offset] = *value
	return nil
}

// Load returns the word at offset, or zero past the materialised extent.
func (m *Memory) Load(offset uint64) uint256.Int {
	if offset >= uint64(len(m.cells)) {
		return uint256.Int{}
	}
	return m.cells[offset]
}

// LoadRange returns length words starting at offset, zero padded past the
// materialised extent. It never grows the memory.
func (m *Memory) LoadRange(offset, length uint64) ([]uint256.Int, error) {
	if length > m.limit || offset > m.limit-length {
		return nil, fmt.Errorf("%w: range [%d, +%d), limit %d", ErrInvalidAccess, offset, length, m.limit)
	}

	out := make([]uint256.Int, length)
	if offset < uint64(len(m.cells)) {
		copy(out, m.cells[offset:])
	}
	return out, nil
}

// Len is the materialised length in cells.
func (m *Memory) Len() int {
	return len(m.cells)
}

// Limit is the number of addressable cells.
func (m *Memory) Limit() uint64 {
	return m.limit
}

// Data returns a copy of the materialised cells.
func (m *Memory) Data() []uint256.Int {
	out := make([]uint256.Int, len(m.cells))
	copy(out, m.cells)
	return out
}
