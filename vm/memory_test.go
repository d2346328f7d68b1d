package vm

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMemory(t *testing.T) {
	m := NewMemory()
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, DefaultMemoryLimit, m.Limit())

	m = NewMemory(MaxMemory(16))
	assert.Equal(t, uint64(16), m.Limit())
}

func TestMemory_StoreGrows(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Store(0, uint256.NewInt(1364)))
	require.NoError(t, m.Store(5, uint256.NewInt(7777)))

	want := []uint256.Int{
		*uint256.NewInt(1364), {}, {}, {}, {}, *uint256.NewInt(7777),
	}
	assert.Equal(t, want, m.Data())
	assert.Equal(t, 6, m.Len())

	got := m.Load(5)
	assert.Equal(t, *uint256.NewInt(7777), got)
	got = m.Load(2)
	assert.True(t, got.IsZero())
}

func TestMemory_Load(t *testing.T) {
	m := NewMemory()
	tests := []struct {
		name   string
		offset uint64
	}{
		{name: "zero", offset: 0},
		{name: "small", offset: 5},
		{name: "past limit", offset: DefaultMemoryLimit + 10},
		{name: "max", offset: ^uint64(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Load(tt.offset)
			assert.True(t, got.IsZero())
			assert.Equal(t, 0, m.Len(), "load must not grow memory")
		})
	}
}

func TestMemory_StoreOverwrite(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Store(3, uint256.NewInt(1)))
	require.NoError(t, m.Store(1, uint256.NewInt(2)))
	require.NoError(t, m.Store(3, uint256.NewInt(3)))

	// writes below the extent do not change the length
	assert.Equal(t, 4, m.Len())
	got := m.Load(3)
	assert.Equal(t, *uint256.NewInt(3), got)
	got = m.Load(1)
	assert.Equal(t, *uint256.NewInt(2), got)
	got = m.Load(0)
	assert.True(t, got.IsZero())
}

func TestMemory_StoreCopiesValue(t *testing.T) {
	m := NewMemory()
	v := uint256.NewInt(10)
	require.NoError(t, m.Store(0, v))
	v.SetUint64(11)

	got := m.Load(0)
	assert.Equal(t, *uint256.NewInt(10), got)
}

func TestMemory_StoreErrors(t *testing.T) {
	m := NewMemory(MaxMemory(8))
	require.NoError(t, m.Store(2, uint256.NewInt(1)))

	err := m.Store(8, uint256.NewInt(1))
	assert.ErrorIs(t, err, ErrInvalidAccess)

	err = m.Store(^uint64(0), uint256.NewInt(1))
	assert.ErrorIs(t, err, ErrInvalidAccess)

	err = m.Store(1, nil)
	assert.ErrorIs(t, err, ErrInvalidValue)

	// failed stores leave memory untouched
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []uint256.Int{{}, {}, *uint256.NewInt(1)}, m.Data())

	// last addressable cell is fine
	assert.NoError(t, m.Store(7, uint256.NewInt(9)))
	assert.Equal(t, 8, m.Len())
}

func TestMemory_LoadRange(t *testing.T) {
	m := NewMemory(MaxMemory(32))
	require.NoError(t, m.Store(1, uint256.NewInt(11)))
	require.NoError(t, m.Store(2, uint256.NewInt(22)))

	tests := []struct {
		name    string
		offset  uint64
		length  uint64
		want    []uint256.Int
		wantErr bool
	}{
		{
			name:   "empty",
			offset: 0,
			length: 0,
			want:   []uint256.Int{},
		},
		{
			name:   "inside",
			offset: 0,
			length: 3,
			want:   []uint256.Int{{}, *uint256.NewInt(11), *uint256.NewInt(22)},
		},
		{
			name:   "straddles extent",
			offset: 2,
			length: 3,
			want:   []uint256.Int{*uint256.NewInt(22), {}, {}},
		},
		{
			name:   "beyond extent",
			offset: 10,
			length: 2,
			want:   []uint256.Int{{}, {}},
		},
		{
			name:   "up to limit",
			offset: 30,
			length: 2,
			want:   []uint256.Int{{}, {}},
		},
		{
			name:    "past limit",
			offset:  31,
			length:  2,
			wantErr: true,
		},
		{
			name:    "overflowing range",
			offset:  ^uint64(0),
			length:  2,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.LoadRange(tt.offset, tt.length)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAccess)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 3, m.Len(), "range read must not grow memory")
		})
	}
}
