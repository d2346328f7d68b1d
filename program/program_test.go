package program

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr error
	}{
		{
			name:  "legit",
			input: "48656c6c6f20776f726c6421",
			want:  []byte{72, 101, 108, 108, 111, 32, 119, 111, 114, 108, 100, 33},
		},
		{
			name:  "sample",
			input: "600660070200",
			want:  []byte{0x60, 0x06, 0x60, 0x07, 0x02, 0x00},
		},
		{
			name:  "prefix and whitespace",
			input: "  0X6001\n",
			want:  []byte{0x60, 0x01},
		},
		{
			name:  "upper case",
			input: "ABCD",
			want:  []byte{0xab, 0xcd},
		},
		{
			name:  "empty",
			input: "",
			want:  []byte{},
		},
		{
			name:    "odd length",
			input:   "48656c6c6f20776f726c642",
			wantErr: hex.ErrLength,
		},
		{
			name:    "non hex",
			input:   "60zz",
			wantErr: hex.InvalidByteError('z'),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromHex(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, ErrDecode)
				assert.ErrorIs(t, err, tt.wantErr)
				var decodeErr *DecodeError
				require.True(t, errors.As(err, &decodeErr))
				assert.Equal(t, tt.input, decodeErr.Input)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMustFromHex(t *testing.T) {
	assert.Equal(t, []byte{0x00}, MustFromHex("00"))
	assert.Panics(t, func() { MustFromHex("0") })
}

func TestToHex(t *testing.T) {
	code := MustFromHex("0x600660070200")
	assert.Equal(t, "600660070200", ToHex(code))
}
