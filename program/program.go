// Package program loads bytecode from its hex representation.
package program

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var ErrDecode = errors.New("invalid program encoding")

// DecodeError reports a program that is not valid hex.
type DecodeError struct {
	Input string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode program (%d chars): %s", len(e.Input), e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}

// FromHex decodes a hex encoded program. Surrounding whitespace and an
// optional 0x prefix are ignored. Odd length input or non-hex characters
// return a *DecodeError.
func FromHex(s string) ([]byte, error) {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		trimmed = trimmed[2:]
	}

	code, err := hex.DecodeString(trimmed)
	if err != nil {
		return nil, &DecodeError{
			Input: s,
			Err:   err,
		}
	}
	return code, nil
}

func MustFromHex(s string) []byte {
	code, err := FromHex(s)
	if err != nil {
		panic(err)
	}
	return code
}

// ToHex is the inverse of FromHex, without prefix.
func ToHex(code []byte) string {
	return hex.EncodeToString(code)
}
