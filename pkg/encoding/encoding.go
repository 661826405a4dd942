// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package encoding

import (
	"strconv"
	"unicode"

	"github.com/pkg/errors"
)

const (
	WordBits = 24
	WordMask = (1 << WordBits) - 1
)

var (
	ErrEmpty        = errors.New("empty operand")
	ErrNegative     = errors.New("negative count")
	ErrWordRange    = errors.New("value does not fit in a 24-bit word")
	ErrLiteralShape = errors.New("literal must be C'...' or X'...'")
	ErrLiteralEmpty = errors.New("literal has no bytes")
	ErrOddHex       = errors.New("hex literal needs an even number of digits")
	ErrNonASCII     = errors.New("character exceeds ASCII limit")
)

// Decodes a bare hexadecimal string such as 1000 or 1a2B
func DecodeHex(s string) (uint32, error) {
	if s == "" {
		return 0, ErrEmpty
	}

	result, err := strconv.ParseUint(s, 16, 32)

	if err != nil {
		return 0, errors.Wrapf(err, "decoding hex %q", s)
	}

	return uint32(result), nil
}

// Decodes a base-10 string in the formats: -12, 12
func DecodeInt(s string) (int64, error) {
	if s == "" {
		return 0, ErrEmpty
	}

	result, err := strconv.ParseInt(s, 10, 32)

	if err != nil {
		return 0, errors.Wrapf(err, "decoding decimal %q", s)
	}

	return result, nil
}

// Decodes a non-negative base-10 count, as used by RESW and RESB
func DecodeCount(s string) (uint32, error) {
	result, err := DecodeInt(s)

	if err != nil {
		return 0, err
	}

	if result < 0 {
		return 0, ErrNegative
	}

	return uint32(result), nil
}

// DecodeWord decodes a decimal WORD constant into its 24-bit two's
// complement representation.
func DecodeWord(s string) (uint32, error) {
	result, err := DecodeInt(s)

	if err != nil {
		return 0, err
	}

	if result < -(1<<(WordBits-1)) || result > WordMask {
		return 0, ErrWordRange
	}

	return uint32(result) & WordMask, nil
}

// DecodeLiteral decodes a BYTE operand in the formats: C'EOF', X'F1'.
// The C/X prefix is case-insensitive and hex digits may be either case.
func DecodeLiteral(s string) ([]byte, error) {
	if s == "" {
		return nil, ErrEmpty
	}

	if len(s) < 3 || s[1] != '\'' || s[len(s)-1] != '\'' {
		return nil, ErrLiteralShape
	}

	body := s[2 : len(s)-1]

	switch s[0] {
	case 'C', 'c':
		if body == "" {
			return nil, ErrLiteralEmpty
		}

		result := make([]byte, 0, len(body))

		for _, char := range body {
			if char > unicode.MaxASCII {
				return nil, ErrNonASCII
			}

			result = append(result, byte(char))
		}

		return result, nil

	case 'X', 'x':
		if body == "" {
			return nil, ErrLiteralEmpty
		}

		if len(body)%2 != 0 {
			return nil, ErrOddHex
		}

		result := make([]byte, len(body)/2)

		for i := range result {
			value, err := strconv.ParseUint(body[2*i:2*i+2], 16, 8)

			if err != nil {
				return nil, errors.Wrapf(err, "decoding hex literal %q", s)
			}

			result[i] = byte(value)
		}

		return result, nil
	}

	return nil, ErrLiteralShape
}
