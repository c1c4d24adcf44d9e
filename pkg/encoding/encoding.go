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
	"fmt"
	"strconv"
	"strings"
)

const WORD_BITS = 32
const GROUP_BITS = 4

type RangeError struct {
	Value int64
	Size  int
}

func (err *RangeError) Error() string {
	limit := int64(1) << (err.Size - 1)

	return fmt.Sprintf(
		"Value exceeds %d-bit two's complement range\n\twant:%d..%d\n\thave:%d",
		err.Size,
		-limit,
		limit-1,
		err.Value,
	)
}

type SyntaxError struct {
	Token string
}

func (err *SyntaxError) Error() string {
	return fmt.Sprintf("Invalid numeric token '%s'", err.Token)
}

// Encodes a signed value as a fixed-width two's complement bit string
func DecToBin(value int64, size int) (string, error) {
	limit := int64(1) << (size - 1)

	if value < -limit || value >= limit {
		return "", &RangeError{value, size}
	}

	mask := (uint64(1) << size) - 1

	result := strconv.FormatUint(uint64(value)&mask, 2)

	if len(result) < size {
		result = strings.Repeat("0", size-len(result)) + result
	}

	return result, nil
}

// Decodes a base-10 token in the formats: 123, -123
func ParseDecToBin(token string, size int) (string, error) {
	value, err := strconv.ParseInt(token, 10, 64)

	if err != nil {
		return "", &SyntaxError{token}
	}

	return DecToBin(value, size)
}

// Encodes an unsigned value as a fixed-width bit string; the value must fit
func UintToBin(value uint64, size int) string {
	result := strconv.FormatUint(value, 2)

	if len(result) < size {
		result = strings.Repeat("0", size-len(result)) + result
	}

	return result
}

// Joins field bit strings into a full word, zero-padded to 32 bits and
// regrouped as space-separated nibbles
func JoinFields(fields ...string) string {
	joined := strings.ReplaceAll(strings.Join(fields, ""), " ", "")

	if len(joined) < WORD_BITS {
		joined = strings.Repeat("0", WORD_BITS-len(joined)) + joined
	}

	var builder strings.Builder
	builder.Grow(len(joined) + len(joined)/GROUP_BITS)

	for i := 0; i < len(joined); i++ {
		if i > 0 && i%GROUP_BITS == 0 {
			builder.WriteByte(' ')
		}

		builder.WriteByte(joined[i])
	}

	return builder.String()
}

// Decodes a binary word string, grouped or plain, into its integer value
func DecodeWord(s string) (uint32, error) {
	clean := strings.ReplaceAll(s, " ", "")

	result, err := strconv.ParseUint(clean, 2, WORD_BITS)

	if err != nil {
		return 0, &SyntaxError{s}
	}

	return uint32(result), nil
}

// Converts a binary word string to 8 zero-padded lowercase hex digits
func BinToHex(s string) (string, error) {
	word, err := DecodeWord(s)

	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%08x", word), nil
}

// Converts a hex word in the formats: 007302b3, 0x007302b3
func HexToBin(s string) (string, error) {
	clean := strings.TrimSpace(s)

	if i := strings.IndexAny(clean, "xX"); i == 1 {
		clean = clean[i+1:]
	}

	value, err := strconv.ParseUint(clean, 16, WORD_BITS)

	if err != nil {
		return "", &SyntaxError{s}
	}

	return JoinFields(strconv.FormatUint(value, 2)), nil
}
