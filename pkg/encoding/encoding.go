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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Decodes an unsigned 32-bit literal with a C-style base prefix: 0x1F, 017, 31.
// A literal made only of hex digits that no prefix rule accepts (cafebabe)
// is read as hexadecimal.
func DecodeUint32(s string) (uint32, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "+")

	if len(s) == 0 {
		return 0, errors.New("Empty numeric literal")
	}

	if !isCLiteral(s) {
		return 0, fmt.Errorf("Invalid numeric literal %q", s)
	}

	result, err := strconv.ParseUint(s, 0, 32)

	if err != nil && isHexDigits(s) {
		if hex, hexerr := strconv.ParseUint(s, 16, 32); hexerr == nil {
			return uint32(hex), nil
		}
	}

	if err != nil {
		return 0, err
	}

	return uint32(result), nil
}

// Reports whether s is all hex digits with at least one letter digit
// strconv also takes 0b, 0o and digit separators, which C literals do not
func isCLiteral(s string) bool {
	if strings.ContainsRune(s, '_') {
		return false
	}

	prefix := strings.ToLower(s[:min(len(s), 2)])
	return prefix != "0b" && prefix != "0o"
}

func isHexDigits(s string) bool {
	letters := 0

	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
			letters++
		default:
			return false
		}
	}

	return letters > 0
}

// Decodes a signed 64-bit literal with a C-style base prefix: -1, 0x186A0
func DecodeInt64(s string) (int64, error) {
	s = strings.TrimSpace(s)

	if len(s) == 0 {
		return 0, errors.New("Empty numeric literal")
	}

	return strconv.ParseInt(s, 0, 64)
}

// Decodes an address range in the formats: start:end, start,end
func DecodeRange(s string) (uint32, uint32, error) {
	i := strings.IndexAny(s, ":,")

	if i == -1 {
		return 0, 0, errors.New("Invalid range, expected start:end")
	}

	start, err := DecodeUint32(s[:i])

	if err != nil {
		return 0, 0, err
	}

	end, err := DecodeUint32(s[i+1:])

	if err != nil {
		return 0, 0, err
	}

	return start, end, nil
}

// Returns the low n bytes of value in little-endian order
func LowBytes(value uint32, n uint) []byte {
	if n > 4 {
		n = 4
	}

	result := make([]byte, n)

	for i := uint(0); i < n; i++ {
		result[i] = byte(value >> (8 * i))
	}

	return result
}
