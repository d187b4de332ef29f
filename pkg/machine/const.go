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

package machine

const (
	MEM_SIZE uint32 = 16 * 1024 * 1024
)

const (
	IO_BASE uint32 = 0x80000000

	IO_PRINT_CHAR uint32 = 0x0
	IO_PRINT_U32         = 0x4
	IO_EXIT              = 0x8
)

// AHB HSIZE encodings, log2 of the byte count
const (
	SIZE_BYTE uint8 = 0b000
	SIZE_HALF uint8 = 0b001
	SIZE_WORD uint8 = 0b010
)

const (
	WORD_BYTES uint32 = 4
	WORD_MASK  uint32 = WORD_BYTES - 1
)
