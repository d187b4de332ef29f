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

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Memory is the flat backing store behind the bus. It is an anonymous
// private mapping, so pages the program never touches cost nothing and
// start out zeroed.
type Memory struct {
	data []byte
}

func NewMemory(size uint32) (*Memory, error) {
	if size == 0 {
		return nil, fmt.Errorf("Invalid memory size %d", size)
	}

	data, err := unix.Mmap(
		-1, 0, int(size),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE,
	)

	if err != nil {
		return nil, fmt.Errorf("Allocating %d bytes of memory: %w", size, err)
	}

	return &Memory{data: data}, nil
}

func (mem *Memory) Size() uint32 {
	return uint32(len(mem.data))
}

func (mem *Memory) Bytes() []byte {
	return mem.data
}

// Reports whether n bytes starting at addr lie inside the store
func (mem *Memory) Contains(addr uint32, n uint32) bool {
	return uint64(addr)+uint64(n) <= uint64(len(mem.data))
}

func (mem *Memory) Close() error {
	if mem.data == nil {
		return nil
	}

	err := unix.Munmap(mem.data)
	mem.data = nil
	return err
}
