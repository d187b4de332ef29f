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
	"bufio"
	"errors"
)

var ErrImageTooLarge = errors.New("Binary image is larger than memory")
var ErrDumpRange = errors.New("Dump range outside memory")

type DeviceHandler struct {
	Display *bufio.Writer

	// Flush the display after every print instead of at the end of the run
	AutoFlush bool
}

type Effect uint

const (
	EFFECT_NONE Effect = iota
	EFFECT_PRINT_CHAR
	EFFECT_PRINT_U32
	EFFECT_HALT

	// Access outside memory and the I/O offsets: write dropped, read zero
	EFFECT_IGNORED
)

type Response struct {
	Data     uint32
	Effect   Effect
	ExitCode uint32
}

type MachineDebugger interface {
	Read(addr uint32, value uint32)
	Write(addr uint32, value uint32, size uint8)
}

type Machine struct {
	Devices  *DeviceHandler
	Memory   *Memory
	Debugger MachineDebugger
}
