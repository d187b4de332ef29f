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
	"encoding/binary"
	"fmt"
	"io"

	"github.com/lassandro/dmtb/pkg/encoding"
)

func New(size uint32, devices *DeviceHandler) (*Machine, error) {
	memory, err := NewMemory(size)

	if err != nil {
		return nil, err
	}

	return &Machine{Devices: devices, Memory: memory}, nil
}

func (mc *Machine) Close() error {
	return mc.Memory.Close()
}

// Copies a flat binary image to the start of memory
func (mc *Machine) LoadBin(reader io.Reader) error {
	data := mc.Memory.Bytes()
	n, err := io.ReadFull(reader, data)

	switch err {
	case io.EOF, io.ErrUnexpectedEOF:
		return nil
	case nil:
	default:
		return err
	}

	extra, err := io.Copy(io.Discard, reader)

	if err != nil {
		return err
	}

	if extra > 0 {
		return fmt.Errorf(
			"%w: binary file (%d bytes) is larger than memory (%d bytes)",
			ErrImageTooLarge, int64(n)+extra, len(data),
		)
	}

	return nil
}

// Answers one data-side bus transaction. Reads always return the whole
// word containing addr; writes copy the low 1<<size bytes of value, relying
// on the core to replicate narrow data across the byte lanes.
func (mc *Machine) Respond(
	addr uint32, write bool, size uint8, value uint32,
) Response {
	if write {
		return mc.write(addr, size, value)
	}

	return mc.read(addr)
}

// Answers an instruction fetch
func (mc *Machine) Fetch(addr uint32) uint32 {
	return mc.load(addr &^ WORD_MASK)
}

func (mc *Machine) load(addr uint32) uint32 {
	if !mc.Memory.Contains(addr, WORD_BYTES) {
		return 0
	}

	return binary.LittleEndian.Uint32(mc.Memory.Bytes()[addr:])
}

func (mc *Machine) read(addr uint32) Response {
	var result Response

	aligned := addr &^ WORD_MASK

	if mc.Memory.Contains(aligned, WORD_BYTES) {
		result.Data = mc.load(aligned)
	} else {
		result.Effect = EFFECT_IGNORED
	}

	if mc.Debugger != nil {
		mc.Debugger.Read(addr, result.Data)
	}

	return result
}

func (mc *Machine) write(addr uint32, size uint8, value uint32) Response {
	var result Response

	// The bus is one word wide, wider HSIZE encodings still move a word
	n := uint32(1) << (size & 0x7)
	if n > WORD_BYTES {
		n = WORD_BYTES
	}

	switch {
	case mc.Memory.Contains(addr, n):
		copy(mc.Memory.Bytes()[addr:], encoding.LowBytes(value, uint(n)))

	case addr == IO_BASE+IO_PRINT_CHAR:
		mc.print(func(display io.Writer) {
			display.Write([]byte{byte(value)})
		})
		result.Effect = EFFECT_PRINT_CHAR

	case addr == IO_BASE+IO_PRINT_U32:
		mc.print(func(display io.Writer) {
			fmt.Fprintf(display, "%08x\n", value)
		})
		result.Effect = EFFECT_PRINT_U32

	case addr == IO_BASE+IO_EXIT:
		result.Effect = EFFECT_HALT
		result.ExitCode = value

	default:
		result.Effect = EFFECT_IGNORED
	}

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, value, size)
	}

	return result
}

// Write errors stick to the display writer and surface at its next Flush
func (mc *Machine) print(emit func(display io.Writer)) {
	if mc.Devices == nil || mc.Devices.Display == nil {
		return
	}

	emit(mc.Devices.Display)

	if mc.Devices.AutoFlush {
		mc.Devices.Display.Flush()
	}
}
