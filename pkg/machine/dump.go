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
	"io"
)

// Prints memory[start:end] as hex bytes, sixteen to a line
func (mc *Machine) Dump(w io.Writer, start, end uint32) error {
	if start > end || !mc.Memory.Contains(start, end-start) {
		return fmt.Errorf(
			"%w: [%08x, %08x) with %d bytes of memory",
			ErrDumpRange, start, end, mc.Memory.Size(),
		)
	}

	data := mc.Memory.Bytes()[start:end]

	if _, err := fmt.Fprintf(
		w, "Dumping memory from %08x to %08x:\n", start, end,
	); err != nil {
		return err
	}

	for i, b := range data {
		sep := ' '
		if i%16 == 15 {
			sep = '\n'
		}

		if _, err := fmt.Fprintf(w, "%02x%c", b, sep); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}
