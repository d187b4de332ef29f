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

// Package vcd records pin values as a Value Change Dump.
package vcd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/lassandro/dmtb/pkg/model"
)

const (
	DEFAULT_TIMESCALE = "1us"
	DEFAULT_SCOPE     = "top"
)

// Source is anything with a declared pin list whose values can be sampled
type Source interface {
	Pins() []model.Pin
	Uint(name string) uint32
}

type Writer struct {
	Timescale string
	Scope     string

	out    *bufio.Writer
	source Source
	pins   []model.Pin
	codes  []string
	last   []uint32
	header bool
}

func NewWriter(w io.Writer, source Source) *Writer {
	pins := source.Pins()
	codes := make([]string, len(pins))

	for i := range pins {
		codes[i] = identifier(i)
	}

	return &Writer{
		Timescale: DEFAULT_TIMESCALE,
		Scope:     DEFAULT_SCOPE,
		out:       bufio.NewWriter(w),
		source:    source,
		pins:      pins,
		codes:     codes,
		last:      make([]uint32, len(pins)),
	}
}

// Identifier codes are base-94 numbers over the printable ASCII range
func identifier(n int) string {
	const first, radix = '!', 94

	code := []byte{byte(first + n%radix)}

	for n /= radix; n > 0; n /= radix {
		n--
		code = append(code, byte(first+n%radix))
	}

	return string(code)
}

func (vw *Writer) writeHeader() {
	fmt.Fprintf(vw.out, "$timescale %s $end\n", vw.Timescale)
	fmt.Fprintf(vw.out, "$scope module %s $end\n", vw.Scope)

	for i, pin := range vw.pins {
		fmt.Fprintf(
			vw.out, "$var wire %d %s %s $end\n", pin.Width, vw.codes[i], pin.Name,
		)
	}

	fmt.Fprintf(vw.out, "$upscope $end\n$enddefinitions $end\n")
}

func (vw *Writer) writeValue(i int, value uint32) {
	if vw.pins[i].Width == 1 {
		fmt.Fprintf(vw.out, "%d%s\n", value&1, vw.codes[i])
	} else {
		fmt.Fprintf(vw.out, "b%s %s\n", strconv.FormatUint(uint64(value), 2), vw.codes[i])
	}
}

// Records every pin at the given time. The first sample dumps all values,
// later samples only the pins that changed.
func (vw *Writer) Sample(time uint64) error {
	if !vw.header {
		vw.writeHeader()
		fmt.Fprintf(vw.out, "#%d\n$dumpvars\n", time)

		for i, pin := range vw.pins {
			vw.last[i] = vw.source.Uint(pin.Name)
			vw.writeValue(i, vw.last[i])
		}

		fmt.Fprintf(vw.out, "$end\n")
		vw.header = true

		return vw.err()
	}

	stamped := false

	for i, pin := range vw.pins {
		value := vw.source.Uint(pin.Name)

		if value == vw.last[i] {
			continue
		}

		if !stamped {
			fmt.Fprintf(vw.out, "#%d\n", time)
			stamped = true
		}

		vw.writeValue(i, value)
		vw.last[i] = value
	}

	return vw.err()
}

// bufio.Writer keeps the first write error, a zero-length write reports it
func (vw *Writer) err() error {
	_, err := vw.out.Write(nil)
	return err
}

func (vw *Writer) Flush() error {
	return vw.out.Flush()
}
