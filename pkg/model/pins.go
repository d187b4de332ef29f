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

package model

import (
	"fmt"
)

// PinSet holds the current value of every declared pin. Models embed it to
// get the accessor half of the Model interface.
type PinSet struct {
	declared []Pin
	index    map[string]int
	values   []uint32
}

func NewPinSet(pins []Pin) *PinSet {
	ps := &PinSet{
		declared: make([]Pin, len(pins)),
		index:    make(map[string]int, len(pins)),
		values:   make([]uint32, len(pins)),
	}

	copy(ps.declared, pins)

	for i, pin := range pins {
		if pin.Width == 0 || pin.Width > 32 {
			panic(fmt.Sprintf("Invalid width %d for pin %q", pin.Width, pin.Name))
		}

		if _, exists := ps.index[pin.Name]; exists {
			panic(fmt.Sprintf("Duplicate pin %q", pin.Name))
		}

		ps.index[pin.Name] = i
	}

	return ps
}

func Mask(width uint) uint32 {
	if width >= 32 {
		return 0xFFFFFFFF
	}

	return (1 << width) - 1
}

func (ps *PinSet) lookup(name string) int {
	i, exists := ps.index[name]

	if !exists {
		panic(fmt.Sprintf("Undeclared pin %q", name))
	}

	return i
}

func (ps *PinSet) Has(name string) bool {
	_, exists := ps.index[name]
	return exists
}

func (ps *PinSet) SetUint(name string, value uint32) {
	i := ps.lookup(name)
	ps.values[i] = value & Mask(ps.declared[i].Width)
}

func (ps *PinSet) SetBool(name string, value bool) {
	if value {
		ps.SetUint(name, 1)
	} else {
		ps.SetUint(name, 0)
	}
}

func (ps *PinSet) Uint(name string) uint32 {
	return ps.values[ps.lookup(name)]
}

func (ps *PinSet) Bool(name string) bool {
	return ps.values[ps.lookup(name)]&1 == 1
}

func (ps *PinSet) Pins() []Pin {
	return ps.declared
}
