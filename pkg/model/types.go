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

type PinDirection uint

const (
	PIN_IN PinDirection = iota
	PIN_OUT
)

type Pin struct {
	Name      string
	Width     uint
	Direction PinDirection
}

// Model is a pin-level simulation target. Inputs are driven with the
// setters, outputs sampled with the getters, and Step settles the design
// after every change the caller wants observed.
type Model interface {
	SetBool(name string, value bool)
	SetUint(name string, value uint32)
	Bool(name string) bool
	Uint(name string) uint32
	Step()
	Pins() []Pin
}
