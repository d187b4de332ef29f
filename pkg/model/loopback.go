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

// Loopback is a stand-in core: both buses stay idle, and the debug module
// interface is backed by a plain register file, so a write to an address
// reads back from the same address.
type Loopback struct {
	*PinSet

	Registers map[uint32]uint32

	clk bool
}

func NewLoopback() *Loopback {
	return &Loopback{
		PinSet:    NewPinSet(CorePins),
		Registers: make(map[uint32]uint32),
	}
}

func (lb *Loopback) Step() {
	clk := lb.Bool(PIN_CLK)

	if clk && !lb.clk && lb.Bool(PIN_RST_N) {
		lb.posedge()
	}

	lb.clk = clk

	if lb.Bool(PIN_DMI_PSEL) && !lb.Bool(PIN_DMI_PWRITE) {
		lb.SetUint(PIN_DMI_PRDATA, lb.Registers[lb.Uint(PIN_DMI_PADDR)])
	}
}

func (lb *Loopback) posedge() {
	if lb.Bool(PIN_DMI_PSEL) && lb.Bool(PIN_DMI_PENABLE) &&
		lb.Bool(PIN_DMI_PWRITE) {
		lb.Registers[lb.Uint(PIN_DMI_PADDR)] = lb.Uint(PIN_DMI_PWDATA)
	}
}
