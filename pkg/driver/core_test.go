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

package driver_test

import (
	"github.com/lassandro/dmtb/pkg/machine"
	"github.com/lassandro/dmtb/pkg/model"
)

type busOp struct {
	Idle  bool
	Write bool
	Addr  uint32
	Size  uint8
	Data  uint32
}

func write(addr uint32, size uint8, data uint32) busOp {
	return busOp{Write: true, Addr: addr, Size: size, Data: data}
}

func read(addr uint32, size uint8) busOp {
	return busOp{Addr: addr, Size: size}
}

func idle() busOp {
	return busOp{Idle: true}
}

// testCore plays a fixed list of AHB-Lite transfers on the data bus and a
// list of fetch addresses on the instruction bus, one address phase per
// cycle, while its debug module interface behaves like model.Loopback.
type testCore struct {
	*model.Loopback

	Ops     []busOp
	Fetches []uint32

	Reads   []uint32
	Fetched []uint32
	Steps   int

	clk       bool
	addrPhase *busOp
	dataPhase *busOp
	fetchAddr bool
	fetchData bool
}

func newTestCore(ops []busOp, fetches []uint32) *testCore {
	return &testCore{
		Loopback: model.NewLoopback(),
		Ops:      ops,
		Fetches:  fetches,
	}
}

func (c *testCore) Step() {
	c.Steps++
	clk := c.Bool(model.PIN_CLK)

	if clk && !c.clk && c.Bool(model.PIN_RST_N) {
		c.dataBus()
		c.instrBus()
	}

	c.clk = clk
	c.Loopback.Step()
}

func (c *testCore) dataBus() {
	if c.dataPhase != nil && !c.dataPhase.Write {
		c.Reads = append(c.Reads, c.Uint(model.PIN_D_HRDATA))
	}

	c.dataPhase = c.addrPhase
	c.addrPhase = nil

	if c.dataPhase != nil && c.dataPhase.Write {
		c.SetUint(model.PIN_D_HWDATA, c.dataPhase.Data)
	}

	if len(c.Ops) > 0 && !c.Ops[0].Idle {
		op := c.Ops[0]
		c.addrPhase = &op
		c.SetUint(model.PIN_D_HTRANS, model.HTRANS_NONSEQ)
		c.SetUint(model.PIN_D_HADDR, op.Addr)
		c.SetBool(model.PIN_D_HWRITE, op.Write)
		c.SetUint(model.PIN_D_HSIZE, uint32(op.Size))
	} else {
		c.SetUint(model.PIN_D_HTRANS, model.HTRANS_IDLE)
	}

	if len(c.Ops) > 0 {
		c.Ops = c.Ops[1:]
	}
}

func (c *testCore) instrBus() {
	if c.fetchData {
		c.Fetched = append(c.Fetched, c.Uint(model.PIN_I_HRDATA))
	}

	c.fetchData = c.fetchAddr
	c.fetchAddr = false

	if len(c.Fetches) > 0 {
		c.fetchAddr = true
		c.SetUint(model.PIN_I_HTRANS, model.HTRANS_NONSEQ)
		c.SetUint(model.PIN_I_HADDR, c.Fetches[0])
		c.Fetches = c.Fetches[1:]
	} else {
		c.SetUint(model.PIN_I_HTRANS, model.HTRANS_IDLE)
	}
}

func exitOp(code uint32) busOp {
	return write(machine.IO_BASE+machine.IO_EXIT, machine.SIZE_WORD, code)
}
