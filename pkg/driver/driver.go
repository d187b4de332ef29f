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

package driver

import (
	"fmt"
	"io"

	"github.com/lassandro/dmtb/pkg/machine"
	"github.com/lassandro/dmtb/pkg/model"
)

// Driver clocks the model and couples it to the bus responder and the
// debug sequencer. Within a cycle the order is fixed: clock low, clock
// high, sequencer step, bus responses, then latching the new address
// phases for the next cycle.
type Driver struct {
	Model     model.Model
	Responder Responder
	Sequencer Sequencer
	Tracer    Tracer
	Output    io.Writer

	MaxCycles int64

	cycle int64
	data  Transaction
	instr Transaction
}

func New(m model.Model, responder Responder, sequencer Sequencer) *Driver {
	return &Driver{
		Model:     m,
		Responder: responder,
		Sequencer: sequencer,
		MaxCycles: DEFAULT_MAX_CYCLES,
	}
}

// Index of the cycle in progress, or the number of cycles run once Run
// returns on the budget
func (drv *Driver) Cycle() int64 {
	return drv.cycle
}

// Brings the model out of reset: a step with reset held, one clock pulse,
// then reset released and the model settled.
func (drv *Driver) Reset() {
	// Wait states are not modelled
	drv.Model.SetBool(model.PIN_I_HREADY, true)
	drv.Model.SetBool(model.PIN_D_HREADY, true)

	drv.Model.Step()
	drv.Model.SetBool(model.PIN_CLK, true)
	drv.Model.Step()
	drv.Model.SetBool(model.PIN_CLK, false)
	drv.Model.SetBool(model.PIN_RST_N, true)
	drv.Model.Step()

	drv.cycle = 0
	drv.data = Transaction{}
	drv.instr = Transaction{}
}

func (drv *Driver) Run() (Result, error) {
	drv.Reset()

	for drv.cycle = 0; drv.cycle < drv.MaxCycles; drv.cycle++ {
		exit, halt, err := drv.step()

		if err != nil {
			return Result{Cycles: drv.cycle + 1}, err
		}

		if halt != nil {
			fmt.Fprintf(drv.output(), "CPU requested halt. Exit code %d\n", int32(halt.ExitCode))
			fmt.Fprintf(drv.output(), "Ran for %d cycles\n", drv.cycle+1)

			return Result{
				Reason:   STOP_HALT,
				Cycles:   drv.cycle + 1,
				ExitCode: halt.ExitCode,
			}, nil
		}

		if exit {
			return Result{Reason: STOP_EXIT, Cycles: drv.cycle + 1}, nil
		}
	}

	return Result{Reason: STOP_BUDGET, Cycles: drv.cycle}, nil
}

func (drv *Driver) step() (bool, *machine.Response, error) {
	drv.Model.SetBool(model.PIN_CLK, false)
	drv.Model.Step()

	if err := drv.sample(uint64(drv.cycle) * 2); err != nil {
		return false, nil, err
	}

	drv.Model.SetBool(model.PIN_CLK, true)
	drv.Model.Step()

	exit, err := drv.Sequencer.Advance()

	if err != nil {
		return false, nil, fmt.Errorf("cycle %d: %w", drv.cycle, err)
	}

	if halt := drv.respond(); halt != nil {
		return exit, halt, nil
	}

	drv.data = drv.latchData()
	drv.instr = drv.latchInstr()

	if drv.Tracer != nil {
		// Settle the responses so they line up with their cycle in the trace
		drv.Model.Step()

		if err := drv.sample(uint64(drv.cycle)*2 + 1); err != nil {
			return false, nil, err
		}
	}

	return exit, nil, nil
}

// Answers the address phases latched last cycle. The read data lands on the
// model's inputs before the next rising edge samples it.
func (drv *Driver) respond() *machine.Response {
	var rdata uint32

	if drv.data.Valid {
		var wdata uint32

		if drv.data.Write {
			wdata = drv.Model.Uint(model.PIN_D_HWDATA)
		}

		result := drv.Responder.Respond(
			drv.data.Addr, drv.data.Write, drv.data.Size, wdata,
		)

		if result.Effect == machine.EFFECT_HALT {
			return &result
		}

		if !drv.data.Write {
			rdata = result.Data
		}
	}

	drv.Model.SetUint(model.PIN_D_HRDATA, rdata)

	if drv.instr.Valid {
		drv.Model.SetUint(model.PIN_I_HRDATA, drv.Responder.Fetch(drv.instr.Addr))
	}

	return nil
}

func (drv *Driver) latchData() Transaction {
	return Transaction{
		Valid: drv.Model.Uint(model.PIN_D_HTRANS)>>1 != 0,
		Write: drv.Model.Bool(model.PIN_D_HWRITE),
		Addr:  drv.Model.Uint(model.PIN_D_HADDR),
		Size:  uint8(drv.Model.Uint(model.PIN_D_HSIZE)),
	}
}

func (drv *Driver) latchInstr() Transaction {
	return Transaction{
		Valid: drv.Model.Uint(model.PIN_I_HTRANS)>>1 != 0,
		Addr:  drv.Model.Uint(model.PIN_I_HADDR),
		Size:  machine.SIZE_WORD,
	}
}

func (drv *Driver) sample(time uint64) error {
	if drv.Tracer == nil {
		return nil
	}

	return drv.Tracer.Sample(time)
}

func (drv *Driver) output() io.Writer {
	if drv.Output == nil {
		return io.Discard
	}

	return drv.Output
}
