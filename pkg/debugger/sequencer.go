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

package debugger

import (
	"fmt"
	"io"
	"log"

	"github.com/lassandro/dmtb/pkg/model"
)

type CommandSource interface {
	Next() (Command, error)
}

// Port is the slice of the model the sequencer is allowed to touch: the
// debug module interface pins.
type Port interface {
	SetBool(name string, value bool)
	SetUint(name string, value uint32)
	Uint(name string) uint32
}

// Sequencer replays debug commands against the debug module interface.
// Each write or read is one setup cycle and one access cycle, followed by
// Recovery idle cycles before the next command is pulled.
type Sequencer struct {
	Commands CommandSource
	Port     Port
	Output   io.Writer
	Recovery uint32

	state State
	idle  uint32
	addr  uint32
}

func NewSequencer(
	commands CommandSource, port Port, output io.Writer,
) *Sequencer {
	return &Sequencer{
		Commands: commands,
		Port:     port,
		Output:   output,
		Recovery: IDLE_RECOVERY,
	}
}

func (seq *Sequencer) State() State {
	return seq.state
}

func (seq *Sequencer) Idle() uint32 {
	return seq.idle
}

// Advances the state machine by one clock cycle. The boolean result reports
// that the command stream asked for the run to stop.
func (seq *Sequencer) Advance() (bool, error) {
	switch seq.state {
	case S_IDLE:
		if seq.idle > 0 {
			seq.idle--
			return false, nil
		}

		cmd, err := seq.Commands.Next()

		if err != nil {
			return false, err
		}

		return seq.issue(cmd), nil

	case S_WRITE_SETUP:
		seq.Port.SetBool(model.PIN_DMI_PENABLE, true)
		seq.state = S_WRITE_ACCESS

	case S_WRITE_ACCESS:
		seq.Port.SetBool(model.PIN_DMI_PENABLE, false)
		seq.Port.SetBool(model.PIN_DMI_PSEL, false)
		seq.Port.SetBool(model.PIN_DMI_PWRITE, false)
		seq.state = S_IDLE
		seq.idle = seq.Recovery

	case S_READ_SETUP:
		seq.Port.SetBool(model.PIN_DMI_PENABLE, true)
		seq.state = S_READ_ACCESS

	case S_READ_ACCESS:
		seq.Port.SetBool(model.PIN_DMI_PENABLE, false)
		seq.Port.SetBool(model.PIN_DMI_PSEL, false)

		value := seq.Port.Uint(model.PIN_DMI_PRDATA)
		seq.printf("r %02x: %08x\n", seq.addr, value)

		seq.state = S_IDLE
		seq.idle = seq.Recovery

	default:
		seq.state = S_IDLE
	}

	return false, nil
}

func (seq *Sequencer) issue(cmd Command) bool {
	switch cmd.Verb {
	case VERB_IDLE:
		seq.idle = cmd.Count
		seq.printf("i %d\n", cmd.Count)

	case VERB_WRITE:
		seq.addr = cmd.Addr
		seq.Port.SetUint(model.PIN_DMI_PADDR, cmd.Addr)
		seq.Port.SetUint(model.PIN_DMI_PWDATA, cmd.Data)
		seq.Port.SetBool(model.PIN_DMI_PSEL, true)
		seq.Port.SetBool(model.PIN_DMI_PWRITE, true)
		seq.state = S_WRITE_SETUP
		seq.printf("w %02x: %08x\n", cmd.Addr, cmd.Data)

	case VERB_READ:
		seq.addr = cmd.Addr
		seq.Port.SetUint(model.PIN_DMI_PADDR, cmd.Addr)
		seq.Port.SetBool(model.PIN_DMI_PSEL, true)
		seq.Port.SetBool(model.PIN_DMI_PWRITE, false)
		seq.state = S_READ_SETUP

	case VERB_EXIT:
		return true

	default:
		log.Printf("Unrecognised verb %s (line %d)\n", cmd.Name, cmd.Line)
		return true
	}

	return false
}

func (seq *Sequencer) printf(format string, args ...interface{}) {
	if seq.Output != nil {
		fmt.Fprintf(seq.Output, format, args...)
	}
}
