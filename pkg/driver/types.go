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
	"github.com/lassandro/dmtb/pkg/machine"
)

const DEFAULT_MAX_CYCLES int64 = 100000

type StopReason uint

const (
	STOP_BUDGET StopReason = iota
	STOP_HALT
	STOP_EXIT
)

func (reason StopReason) String() string {
	switch reason {
	case STOP_BUDGET:
		return "cycle budget exhausted"
	case STOP_HALT:
		return "halt requested"
	case STOP_EXIT:
		return "exit requested"
	}

	return "unknown"
}

type Result struct {
	Reason   StopReason
	Cycles   int64
	ExitCode uint32
}

// One bus address phase, latched at the end of the cycle it was presented
// in and answered during the next
type Transaction struct {
	Valid bool
	Write bool
	Addr  uint32
	Size  uint8
}

type Responder interface {
	Respond(addr uint32, write bool, size uint8, value uint32) machine.Response
	Fetch(addr uint32) uint32
}

type Sequencer interface {
	Advance() (bool, error)
}

// Tracer observes the model at half-cycle resolution
type Tracer interface {
	Sample(time uint64) error
}
