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
	"errors"
	"fmt"
)

// Cycles the sequencer waits after each debug transaction before it pulls
// the next command. Debug module turnaround for the reference core.
const IDLE_RECOVERY uint32 = 10

// Idle cycles synthesized once the command list is exhausted
const EOF_IDLE uint32 = 1000

var ErrMalformedCommand = errors.New("Malformed command")

type State uint

const (
	S_IDLE State = iota
	S_WRITE_SETUP
	S_WRITE_ACCESS
	S_READ_SETUP
	S_READ_ACCESS
)

func (s State) String() string {
	switch s {
	case S_IDLE:
		return "IDLE"
	case S_WRITE_SETUP:
		return "WRITE_SETUP"
	case S_WRITE_ACCESS:
		return "WRITE_ACCESS"
	case S_READ_SETUP:
		return "READ_SETUP"
	case S_READ_ACCESS:
		return "READ_ACCESS"
	}

	return fmt.Sprintf("State(%d)", uint(s))
}

type Verb uint

const (
	VERB_IDLE Verb = iota
	VERB_WRITE
	VERB_READ
	VERB_EXIT
	VERB_UNKNOWN
)

type Command struct {
	Verb Verb
	Name string

	Addr  uint32
	Data  uint32
	Count uint32

	Line int

	// Synthesized because the command source ran dry
	Implicit bool
}

type ParseError struct {
	Line int
	Text string
	Err  error
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", err.Line, err.Text, err.Err)
}

func (err *ParseError) Unwrap() error {
	return err.Err
}

type WatchpointType uint

const (
	ReadWatch WatchpointType = 1 << iota
	WriteWatch

	ReadWriteWatch = ReadWatch | WriteWatch
)

type Watchpoint struct {
	Addr uint32
	Type WatchpointType
}
