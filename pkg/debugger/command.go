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
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/lassandro/dmtb/pkg/encoding"
)

// CommandReader pulls commands from a line-oriented command list, one line
// at a time and strictly in order. Blank lines and lines starting with '#'
// are skipped. Once the input is exhausted every call returns an implicit
// long idle.
type CommandReader struct {
	reader *bufio.Reader
	line   int
	eof    bool
}

func NewCommandReader(reader io.Reader) *CommandReader {
	return &CommandReader{reader: bufio.NewReader(reader)}
}

func (cr *CommandReader) Next() (Command, error) {
	for !cr.eof {
		// Lines have no length limit
		line, err := cr.reader.ReadString('\n')

		if err != nil {
			cr.eof = true

			if err != io.EOF {
				return Command{}, err
			}

			if len(line) == 0 {
				break
			}
		}

		cr.line++
		text := strings.TrimSpace(line)

		if len(text) == 0 || text[0] == '#' {
			continue
		}

		cmd, err := ParseCommand(text)

		if err != nil {
			return Command{}, &ParseError{cr.line, text, err}
		}

		cmd.Line = cr.line
		return cmd, nil
	}

	return Command{
		Verb:     VERB_IDLE,
		Name:     "i",
		Count:    EOF_IDLE,
		Implicit: true,
	}, nil
}

// Parses a single command: i <cycles>, w <addr> <data>, r <addr>, x.
// Verbs outside that set parse to VERB_UNKNOWN rather than failing.
func ParseCommand(text string) (Command, error) {
	args := strings.Fields(text)

	if len(args) == 0 {
		return Command{}, fmt.Errorf("%w: empty command", ErrMalformedCommand)
	}

	cmd := Command{Name: args[0]}
	args = args[1:]

	var operands []*uint32

	switch cmd.Name {
	case "i":
		const usage = "i <cycles>"
		cmd.Verb = VERB_IDLE
		operands = []*uint32{&cmd.Count}

		if len(args) < 1 {
			return Command{}, fmt.Errorf("%w: usage %s", ErrMalformedCommand, usage)
		}

	case "w":
		const usage = "w <addr> <data>"
		cmd.Verb = VERB_WRITE
		operands = []*uint32{&cmd.Addr, &cmd.Data}

		if len(args) < 2 {
			return Command{}, fmt.Errorf("%w: usage %s", ErrMalformedCommand, usage)
		}

	case "r":
		const usage = "r <addr>"
		cmd.Verb = VERB_READ
		operands = []*uint32{&cmd.Addr}

		if len(args) < 1 {
			return Command{}, fmt.Errorf("%w: usage %s", ErrMalformedCommand, usage)
		}

	case "x":
		cmd.Verb = VERB_EXIT

	default:
		cmd.Verb = VERB_UNKNOWN
	}

	for i, operand := range operands {
		value, err := encoding.DecodeUint32(args[i])

		if err != nil {
			return Command{}, fmt.Errorf("%w: %v", ErrMalformedCommand, err)
		}

		*operand = value
	}

	return cmd, nil
}
