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
	"strings"

	"github.com/lassandro/dmtb/pkg/encoding"
	"github.com/lassandro/dmtb/pkg/machine"
)

// Watchlist reports data-bus accesses that touch watched addresses. It
// plugs into machine.Machine as its debugger.
type Watchlist struct {
	Watchpoints []Watchpoint

	HandleRead  func(addr uint32, value uint32)
	HandleWrite func(addr uint32, value uint32, size uint8)
}

// Parses a watchpoint in the formats: 0x1000, 0x1000:r, 0x1000:w, 0x1000:rw
func ParseWatchpoint(s string) (Watchpoint, error) {
	addrpart, typepart := s, "rw"

	if i := strings.Index(s, ":"); i != -1 {
		addrpart, typepart = s[:i], s[i+1:]
	}

	addr, err := encoding.DecodeUint32(addrpart)

	if err != nil {
		return Watchpoint{}, err
	}

	var wtype WatchpointType

	switch typepart {
	case "r", "read":
		wtype = ReadWatch
	case "w", "write":
		wtype = WriteWatch
	case "rw", "rwrite", "readwrite":
		wtype = ReadWriteWatch
	default:
		return Watchpoint{}, errors.New("Invalid watchpoint type, expected r|w|rw")
	}

	return Watchpoint{addr, wtype}, nil
}

func (wl *Watchlist) Add(watchpoint Watchpoint) bool {
	for _, existing := range wl.Watchpoints {
		if existing == watchpoint {
			return false
		}
	}

	wl.Watchpoints = append(wl.Watchpoints, watchpoint)
	return true
}

// Reads return the whole containing word, so any address in it matches
func (wl *Watchlist) Read(addr uint32, value uint32) {
	for _, watchpoint := range wl.Watchpoints {
		if watchpoint.Type&ReadWatch == 0 {
			continue
		}

		if watchpoint.Addr&^machine.WORD_MASK == addr&^machine.WORD_MASK {
			if wl.HandleRead != nil {
				wl.HandleRead(addr, value)
			}
			break
		}
	}
}

func (wl *Watchlist) Write(addr uint32, value uint32, size uint8) {
	n := uint64(1) << (size & 0x7)

	for _, watchpoint := range wl.Watchpoints {
		if watchpoint.Type&WriteWatch == 0 {
			continue
		}

		if watchpoint.Addr >= addr && uint64(watchpoint.Addr) < uint64(addr)+n {
			if wl.HandleWrite != nil {
				wl.HandleWrite(addr, value, size)
			}
			break
		}
	}
}
