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

package main

import (
	"log"

	"github.com/lassandro/dmtb/pkg/debugger"
)

func newWatchlist(
	watchpoints []debugger.Watchpoint, cycle func() int64,
) *debugger.Watchlist {
	var wl debugger.Watchlist

	for _, watchpoint := range watchpoints {
		wl.Add(watchpoint)
	}

	wl.HandleRead = func(addr uint32, value uint32) {
		log.Printf("Watch [%08x] read %08x (cycle %d)\n", addr, value, cycle())
	}

	wl.HandleWrite = func(addr uint32, value uint32, size uint8) {
		log.Printf(
			"Watch [%08x] write %08x, %d bytes (cycle %d)\n",
			addr, value, 1<<size, cycle(),
		)
	}

	return &wl
}
