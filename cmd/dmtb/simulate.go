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
	"bufio"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/lassandro/dmtb/pkg/debugger"
	"github.com/lassandro/dmtb/pkg/driver"
	"github.com/lassandro/dmtb/pkg/encoding"
	"github.com/lassandro/dmtb/pkg/luamodel"
	"github.com/lassandro/dmtb/pkg/machine"
	"github.com/lassandro/dmtb/pkg/model"
	"github.com/lassandro/dmtb/pkg/vcd"
)

type dumpRange struct {
	Start uint32
	End   uint32
}

type config struct {
	MaxCycles   int64
	Recovery    uint32
	Dumps       []dumpRange
	Watchpoints []debugger.Watchpoint
}

func parseOptions(opts *options) (config, error) {
	cfg := config{
		MaxCycles: driver.DEFAULT_MAX_CYCLES,
		Recovery:  debugger.IDLE_RECOVERY,
	}

	if opts.Cycles != "" {
		cycles, err := encoding.DecodeInt64(opts.Cycles)

		if err != nil {
			return cfg, fmt.Errorf("Option --cycles: %w", err)
		}

		cfg.MaxCycles = cycles
	}

	if opts.Recovery != "" {
		recovery, err := encoding.DecodeUint32(opts.Recovery)

		if err != nil {
			return cfg, fmt.Errorf("Option --recovery: %w", err)
		}

		cfg.Recovery = recovery
	}

	for _, dump := range opts.Dumps {
		start, end, err := encoding.DecodeRange(dump)

		if err != nil {
			return cfg, fmt.Errorf("Option --dump: %w", err)
		}

		cfg.Dumps = append(cfg.Dumps, dumpRange{start, end})
	}

	for _, watch := range opts.Watches {
		watchpoint, err := debugger.ParseWatchpoint(watch)

		if err != nil {
			return cfg, fmt.Errorf("Option --watch: %w", err)
		}

		cfg.Watchpoints = append(cfg.Watchpoints, watchpoint)
	}

	return cfg, nil
}

func loadModel(path string) (model.Model, func(), error) {
	if path == "" {
		return model.NewLoopback(), func() {}, nil
	}

	m, err := luamodel.Load(path)

	if err != nil {
		return nil, nil, err
	}

	return m, m.Close, nil
}

func simulate(stdout io.Writer, opts *options, args []string) error {
	cfg, err := parseOptions(opts)

	if err != nil {
		return err
	}

	display := bufio.NewWriter(stdout)
	defer display.Flush()

	mc, err := machine.New(machine.MEM_SIZE, &machine.DeviceHandler{
		Display:   display,
		AutoFlush: isTerminal(stdout),
	})

	if err != nil {
		return err
	}

	defer mc.Close()

	if err := loadBin(mc, args[0]); err != nil {
		return err
	}

	cmdfile, err := os.Open(args[1])

	if err != nil {
		return err
	}

	defer cmdfile.Close()

	core, closeModel, err := loadModel(opts.Model)

	if err != nil {
		return err
	}

	defer closeModel()

	seq := debugger.NewSequencer(
		debugger.NewCommandReader(cmdfile), core, display,
	)
	seq.Recovery = cfg.Recovery

	drv := driver.New(core, mc, seq)
	drv.Output = display
	drv.MaxCycles = cfg.MaxCycles

	if len(cfg.Watchpoints) > 0 {
		mc.Debugger = newWatchlist(cfg.Watchpoints, drv.Cycle)
	}

	var waves *vcd.Writer

	if len(args) > 2 {
		file, err := os.Create(args[2])

		if err != nil {
			return err
		}

		defer file.Close()

		waves = vcd.NewWriter(file, core)
		drv.Tracer = waves
	}

	result, runErr := run(drv)

	// A failed run still leaves the trace up to the failing cycle
	if waves != nil {
		if err := waves.Flush(); err != nil && runErr == nil {
			runErr = err
		}
	}

	if runErr != nil {
		return runErr
	}

	if result.Reason == driver.STOP_BUDGET {
		log.Printf("Stopped after %d cycles: %s\n", result.Cycles, result.Reason)
	}

	for _, dump := range cfg.Dumps {
		if err := mc.Dump(display, dump.Start, dump.End); err != nil {
			return err
		}
	}

	return display.Flush()
}

func loadBin(mc *machine.Machine, path string) error {
	file, err := os.Open(path)

	if err != nil {
		return err
	}

	defer file.Close()

	return mc.LoadBin(file)
}

// run turns a panicking model, such as one touching an undeclared pin, into
// an error.
func run(drv *driver.Driver) (result driver.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("Model failed at cycle %d: %v", drv.Cycle(), r)
		}
	}()

	return drv.Run()
}
