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
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/dmtb/pkg/debugger"
	"github.com/lassandro/dmtb/pkg/driver"
	"github.com/lassandro/dmtb/pkg/machine"
)

func TestNormalizeDumpArgs(t *testing.T) {
	type testCase struct {
		Args     []string
		Expected []string
	}

	tests := []testCase{
		{
			[]string{"a.bin", "cmds", "--dump", "0", "16"},
			[]string{"a.bin", "cmds", "--dump=0:16"},
		},
		{
			[]string{"--dump", "0x10", "0x20", "a.bin", "--dump", "1", "2", "cmds"},
			[]string{"--dump=0x10:0x20", "a.bin", "--dump=1:2", "cmds"},
		},
		{
			[]string{"a.bin", "cmds", "--dump", "0:16", "out.vcd"},
			[]string{"a.bin", "cmds", "--dump", "0:16", "out.vcd"},
		},
		{
			[]string{"a.bin", "cmds", "--dump", "0", "--cycles", "5"},
			[]string{"a.bin", "cmds", "--dump", "0", "--cycles", "5"},
		},
		{
			[]string{"a.bin", "--", "--dump", "0", "16"},
			[]string{"a.bin", "--", "--dump", "0", "16"},
		},
		{
			[]string{"a.bin", "cmds", "--dump"},
			[]string{"a.bin", "cmds", "--dump"},
		},
	}

	for _, test := range tests {
		assert.Equal(t, test.Expected, normalizeDumpArgs(test.Args))
	}
}

func TestParseOptions(t *testing.T) {
	cfg, err := parseOptions(&options{})
	require.NoError(t, err)
	assert.Equal(t, config{
		MaxCycles: driver.DEFAULT_MAX_CYCLES,
		Recovery:  debugger.IDLE_RECOVERY,
	}, cfg)

	cfg, err = parseOptions(&options{
		Cycles:   "0x100",
		Recovery: "3",
		Dumps:    []string{"0:0x10", "16,32"},
		Watches:  []string{"0x40:w", "0x80"},
	})
	require.NoError(t, err)
	assert.Equal(t, config{
		MaxCycles: 256,
		Recovery:  3,
		Dumps:     []dumpRange{{0, 0x10}, {16, 32}},
		Watchpoints: []debugger.Watchpoint{
			{Addr: 0x40, Type: debugger.WriteWatch},
			{Addr: 0x80, Type: debugger.ReadWriteWatch},
		},
	}, cfg)

	for _, opts := range []options{
		{Cycles: "many"},
		{Recovery: "-1"},
		{Dumps: []string{"16"}},
		{Watches: []string{"0x40:x"}},
	} {
		_, err := parseOptions(&opts)
		assert.Error(t, err)
	}
}

type workspace struct {
	Dir string
	Bin string
	Cmd string
}

func newWorkspace(t *testing.T, bin []byte, commands string) workspace {
	t.Helper()

	dir := t.TempDir()
	ws := workspace{
		Dir: dir,
		Bin: filepath.Join(dir, "prog.bin"),
		Cmd: filepath.Join(dir, "cmds.txt"),
	}

	require.NoError(t, os.WriteFile(ws.Bin, bin, 0644))
	require.NoError(t, os.WriteFile(ws.Cmd, []byte(commands), 0644))

	return ws
}

func execute(args ...string) (string, error) {
	var stdout bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs(normalizeDumpArgs(args))

	err := cmd.Execute()
	return stdout.String(), err
}

func TestRunLoopback(t *testing.T) {
	ws := newWorkspace(t,
		[]byte{0xDE, 0xAD, 0xBE, 0xEF},
		"# poke a debug register\nw 100 cafebabe\n\nr 100\nx\n",
	)

	output, err := execute(ws.Bin, ws.Cmd, "--dump", "0", "4", "--dump=2:3")
	require.NoError(t, err)

	assert.Equal(t, ""+
		"w 64: cafebabe\n"+
		"r 64: cafebabe\n"+
		"Dumping memory from 00000000 to 00000004:\n"+
		"de ad be ef \n"+
		"Dumping memory from 00000002 to 00000003:\n"+
		"be \n",
		output,
	)
}

func TestRunBudget(t *testing.T) {
	ws := newWorkspace(t, nil, "")

	var logged bytes.Buffer
	prefix := log.Prefix()
	log.SetOutput(&logged)
	log.SetPrefix("")

	defer func() {
		log.SetOutput(os.Stderr)
		log.SetPrefix(prefix)
	}()

	output, err := execute(ws.Bin, ws.Cmd, "--cycles", "2500")
	require.NoError(t, err)

	assert.Equal(t, "i 1000\ni 1000\ni 1000\n", output)
	assert.Equal(t, "Stopped after 2500 cycles: cycle budget exhausted\n", logged.String())
}

func TestRunWaves(t *testing.T) {
	ws := newWorkspace(t, nil, "w 1 2\nx\n")
	waves := filepath.Join(ws.Dir, "out.vcd")

	_, err := execute(ws.Bin, ws.Cmd, waves)
	require.NoError(t, err)

	data, err := os.ReadFile(waves)
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "$timescale 1us $end\n"))
	assert.Contains(t, text, " dmi_pwdata $end\n")
	assert.Contains(t, text, "#0\n$dumpvars\n")
	assert.Contains(t, text, "\n#1\n")
}

func TestRunWavesKeptOnError(t *testing.T) {
	ws := newWorkspace(t, nil, "i 5\nr banana\n")
	waves := filepath.Join(ws.Dir, "out.vcd")

	_, err := execute(ws.Bin, ws.Cmd, waves)
	assert.True(t, errors.Is(err, debugger.ErrMalformedCommand))

	data, err := os.ReadFile(waves)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "$enddefinitions $end\n")
	assert.Contains(t, text, "#0\n$dumpvars\n")
	assert.Contains(t, text, "\n#11\n")
}

func TestRunLuaModel(t *testing.T) {
	ws := newWorkspace(t, nil, "")
	script := filepath.Join(ws.Dir, "core.lua")

	require.NoError(t, os.WriteFile(script, []byte(`
local issued = false
local pending = false
local last = 0

function step()
    local clk = get("clk")

    if clk == 1 and last == 0 and get("rst_n") == 1 then
        if pending then
            set("d_hwdata", 3)
            pending = false
        end

        if not issued then
            set("d_htrans", 2)
            set("d_hwrite", true)
            set("d_hsize", 2)
            set("d_haddr", 0x80000008)
            issued = true
            pending = true
        else
            set("d_htrans", 0)
        end
    end

    last = clk
end
`), 0644))

	output, err := execute(ws.Bin, ws.Cmd, "--model", script)
	require.NoError(t, err)

	assert.Equal(t,
		"i 1000\nCPU requested halt. Exit code 3\nRan for 2 cycles\n",
		output,
	)
}

func TestRunWatch(t *testing.T) {
	var logged bytes.Buffer
	prefix := log.Prefix()
	log.SetOutput(&logged)
	log.SetPrefix("")

	defer func() {
		log.SetOutput(os.Stderr)
		log.SetPrefix(prefix)
	}()

	ws := newWorkspace(t, nil, "")
	script := filepath.Join(ws.Dir, "core.lua")

	require.NoError(t, os.WriteFile(script, []byte(`
local ops = {
    { write = true, addr = 0x40, data = 0x1234 },
    { write = false, addr = 0x42 },
    { write = true, addr = 0x80000008, data = 0 },
}
local idx = 1
local pending = nil
local last = 0

function step()
    local clk = get("clk")

    if clk == 1 and last == 0 and get("rst_n") == 1 then
        if pending then
            set("d_hwdata", pending)
            pending = nil
        end

        local op = ops[idx]

        if op then
            set("d_htrans", 2)
            set("d_hwrite", op.write)
            set("d_hsize", 2)
            set("d_haddr", op.addr)
            pending = op.data
            idx = idx + 1
        else
            set("d_htrans", 0)
        end
    end

    last = clk
end
`), 0644))

	_, err := execute(ws.Bin, ws.Cmd, "--model", script, "--watch", "0x40")
	require.NoError(t, err)

	assert.Equal(t, ""+
		"Watch [00000040] write 00001234, 4 bytes (cycle 1)\n"+
		"Watch [00000042] read 00001234 (cycle 2)\n",
		logged.String(),
	)
}

func TestRunErrors(t *testing.T) {
	ws := newWorkspace(t, nil, "w 1\n")
	missing := filepath.Join(ws.Dir, "missing")

	_, err := execute(ws.Bin)
	assert.Error(t, err)

	_, err = execute(ws.Bin, ws.Cmd, "a.vcd", "extra")
	assert.Error(t, err)

	_, err = execute(missing, ws.Cmd)
	assert.Error(t, err)

	_, err = execute(ws.Bin, missing)
	assert.Error(t, err)

	_, err = execute(ws.Bin, ws.Cmd, "--model", missing)
	assert.Error(t, err)

	_, err = execute(ws.Bin, ws.Cmd)
	assert.True(t, errors.Is(err, debugger.ErrMalformedCommand))

	ok := newWorkspace(t, nil, "x\n")
	output, err := execute(ok.Bin, ok.Cmd, "--dump", "0", "2", "--dump", "0xfffff0", "0x1000010")
	assert.True(t, errors.Is(err, machine.ErrDumpRange))
	assert.Equal(t, "Dumping memory from 00000000 to 00000002:\n00 00 \n", output)
}

func TestRunModelPanic(t *testing.T) {
	ws := newWorkspace(t, nil, "")
	script := filepath.Join(ws.Dir, "core.lua")
	require.NoError(t, os.WriteFile(script, []byte(`
pins = { { name = "clk", width = 1 } }
function step() end
`), 0644))

	_, err := execute(ws.Bin, ws.Cmd, "--model", script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Model failed")
}

func TestImageTooLarge(t *testing.T) {
	ws := newWorkspace(t, make([]byte, machine.MEM_SIZE+1), "x\n")

	_, err := execute(ws.Bin, ws.Cmd)
	assert.True(t, errors.Is(err, machine.ErrImageTooLarge))
}
