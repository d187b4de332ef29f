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
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const usage = "dmtb binfile cmdlist [vcdfile]"

const help = `Runs a core model against flat memory and replays a debug command list.

    binfile          : Binary to load into start of memory
    cmdlist          : Debug module command list file
    vcdfile          : Path to dump waveforms to
    --dump start end : Print out memory contents between start and end
                       (exclusive) after execution finishes. Can be passed
                       multiple times, also as --dump start:end.
`

type options struct {
	Cycles   string
	Dumps    []string
	Model    string
	Recovery string
	Watches  []string
}

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           usage,
		Short:         "Cycle driver for a core model's bus and debug port",
		Long:          help,
		Args:          cobra.RangeArgs(2, 3),
		SilenceErrors: true,
		SilenceUsage:  true,

		RunE: func(cmd *cobra.Command, args []string) error {
			return simulate(cmd.OutOrStdout(), &opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Cycles, "cycles", "",
		"Maximum number of cycles to run before exiting")
	flags.StringArrayVar(&opts.Dumps, "dump", nil,
		"Memory range start:end to print after execution finishes")
	flags.StringVar(&opts.Model, "model", "",
		"Lua core model script, the built-in loopback model otherwise")
	flags.StringVar(&opts.Recovery, "recovery", "",
		"Idle cycles after each debug transaction")
	flags.StringArrayVar(&opts.Watches, "watch", nil,
		"Log data bus accesses to addr[:r|w|rw]")

	return cmd
}

// normalizeDumpArgs rewrites the two-operand "--dump start end" form into
// "--dump=start:end" so the flag parser sees a single value.
func normalizeDumpArgs(args []string) []string {
	result := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			result = append(result, args[i:]...)
			break
		}

		if arg == "--dump" && i+2 < len(args) &&
			!strings.HasPrefix(args[i+1], "-") &&
			!strings.ContainsAny(args[i+1], ":,") &&
			!strings.HasPrefix(args[i+2], "-") {
			result = append(result, fmt.Sprintf("--dump=%s:%s", args[i+1], args[i+2]))
			i += 2
			continue
		}

		result = append(result, arg)
	}

	return result
}

func dmtb(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(normalizeDumpArgs(args))

	if err := cmd.Execute(); err != nil {
		log.Println(err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(dmtb(os.Args[1:]))
}
