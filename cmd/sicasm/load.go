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
	"os"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/lassandro/sicasm/pkg/encoding"
	"github.com/lassandro/sicasm/pkg/machine"
	"github.com/lassandro/sicasm/pkg/record"
)

var loadFlags struct {
	from  string
	count uint32
}

var loadCmd = &cobra.Command{
	Use:   "load [flags] object",
	Short: "Load an object program into memory and print the memory image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		var mc machine.Machine

		if err := mc.Load(file); err != nil {
			return err
		}

		addr, count := mc.Start, mc.Length

		if loadFlags.from != "" {
			if addr, err = encoding.DecodeHex(loadFlags.from); err != nil {
				return err
			}
		}

		if loadFlags.count > 0 {
			count = loadFlags.count
		}

		color := isTerminal(os.Stdout)

		fmt.Printf(
			"%s %s at %06X, %X bytes, entry %06X\n",
			bold("Loaded", color), mc.Name, mc.Start, mc.Length, mc.State.Program,
		)

		return mc.Dump(os.Stdout, addr, count, color)
	},
}

var dumpCmd = &cobra.Command{
	Use:   "dump object",
	Short: "Pretty-print the records of an object program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()

		program, err := record.Parse(file)
		if err != nil {
			return err
		}

		printer := pp.New()
		printer.SetOutput(os.Stdout)
		printer.SetColoringEnabled(isTerminal(os.Stdout))
		printer.Println(program)

		return nil
	},
}

func init() {
	loadCmd.Flags().StringVar(&loadFlags.from, "from", "", "first address to print, in hex (default: program start)")
	loadCmd.Flags().Uint32Var(&loadFlags.count, "count", 0, "number of bytes to print (default: program length)")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(dumpCmd)
}
