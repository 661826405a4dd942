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
	goflag "flag"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sicasm",
	Short: "Two-pass assembler and absolute loader for SIC object programs",
	Long: `sicasm translates tab separated SIC assembly into object programs made of
header, text and end records, and loads object programs into a memory image.

Source statements have up to three tab separated fields: label, opcode and
operand. Instruction mnemonics come from an opcode table file holding one
"MNEMONIC HH" pair per line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// glog refuses to log until the standard flag set is parsed
		goflag.CommandLine.Parse(nil)
	},
}

func init() {
	goflag.Set("logtostderr", "true")
	rootCmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)
}

func sicasm() int {
	defer glog.Flush()

	if err := rootCmd.Execute(); err != nil {
		glog.Error(err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(sicasm())
}
