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
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lassandro/sicasm/pkg/assembler"
	"github.com/lassandro/sicasm/pkg/store"
)

var historyFlags struct {
	db      string
	symbols int64
	object  int64
}

var historyCmd = &cobra.Command{
	Use:   "history --db file",
	Short: "List programs recorded by 'assemble --db'",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		s, closer, err := openStore(ctx, historyFlags.db)
		if err != nil {
			return err
		}
		defer closer()

		switch {
		case historyFlags.symbols > 0:
			symbols, err := s.Symbols(ctx, historyFlags.symbols)
			if err != nil {
				return err
			}

			table := assembler.NewSymTable()
			for _, sym := range symbols {
				table.Insert(sym.Label, sym.Address)
			}

			fmt.Println(strings.Join(assembler.SymbolRows(table), "\n"))

		case historyFlags.object > 0:
			program, err := s.ObjectProgram(ctx, historyFlags.object)
			if err != nil {
				return err
			}

			fmt.Println(program)

		default:
			programs, err := s.Programs(ctx)
			if err != nil {
				return err
			}

			for _, p := range programs {
				fmt.Printf(
					"%d\t%s\t%s\t%06X\t%X\t%s\n",
					p.ID, p.Source, p.Name, p.Start, p.Length,
					p.Assembled.Format("2006-01-02 15:04:05"),
				)
			}
		}

		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyFlags.db, "db", "", "sqlite database file")
	historyCmd.Flags().Int64Var(&historyFlags.symbols, "symbols", 0, "print the symbol table of this program id")
	historyCmd.Flags().Int64Var(&historyFlags.object, "object", 0, "print the object program of this program id")
	historyCmd.MarkFlagRequired("db")

	rootCmd.AddCommand(historyCmd)
}

func openStore(ctx context.Context, path string) (*store.Store, func(), error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening db")
	}

	s, err := store.Open(ctx, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return s, func() { db.Close() }, nil
}
