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

// Package store keeps a history of assembled programs in a SQL database.
package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/bobg/sqlutil"
	"github.com/pkg/errors"

	"github.com/lassandro/sicasm/pkg/assembler"
	"github.com/lassandro/sicasm/pkg/record"
)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

type Program struct {
	ID        int64
	Source    string
	Name      string
	Start     uint32
	Length    uint32
	Assembled time.Time
}

func Open(ctx context.Context, db *sql.DB) (*Store, error) {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return nil, errors.Wrap(err, "creating db schema")
	}

	return &Store{db: db, now: time.Now}, nil
}

// Save records one assembly run along with its symbol table and returns
// the new program id.
func (s *Store) Save(ctx context.Context, source string, asm *assembler.Assembly) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(
		ctx,
		"INSERT INTO programs (source, name, start, length, object, assembled_ms) VALUES ($1, $2, $3, $4, $5, $6)",
		source,
		asm.Meta.Name,
		asm.Meta.Start,
		asm.Meta.Length,
		asm.Program.String(),
		s.now().UnixNano()/int64(time.Millisecond),
	)
	if err != nil {
		return 0, errors.Wrapf(err, "writing program %s to db", asm.Meta.Name)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "getting program id")
	}

	for seq, sym := range asm.Symbols.Symbols() {
		_, err = tx.ExecContext(
			ctx,
			"INSERT INTO symbols (program_id, seq, label, address, flag) VALUES ($1, $2, $3, $4, $5)",
			id, seq, sym.Label, sym.Address, sym.Flag,
		)
		if err != nil {
			return 0, errors.Wrapf(err, "writing symbol %s of program %d to db", sym.Label, id)
		}
	}

	return id, errors.Wrap(tx.Commit(), "committing program")
}

// Programs lists stored runs, newest first.
func (s *Store) Programs(ctx context.Context) ([]Program, error) {
	var result []Program

	const q = "SELECT id, source, name, start, length, assembled_ms FROM programs ORDER BY id DESC"
	err := sqlutil.ForQueryRows(ctx, s.db, q, func(id int64, source, name string, start, length uint32, ms int64) {
		result = append(result, Program{
			ID:        id,
			Source:    source,
			Name:      name,
			Start:     start,
			Length:    length,
			Assembled: time.Unix(0, ms*int64(time.Millisecond)),
		})
	})

	return result, errors.Wrap(err, "listing programs")
}

func (s *Store) Symbols(ctx context.Context, id int64) ([]assembler.Symbol, error) {
	var result []assembler.Symbol

	const q = "SELECT label, address, flag FROM symbols WHERE program_id = $1 ORDER BY seq"
	err := sqlutil.ForQueryRows(ctx, s.db, q, id, func(label string, address uint32, flag int) {
		result = append(result, assembler.Symbol{Label: label, Address: address, Flag: flag})
	})

	return result, errors.Wrapf(err, "reading symbols of program %d", id)
}

func (s *Store) ObjectProgram(ctx context.Context, id int64) (*record.Program, error) {
	var object string

	err := s.db.QueryRowContext(ctx, "SELECT object FROM programs WHERE id = $1", id).Scan(&object)
	if err != nil {
		return nil, errors.Wrapf(err, "reading program %d from db", id)
	}

	program, err := record.Parse(strings.NewReader(object))
	return program, errors.Wrapf(err, "parsing program %d", id)
}
