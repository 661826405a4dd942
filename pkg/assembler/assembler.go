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

// Package assembler implements a two-pass assembler for a SIC-style machine
// with a fixed 3 byte instruction format.
//
// Source is read one statement per line with tab separated label, opcode and
// operand fields. Pass 1 assigns addresses and builds the symbol table, pass
// 2 generates object code and packs it into text records.
package assembler

import (
	"io"
)

// Assemble runs both passes over source. Pass 2 is skipped when pass 1
// reports errors.
func Assemble(source io.Reader, optab *OpTable, opts Options) (*Assembly, []error) {
	intermediate, errs := Pass1(source, optab, opts)

	if len(errs) > 0 {
		return nil, errs
	}

	program, listing, errs := Pass2(intermediate, optab, opts)

	if len(errs) > 0 {
		return nil, errs
	}

	return &Assembly{intermediate, listing, program}, nil
}
