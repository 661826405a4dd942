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

package assembler

type Symbol struct {
	Label   string
	Address uint32
	Flag    int
}

// SymTable keeps labels in declaration order. A label is only ever inserted
// once.
type SymTable struct {
	symbols []Symbol
	index   map[string]int
}

func NewSymTable() *SymTable {
	return &SymTable{index: make(map[string]int)}
}

// Insert records label at addr and reports whether it was new.
func (st *SymTable) Insert(label string, addr uint32) bool {
	if _, exists := st.index[label]; exists {
		return false
	}

	st.index[label] = len(st.symbols)
	st.symbols = append(st.symbols, Symbol{label, addr, 0})

	return true
}

func (st *SymTable) Lookup(label string) (uint32, bool) {
	if st == nil {
		return 0, false
	}

	i, exists := st.index[label]

	if !exists {
		return 0, false
	}

	return st.symbols[i].Address, true
}

func (st *SymTable) Symbols() []Symbol {
	if st == nil {
		return nil
	}

	return append([]Symbol(nil), st.symbols...)
}

func (st *SymTable) Len() int {
	if st == nil {
		return 0
	}

	return len(st.symbols)
}
