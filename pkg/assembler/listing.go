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

import (
	"fmt"
	"strings"
)

const (
	SymbolHeader  = "Label\tLocctr\tFlag"
	ListingHeader = "Address\tLabel\tOpcode\tOperand\tObject Code"
	ProgramHeader = "Object Program:"
)

func formatRecord(rec *IntermediateRecord) string {
	var addr string

	if rec.Addressed {
		addr = fmt.Sprintf("%X", rec.Address)
	}

	return fmt.Sprintf("%s\t%s\t%s\t%s", addr, rec.Label, rec.Opcode, rec.Operand)
}

// IntermediateRows renders the intermediate program as address, label,
// opcode and operand columns. The START marker has an empty address.
func IntermediateRows(in *Intermediate) []string {
	rows := make([]string, 0, len(in.Records))

	for i := range in.Records {
		rows = append(rows, formatRecord(&in.Records[i]))
	}

	return rows
}

func SymbolRows(st *SymTable) []string {
	rows := make([]string, 0, st.Len()+1)
	rows = append(rows, SymbolHeader)

	for _, sym := range st.Symbols() {
		rows = append(rows, fmt.Sprintf("%s\t%X\t%d", sym.Label, sym.Address, sym.Flag))
	}

	return rows
}

// ListingRows renders each intermediate row followed by its object code.
func ListingRows(listing []ListingLine) []string {
	rows := make([]string, 0, len(listing))

	for i := range listing {
		rows = append(
			rows, formatRecord(&listing[i].Record)+"\t"+listing[i].ObjectCode,
		)
	}

	return rows
}

// Report is the combined pass 2 output: the listing under a column header
// and rule, then a blank line and the object program under its own title.
func (asm *Assembly) Report() []string {
	records := asm.Program.Records()
	rows := make([]string, 0, len(asm.Listing)+len(records)+5)

	rows = append(rows, ListingHeader, strings.Repeat("-", len(ListingHeader)))
	rows = append(rows, ListingRows(asm.Listing)...)
	rows = append(rows, "", ProgramHeader, strings.Repeat("-", len(ProgramHeader)))

	return append(rows, records...)
}
