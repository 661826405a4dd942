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

import "github.com/lassandro/sicasm/pkg/record"

const (
	DIRECTIVE_INVALID DirectiveType = iota
	DIRECTIVE_START
	DIRECTIVE_END
	DIRECTIVE_WORD
	DIRECTIVE_BYTE
	DIRECTIVE_RESW
	DIRECTIVE_RESB
)

const (
	DefaultProgramName = "PROG"

	InstructionSize = 3
	WordSize        = 3

	// Highest address representable in a 6 hex digit record field
	MaxAddress = 0xFFFFFF

	// Highest address an instruction operand can encode
	MaxOperandAddress = 0xFFFF

	MaxTextBytes = record.MaxTextBytes
)
