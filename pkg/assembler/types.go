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

	"github.com/lassandro/sicasm/pkg/record"
)

type DirectiveType uint

type Cursor struct {
	Line   int
	Column int
}

type Options struct {
	// Strict reports redeclared labels and unresolved operands as errors
	// instead of keeping the first declaration and assembling to 0000.
	Strict bool

	// BreakOnReserve starts a new text record after RESW/RESB so that no
	// text record spans reserved storage.
	BreakOnReserve bool
}

// IntermediateRecord is one source statement as seen by pass 1. Addressed
// is false only for the START marker, which carries no address.
type IntermediateRecord struct {
	Line      int
	Addressed bool
	Address   uint32
	Label     string
	Opcode    string
	Operand   string

	// Position of the operand field, for diagnostics
	Position Cursor
}

type Metadata struct {
	Name     string
	Start    uint32
	Length   uint32
	End      uint32
	HasStart bool
}

type Intermediate struct {
	Records []IntermediateRecord
	Symbols *SymTable
	Meta    Metadata
}

type ListingLine struct {
	Record     IntermediateRecord
	ObjectCode string
}

type Assembly struct {
	*Intermediate
	Listing []ListingLine
	Program *record.Program
}

type TokenError interface {
	GetPosition() Cursor
}

type EmptyOpTableError struct{}

func (err *EmptyOpTableError) Error() string {
	return "Opcode table is empty"
}

type EmptySourceError struct{}

func (err *EmptySourceError) Error() string {
	return "Source is empty"
}

type MissingPassOneError struct{}

func (err *MissingPassOneError) Error() string {
	return "Pass 1 has not been run"
}

type MalformedOperandError struct {
	Position Cursor
	Opcode   string
	Operand  string
	Err      error
}

func (err *MalformedOperandError) GetPosition() Cursor {
	return err.Position
}

func (err *MalformedOperandError) Cause() error {
	return err.Err
}

func (err *MalformedOperandError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Malformed %s operand '%s'\n\t%v",
		err.Position.Line,
		err.Position.Column,
		err.Opcode,
		err.Operand,
		err.Err,
	)
}

type OversizedLiteralError struct {
	Position Cursor
	Required int
	Received int
}

func (err *OversizedLiteralError) GetPosition() Cursor {
	return err.Position
}

func (err *OversizedLiteralError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Literal exceeds allowed size\n\twant:%d\n\thave:%d",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type OversizedLabelError struct {
	Position Cursor
	Required uint32
	Received uint32
}

func (err *OversizedLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *OversizedLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Label address exceeds operand field\n\twant:%#04x\n\thave:%#x",
		err.Position.Line,
		err.Position.Column,
		err.Required,
		err.Received,
	)
}

type RedeclaredLabelError struct {
	Position Cursor
	Received string
}

func (err *RedeclaredLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *RedeclaredLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Redeclaration of label '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type UnknownLabelError struct {
	Position Cursor
	Received string
}

func (err *UnknownLabelError) GetPosition() Cursor {
	return err.Position
}

func (err *UnknownLabelError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Unknown label '%s'",
		err.Position.Line,
		err.Position.Column,
		err.Received,
	)
}

type OversizedBinaryError struct {
	Position Cursor
}

func (err *OversizedBinaryError) GetPosition() Cursor {
	return err.Position
}

func (err *OversizedBinaryError) Error() string {
	return fmt.Sprintf(
		"%02d:%02d: Program exceeds address space",
		err.Position.Line,
		err.Position.Column,
	)
}
