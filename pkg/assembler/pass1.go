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
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/lassandro/sicasm/pkg/encoding"
)

func parseDirective(ident string) DirectiveType {
	switch ident {
	case "START":
		return DIRECTIVE_START
	case "END":
		return DIRECTIVE_END
	case "WORD":
		return DIRECTIVE_WORD
	case "BYTE":
		return DIRECTIVE_BYTE
	case "RESW":
		return DIRECTIVE_RESW
	case "RESB":
		return DIRECTIVE_RESB
	}

	return DIRECTIVE_INVALID
}

// statementSize returns how far a statement advances the location counter.
// Mnemonics from the opcode table take precedence over directives.
func statementSize(rec *IntermediateRecord, optab *OpTable) (uint64, error) {
	if _, exists := optab.Lookup(rec.Opcode); exists {
		return InstructionSize, nil
	}

	switch parseDirective(rec.Opcode) {
	case DIRECTIVE_WORD:
		if _, err := encoding.DecodeWord(rec.Operand); err != nil {
			return 0, &MalformedOperandError{
				rec.Position, rec.Opcode, rec.Operand, err,
			}
		}

		return WordSize, nil

	case DIRECTIVE_RESW, DIRECTIVE_RESB:
		count, err := encoding.DecodeCount(rec.Operand)

		if err != nil {
			return 0, &MalformedOperandError{
				rec.Position, rec.Opcode, rec.Operand, err,
			}
		}

		if rec.Opcode == "RESW" {
			return WordSize * uint64(count), nil
		}

		return uint64(count), nil

	case DIRECTIVE_BYTE:
		literal, err := encoding.DecodeLiteral(rec.Operand)

		if err != nil {
			return 0, &MalformedOperandError{
				rec.Position, rec.Opcode, rec.Operand, err,
			}
		}

		if len(literal) > MaxTextBytes {
			return 0, &OversizedLiteralError{
				rec.Position, MaxTextBytes, len(literal),
			}
		}

		return uint64(len(literal)), nil
	}

	return 0, nil
}

// splitFields splits a source line into label, opcode and operand fields
// along with the 1-based column each field starts at. ok is false when the
// line has more than three fields.
func splitFields(line string) (fields [3]string, columns [3]int, ok bool) {
	parts := strings.Split(line, "\t")

	if len(parts) > 3 {
		return fields, columns, false
	}

	column := 1

	for i := range fields {
		columns[i] = column

		if i < len(parts) {
			fields[i] = strings.TrimSpace(parts[i])
			column += len(parts[i]) + 1
		}
	}

	return fields, columns, true
}

// Pass1 assigns an address to every statement and builds the symbol table.
// The result is only meaningful when no errors are returned.
func Pass1(source io.Reader, optab *OpTable, opts Options) (*Intermediate, []error) {
	text, err := io.ReadAll(source)

	if err != nil {
		return nil, []error{errors.Wrap(err, "reading source")}
	}

	if len(bytes.TrimSpace(text)) == 0 {
		return nil, []error{&EmptySourceError{}}
	}

	if optab.Len() == 0 {
		return nil, []error{&EmptyOpTableError{}}
	}

	var result = &Intermediate{
		Symbols: NewSymTable(),
		Meta:    Metadata{Name: DefaultProgramName},
	}

	var locctr uint64 = 0
	var errs []error

	var cursor = Cursor{Line: 0, Column: 1}
	var scanner = bufio.NewScanner(bytes.NewReader(text))
	scanner.Buffer(make([]byte, 0, 4096), len(text)+1)

	for scanner.Scan() {
		cursor.Line++

		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(line) == "" {
			continue
		}

		fields, columns, ok := splitFields(line)

		if !ok {
			glog.V(2).Infof("%02d: skipping line with extra fields", cursor.Line)
			continue
		}

		rec := IntermediateRecord{
			Line:     cursor.Line,
			Label:    fields[0],
			Opcode:   fields[1],
			Operand:  fields[2],
			Position: Cursor{cursor.Line, columns[2]},
		}

		// START is a metadata marker and carries no address of its own
		if parseDirective(rec.Opcode) == DIRECTIVE_START && !result.Meta.HasStart {
			if rec.Label != "" {
				result.Meta.Name = rec.Label
			}

			start, err := encoding.DecodeHex(rec.Operand)

			if err != nil {
				errs = append(
					errs,
					&MalformedOperandError{
						rec.Position, rec.Opcode, rec.Operand, err,
					},
				)
			} else if start > MaxAddress {
				errs = append(errs, &OversizedBinaryError{rec.Position})
				start = 0
			}

			locctr = uint64(start)
			result.Meta.Start = start
			result.Meta.HasStart = true
			result.Records = append(result.Records, rec)

			continue
		}

		rec.Addressed = true
		rec.Address = uint32(locctr)
		result.Records = append(result.Records, rec)

		if rec.Label != "" {
			if !result.Symbols.Insert(rec.Label, rec.Address) && opts.Strict {
				errs = append(
					errs,
					&RedeclaredLabelError{
						Cursor{cursor.Line, columns[0]}, rec.Label,
					},
				)
			}
		}

		if parseDirective(rec.Opcode) == DIRECTIVE_END {
			result.Meta.End = rec.Address
		}

		size, err := statementSize(&rec, optab)

		if err != nil {
			errs = append(errs, err)
			continue
		}

		if size > 0 {
			glog.V(2).Infof(
				"%02d: %s advances locctr %06X by %d",
				cursor.Line, rec.Opcode, locctr, size,
			)
		}

		locctr += size

		if locctr > MaxAddress+1 {
			errs = append(
				errs, &OversizedBinaryError{Cursor{cursor.Line, columns[1]}},
			)
			return result, errs
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, append(errs, errors.Wrap(err, "scanning source"))
	}

	result.Meta.Length = uint32(locctr) - result.Meta.Start

	return result, errs
}
