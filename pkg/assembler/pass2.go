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
	"encoding/hex"
	"fmt"

	"github.com/golang/glog"

	"github.com/lassandro/sicasm/pkg/encoding"
	"github.com/lassandro/sicasm/pkg/record"
)

// objectCode derives the bytes a single statement assembles to. Statements
// that only reserve space, or that have no translation, yield nil.
func objectCode(rec *IntermediateRecord, in *Intermediate, optab *OpTable, opts Options) ([]byte, error) {
	if !rec.Addressed {
		return nil, nil
	}

	if opcode, exists := optab.Lookup(rec.Opcode); exists {
		op, err := hex.DecodeString(opcode)

		if err != nil {
			return nil, &MalformedOperandError{
				rec.Position, rec.Opcode, opcode, err,
			}
		}

		addr, resolved := in.Symbols.Lookup(rec.Operand)

		if !resolved && opts.Strict && rec.Operand != "" {
			return nil, &UnknownLabelError{rec.Position, rec.Operand}
		}

		if addr > MaxOperandAddress {
			return nil, &OversizedLabelError{
				rec.Position, MaxOperandAddress, addr,
			}
		}

		return []byte{op[0], byte(addr >> 8), byte(addr)}, nil
	}

	switch parseDirective(rec.Opcode) {
	case DIRECTIVE_WORD:
		word, err := encoding.DecodeWord(rec.Operand)

		if err != nil {
			return nil, &MalformedOperandError{
				rec.Position, rec.Opcode, rec.Operand, err,
			}
		}

		return []byte{byte(word >> 16), byte(word >> 8), byte(word)}, nil

	case DIRECTIVE_BYTE:
		literal, err := encoding.DecodeLiteral(rec.Operand)

		if err != nil {
			return nil, &MalformedOperandError{
				rec.Position, rec.Opcode, rec.Operand, err,
			}
		}

		if len(literal) > MaxTextBytes {
			return nil, &OversizedLiteralError{
				rec.Position, MaxTextBytes, len(literal),
			}
		}

		return literal, nil
	}

	return nil, nil
}

// Pass2 generates object code for every statement of a pass 1 result and
// packs it greedily into text records of at most MaxTextBytes bytes. The
// bytes of one statement are never split across two records.
func Pass2(in *Intermediate, optab *OpTable, opts Options) (*record.Program, []ListingLine, []error) {
	if in == nil || in.Symbols == nil {
		return nil, nil, []error{&MissingPassOneError{}}
	}

	if optab.Len() == 0 {
		return nil, nil, []error{&EmptyOpTableError{}}
	}

	var program = &record.Program{
		Header: record.Header{
			Name:   in.Meta.Name,
			Start:  in.Meta.Start,
			Length: in.Meta.Length,
		},
		End: record.End{Start: in.Meta.Start},
	}

	var listing = make([]ListingLine, 0, len(in.Records))
	var errs []error

	var current record.Text
	var pending bool

	flush := func() {
		if pending {
			glog.V(2).Infof(
				"text record %06X: %d bytes", current.Start, len(current.Code),
			)
			program.Texts = append(program.Texts, current)
		}

		current = record.Text{}
		pending = false
	}

	for i := range in.Records {
		rec := &in.Records[i]

		code, err := objectCode(rec, in, optab, opts)

		if err != nil {
			errs = append(errs, err)
		}

		listing = append(listing, ListingLine{*rec, fmt.Sprintf("%X", code)})

		if opts.BreakOnReserve {
			if directive := parseDirective(rec.Opcode); directive == DIRECTIVE_RESW ||
				directive == DIRECTIVE_RESB {
				if _, exists := optab.Lookup(rec.Opcode); !exists {
					flush()
				}
			}
		}

		if len(code) == 0 {
			continue
		}

		if !pending {
			current.Start = rec.Address
			pending = true
		}

		if len(current.Code)+len(code) > MaxTextBytes {
			flush()
			current.Start = rec.Address
			pending = true
		}

		current.Code = append(current.Code, code...)
	}

	flush()

	return program, listing, errs
}
