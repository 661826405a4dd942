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

package record

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	Separator    = "^"
	MaxTextBytes = 30
)

type Header struct {
	Name   string
	Start  uint32
	Length uint32
}

func (h Header) String() string {
	return fmt.Sprintf("H^%s^%06X^%X", h.Name, h.Start, h.Length)
}

// Text is one packed run of object code loaded at Start. The byte length
// field of the formatted record is always len(Code).
type Text struct {
	Start uint32
	Code  []byte
}

func (t Text) Len() int {
	return len(t.Code)
}

func (t Text) String() string {
	return fmt.Sprintf("T^%06X^%X^%X", t.Start, len(t.Code), t.Code)
}

type End struct {
	Start uint32
}

func (e End) String() string {
	return fmt.Sprintf("E^%06X", e.Start)
}

type Program struct {
	Header Header
	Texts  []Text
	End    End
}

// Records returns the formatted header, text and end records in output
// order.
func (p *Program) Records() []string {
	result := make([]string, 0, len(p.Texts)+2)
	result = append(result, p.Header.String())

	for _, text := range p.Texts {
		result = append(result, text.String())
	}

	return append(result, p.End.String())
}

func (p *Program) String() string {
	return strings.Join(p.Records(), "\n")
}

func (p *Program) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, p.String()+"\n")
	return int64(n), err
}

type RecordError struct {
	Line   int
	Reason string
	Err    error
}

func (err *RecordError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("%02d: %s: %v", err.Line, err.Reason, err.Err)
	}

	return fmt.Sprintf("%02d: %s", err.Line, err.Reason)
}

func (err *RecordError) Cause() error {
	return err.Err
}

func parseAddr(field string) (uint32, error) {
	if len(field) != 6 {
		return 0, errors.Errorf("address %q is not 6 hex digits", field)
	}

	value, err := strconv.ParseUint(field, 16, 32)

	if err != nil {
		return 0, errors.Wrapf(err, "decoding address %q", field)
	}

	return uint32(value), nil
}

// Parse reads an object program in the layout produced by Program.String.
// Blank lines are ignored. Exactly one header must come first and exactly
// one end record must come last.
func Parse(r io.Reader) (*Program, error) {
	var program Program
	var seenHeader, seenEnd bool

	scanner := bufio.NewScanner(r)
	line := 0

	for scanner.Scan() {
		line++

		text := strings.TrimRight(scanner.Text(), "\r")

		if strings.TrimSpace(text) == "" {
			continue
		}

		if seenEnd {
			return nil, &RecordError{line, "record after end record", nil}
		}

		fields := strings.Split(text, Separator)

		switch fields[0] {
		case "H":
			if seenHeader {
				return nil, &RecordError{line, "duplicate header record", nil}
			}

			if len(fields) != 4 {
				return nil, &RecordError{line, "header record needs 4 fields", nil}
			}

			start, err := parseAddr(fields[2])

			if err != nil {
				return nil, &RecordError{line, "invalid header start", err}
			}

			length, err := strconv.ParseUint(fields[3], 16, 32)

			if err != nil {
				return nil, &RecordError{line, "invalid header length", err}
			}

			program.Header = Header{fields[1], start, uint32(length)}
			seenHeader = true

		case "T":
			if !seenHeader {
				return nil, &RecordError{line, "text record before header", nil}
			}

			if len(fields) != 4 {
				return nil, &RecordError{line, "text record needs 4 fields", nil}
			}

			start, err := parseAddr(fields[1])

			if err != nil {
				return nil, &RecordError{line, "invalid text start", err}
			}

			count, err := strconv.ParseUint(fields[2], 16, 8)

			if err != nil {
				return nil, &RecordError{line, "invalid text length", err}
			}

			if count > MaxTextBytes {
				return nil, &RecordError{
					line, fmt.Sprintf("text record exceeds %d bytes", MaxTextBytes), nil,
				}
			}

			if len(fields[3]) != int(count)*2 {
				return nil, &RecordError{line, "text payload does not match length", nil}
			}

			code, err := hex.DecodeString(fields[3])

			if err != nil {
				return nil, &RecordError{line, "invalid text payload", err}
			}

			program.Texts = append(program.Texts, Text{start, code})

		case "E":
			if !seenHeader {
				return nil, &RecordError{line, "end record before header", nil}
			}

			if len(fields) != 2 {
				return nil, &RecordError{line, "end record needs 2 fields", nil}
			}

			start, err := parseAddr(fields[1])

			if err != nil {
				return nil, &RecordError{line, "invalid end address", err}
			}

			program.End = End{start}
			seenEnd = true

		default:
			return nil, &RecordError{
				line, fmt.Sprintf("unknown record type %q", fields[0]), nil,
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading object program")
	}

	if !seenHeader {
		return nil, &RecordError{line, "missing header record", nil}
	}

	if !seenEnd {
		return nil, &RecordError{line, "missing end record", nil}
	}

	return &program, nil
}
