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

// Package machine is an absolute loader for object programs produced by the
// assembler.
package machine

import (
	"fmt"
	"io"

	"github.com/golang/glog"

	"github.com/lassandro/sicasm/pkg/record"
)

func (mc *MachineState) Reset() {
	for i := range mc.Memory {
		mc.Memory[i] = 0x00
	}

	mc.Program = 0
}

func (mc *Machine) Load(reader io.Reader) error {
	program, err := record.Parse(reader)

	if err != nil {
		return err
	}

	return mc.LoadProgram(program)
}

// LoadProgram copies every text record into memory and sets the program
// register from the end record. Text records must lie within the range
// named by the header.
func (mc *Machine) LoadProgram(program *record.Program) error {
	mc.State.Reset()

	header := program.Header
	limit := uint64(header.Start) + uint64(header.Length)

	if limit > MEMORY_SIZE {
		return &LoadError{0, fmt.Sprintf(
			"program %06X+%X does not fit in memory", header.Start, header.Length,
		)}
	}

	for i, text := range program.Texts {
		end := uint64(text.Start) + uint64(len(text.Code))

		if text.Start < header.Start || end > limit {
			return &LoadError{i + 1, fmt.Sprintf(
				"text record %06X+%X outside program bounds", text.Start, len(text.Code),
			)}
		}

		copy(mc.State.Memory[text.Start:end], text.Code)

		glog.V(2).Infof("loaded %d bytes at %06X", len(text.Code), text.Start)
	}

	entry := uint64(program.End.Start)

	if entry < uint64(header.Start) || entry > limit {
		return &LoadError{len(program.Texts) + 1, fmt.Sprintf(
			"entry point %06X outside program bounds", entry,
		)}
	}

	mc.Name = header.Name
	mc.Start = header.Start
	mc.Length = header.Length
	mc.State.Program = program.End.Start

	return nil
}

func (mc *Machine) Read(addr, count uint32) ([]byte, error) {
	if uint64(addr)+uint64(count) > MEMORY_SIZE {
		return nil, &AddressError{addr, count}
	}

	return mc.State.Memory[addr : addr+count], nil
}

// Word reads the 3 byte big-endian word at addr.
func (mc *Machine) Word(addr uint32) (uint32, error) {
	bytes, err := mc.Read(addr, WORD_SIZE)

	if err != nil {
		return 0, err
	}

	return uint32(bytes[0])<<16 | uint32(bytes[1])<<8 | uint32(bytes[2]), nil
}

// Dump prints count bytes of memory from addr, DUMP_WIDTH bytes per row.
// With color set, zero bytes are dimmed and row addresses are bold.
func (mc *Machine) Dump(w io.Writer, addr, count uint32, color bool) error {
	bytes, err := mc.Read(addr, count)

	if err != nil {
		return err
	}

	for i, value := range bytes {
		if i%DUMP_WIDTH == 0 {
			if i != 0 {
				fmt.Fprintln(w)
			}

			if color {
				fmt.Fprintf(w, "\033[1m[%06X]\033[0m", addr+uint32(i))
			} else {
				fmt.Fprintf(w, "[%06X]", addr+uint32(i))
			}
		}

		if value == 0 && color {
			fmt.Fprintf(w, " \033[1;30m%02X\033[0m", value)
		} else {
			fmt.Fprintf(w, " %02X", value)
		}
	}

	_, err = fmt.Fprintln(w)
	return err
}
