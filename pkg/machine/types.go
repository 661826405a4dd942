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

package machine

import (
	"fmt"
)

type MachineState struct {
	Program uint32
	Memory  [MEMORY_SIZE]byte
}

// Machine holds a loaded object program. Name, Start and Length come from
// the header record.
type Machine struct {
	State  MachineState
	Name   string
	Start  uint32
	Length uint32
}

type LoadError struct {
	Record int
	Reason string
}

func (err *LoadError) Error() string {
	return fmt.Sprintf("record %d: %s", err.Record, err.Reason)
}

type AddressError struct {
	Addr  uint32
	Count uint32
}

func (err *AddressError) Error() string {
	return fmt.Sprintf(
		"Address range %#06x+%d exceeds memory size %#06x",
		err.Addr,
		err.Count,
		MEMORY_SIZE,
	)
}
