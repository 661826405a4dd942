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
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

type OpEntry struct {
	Mnemonic string
	Opcode   string
}

// OpTable maps instruction mnemonics to their 2 hex digit opcodes. Lookups
// are case-sensitive.
type OpTable struct {
	entries []OpEntry
	index   map[string]int
}

func isHexByte(s string) bool {
	if len(s) != 2 {
		return false
	}

	for _, char := range s {
		switch {
		case char >= '0' && char <= '9':
		case char >= 'a' && char <= 'f':
		case char >= 'A' && char <= 'F':
		default:
			return false
		}
	}

	return true
}

// ParseOpTable reads one "MNEMONIC HH" pair per line. Lines of any other
// shape are skipped. A repeated mnemonic keeps its first position but takes
// the later opcode.
func ParseOpTable(input io.Reader) (*OpTable, error) {
	table := &OpTable{index: make(map[string]int)}
	scanner := bufio.NewScanner(input)
	line := 0

	for scanner.Scan() {
		line++
		words := strings.Fields(scanner.Text())

		if len(words) != 2 || !isHexByte(words[1]) {
			if len(words) > 0 {
				glog.V(2).Infof("optab %02d: skipping %q", line, scanner.Text())
			}
			continue
		}

		mnemonic, opcode := words[0], strings.ToUpper(words[1])

		if i, exists := table.index[mnemonic]; exists {
			table.entries[i].Opcode = opcode
			continue
		}

		table.index[mnemonic] = len(table.entries)
		table.entries = append(table.entries, OpEntry{mnemonic, opcode})
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading opcode table")
	}

	return table, nil
}

func ReadOpTableFile(path string) (*OpTable, error) {
	file, err := os.Open(path)

	if err != nil {
		return nil, err
	}

	defer file.Close()

	table, err := ParseOpTable(file)
	return table, errors.Wrapf(err, "loading %s", path)
}

func (t *OpTable) Lookup(mnemonic string) (string, bool) {
	if t == nil {
		return "", false
	}

	i, exists := t.index[mnemonic]

	if !exists {
		return "", false
	}

	return t.entries[i].Opcode, true
}

func (t *OpTable) Len() int {
	if t == nil {
		return 0
	}

	return len(t.entries)
}

func (t *OpTable) Entries() []OpEntry {
	if t == nil {
		return nil
	}

	return append([]OpEntry(nil), t.entries...)
}
