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

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

func isTerminal(file *os.File) bool {
	_, err := unix.IoctlGetTermios(int(file.Fd()), ioctlReadTermios)
	return err == nil
}

// isPiped reports whether file is something other than a character device,
// such as a pipe or a redirected file.
func isPiped(file *os.File) bool {
	stat, err := file.Stat()

	if err != nil {
		return false
	}

	return stat.Mode()&os.ModeCharDevice == 0
}

func bold(s string, color bool) string {
	if !color {
		return s
	}

	return "\033[1m" + s + "\033[0m"
}

func red(s string, color bool) string {
	if !color {
		return s
	}

	return "\033[31m" + s + "\033[0m"
}
