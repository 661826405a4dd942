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

package store

const schema = `
CREATE TABLE IF NOT EXISTS programs (
  id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
  source TEXT NOT NULL,
  name TEXT NOT NULL,
  start INTEGER NOT NULL,
  length INTEGER NOT NULL,
  object TEXT NOT NULL,
  assembled_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS symbols (
  program_id INTEGER NOT NULL REFERENCES programs (id),
  seq INTEGER NOT NULL,
  label TEXT NOT NULL,
  address INTEGER NOT NULL,
  flag INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (program_id, label)
);
`
