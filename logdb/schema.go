// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

const callTableSchema = `CREATE TABLE IF NOT EXISTS call (
	number INTEGER PRIMARY KEY,
	time INTEGER NOT NULL,
	caller BLOB NOT NULL,
	action TEXT NOT NULL,
	target BLOB NOT NULL
);`

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY,
	time INTEGER NOT NULL,
	address BLOB NOT NULL,
	name TEXT NOT NULL,
	attrs BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(address, name);
CREATE INDEX IF NOT EXISTS event_i1 ON event(name);
CREATE INDEX IF NOT EXISTS event_i2 ON event(time);`
