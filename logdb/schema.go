// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

const eventTableSchema = `
CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY NOT NULL,
	txSeq INTEGER NOT NULL,
	txTime INTEGER NOT NULL,
	txID BLOB NOT NULL,
	txOrigin BLOB NOT NULL,
	address BLOB NOT NULL,
	topic0 BLOB,
	topic1 BLOB,
	topic2 BLOB,
	topic3 BLOB,
	topic4 BLOB,
	data BLOB
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(txTime);
CREATE INDEX IF NOT EXISTS event_i1 ON event(txID);
CREATE INDEX IF NOT EXISTS event_i2 ON event(address, topic0);
CREATE INDEX IF NOT EXISTS event_i3 ON event(topic1);
CREATE INDEX IF NOT EXISTS event_i4 ON event(topic2);
`

const transferTableSchema = `
CREATE TABLE IF NOT EXISTS transfer (
	seq INTEGER PRIMARY KEY NOT NULL,
	txSeq INTEGER NOT NULL,
	txTime INTEGER NOT NULL,
	txID BLOB NOT NULL,
	txOrigin BLOB NOT NULL,
	token BLOB NOT NULL,
	sender BLOB NOT NULL,
	recipient BLOB NOT NULL,
	amount BLOB
);

CREATE INDEX IF NOT EXISTS transfer_i0 ON transfer(txTime);
CREATE INDEX IF NOT EXISTS transfer_i1 ON transfer(txID);
CREATE INDEX IF NOT EXISTS transfer_i2 ON transfer(sender);
CREATE INDEX IF NOT EXISTS transfer_i3 ON transfer(recipient);
`
