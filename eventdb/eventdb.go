// Copyright (c) 2025 The VideoCoin developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb persists staking engine events into sqlite for external
// audit and indexing.
package eventdb

import (
	"database/sql"
	"math/big"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/videocoin-2/videocoin-contracts/contracts/staking"
	"github.com/videocoin-2/videocoin-contracts/vcc"
)

const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	timestamp INTEGER NOT NULL,
	transcoder BLOB,
	delegator BLOB,
	amount TEXT,
	requestID INTEGER,
	readyAt INTEGER,
	rate INTEGER
);
CREATE INDEX IF NOT EXISTS event_name ON event(name);
CREATE INDEX IF NOT EXISTS event_transcoder ON event(transcoder);
CREATE INDEX IF NOT EXISTS event_timestamp ON event(timestamp);`

type OrderType string

const (
	ASC  OrderType = "ASC"
	DESC OrderType = "DESC"
)

// Range bounds event timestamps, inclusive.
type Range struct {
	From uint64 `json:"from"`
	To   uint64 `json:"to"`
}

// Options paginates query results.
type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects events.
type Filter struct {
	Name       string       `json:"name"`
	Transcoder *vcc.Address `json:"transcoder"`
	Delegator  *vcc.Address `json:"delegator"`
	Order      OrderType    `json:"order"` // default asc
	Range      *Range       `json:"range"`
	Options    *Options     `json:"options"`
}

// EventDB manages the persisted staking events.
type EventDB struct {
	path string
	db   *sql.DB
}

var _ staking.Sink = (*EventDB)(nil)

// New opens an event db, creating the schema if absent.
func New(path string) (*EventDB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open event db")
	}
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create event schema")
	}
	return &EventDB{path: path, db: db}, nil
}

// NewMem creates an in-memory event db.
func NewMem() (*EventDB, error) {
	return New(":memory:")
}

// Post stores one operation's events in a single transaction, so the audit
// log never holds part of an operation.
func (db *EventDB) Post(events []*staking.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin event tx")
	}
	for _, ev := range events {
		amount := "0"
		if ev.Amount != nil {
			amount = ev.Amount.String()
		}
		_, err := tx.Exec(
			"INSERT INTO event(name, timestamp, transcoder, delegator, amount, requestID, readyAt, rate) VALUES (?, ?, ?, ?, ?, ?, ?, ?);",
			ev.Name,
			ev.Timestamp,
			ev.Transcoder.Bytes(),
			ev.Delegator.Bytes(),
			amount,
			ev.RequestID,
			ev.ReadyAt,
			ev.Rate,
		)
		if err != nil {
			tx.Rollback()
			return errors.Wrap(err, "insert event")
		}
	}
	return errors.Wrap(tx.Commit(), "commit events")
}

// Query returns events matching the filter, in timestamp order.
func (db *EventDB) Query(filter *Filter) ([]*staking.Event, error) {
	stmt := "SELECT name, timestamp, transcoder, delegator, amount, requestID, readyAt, rate FROM event WHERE 1"
	var args []any
	if filter != nil {
		if filter.Name != "" {
			stmt += " AND name = ?"
			args = append(args, filter.Name)
		}
		if filter.Transcoder != nil {
			stmt += " AND transcoder = ?"
			args = append(args, filter.Transcoder.Bytes())
		}
		if filter.Delegator != nil {
			stmt += " AND delegator = ?"
			args = append(args, filter.Delegator.Bytes())
		}
		if filter.Range != nil {
			stmt += " AND timestamp >= ?"
			args = append(args, filter.Range.From)
			if filter.Range.To >= filter.Range.From {
				stmt += " AND timestamp <= ?"
				args = append(args, filter.Range.To)
			}
		}
	}
	stmt += " ORDER BY seq"
	if filter != nil && filter.Order == DESC {
		stmt += " DESC"
	}
	if filter != nil && filter.Options != nil {
		stmt += " LIMIT ? OFFSET ?"
		args = append(args, filter.Options.Limit, filter.Options.Offset)
	}

	rows, err := db.db.Query(stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
	}
	defer rows.Close()

	var events []*staking.Event
	for rows.Next() {
		var (
			ev         staking.Event
			transcoder []byte
			delegator  []byte
			amount     string
		)
		if err := rows.Scan(&ev.Name, &ev.Timestamp, &transcoder, &delegator, &amount, &ev.RequestID, &ev.ReadyAt, &ev.Rate); err != nil {
			return nil, errors.Wrap(err, "scan event")
		}
		ev.Transcoder = vcc.BytesToAddress(transcoder)
		ev.Delegator = vcc.BytesToAddress(delegator)
		value, ok := new(big.Int).SetString(amount, 10)
		if !ok {
			return nil, errors.Errorf("bad amount %q", amount)
		}
		ev.Amount = value
		events = append(events, &ev)
	}
	return events, rows.Err()
}

// Path returns the db file path.
func (db *EventDB) Path() string {
	return db.path
}

// Close closes the db.
func (db *EventDB) Close() error {
	return db.db.Close()
}
