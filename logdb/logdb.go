// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb journals the committed calls and the events they emitted.
package logdb

import (
	"context"
	"database/sql"

	"github.com/ethereum/go-ethereum/rlp"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/thor"
)

const (
	eventSelect = "SELECT seq, time, address, name, attrs FROM event"
	callInsert  = "INSERT INTO call(number, time, caller, action, target) VALUES(?, ?, ?, ?, ?)"
	eventInsert = "INSERT INTO event(seq, time, address, name, attrs) VALUES(?, ?, ?, ?, ?)"
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (*LogDB, error) {
	return open(path, path+"?_journal=wal", 0)
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	// every connection to :memory: is a distinct database
	return open(":memory:", ":memory:", 1)
}

func open(path, dsn string, maxConns int) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}

	if _, err := db.Exec(callTableSchema + eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmtCache:     newStmtCache(db),
	}, nil
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the version of the sqlite library in use.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// NewestCallNumber returns the number of the last written call, 0 if none.
func (db *LogDB) NewestCallNumber() (uint32, error) {
	var num sql.NullInt64
	if err := db.db.QueryRow("SELECT MAX(number) FROM call").Scan(&num); err != nil {
		return 0, errors.Wrap(err, "query newest call")
	}
	return uint32(num.Int64), nil
}

// Write journals a committed call with its events in one transaction.
func (db *LogDB) Write(call *Call, events []*solidity.Event) (err error) {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(callInsert,
		call.Number,
		call.Time,
		call.Caller.Bytes(),
		call.Action,
		call.Target.Bytes(),
	); err != nil {
		return errors.Wrap(err, "insert call")
	}
	for i, ev := range events {
		attrs, err := rlp.EncodeToBytes(ev.Attrs)
		if err != nil {
			return errors.Wrap(err, "encode attrs")
		}
		if _, err = tx.Exec(eventInsert,
			newSequence(call.Number, uint32(i)),
			call.Time,
			ev.Address.Bytes(),
			ev.Name,
			attrs,
		); err != nil {
			return errors.Wrap(err, "insert event")
		}
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	metricWrittenEvents().Add(int64(len(events)))
	return nil
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, eventSelect+" ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := eventSelect + " WHERE 1"
	if filter.Range != nil {
		from, to, column := filter.Range.From, filter.Range.To, "time"
		if filter.Range.Unit != Time {
			column = "seq"
			from = uint64(newSequence(uint32(min(from, 0xffffffff)), 0))
			to = uint64(newSequence(uint32(min(to, 0xffffffff)), 0x7fffffff))
		}
		args = append(args, from)
		stmt += " AND " + column + " >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, to)
			stmt += " AND " + column + " <= ?"
		}
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ?"
		}
		if criteria.Name != nil {
			args = append(args, *criteria.Name)
			stmt += " AND name = ?"
		}
		if i == len(filter.CriteriaSet)-1 {
			stmt += " ))"
		} else {
			stmt += " )"
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq     sequence
			time    uint64
			address []byte
			name    string
			attrs   []byte
		)
		if err := rows.Scan(&seq, &time, &address, &name, &attrs); err != nil {
			return nil, err
		}
		ev := &Event{
			CallNumber: seq.CallNumber(),
			Index:      seq.Index(),
			Time:       time,
			Address:    thor.BytesToAddress(address),
			Name:       name,
		}
		if err := rlp.DecodeBytes(attrs, &ev.Attrs); err != nil {
			return nil, errors.Wrap(err, "decode attrs")
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
