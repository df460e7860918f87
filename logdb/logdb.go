// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/tx"
)

const (
	eventSelect    = "SELECT seq, txSeq, txTime, txID, txOrigin, address, topic0, topic1, topic2, topic3, topic4, data FROM event"
	transferSelect = "SELECT seq, txSeq, txTime, txID, txOrigin, token, sender, recipient, amount FROM transfer"

	eventInsert    = "INSERT OR REPLACE INTO event(seq, txSeq, txTime, txID, txOrigin, address, topic0, topic1, topic2, topic3, topic4, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	transferInsert = "INSERT OR REPLACE INTO transfer(seq, txSeq, txTime, txID, txOrigin, token, sender, recipient, amount) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)"
)

type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open log db at given path.
func New(path string) (*LogDB, error) {
	return open(path, path+"?_journal_mode=WAL&_busy_timeout=10000")
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return open(":memory:", ":memory:")
}

func open(path, dsn string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// a single connection keeps the in-memory database alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(eventTableSchema + transferTableSchema); err != nil {
		return nil, errors.Wrap(err, "create tables")
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

func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

// Commit writes the events and transfers of an executed transaction in one sql transaction.
// Reverted receipts carry no logs and are skipped.
func (db *LogDB) Commit(receipt *tx.Receipt) error {
	if receipt.Reverted || (len(receipt.Events) == 0 && len(receipt.Transfers) == 0) {
		return nil
	}
	// prepared before the transaction takes the only connection
	insertEvent, err := db.stmtCache.Prepare(eventInsert)
	if err != nil {
		return err
	}
	insertTransfer, err := db.stmtCache.Prepare(transferInsert)
	if err != nil {
		return err
	}

	return db.execInTx(func(dbTx *sql.Tx) error {
		for i, txEvent := range receipt.Events {
			ev := newEvent(receipt, uint32(i), txEvent)
			if _, err := dbTx.Stmt(insertEvent).Exec(
				newSequence(ev.TxSeq, ev.Index),
				ev.TxSeq,
				ev.TxTime,
				ev.TxID.Bytes(),
				ev.TxOrigin.Bytes(),
				ev.Address.Bytes(),
				topicValue(ev.Topics[0]),
				topicValue(ev.Topics[1]),
				topicValue(ev.Topics[2]),
				topicValue(ev.Topics[3]),
				topicValue(ev.Topics[4]),
				ev.Data,
			); err != nil {
				return err
			}
		}
		for i, txTransfer := range receipt.Transfers {
			tr := newTransfer(receipt, uint32(i), txTransfer)
			if _, err := dbTx.Stmt(insertTransfer).Exec(
				newSequence(tr.TxSeq, tr.Index),
				tr.TxSeq,
				tr.TxTime,
				tr.TxID.Bytes(),
				tr.TxOrigin.Bytes(),
				tr.Token.Bytes(),
				tr.Sender.Bytes(),
				tr.Recipient.Bytes(),
				tr.Amount.Bytes(),
			); err != nil {
				return err
			}
		}
		metricCommittedLogs().AddWithLabel(int64(len(receipt.Events)), map[string]string{"type": "event"})
		metricCommittedLogs().AddWithLabel(int64(len(receipt.Transfers)), map[string]string{"type": "transfer"})
		return nil
	})
}

// NewestSeq returns the largest transaction sequence that wrote logs, or 0.
func (db *LogDB) NewestSeq() (uint64, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRow("SELECT MAX(seq) FROM (SELECT MAX(seq) AS seq FROM event UNION ALL SELECT MAX(seq) FROM transfer)").Scan(&seq); err != nil {
		return 0, err
	}
	if !seq.Valid {
		return 0, nil
	}
	return sequence(seq.Int64).TxSeq(), nil
}

func (db *LogDB) execInTx(proc func(*sql.Tx) error) error {
	dbTx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(dbTx); err != nil {
		_ = dbTx.Rollback()
		return err
	}
	return dbTx.Commit()
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, eventSelect+" ORDER BY seq ASC")
	}
	observeEventFilter(filter)

	var args []any
	stmt := eventSelect + " WHERE 1"
	stmt, args = rangeCondition(stmt, args, filter.Range)

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
		for j, topic := range criteria.Topics {
			if topic != nil {
				args = append(args, topic.Bytes())
				stmt += fmt.Sprintf(" AND topic%v = ?", j)
			}
		}
		stmt += ")"
		if i == len(filter.CriteriaSet)-1 {
			stmt += ")"
		}
	}

	stmt, args = orderAndLimit(stmt, args, filter.Order, filter.Options)
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) FilterTransfers(ctx context.Context, filter *TransferFilter) ([]*Transfer, error) {
	if filter == nil {
		return db.queryTransfers(ctx, transferSelect+" ORDER BY seq ASC")
	}
	observeTransferFilter(filter)

	var args []any
	stmt := transferSelect + " WHERE 1"
	stmt, args = rangeCondition(stmt, args, filter.Range)

	if filter.TxID != nil {
		args = append(args, filter.TxID.Bytes())
		stmt += " AND txID = ?"
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.TxOrigin != nil {
			args = append(args, criteria.TxOrigin.Bytes())
			stmt += " AND txOrigin = ?"
		}
		if criteria.Token != nil {
			args = append(args, criteria.Token.Bytes())
			stmt += " AND token = ?"
		}
		if criteria.Sender != nil {
			args = append(args, criteria.Sender.Bytes())
			stmt += " AND sender = ?"
		}
		if criteria.Recipient != nil {
			args = append(args, criteria.Recipient.Bytes())
			stmt += " AND recipient = ?"
		}
		stmt += ")"
		if i == len(filter.CriteriaSet)-1 {
			stmt += ")"
		}
	}

	stmt, args = orderAndLimit(stmt, args, filter.Order, filter.Options)
	return db.queryTransfers(ctx, stmt, args...)
}

func rangeCondition(stmt string, args []any, rng *Range) (string, []any) {
	if rng == nil {
		return stmt, args
	}
	if rng.Unit == Time {
		args = append(args, rng.From)
		stmt += " AND txTime >= ?"
		if rng.To >= rng.From {
			args = append(args, rng.To)
			stmt += " AND txTime <= ?"
		}
		return stmt, args
	}

	// sequence ranges go through the primary key
	if rng.From > maxTxSeq {
		return stmt + " AND 0", args
	}
	args = append(args, newSequence(rng.From, 0))
	stmt += " AND seq >= ?"
	if rng.To >= rng.From {
		args = append(args, newSequence(min(rng.To, maxTxSeq), maxIndex))
		stmt += " AND seq <= ?"
	}
	return stmt, args
}

func orderAndLimit(stmt string, args []any, order Order, options *Options) (string, []any) {
	if order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, options.Offset, options.Limit)
	}
	return stmt, args
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query events")
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
			seq      int64
			txSeq    uint64
			txTime   uint64
			txID     []byte
			txOrigin []byte
			address  []byte
			topics   [5][]byte
			data     []byte
		)
		if err := rows.Scan(
			&seq,
			&txSeq,
			&txTime,
			&txID,
			&txOrigin,
			&address,
			&topics[0],
			&topics[1],
			&topics[2],
			&topics[3],
			&topics[4],
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			TxSeq:    txSeq,
			Index:    sequence(seq).Index(),
			TxTime:   txTime,
			TxID:     chain.BytesToBytes32(txID),
			TxOrigin: chain.BytesToAddress(txOrigin),
			Address:  chain.BytesToAddress(address),
			Data:     data,
		}
		for i, topic := range topics {
			if len(topic) > 0 {
				h := chain.BytesToBytes32(topic)
				event.Topics[i] = &h
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (db *LogDB) queryTransfers(ctx context.Context, stmt string, args ...any) ([]*Transfer, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query transfers")
	}
	defer rows.Close()

	var transfers []*Transfer
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq       int64
			txSeq     uint64
			txTime    uint64
			txID      []byte
			txOrigin  []byte
			token     []byte
			sender    []byte
			recipient []byte
			amount    []byte
		)
		if err := rows.Scan(
			&seq,
			&txSeq,
			&txTime,
			&txID,
			&txOrigin,
			&token,
			&sender,
			&recipient,
			&amount,
		); err != nil {
			return nil, err
		}
		transfers = append(transfers, &Transfer{
			TxSeq:     txSeq,
			Index:     sequence(seq).Index(),
			TxTime:    txTime,
			TxID:      chain.BytesToBytes32(txID),
			TxOrigin:  chain.BytesToAddress(txOrigin),
			Token:     chain.BytesToAddress(token),
			Sender:    chain.BytesToAddress(sender),
			Recipient: chain.BytesToAddress(recipient),
			Amount:    new(big.Int).SetBytes(amount),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transfers, nil
}

func topicValue(topic *chain.Bytes32) []byte {
	if topic == nil {
		return nil
	}
	return topic.Bytes()
}
