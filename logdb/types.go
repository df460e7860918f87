// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"math/big"

	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/tx"
)

// Event represents tx.Event that can be stored in db.
type Event struct {
	TxSeq    uint64
	Index    uint32
	TxTime   uint64
	TxID     chain.Bytes32
	TxOrigin chain.Address
	Address  chain.Address // always a contract address
	Topics   [5]*chain.Bytes32
	Data     []byte
}

// newEvent converts tx.Event to Event.
func newEvent(receipt *tx.Receipt, index uint32, txEvent *tx.Event) *Event {
	ev := &Event{
		TxSeq:    receipt.Seq,
		Index:    index,
		TxTime:   receipt.Time,
		TxID:     receipt.TxID,
		TxOrigin: receipt.Origin,
		Address:  txEvent.Address,
		Data:     txEvent.Data,
	}
	for i := 0; i < len(txEvent.Topics) && i < len(ev.Topics); i++ {
		ev.Topics[i] = &txEvent.Topics[i]
	}
	return ev
}

// Transfer represents tx.Transfer that can be stored in db.
type Transfer struct {
	TxSeq     uint64
	Index     uint32
	TxTime    uint64
	TxID      chain.Bytes32
	TxOrigin  chain.Address
	Token     chain.Address
	Sender    chain.Address
	Recipient chain.Address
	Amount    *big.Int
}

// newTransfer converts tx.Transfer to Transfer.
func newTransfer(receipt *tx.Receipt, index uint32, transfer *tx.Transfer) *Transfer {
	return &Transfer{
		TxSeq:     receipt.Seq,
		Index:     index,
		TxTime:    receipt.Time,
		TxID:      receipt.TxID,
		TxOrigin:  receipt.Origin,
		Token:     transfer.Token,
		Sender:    transfer.Sender,
		Recipient: transfer.Recipient,
		Amount:    transfer.Amount,
	}
}

type RangeType string

const (
	Seq  RangeType = "seq"
	Time RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is inclusive on both ends. To below From leaves the range open-ended.
type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type EventCriteria struct {
	Address *chain.Address // always a contract address
	Topics  [5]*chain.Bytes32
}

// EventFilter filter
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}

type TransferCriteria struct {
	TxOrigin  *chain.Address // who sent the transaction
	Token     *chain.Address // which ledger moved the value
	Sender    *chain.Address
	Recipient *chain.Address
}

type TransferFilter struct {
	TxID        *chain.Bytes32
	CriteriaSet []*TransferCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
