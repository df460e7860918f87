// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"encoding/binary"

	"github.com/vechain/nftstaking/chain"
)

// Receipt represents the results of a transaction.
type Receipt struct {
	TxID   chain.Bytes32
	Seq    uint64 // position of the transaction in the ledger, starting from 1
	Time   uint64 // unix seconds the transaction was executed at
	Origin chain.Address

	Reverted     bool
	RevertReason string

	Events    Events
	Transfers Transfers
}

// NewTxID derives the transaction id from its sequence and origin.
func NewTxID(seq uint64, origin chain.Address, clause string) chain.Bytes32 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], seq)
	return chain.Blake2b(b[:], origin.Bytes(), []byte(clause))
}
