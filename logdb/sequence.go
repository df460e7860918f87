// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import "math"

const (
	indexBits = 24
	maxIndex  = 1<<indexBits - 1
	maxTxSeq  = math.MaxInt64 >> indexBits
)

// sequence orders logs by transaction sequence then by index within the transaction.
type sequence int64

func newSequence(txSeq uint64, index uint32) sequence {
	if (index & maxIndex) != index {
		panic("index too large")
	}
	if txSeq > maxTxSeq {
		panic("tx sequence too large")
	}
	return (sequence(txSeq) << indexBits) | sequence(index)
}

func (s sequence) TxSeq() uint64 {
	return uint64(s >> indexBits)
}

func (s sequence) Index() uint32 {
	return uint32(s & maxIndex)
}
