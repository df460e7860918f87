// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"math/big"

	"github.com/vechain/nftstaking/chain"
)

// Transfer token transfer log.
type Transfer struct {
	Token     chain.Address // ledger contract that moved the value
	Sender    chain.Address
	Recipient chain.Address
	Amount    *big.Int
}

// Transfers slice of transfer logs.
type Transfers []*Transfer
