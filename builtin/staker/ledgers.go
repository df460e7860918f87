// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/vechain/nftstaking/builtin/collection"
	"github.com/vechain/nftstaking/chain"
)

// RewardLedger is the fungible currency rewards are paid in.
type RewardLedger interface {
	BalanceOf(addr chain.Address) (*big.Int, error)
	Transfer(from, to chain.Address, amount *big.Int) error
}

// CustodyLedger is the item collection the staker takes custody from.
type CustodyLedger interface {
	Address() chain.Address
	OwnerOf(id *big.Int) (chain.Address, error)
	ClassOf(id *big.Int) (collection.Class, error)
	Transfer(from, to chain.Address, id *big.Int) error
}
