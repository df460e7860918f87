// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/vechain/nftstaking/chain"
)

// Uint256 is a wrapper for storage and retrieval of an uint256 counter. Similar to storing an uint256 in a smart contract.
// Values that do not fit 256 bits are rejected with chain.ErrOverflow.
type Uint256 struct {
	raw *Raw[*big.Int]
}

func NewUint256(context *Context, pos chain.Bytes32) *Uint256 {
	return &Uint256{raw: NewRaw[*big.Int](context, pos)}
}

func (u *Uint256) Get() (*big.Int, error) {
	return u.raw.Get()
}

func (u *Uint256) Set(value *big.Int) error {
	if _, err := chain.ToUint256(value); err != nil {
		return err
	}
	return u.raw.Set(value)
}

func (u *Uint256) Add(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	return u.Set(storage.Add(storage, value))
}

func (u *Uint256) Sub(value *big.Int) error {
	storage, err := u.Get()
	if err != nil {
		return err
	}
	if storage.Cmp(value) < 0 {
		return chain.ErrOverflow
	}
	return u.Set(storage.Sub(storage, value))
}
