// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/xenv"
)

var (
	slotBalances = chain.BytesToBytes32([]byte("balances"))
	slotSupply   = chain.BytesToBytes32([]byte("total-supply"))
)

// Token is the fungible reward currency ledger.
type Token struct {
	addr chain.Address
	env  *xenv.Environment

	balances *solidity.Mapping[chain.Address, *big.Int]
	supply   *solidity.Uint256
}

// New create a new instance.
func New(addr chain.Address, env *xenv.Environment) *Token {
	sctx := solidity.NewContext(addr, env.State())
	return &Token{
		addr:     addr,
		env:      env,
		balances: solidity.NewMapping[chain.Address, *big.Int](sctx, slotBalances),
		supply:   solidity.NewUint256(sctx, slotSupply),
	}
}

// Address returns the ledger address, used as the token of recorded transfers.
func (t *Token) Address() chain.Address {
	return t.addr
}

// TotalSupply returns the amount minted so far.
func (t *Token) TotalSupply() (*big.Int, error) {
	supply, err := t.supply.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total supply")
	}
	return supply, nil
}

// BalanceOf returns the balance of an account.
func (t *Token) BalanceOf(addr chain.Address) (*big.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

// Mint creates amount new tokens owned by to.
func (t *Token) Mint(to chain.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.ErrOverflow
	}
	if amount.Sign() == 0 {
		return nil
	}
	if err := t.supply.Add(amount); err != nil {
		if errors.Is(err, chain.ErrOverflow) {
			return reverts.ErrOverflow
		}
		return errors.Wrap(err, "failed to update total supply")
	}
	if err := t.addBalance(to, amount); err != nil {
		return err
	}
	t.env.Transfer(t.addr, chain.Address{}, to, amount)
	return nil
}

// Transfer moves amount from one account to another.
func (t *Token) Transfer(from, to chain.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return reverts.ErrOverflow
	}
	bal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return reverts.ErrInsufficientBalance
	}
	if amount.Sign() == 0 {
		return nil
	}
	if err := t.balances.Set(from, bal.Sub(bal, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	if err := t.addBalance(to, amount); err != nil {
		return err
	}
	t.env.Transfer(t.addr, from, to, amount)
	return nil
}

// balances never exceed the total supply, which is bounded to 256 bits.
func (t *Token) addBalance(addr chain.Address, amount *big.Int) error {
	bal, err := t.BalanceOf(addr)
	if err != nil {
		return err
	}
	if err := t.balances.Set(addr, bal.Add(bal, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}
