// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package collection

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/xenv"
)

var (
	slotItems    = chain.BytesToBytes32([]byte("items"))
	slotBalances = chain.BytesToBytes32([]byte("balances"))
	slotSupply   = chain.BytesToBytes32([]byte("total-supply"))

	ErrAlreadyMinted = reverts.New("item already minted")
	ErrUnknownItem   = reverts.New("unknown item")
	ErrInvalidClass  = reverts.New("invalid item class")
)

// EventTransfer is emitted on mint and on every change of owner.
const EventTransfer = "Transfer"

// Item is the stored record of a minted item.
type Item struct {
	Owner chain.Address
	Class Class
}

func (i *Item) exists() bool {
	return i.Class != ClassNone
}

// Collection is the non-fungible item ledger.
type Collection struct {
	addr chain.Address
	env  *xenv.Environment

	items    *solidity.Mapping[*big.Int, *Item]
	balances *solidity.Mapping[chain.Address, uint64]
	supply   *solidity.Raw[uint64]
}

// New create a new instance.
func New(addr chain.Address, env *xenv.Environment) *Collection {
	sctx := solidity.NewContext(addr, env.State())
	return &Collection{
		addr:     addr,
		env:      env,
		items:    solidity.NewMapping[*big.Int, *Item](sctx, slotItems),
		balances: solidity.NewMapping[chain.Address, uint64](sctx, slotBalances),
		supply:   solidity.NewRaw[uint64](sctx, slotSupply),
	}
}

// Address returns the collection address.
func (c *Collection) Address() chain.Address {
	return c.addr
}

func (c *Collection) getItem(id *big.Int) (*Item, error) {
	if id.Sign() < 0 {
		return nil, ErrUnknownItem
	}
	item, err := c.items.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get item")
	}
	return item, nil
}

func (c *Collection) getExistingItem(id *big.Int) (*Item, error) {
	item, err := c.getItem(id)
	if err != nil {
		return nil, err
	}
	if !item.exists() {
		return nil, ErrUnknownItem
	}
	return item, nil
}

// TotalSupply returns the number of minted items.
func (c *Collection) TotalSupply() (uint64, error) {
	return c.supply.Get()
}

// BalanceOf returns how many items an account holds.
func (c *Collection) BalanceOf(addr chain.Address) (uint64, error) {
	return c.balances.Get(addr)
}

// OwnerOf returns the holder of an item.
func (c *Collection) OwnerOf(id *big.Int) (chain.Address, error) {
	item, err := c.getExistingItem(id)
	if err != nil {
		return chain.Address{}, err
	}
	return item.Owner, nil
}

// ClassOf returns the rarity of an item.
func (c *Collection) ClassOf(id *big.Int) (Class, error) {
	item, err := c.getExistingItem(id)
	if err != nil {
		return ClassNone, err
	}
	return item.Class, nil
}

// Mint creates item id of the given class owned by to.
func (c *Collection) Mint(to chain.Address, id *big.Int, class Class) error {
	if !class.Valid() {
		return ErrInvalidClass
	}
	item, err := c.getItem(id)
	if err != nil {
		return err
	}
	if item.exists() {
		return ErrAlreadyMinted
	}

	supply, err := c.supply.Get()
	if err != nil {
		return err
	}
	if err := c.supply.Set(supply + 1); err != nil {
		return err
	}
	if err := c.items.Set(id, &Item{Owner: to, Class: class}); err != nil {
		return errors.Wrap(err, "failed to set item")
	}
	if err := c.adjustBalance(to, 1); err != nil {
		return err
	}
	return c.logTransfer(chain.Address{}, to, id)
}

// Transfer moves item id from one account to another. from must be the current owner.
func (c *Collection) Transfer(from, to chain.Address, id *big.Int) error {
	item, err := c.getExistingItem(id)
	if err != nil {
		return err
	}
	if item.Owner != from {
		return reverts.ErrNotOwner
	}

	item.Owner = to
	if err := c.items.Set(id, item); err != nil {
		return errors.Wrap(err, "failed to set item")
	}
	if err := c.adjustBalance(from, -1); err != nil {
		return err
	}
	if err := c.adjustBalance(to, 1); err != nil {
		return err
	}
	return c.logTransfer(from, to, id)
}

func (c *Collection) adjustBalance(addr chain.Address, delta int) error {
	bal, err := c.balances.Get(addr)
	if err != nil {
		return errors.Wrap(err, "failed to get balance")
	}
	if delta < 0 {
		bal--
	} else {
		bal++
	}
	return c.balances.Set(addr, bal)
}

func (c *Collection) logTransfer(from, to chain.Address, id *big.Int) error {
	return c.env.Log(
		c.addr,
		EventTransfer,
		[]chain.Bytes32{chain.BytesToBytes32(from.Bytes()), chain.BytesToBytes32(to.Bytes())},
		id,
	)
}
