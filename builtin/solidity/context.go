// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/state"
)

// Context binds storage abstractions to one contract's slots.
type Context struct {
	address chain.Address
	state   *state.State
}

func NewContext(address chain.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Address() chain.Address {
	return c.address
}
