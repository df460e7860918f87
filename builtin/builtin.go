// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/nftstaking/builtin/collection"
	"github.com/vechain/nftstaking/builtin/staker"
	"github.com/vechain/nftstaking/builtin/token"
	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/xenv"
)

// Builtin contracts binding.
var (
	Token      = &tokenContract{newContract("RewardToken")}
	Collection = &collectionContract{newContract("NftCollection")}
	Staker     = &stakerContract{newContract("NftStaker")}
)

type Contract struct {
	Name    string
	Address chain.Address
}

// addresses are derived from contract names.
func newContract(name string) *Contract {
	return &Contract{Name: name, Address: chain.BytesToAddress([]byte(name))}
}

type (
	tokenContract      struct{ *Contract }
	collectionContract struct{ *Contract }
	stakerContract     struct{ *Contract }
)

func (t *tokenContract) Native(env *xenv.Environment) *token.Token {
	return token.New(t.Address, env)
}

func (c *collectionContract) Native(env *xenv.Environment) *collection.Collection {
	return collection.New(c.Address, env)
}

// Native binds the staker to the builtin reward token and the item collection.
func (s *stakerContract) Native(env *xenv.Environment, cfg *staker.Config) *staker.Staker {
	return staker.New(s.Address, env, cfg, Token.Native(env), Collection.Native(env))
}

// Contracts lists every builtin contract.
func Contracts() []*Contract {
	return []*Contract{Token.Contract, Collection.Contract, Staker.Contract}
}
