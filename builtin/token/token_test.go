// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/lvldb"
	"github.com/vechain/nftstaking/state"
	"github.com/vechain/nftstaking/xenv"
)

func M(a ...any) []any {
	return a
}

func newTestToken(t *testing.T) (*Token, *xenv.Environment) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := xenv.New(state.New(db), &xenv.TransactionContext{})
	return New(chain.BytesToAddress([]byte("token")), env), env
}

func TestToken(t *testing.T) {
	tk, env := newTestToken(t)
	alice := chain.BytesToAddress([]byte("alice"))
	bob := chain.BytesToAddress([]byte("bob"))

	require.NoError(t, tk.Mint(alice, big.NewInt(100)))

	tests := []struct {
		ret      any
		expected any
	}{
		{M(tk.BalanceOf(alice)), M(big.NewInt(100), nil)},
		{M(tk.BalanceOf(bob)), M(&big.Int{}, nil)},
		{M(tk.TotalSupply()), M(big.NewInt(100), nil)},
		{tk.Transfer(alice, bob, big.NewInt(30)), nil},
		{M(tk.BalanceOf(alice)), M(big.NewInt(70), nil)},
		{M(tk.BalanceOf(bob)), M(big.NewInt(30), nil)},
		{tk.Transfer(bob, alice, big.NewInt(31)), reverts.ErrInsufficientBalance},
		{M(tk.BalanceOf(bob)), M(big.NewInt(30), nil)},
		{tk.Transfer(bob, bob, big.NewInt(30)), nil},
		{M(tk.BalanceOf(bob)), M(big.NewInt(30), nil)},
		{M(tk.TotalSupply()), M(big.NewInt(100), nil)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.ret)
	}

	transfers := env.Transfers()
	require.Len(t, transfers, 3)
	assert.True(t, transfers[0].Sender.IsZero())
	assert.Equal(t, alice, transfers[0].Recipient)
	assert.Equal(t, bob, transfers[1].Recipient)
	assert.Equal(t, big.NewInt(30), transfers[1].Amount)
}

func TestTokenMintOverflow(t *testing.T) {
	tk, _ := newTestToken(t)
	alice := chain.BytesToAddress([]byte("alice"))

	max := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	require.NoError(t, tk.Mint(alice, max))
	assert.ErrorIs(t, tk.Mint(alice, big.NewInt(1)), reverts.ErrOverflow)
	assert.ErrorIs(t, tk.Mint(alice, big.NewInt(-1)), reverts.ErrOverflow)
}
