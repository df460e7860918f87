// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/lvldb"
	"github.com/vechain/nftstaking/state"
)

func newTestService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(chain.BytesToAddress([]byte("staker")), state.New(db)), 2, 1)
}

func TestFreezeAndCooldown(t *testing.T) {
	s := newTestService(t)
	alice := chain.BytesToAddress([]byte("alice"))
	bob := chain.BytesToAddress([]byte("bob"))
	id := big.NewInt(1)

	info, err := s.Stake(alice, id, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, &TokenInfo{Owner: alice, Staked: true, Weight: 10, DepositCycle: 5}, info)

	steps := []struct {
		name     string
		run      func() error
		expected error
	}{
		{"restake", func() error { _, err := s.Stake(bob, id, 10, 5); return err }, reverts.ErrAlreadyStaked},
		{"not owner", func() error { _, err := s.Unstake(bob, id, 9, false); return err }, reverts.ErrNotOwner},
		{"frozen same cycle", func() error { _, err := s.Unstake(alice, id, 5, false); return err }, reverts.ErrStillFrozen},
		{"frozen next cycle", func() error { _, err := s.Unstake(alice, id, 6, false); return err }, reverts.ErrStillFrozen},
		{"unfrozen", func() error { _, err := s.Unstake(alice, id, 7, false); return err }, nil},
		{"already released", func() error { _, err := s.Unstake(alice, id, 7, false); return err }, reverts.ErrNotOwner},
		{"cooldown", func() error { _, err := s.Stake(bob, id, 10, 7); return err }, reverts.ErrCooldownActive},
		{"cooled down", func() error { _, err := s.Stake(bob, id, 10, 8); return err }, nil},
	}
	for _, step := range steps {
		err := step.run()
		if step.expected == nil {
			require.NoError(t, err, step.name)
		} else {
			assert.ErrorIs(t, err, step.expected, step.name)
		}
	}

	info, err = s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, bob, info.Owner)
	assert.Equal(t, uint64(8), info.DepositCycle)
	assert.False(t, info.Withdrawn)
}

func TestForcedUnstake(t *testing.T) {
	s := newTestService(t)
	alice := chain.BytesToAddress([]byte("alice"))

	_, err := s.Stake(alice, big.NewInt(1), 1, 3)
	require.NoError(t, err)
	_, err = s.Stake(alice, big.NewInt(2), 1, 3)
	require.NoError(t, err)
	count, err := s.StakedCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	released, err := s.Unstake(alice, big.NewInt(1), 3, true)
	require.NoError(t, err)
	assert.Equal(t, alice, released.Owner)
	assert.Equal(t, uint64(1), released.Weight)

	count, err = s.StakedCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	// the last release clears the counter slot, and counting resumes from zero
	_, err = s.Unstake(alice, big.NewInt(2), 3, true)
	require.NoError(t, err)
	count, err = s.StakedCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)

	_, err = s.Stake(alice, big.NewInt(3), 1, 4)
	require.NoError(t, err)
	count, err = s.StakedCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}
