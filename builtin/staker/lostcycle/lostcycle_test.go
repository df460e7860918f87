// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lostcycle

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/builtin/staker/clock"
	"github.com/vechain/nftstaking/builtin/staker/schedule"
	"github.com/vechain/nftstaking/builtin/staker/snapshot"
	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/lvldb"
	"github.com/vechain/nftstaking/state"
)

func TestWithdraw(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	sctx := solidity.NewContext(chain.BytesToAddress([]byte("staker")), state.New(db))
	sched := schedule.New(sctx, 7)
	histories := snapshot.New(sctx)
	svc := New(sctx, clock.New(sctx, 3600, 7), sched, histories.Global())

	_, err = sched.Add(1, 1, big.NewInt(1000), 0)
	require.NoError(t, err)

	alice := chain.BytesToAddress([]byte("alice"))
	// global: {3,1} {5,0} {6,1}
	for _, step := range []struct {
		cycle uint64
		add   bool
	}{{3, true}, {5, false}, {6, true}} {
		if step.add {
			_, err = histories.Add(alice, step.cycle, 1)
		} else {
			_, err = histories.Sub(alice, step.cycle, 1)
		}
		require.NoError(t, err)
	}

	tests := []struct {
		name     string
		cycle    uint64
		index    int64
		current  uint64
		expected error
	}{
		{"current cycle", 9, 2, 9, reverts.ErrNotPast},
		{"future cycle", 10, 2, 9, reverts.ErrNotPast},
		{"zero cycle", 0, -1, 9, reverts.ErrInvalidRange},
		{"covered by first snapshot", 4, BeforeFirstSnapshot, 9, reverts.ErrHasSnapshot},
		{"index out of range", 5, 3, 9, reverts.ErrWrongIndex},
		{"negative index", 5, -2, 9, reverts.ErrWrongIndex},
		{"snapshot starts later", 5, 2, 9, reverts.ErrWrongIndex},
		{"snapshot ends earlier", 5, 0, 9, reverts.ErrWrongIndex},
		{"staked cycle", 4, 0, 9, reverts.ErrNonLostCycle},
		{"restaked cycle", 8, 2, 9, reverts.ErrNonLostCycle},
		{"before first snapshot", 2, BeforeFirstSnapshot, 9, nil},
		{"withdrawn", 2, BeforeFirstSnapshot, 9, reverts.ErrAlreadyWithdrawn},
		{"zero stake snapshot", 5, 1, 9, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reward, err := svc.Withdraw(tt.cycle, tt.index, tt.current)
			if tt.expected != nil {
				assert.ErrorIs(t, err, tt.expected)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, big.NewInt(1000), reward)
		})
	}

	total, err := svc.TotalWithdrawn()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(2000), total)
}

func TestRewardlessCycle(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	sctx := solidity.NewContext(chain.BytesToAddress([]byte("staker")), state.New(db))
	svc := New(sctx, clock.New(sctx, 3600, 7), schedule.New(sctx, 7), snapshot.New(sctx).Global())

	_, err = svc.Withdraw(3, BeforeFirstSnapshot, 20)
	assert.ErrorIs(t, err, reverts.ErrRewardlessCycle)

	withdrawn, err := svc.IsWithdrawn(3)
	require.NoError(t, err)
	assert.False(t, withdrawn)
}
