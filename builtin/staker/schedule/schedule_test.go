// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/lvldb"
	"github.com/vechain/nftstaking/state"
)

func M(a ...any) []any {
	return a
}

func newTestService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(chain.BytesToAddress([]byte("staker")), state.New(db)), 7)
}

func TestAddLayersRewards(t *testing.T) {
	s := newTestService(t)

	assert.Equal(t, M(big.NewInt(28000), nil), M(s.Add(1, 4, big.NewInt(1000), 0)))
	assert.Equal(t, M(big.NewInt(1400), nil), M(s.Add(3, 6, big.NewInt(50), 0)))

	for period, want := range map[uint64]int64{1: 1000, 2: 1000, 3: 1050, 4: 1050, 5: 50, 6: 50, 7: 0} {
		reward, err := s.RewardPerCycle(period)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(want), reward, "period %d", period)
	}
	assert.Equal(t, M(big.NewInt(29400), nil), M(s.TotalPool()))
}

func TestAddRejects(t *testing.T) {
	s := newTestService(t)
	huge := new(big.Int).Lsh(big.NewInt(1), 255)

	tests := []struct {
		name     string
		start    uint64
		end      uint64
		amount   *big.Int
		current  uint64
		expected error
	}{
		{"zero start", 0, 3, big.NewInt(1), 0, reverts.ErrInvalidRange},
		{"reversed", 5, 4, big.NewInt(1), 0, reverts.ErrInvalidRange},
		{"too wide", 1, MaxSpan + 1, big.NewInt(1), 0, reverts.ErrInvalidRange},
		{"current period", 3, 5, big.NewInt(1), 3, reverts.ErrAlreadyCommitted},
		{"past period", 2, 5, big.NewInt(1), 3, reverts.ErrAlreadyCommitted},
		{"pool overflow", 10, 11, huge, 0, reverts.ErrOverflow},
		{"negative", 10, 11, big.NewInt(-1), 0, reverts.ErrInvalidRange},
		{"nil amount", 10, 11, nil, 0, reverts.ErrInvalidRange},
		{"end past last cycle", math.MaxUint64 - 2, math.MaxUint64, big.NewInt(1), 0, reverts.ErrInvalidRange},
		{"end one past max period", math.MaxUint64/7 - 1, math.MaxUint64/7 + 1, big.NewInt(1), 0, reverts.ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Add(tt.start, tt.end, tt.amount, tt.current)
			assert.ErrorIs(t, err, tt.expected)
		})
	}

	assert.Equal(t, M(&big.Int{}, nil), M(s.TotalPool()))
	assert.Equal(t, M(big.NewInt(14), nil), M(s.Add(4, 5, big.NewInt(1), 3)))
}

func TestAddUpToMaxPeriod(t *testing.T) {
	s := newTestService(t)
	last := s.MaxPeriod()

	assert.Equal(t, M(big.NewInt(21), nil), M(s.Add(last-2, last, big.NewInt(1), 0)))
	for _, period := range []uint64{0, 1, last - 3} {
		assert.Equal(t, M(&big.Int{}, nil), M(s.RewardPerCycle(period)), "period %d", period)
	}
	assert.Equal(t, M(big.NewInt(1), nil), M(s.RewardPerCycle(last)))
}

func TestAddEndsAtLargestPeriod(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	// one-cycle periods can use every period number
	s := New(solidity.NewContext(chain.BytesToAddress([]byte("staker")), state.New(db)), 1)

	done := make(chan error, 1)
	go func() {
		_, err := s.Add(math.MaxUint64-2, math.MaxUint64, big.NewInt(1), 0)
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("schedule update did not return")
	}

	assert.Equal(t, M(&big.Int{}, nil), M(s.RewardPerCycle(0)))
	assert.Equal(t, M(big.NewInt(1), nil), M(s.RewardPerCycle(math.MaxUint64)))
	assert.Equal(t, M(big.NewInt(3), nil), M(s.TotalPool()))
}
