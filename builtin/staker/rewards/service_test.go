// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/builtin/staker/clock"
	"github.com/vechain/nftstaking/builtin/staker/schedule"
	"github.com/vechain/nftstaking/builtin/staker/snapshot"
	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/lvldb"
	"github.com/vechain/nftstaking/state"
)

const periodLength = 7

var (
	alice = chain.BytesToAddress([]byte("alice"))
	bob   = chain.BytesToAddress([]byte("bob"))
)

type fixture struct {
	t         *testing.T
	clock     *clock.Service
	schedule  *schedule.Service
	histories *snapshot.Service
	rewards   *Service
}

func newFixture(t *testing.T) *fixture {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sctx := solidity.NewContext(chain.BytesToAddress([]byte("staker")), state.New(db))
	clk := clock.New(sctx, 3600, periodLength)
	sched := schedule.New(sctx, periodLength)
	histories := snapshot.New(sctx)
	return &fixture{
		t:         t,
		clock:     clk,
		schedule:  sched,
		histories: histories,
		rewards:   New(sctx, clk, sched, histories),
	}
}

func (f *fixture) schedulePeriods(start, end uint64, perCycle int64) {
	_, err := f.schedule.Add(start, end, big.NewInt(perCycle), 0)
	require.NoError(f.t, err)
}

func (f *fixture) stake(staker chain.Address, cycle, weight uint64) {
	upd, err := f.histories.Add(staker, cycle, weight)
	require.NoError(f.t, err)
	require.NoError(f.t, f.rewards.Track(staker, f.clock.PeriodOf(cycle), upd))
}

func (f *fixture) unstake(staker chain.Address, cycle, weight uint64) {
	_, err := f.histories.Sub(staker, cycle, weight)
	require.NoError(f.t, err)
}

func (f *fixture) claim(staker chain.Address, maxPeriods, currentPeriod uint64) *Result {
	res, next, err := f.rewards.Compute(staker, maxPeriods, currentPeriod)
	require.NoError(f.t, err)
	require.NoError(f.t, f.rewards.Settle(staker, res, next))
	return res
}

func result(start, periods uint64, amount int64) *Result {
	return &Result{StartPeriod: start, Periods: periods, Amount: big.NewInt(amount)}
}

func TestSingleStaker(t *testing.T) {
	f := newFixture(t)
	f.schedulePeriods(1, 4, 1000)
	f.stake(alice, 1, 1)

	res, next, err := f.rewards.Compute(alice, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, result(1, 1, 7000), res)
	assert.Equal(t, &Cursor{Period: 2}, next)

	// estimating twice yields the same answer
	again, _, err := f.rewards.Compute(alice, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, res, again)
}

func TestSharedPeriod(t *testing.T) {
	f := newFixture(t)
	f.schedulePeriods(1, 4, 1000)
	f.stake(alice, 1, 1)
	f.stake(bob, 8, 1)

	res, _, err := f.rewards.Compute(alice, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, result(1, 2, 10500), res)

	res, next, err := f.rewards.Compute(bob, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, result(2, 1, 3500), res)
	assert.Equal(t, &Cursor{Period: 3, GlobalIndex: 1, StakerIndex: 0}, next)
}

func TestNothingClaimable(t *testing.T) {
	f := newFixture(t)
	f.schedulePeriods(1, 4, 1000)

	tests := []struct {
		name       string
		staker     chain.Address
		maxPeriods uint64
		current    uint64
		expected   *Result
	}{
		{"never staked", bob, 10, 3, result(0, 0, 0)},
		{"zero max periods", alice, 0, 3, result(1, 0, 0)},
		{"period not elapsed", alice, 10, 1, result(1, 0, 0)},
	}

	f.stake(alice, 2, 1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before, err := f.rewards.Cursor(tt.staker)
			require.NoError(t, err)

			res, next, err := f.rewards.Compute(tt.staker, tt.maxPeriods, tt.current)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res)
			assert.Equal(t, before, next)
		})
	}
}

func TestCursorReset(t *testing.T) {
	f := newFixture(t)
	f.schedulePeriods(1, 4, 1000)
	f.stake(alice, 1, 1)
	f.unstake(alice, 3, 1)

	assert.Equal(t, result(1, 1, 2000), f.claim(alice, 10, 2))
	cursor, err := f.rewards.Cursor(alice)
	require.NoError(t, err)
	assert.True(t, cursor.IsZero())

	f.stake(alice, 10, 1)
	cursor, err = f.rewards.Cursor(alice)
	require.NoError(t, err)
	assert.Equal(t, &Cursor{Period: 2, GlobalIndex: 2, StakerIndex: 2}, cursor)

	// cycles 8 and 9 precede the new stake
	assert.Equal(t, result(2, 1, 5000), f.claim(alice, 10, 3))

	claimed, err := f.rewards.TotalClaimed()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7000), claimed)
}

func TestLostCyclesExcluded(t *testing.T) {
	f := newFixture(t)
	f.schedulePeriods(1, 2, 700)
	f.stake(alice, 1, 5)
	f.unstake(alice, 3, 5)
	f.stake(alice, 6, 5)

	// cycles 3 to 5 carry no stake
	assert.Equal(t, result(1, 2, 700*(2+9)), f.claim(alice, 10, 3))
}

func TestPagedClaimsMatchSingleClaim(t *testing.T) {
	f := newFixture(t)
	f.schedulePeriods(1, 12, 999_983)
	f.schedulePeriods(4, 8, 12_345)

	fz := fuzz.New().NilChance(0)
	stakers := []chain.Address{alice, bob, chain.BytesToAddress([]byte("carol"))}
	stakes := make(map[chain.Address]uint64)
	for cycle := uint64(1); cycle <= 12*periodLength; cycle++ {
		var action struct {
			Who    uint8
			Weight uint8
			Kind   uint8
		}
		fz.Fuzz(&action)
		who := stakers[int(action.Who)%len(stakers)]
		weight := uint64(action.Weight%50) + 1
		switch action.Kind % 4 {
		case 0:
			f.stake(who, cycle, weight)
			stakes[who] += weight
		case 1:
			if stakes[who] >= weight {
				f.unstake(who, cycle, weight)
				stakes[who] -= weight
			}
		}
	}

	const current = 13
	total := new(big.Int)
	for _, who := range stakers {
		oneShot, _, err := f.rewards.Compute(who, 100, current)
		require.NoError(t, err)

		paged := new(big.Int)
		for {
			res := f.claim(who, 1, current)
			if res.Periods == 0 {
				break
			}
			paged.Add(paged, res.Amount)
		}
		assert.Zero(t, oneShot.Amount.Cmp(paged), "staker %s: %s != %s", who, oneShot.Amount, paged)
		total.Add(total, paged)
	}

	pool, err := f.schedule.TotalPool()
	require.NoError(t, err)
	assert.True(t, total.Cmp(pool) <= 0)
}
