// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaking/builtin/collection"
	"github.com/vechain/nftstaking/builtin/staker/rewards"
	"github.com/vechain/nftstaking/builtin/staker/snapshot"
	"github.com/vechain/nftstaking/builtin/token"
	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/lvldb"
	"github.com/vechain/nftstaking/state"
	"github.com/vechain/nftstaking/xenv"
)

const (
	testStart       = uint64(1_700_000_000)
	testCycleLength = uint64(3600)
)

var (
	authority = chain.BytesToAddress([]byte("authority"))
	alice     = chain.BytesToAddress([]byte("alice"))
	bob       = chain.BytesToAddress([]byte("bob"))
)

func M(a ...any) []any {
	return a
}

type testStaker struct {
	*Staker
	env   *xenv.Environment
	txCtx *xenv.TransactionContext
	token *token.Token
	items *collection.Collection
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.CycleLength = testCycleLength
	cfg.Authority = authority
	cfg.Collection = chain.BytesToAddress([]byte("collection"))
	return cfg
}

func newTestStaker(t *testing.T, cfg *Config) *testStaker {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	txCtx := &xenv.TransactionContext{Time: testStart}
	env := xenv.New(state.New(db), txCtx)
	tk := token.New(chain.BytesToAddress([]byte("token")), env)
	items := collection.New(cfg.Collection, env)

	return &testStaker{
		Staker: New(chain.BytesToAddress([]byte("staker")), env, cfg, tk, items),
		env:    env,
		txCtx:  txCtx,
		token:  tk,
		items:  items,
	}
}

// newStartedStaker starts staking at testStart and funds the authority.
func newStartedStaker(t *testing.T) *testStaker {
	ts := newTestStaker(t, testConfig())
	require.NoError(t, ts.Start(authority))
	require.NoError(t, ts.token.Mint(authority, big.NewInt(1_000_000_000)))
	return ts
}

func (ts *testStaker) warpTo(cycle uint64) {
	ts.txCtx.Time = testStart + (cycle-1)*testCycleLength
}

func (ts *testStaker) globalHistory(t *testing.T) []snapshot.Snapshot {
	n, err := ts.GlobalHistoryLength()
	require.NoError(t, err)
	res := make([]snapshot.Snapshot, 0, n)
	for i := range n {
		snap, err := ts.GlobalSnapshot(i)
		require.NoError(t, err)
		res = append(res, *snap)
	}
	return res
}

func (ts *testStaker) stakerHistory(t *testing.T, staker chain.Address) []snapshot.Snapshot {
	n, err := ts.StakerHistoryLength(staker)
	require.NoError(t, err)
	res := make([]snapshot.Snapshot, 0, n)
	for i := range n {
		snap, err := ts.StakerSnapshot(staker, i)
		require.NoError(t, err)
		res = append(res, *snap)
	}
	return res
}

// assertPool checks the scheduled pool is fully accounted for.
func (ts *testStaker) assertPool(t *testing.T) {
	pool, err := ts.TotalRewardsPool()
	require.NoError(t, err)
	claimed, err := ts.TotalClaimed()
	require.NoError(t, err)
	lost, err := ts.TotalLostWithdrawn()
	require.NoError(t, err)
	withdrawn, err := ts.TotalPoolWithdrawn()
	require.NoError(t, err)
	balance, err := ts.RewardsBalance()
	require.NoError(t, err)

	sum := new(big.Int).Add(claimed, lost)
	sum.Add(sum, withdrawn)
	sum.Add(sum, balance)
	assert.Zero(t, pool.Cmp(sum), "pool %s != claimed %s + lost %s + withdrawn %s + balance %s", pool, claimed, lost, withdrawn, balance)
}

type TestFunc func(t *testing.T)

type TestSequence struct {
	ts *testStaker

	funcs []TestFunc
	mu    sync.Mutex
}

func NewSequence(ts *testStaker) *TestSequence {
	return &TestSequence{funcs: make([]TestFunc, 0), ts: ts}
}

func (st *TestSequence) AddFunc(f TestFunc) *TestSequence {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.funcs = append(st.funcs, f)
	return st
}

func (st *TestSequence) WarpTo(cycle uint64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.ts.warpTo(cycle)
		t.Logf("warped to cycle %d", cycle)
	})
}

func (st *TestSequence) Schedule(startPeriod, endPeriod uint64, perCycle int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ts.SetRewardsForPeriods(authority, startPeriod, endPeriod, big.NewInt(perCycle)); err != nil {
			t.Fatalf("failed to schedule periods %d-%d: %v", startPeriod, endPeriod, err)
		}
		t.Logf("scheduled %d per cycle for periods %d-%d", perCycle, startPeriod, endPeriod)
	})
}

func (st *TestSequence) Mint(to chain.Address, id int64, class collection.Class) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ts.items.Mint(to, big.NewInt(id), class); err != nil {
			t.Fatalf("failed to mint item %d: %v", id, err)
		}
	})
}

func (st *TestSequence) Stake(staker chain.Address, id int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ts.Stake(staker, st.ts.cfg.Collection, big.NewInt(id)); err != nil {
			t.Fatalf("failed to stake item %d for %s: %v", id, staker, err)
		}
		t.Logf("staked item %d for %s", id, staker)
	})
}

func (st *TestSequence) Unstake(staker chain.Address, id int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		if err := st.ts.Unstake(staker, big.NewInt(id)); err != nil {
			t.Fatalf("failed to unstake item %d for %s: %v", id, staker, err)
		}
		t.Logf("unstaked item %d for %s", id, staker)
	})
}

func (st *TestSequence) ExpectEstimate(staker chain.Address, maxPeriods, startPeriod, periods uint64, amount int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		res, err := st.ts.EstimateRewards(staker, maxPeriods)
		if err != nil {
			t.Fatalf("failed to estimate rewards for %s: %v", staker, err)
		}
		assert.Equal(t, &rewards.Result{StartPeriod: startPeriod, Periods: periods, Amount: big.NewInt(amount)}, res)
	})
}

func (st *TestSequence) Claim(staker chain.Address, maxPeriods uint64, amount int64) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		before, err := st.ts.token.BalanceOf(staker)
		if err != nil {
			t.Fatalf("failed to get balance of %s: %v", staker, err)
		}
		res, err := st.ts.ClaimRewards(staker, maxPeriods)
		if err != nil {
			t.Fatalf("failed to claim rewards for %s: %v", staker, err)
		}
		assert.Equal(t, big.NewInt(amount), res.Amount)

		after, err := st.ts.token.BalanceOf(staker)
		if err != nil {
			t.Fatalf("failed to get balance of %s: %v", staker, err)
		}
		assert.Equal(t, amount, new(big.Int).Sub(after, before).Int64())
		t.Logf("claimed %s for %s over %d periods", res.Amount, staker, res.Periods)
	})
}

func (st *TestSequence) ExpectError(expected error, f func() error) *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		assert.ErrorIs(t, f(), expected)
	})
}

func (st *TestSequence) AssertPool() *TestSequence {
	return st.AddFunc(func(t *testing.T) {
		st.ts.assertPool(t)
	})
}

func (st *TestSequence) Run(t *testing.T) {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, f := range st.funcs {
		f(t)
	}

	t.Logf("All test functions executed successfully")
}
