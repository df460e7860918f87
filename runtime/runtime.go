// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin"
	"github.com/vechain/nftstaking/builtin/collection"
	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/builtin/staker"
	"github.com/vechain/nftstaking/builtin/token"
	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/kv"
	"github.com/vechain/nftstaking/log"
	"github.com/vechain/nftstaking/logdb"
	"github.com/vechain/nftstaking/state"
	"github.com/vechain/nftstaking/tx"
	"github.com/vechain/nftstaking/xenv"
)

var (
	logger = log.WithContext("pkg", "runtime")

	// the runtime keeps its own bookkeeping in contract storage so it commits with the state.
	runtimeAddress = chain.BytesToAddress([]byte("Runtime"))
	slotSeq        = chain.BytesToBytes32([]byte("tx-seq"))
)

// Contracts are the builtin contracts bound to one transaction environment.
type Contracts struct {
	Env        *xenv.Environment
	Staker     *staker.Staker
	Token      *token.Token
	Collection *collection.Collection
}

// Clause is the body of a transaction.
type Clause func(c *Contracts) error

// Runtime is the single writer of the staking ledger.
// Transactions run one at a time, either fully applied or not at all.
type Runtime struct {
	mu    sync.Mutex
	state *state.State
	seq   *solidity.Raw[uint64]
	logDB *logdb.LogDB
	cfg   *staker.Config
}

// New create a Runtime over the given store. logDB may be nil to skip log indexing.
func New(store kv.Store, logDB *logdb.LogDB, cfg *staker.Config) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	st := state.New(store)
	return &Runtime{
		state: st,
		seq:   solidity.NewRaw[uint64](solidity.NewContext(runtimeAddress, st), slotSeq),
		logDB: logDB,
		cfg:   cfg,
	}, nil
}

func (rt *Runtime) Config() *staker.Config { return rt.cfg }

// Seq returns the sequence of the last executed transaction.
func (rt *Runtime) Seq() (uint64, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	return rt.seq.Get()
}

func (rt *Runtime) bind(txCtx *xenv.TransactionContext) *Contracts {
	env := xenv.New(rt.state, txCtx)
	return &Contracts{
		Env:        env,
		Staker:     builtin.Staker.Native(env, rt.cfg),
		Token:      builtin.Token.Native(env),
		Collection: builtin.Collection.Native(env),
	}
}

// Execute runs clause as the next transaction sent by origin at time now.
// A rejected clause yields a reverted receipt and leaves the state untouched, except for
// the consumed sequence number. Any other failure is returned as error with nothing written.
func (rt *Runtime) Execute(origin chain.Address, now uint64, name string, clause Clause) (*tx.Receipt, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	startTime := time.Now()

	last, err := rt.seq.Get()
	if err != nil {
		return nil, err
	}
	seq := last + 1
	txCtx := &xenv.TransactionContext{
		ID:     tx.NewTxID(seq, origin, name),
		Seq:    seq,
		Origin: origin,
		Time:   now,
	}

	checkpoint := rt.state.NewCheckpoint()
	contracts := rt.bind(txCtx)
	receipt := &tx.Receipt{
		TxID:   txCtx.ID,
		Seq:    seq,
		Time:   now,
		Origin: origin,
	}

	if err := clause(contracts); err != nil {
		rt.state.RevertTo(checkpoint)
		if !reverts.IsRevertErr(err) {
			// drop the whole journal, internal faults consume nothing
			rt.state.RevertTo(0)
			metricTxCount().AddWithLabel(1, map[string]string{"outcome": "error"})
			logger.Warn("transaction failed", "seq", seq, "clause", name, "error", err)
			return nil, err
		}
		receipt.Reverted = true
		receipt.RevertReason = err.Error()
		metricTxReverts().AddWithLabel(1, map[string]string{"reason": reverts.Reason(err)})
		logger.Info("transaction reverted", "seq", seq, "clause", name, "origin", origin, "reason", receipt.RevertReason)
	} else {
		receipt.Events = contracts.Env.Events()
		receipt.Transfers = contracts.Env.Transfers()
	}

	if err := rt.seq.Set(seq); err != nil {
		rt.state.RevertTo(0)
		return nil, err
	}
	written, err := rt.state.Commit()
	if err != nil {
		rt.state.RevertTo(0)
		metricTxCount().AddWithLabel(1, map[string]string{"outcome": "error"})
		return nil, errors.Wrap(err, "commit state")
	}

	outcome := "success"
	if receipt.Reverted {
		outcome = "reverted"
	}
	metricTxCount().AddWithLabel(1, map[string]string{"outcome": outcome})
	metricTxDuration().Observe(time.Since(startTime).Milliseconds())
	logger.Debug("transaction executed",
		"seq", seq,
		"clause", name,
		"origin", origin,
		"events", len(receipt.Events),
		"transfers", len(receipt.Transfers),
		"slots", written,
	)

	if rt.logDB != nil {
		if err := rt.logDB.Commit(receipt); err != nil {
			// state is already committed, the receipt stays valid
			logger.Warn("failed to index logs", "seq", seq, "error", err)
			return receipt, errors.Wrap(err, "commit logs")
		}
	}
	return receipt, nil
}

// Call runs fn against the current state at time now and discards every change.
func (rt *Runtime) Call(now uint64, fn Clause) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	checkpoint := rt.state.NewCheckpoint()
	defer rt.state.RevertTo(checkpoint)

	return fn(rt.bind(&xenv.TransactionContext{Time: now}))
}
