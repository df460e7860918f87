// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/state"
	"github.com/vechain/nftstaking/tx"
)

// TransactionContext transaction context.
type TransactionContext struct {
	ID     chain.Bytes32
	Seq    uint64
	Origin chain.Address
	Time   uint64
}

// Environment an env to execute native methods.
// It carries the transaction context and collects the logs the methods emit.
type Environment struct {
	state     *state.State
	txCtx     *TransactionContext
	events    tx.Events
	transfers tx.Transfers
}

// New create a new env.
func New(state *state.State, txCtx *TransactionContext) *Environment {
	return &Environment{
		state: state,
		txCtx: txCtx,
	}
}

func (env *Environment) State() *state.State                     { return env.state }
func (env *Environment) TransactionContext() *TransactionContext { return env.txCtx }
func (env *Environment) Origin() chain.Address                   { return env.txCtx.Origin }
func (env *Environment) Now() uint64                             { return env.txCtx.Time }

// Log emits an event. The event id is prepended to topics and args are rlp encoded as data.
func (env *Environment) Log(address chain.Address, name string, topics []chain.Bytes32, args ...any) error {
	data, err := rlp.EncodeToBytes(args)
	if err != nil {
		return errors.WithMessage(err, "encode native event")
	}

	allTopics := make([]chain.Bytes32, 0, len(topics)+1)
	allTopics = append(allTopics, tx.EventID(name))
	allTopics = append(allTopics, topics...)

	env.events = append(env.events, &tx.Event{
		Address: address,
		Topics:  allTopics,
		Data:    data,
	})
	return nil
}

// Transfer records a value movement on a ledger.
func (env *Environment) Transfer(token, sender, recipient chain.Address, amount *big.Int) {
	env.transfers = append(env.transfers, &tx.Transfer{
		Token:     token,
		Sender:    sender,
		Recipient: recipient,
		Amount:    new(big.Int).Set(amount),
	})
}

// Events returns the events emitted so far.
func (env *Environment) Events() tx.Events { return env.events }

// Transfers returns the transfers recorded so far.
func (env *Environment) Transfers() tx.Transfers { return env.transfers }

// Checkpoint returns a marker to roll the collected logs back to.
func (env *Environment) Checkpoint() (int, int) {
	return len(env.events), len(env.transfers)
}

// RevertLogs drops logs collected after the given checkpoint.
func (env *Environment) RevertLogs(events, transfers int) {
	env.events = env.events[:events]
	env.transfers = env.transfers[:transfers]
}
