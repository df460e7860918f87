// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin/staker/stakes"
	"github.com/vechain/nftstaking/chain"
)

// Config holds the deployment parameters of the staker contract.
type Config struct {
	CycleLength    uint64 // seconds
	PeriodLength   uint64 // cycles
	FreezeCycles   uint64
	CooldownCycles uint64

	// Authority may start staking, schedule rewards, recover lost cycles and disable the contract.
	Authority chain.Address
	// Collection is the only item contract accepted for staking.
	Collection chain.Address
	Weights    stakes.WeightTable
}

// DefaultConfig returns daily cycles grouped by week.
func DefaultConfig() *Config {
	return &Config{
		CycleLength:    86400,
		PeriodLength:   7,
		FreezeCycles:   2,
		CooldownCycles: 1,
		Weights:        stakes.DefaultWeights(),
	}
}

func (c *Config) Validate() error {
	if c.CycleLength == 0 {
		return errors.New("cycle length must be positive")
	}
	if c.PeriodLength == 0 {
		return errors.New("period length must be positive")
	}
	if c.Authority.IsZero() {
		return errors.New("authority not set")
	}
	if c.Collection.IsZero() {
		return errors.New("collection not set")
	}
	return errors.Wrap(c.Weights.Validate(), "weights")
}
