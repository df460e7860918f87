// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import "math/big"

// Cursor marks the first unsettled period of a staker and the snapshots to resume from.
// A zero Period means nothing is pending.
type Cursor struct {
	Period      uint64
	GlobalIndex uint64
	StakerIndex uint64
}

func (c *Cursor) IsZero() bool {
	return c.Period == 0
}

// Result is the outcome of settling a run of periods.
type Result struct {
	StartPeriod uint64
	Periods     uint64
	Amount      *big.Int
}

func emptyResult(startPeriod uint64) *Result {
	return &Result{StartPeriod: startPeriod, Amount: new(big.Int)}
}
