// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshot

import (
	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/chain"
)

// Snapshot is the total stake in force from StartCycle until the next snapshot.
type Snapshot struct {
	StartCycle uint64
	Stake      uint64
}

// History is an append-only sequence of snapshots, strictly increasing by StartCycle.
type History struct {
	entries *solidity.Array[*Snapshot]
}

func newHistory(sctx *solidity.Context, pos chain.Bytes32) *History {
	return &History{entries: solidity.NewArray[*Snapshot](sctx, pos)}
}

// Len returns the number of snapshots.
func (h *History) Len() (uint64, error) {
	n, err := h.entries.Len()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get history length")
	}
	return n, nil
}

// Get returns the snapshot at index.
func (h *History) Get(index uint64) (*Snapshot, error) {
	return h.entries.Get(index)
}

// Last returns the latest snapshot, ok is false while the history is empty.
func (h *History) Last() (*Snapshot, bool, error) {
	return h.entries.Last()
}

// Current returns the stake in force now.
func (h *History) Current() (uint64, error) {
	last, ok, err := h.Last()
	if err != nil || !ok {
		return 0, err
	}
	return last.Stake, nil
}

// Add increases the stake from cycle onwards.
func (h *History) Add(cycle, weight uint64) (*Snapshot, error) {
	return h.update(cycle, func(stake uint64) (uint64, error) {
		return chain.AddUint64(stake, weight)
	})
}

// Sub decreases the stake from cycle onwards.
func (h *History) Sub(cycle, weight uint64) (*Snapshot, error) {
	return h.update(cycle, func(stake uint64) (uint64, error) {
		return chain.SubUint64(stake, weight)
	})
}

// update rewrites the last snapshot when it starts at cycle, otherwise appends one.
func (h *History) update(cycle uint64, apply func(uint64) (uint64, error)) (*Snapshot, error) {
	last, ok, err := h.Last()
	if err != nil {
		return nil, err
	}

	var current uint64
	if ok {
		if cycle < last.StartCycle {
			return nil, errors.Errorf("snapshot at cycle %d precedes last snapshot at cycle %d", cycle, last.StartCycle)
		}
		current = last.Stake
	}
	stake, err := apply(current)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{StartCycle: cycle, Stake: stake}
	if ok && last.StartCycle == cycle {
		n, err := h.Len()
		if err != nil {
			return nil, err
		}
		return snap, h.entries.Set(n-1, snap)
	}
	if _, err := h.entries.Push(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// At returns the index of the snapshot in force at cycle, -1 when cycle precedes the history.
func (h *History) At(cycle uint64) (int64, *Snapshot, error) {
	n, err := h.Len()
	if err != nil {
		return 0, nil, err
	}

	// first index whose snapshot starts after cycle
	lo, hi := uint64(0), n
	for lo < hi {
		mid := lo + (hi-lo)/2
		snap, err := h.Get(mid)
		if err != nil {
			return 0, nil, err
		}
		if snap.StartCycle <= cycle {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return -1, nil, nil
	}
	snap, err := h.Get(lo - 1)
	if err != nil {
		return 0, nil, err
	}
	return int64(lo - 1), snap, nil
}
