// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package snapshot

import (
	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/chain"
)

var (
	slotGlobalHistory = chain.BytesToBytes32([]byte("global-history"))
	slotStakerHistory = chain.BytesToBytes32([]byte("staker-history"))
)

// Service holds the global history and one history per staker.
type Service struct {
	sctx   *solidity.Context
	global *History
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		sctx:   sctx,
		global: newHistory(sctx, slotGlobalHistory),
	}
}

// Global returns the history of the total stake.
func (s *Service) Global() *History {
	return s.global
}

// Of returns the history of a staker's stake.
func (s *Service) Of(staker chain.Address) *History {
	return newHistory(s.sctx, chain.Blake2b(staker.Bytes(), slotStakerHistory.Bytes()))
}

// Update is the outcome of applying a stake delta to both histories.
type Update struct {
	Global      *Snapshot
	GlobalIndex uint64
	Staker      *Snapshot
	StakerIndex uint64
}

// Add records weight entering the stake of staker at cycle.
func (s *Service) Add(staker chain.Address, cycle, weight uint64) (*Update, error) {
	return s.apply(staker, func(h *History) (*Snapshot, error) { return h.Add(cycle, weight) })
}

// Sub records weight leaving the stake of staker at cycle.
func (s *Service) Sub(staker chain.Address, cycle, weight uint64) (*Update, error) {
	return s.apply(staker, func(h *History) (*Snapshot, error) { return h.Sub(cycle, weight) })
}

func (s *Service) apply(staker chain.Address, fn func(*History) (*Snapshot, error)) (*Update, error) {
	var (
		upd     Update
		err     error
		stakerH = s.Of(staker)
	)
	if upd.Global, err = fn(s.global); err != nil {
		return nil, err
	}
	if upd.Staker, err = fn(stakerH); err != nil {
		return nil, err
	}
	if upd.GlobalIndex, err = lastIndex(s.global); err != nil {
		return nil, err
	}
	if upd.StakerIndex, err = lastIndex(stakerH); err != nil {
		return nil, err
	}
	return &upd, nil
}

func lastIndex(h *History) (uint64, error) {
	n, err := h.Len()
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}
