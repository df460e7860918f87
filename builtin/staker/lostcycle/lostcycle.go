// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lostcycle

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/builtin/staker/clock"
	"github.com/vechain/nftstaking/builtin/staker/schedule"
	"github.com/vechain/nftstaking/builtin/staker/snapshot"
	"github.com/vechain/nftstaking/chain"
)

// BeforeFirstSnapshot designates the cycles preceding the first global snapshot.
const BeforeFirstSnapshot = int64(-1)

var (
	slotWithdrawn      = chain.BytesToBytes32([]byte("lost-cycles-withdrawn"))
	slotTotalWithdrawn = chain.BytesToBytes32([]byte("lost-rewards-withdrawn"))
)

// Service lets the reward of cycles without any stake be recovered once.
type Service struct {
	withdrawn *solidity.Mapping[solidity.Uint64Key, bool]
	total     *solidity.Uint256

	clock    *clock.Service
	schedule *schedule.Service
	global   *snapshot.History
}

func New(sctx *solidity.Context, clock *clock.Service, schedule *schedule.Service, global *snapshot.History) *Service {
	return &Service{
		withdrawn: solidity.NewMapping[solidity.Uint64Key, bool](sctx, slotWithdrawn),
		total:     solidity.NewUint256(sctx, slotTotalWithdrawn),
		clock:     clock,
		schedule:  schedule,
		global:    global,
	}
}

// IsWithdrawn reports whether the reward of cycle was already recovered.
func (s *Service) IsWithdrawn(cycle uint64) (bool, error) {
	withdrawn, err := s.withdrawn.Get(solidity.Uint64Key(cycle))
	if err != nil {
		return false, errors.Wrap(err, "failed to get lost cycle")
	}
	return withdrawn, nil
}

// TotalWithdrawn returns the sum of recovered rewards.
func (s *Service) TotalWithdrawn() (*big.Int, error) {
	return s.total.Get()
}

// Withdraw marks cycle as recovered and returns its reward. index must be the global
// snapshot covering cycle, or BeforeFirstSnapshot.
func (s *Service) Withdraw(cycle uint64, index int64, currentCycle uint64) (*big.Int, error) {
	if cycle >= currentCycle {
		return nil, reverts.ErrNotPast
	}
	if cycle == 0 {
		return nil, reverts.ErrInvalidRange
	}
	withdrawn, err := s.IsWithdrawn(cycle)
	if err != nil {
		return nil, err
	}
	if withdrawn {
		return nil, reverts.ErrAlreadyWithdrawn
	}
	if err := s.checkLost(cycle, index); err != nil {
		return nil, err
	}

	reward, err := s.schedule.RewardPerCycle(s.clock.PeriodOf(cycle))
	if err != nil {
		return nil, err
	}
	if reward.Sign() == 0 {
		return nil, reverts.ErrRewardlessCycle
	}

	if err := s.withdrawn.Set(solidity.Uint64Key(cycle), true); err != nil {
		return nil, errors.Wrap(err, "failed to set lost cycle")
	}
	if err := s.total.Add(reward); err != nil {
		return nil, errors.Wrap(err, "failed to update lost rewards")
	}
	return reward, nil
}

func (s *Service) checkLost(cycle uint64, index int64) error {
	length, err := s.global.Len()
	if err != nil {
		return err
	}

	if index == BeforeFirstSnapshot {
		if length == 0 {
			return nil
		}
		first, err := s.global.Get(0)
		if err != nil {
			return err
		}
		if first.StartCycle <= cycle {
			return reverts.ErrHasSnapshot
		}
		return nil
	}

	if index < 0 || uint64(index) >= length {
		return reverts.ErrWrongIndex
	}
	snap, err := s.global.Get(uint64(index))
	if err != nil {
		return err
	}
	if snap.StartCycle > cycle {
		return reverts.ErrWrongIndex
	}
	if uint64(index)+1 < length {
		next, err := s.global.Get(uint64(index) + 1)
		if err != nil {
			return err
		}
		if next.StartCycle <= cycle {
			return reverts.ErrWrongIndex
		}
	}
	if snap.Stake != 0 {
		return reverts.ErrNonLostCycle
	}
	return nil
}
