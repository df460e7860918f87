// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package schedule

import (
	"math"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/chain"
)

// MaxSpan bounds the number of periods a single update may touch.
const MaxSpan = 10_000

var (
	slotRewards = chain.BytesToBytes32([]byte("rewards-per-cycle"))
	slotPool    = chain.BytesToBytes32([]byte("total-rewards-pool"))
)

// Service keeps the reward per cycle of every period and the total scheduled pool.
type Service struct {
	rewards      *solidity.Mapping[solidity.Uint64Key, *big.Int]
	pool         *solidity.Uint256
	periodLength uint64
}

func New(sctx *solidity.Context, periodLength uint64) *Service {
	return &Service{
		rewards:      solidity.NewMapping[solidity.Uint64Key, *big.Int](sctx, slotRewards),
		pool:         solidity.NewUint256(sctx, slotPool),
		periodLength: periodLength,
	}
}

// RewardPerCycle returns the reward of each cycle of period.
func (s *Service) RewardPerCycle(period uint64) (*big.Int, error) {
	reward, err := s.rewards.Get(solidity.Uint64Key(period))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reward per cycle")
	}
	return reward, nil
}

// TotalPool returns the sum of every scheduled reward.
func (s *Service) TotalPool() (*big.Int, error) {
	pool, err := s.pool.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get rewards pool")
	}
	return pool, nil
}

// MaxPeriod returns the last period whose final cycle fits in a uint64.
func (s *Service) MaxPeriod() uint64 {
	return math.MaxUint64 / s.periodLength
}

// Cost returns what scheduling perCycle over [startPeriod, endPeriod] adds to the pool.
func (s *Service) Cost(startPeriod, endPeriod uint64, perCycle *big.Int) (*big.Int, error) {
	if startPeriod == 0 || endPeriod < startPeriod || endPeriod-startPeriod >= MaxSpan || endPeriod > s.MaxPeriod() {
		return nil, reverts.ErrInvalidRange
	}
	if perCycle == nil || perCycle.Sign() < 0 {
		return nil, reverts.ErrInvalidRange
	}
	amount, err := chain.ToUint256(perCycle)
	if err != nil {
		return nil, reverts.ErrOverflow
	}
	cycles, err := chain.SafeMul(
		uint256.NewInt(s.periodLength),
		uint256.NewInt(endPeriod-startPeriod+1),
	)
	if err != nil {
		return nil, reverts.ErrOverflow
	}
	total, err := chain.SafeMul(amount, cycles)
	if err != nil {
		return nil, reverts.ErrOverflow
	}
	return total.ToBig(), nil
}

// Add layers perCycle on top of every period in [startPeriod, endPeriod] and returns the
// amount added to the pool. Periods up to currentPeriod are committed and cannot change.
func (s *Service) Add(startPeriod, endPeriod uint64, perCycle *big.Int, currentPeriod uint64) (*big.Int, error) {
	total, err := s.Cost(startPeriod, endPeriod, perCycle)
	if err != nil {
		return nil, err
	}
	if startPeriod <= currentPeriod {
		return nil, reverts.ErrAlreadyCommitted
	}

	// endPeriod may be the largest uint64, so stop on it rather than past it
	for period := startPeriod; ; period++ {
		reward, err := s.RewardPerCycle(period)
		if err != nil {
			return nil, err
		}
		reward.Add(reward, perCycle)
		if _, err := chain.ToUint256(reward); err != nil {
			return nil, reverts.ErrOverflow
		}
		if err := s.rewards.Set(solidity.Uint64Key(period), reward); err != nil {
			return nil, errors.Wrap(err, "failed to set reward per cycle")
		}
		if period == endPeriod {
			break
		}
	}

	if err := s.pool.Add(total); err != nil {
		if errors.Is(err, chain.ErrOverflow) {
			return nil, reverts.ErrOverflow
		}
		return nil, errors.Wrap(err, "failed to update rewards pool")
	}
	return total, nil
}
