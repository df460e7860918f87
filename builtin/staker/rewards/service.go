// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/builtin/staker/clock"
	"github.com/vechain/nftstaking/builtin/staker/schedule"
	"github.com/vechain/nftstaking/builtin/staker/snapshot"
	"github.com/vechain/nftstaking/chain"
)

var (
	slotCursors = chain.BytesToBytes32([]byte("claim-cursors"))
	slotClaimed = chain.BytesToBytes32([]byte("total-claimed"))
)

// Service computes and settles staker rewards by replaying the snapshot histories
// against the reward schedule.
type Service struct {
	cursors *solidity.Mapping[chain.Address, *Cursor]
	claimed *solidity.Uint256

	clock     *clock.Service
	schedule  *schedule.Service
	histories *snapshot.Service
}

func New(sctx *solidity.Context, clock *clock.Service, schedule *schedule.Service, histories *snapshot.Service) *Service {
	return &Service{
		cursors:   solidity.NewMapping[chain.Address, *Cursor](sctx, slotCursors),
		claimed:   solidity.NewUint256(sctx, slotClaimed),
		clock:     clock,
		schedule:  schedule,
		histories: histories,
	}
}

// Cursor returns the claim cursor of staker.
func (s *Service) Cursor(staker chain.Address) (*Cursor, error) {
	cursor, err := s.cursors.Get(staker)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get claim cursor")
	}
	return cursor, nil
}

// TotalClaimed returns the sum of every settled reward.
func (s *Service) TotalClaimed() (*big.Int, error) {
	return s.claimed.Get()
}

// Track starts accruing for staker after a stake at period, unless a cursor is already pending.
func (s *Service) Track(staker chain.Address, period uint64, upd *snapshot.Update) error {
	cursor, err := s.Cursor(staker)
	if err != nil {
		return err
	}
	if !cursor.IsZero() {
		return nil
	}
	return s.cursors.Set(staker, &Cursor{
		Period:      period,
		GlobalIndex: upd.GlobalIndex,
		StakerIndex: upd.StakerIndex,
	})
}

// Compute returns what staker is owed for at most maxPeriods fully elapsed periods
// and the cursor to store once it is paid. It does not mutate state.
func (s *Service) Compute(staker chain.Address, maxPeriods, currentPeriod uint64) (*Result, *Cursor, error) {
	cursor, err := s.Cursor(staker)
	if err != nil {
		return nil, nil, err
	}
	if cursor.IsZero() || maxPeriods == 0 || currentPeriod <= cursor.Period {
		return emptyResult(cursor.Period), cursor, nil
	}

	last := currentPeriod - 1
	if maxPeriods-1 < last-cursor.Period {
		last = cursor.Period + maxPeriods - 1
	}

	global, err := newWalker(s.histories.Global(), cursor.GlobalIndex)
	if err != nil {
		return nil, nil, err
	}
	own, err := newWalker(s.histories.Of(staker), cursor.StakerIndex)
	if err != nil {
		return nil, nil, err
	}

	var (
		from   = s.clock.FirstCycle(cursor.Period)
		to     = s.clock.LastCycle(last)
		amount = new(uint256.Int)
		rates  = make(map[uint64]*uint256.Int)
	)
	for cycle := from; cycle <= to; {
		if err := global.seek(cycle); err != nil {
			return nil, nil, err
		}
		if err := own.seek(cycle); err != nil {
			return nil, nil, err
		}

		period := s.clock.PeriodOf(cycle)
		end := min(s.clock.LastCycle(period), to)
		end = global.rangeEnd(cycle, end)
		end = own.rangeEnd(cycle, end)

		stakerStake, globalStake := own.stakeAt(cycle), global.stakeAt(cycle)
		if stakerStake > 0 && globalStake > 0 {
			rate, ok := rates[period]
			if !ok {
				if rate, err = s.rate(period); err != nil {
					return nil, nil, err
				}
				rates[period] = rate
			}
			share, err := proportion(end-cycle+1, rate, stakerStake, globalStake)
			if err != nil {
				return nil, nil, err
			}
			if amount, err = chain.SafeAdd(amount, share); err != nil {
				return nil, nil, reverts.ErrOverflow
			}
		}
		cycle = end + 1
	}

	next := &Cursor{
		Period:      last + 1,
		GlobalIndex: global.index,
		StakerIndex: own.index,
	}
	if own.exhausted(to) && own.current.Stake == 0 {
		next = &Cursor{}
	}

	res := emptyResult(cursor.Period)
	res.Periods = last - cursor.Period + 1
	if !amount.IsZero() {
		res.Amount = amount.ToBig()
	}
	return res, next, nil
}

// Settle stores the cursor produced by Compute and accounts the paid amount.
// A staker fully caught up has its cursor slot cleared.
func (s *Service) Settle(staker chain.Address, res *Result, next *Cursor) error {
	if next.IsZero() {
		s.cursors.Delete(staker)
	} else if err := s.cursors.Set(staker, next); err != nil {
		return errors.Wrap(err, "failed to set claim cursor")
	}
	if err := s.claimed.Add(res.Amount); err != nil {
		return errors.Wrap(err, "failed to update total claimed")
	}
	return nil
}

func (s *Service) rate(period uint64) (*uint256.Int, error) {
	reward, err := s.schedule.RewardPerCycle(period)
	if err != nil {
		return nil, err
	}
	return chain.ToUint256(reward)
}

// proportion returns cycles * rate * stake / total, truncated.
func proportion(cycles uint64, rate *uint256.Int, stake, total uint64) (*uint256.Int, error) {
	gross, err := chain.SafeMul(uint256.NewInt(cycles), rate)
	if err != nil {
		return nil, reverts.ErrOverflow
	}
	share, err := chain.SafeMulDiv(gross, uint256.NewInt(stake), uint256.NewInt(total))
	if err != nil {
		return nil, reverts.ErrOverflow
	}
	return share, nil
}
