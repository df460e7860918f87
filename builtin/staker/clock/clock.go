// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/chain"
)

var slotOrigin = chain.BytesToBytes32([]byte("clock-origin"))

type origin struct {
	Started bool
	Time    uint64
}

// Service converts wall clock seconds into cycles and periods once staking has started.
// Cycle 1 begins at the start time.
type Service struct {
	origin       *solidity.Raw[*origin]
	cycleLength  uint64
	periodLength uint64
}

func New(sctx *solidity.Context, cycleLength, periodLength uint64) *Service {
	return &Service{
		origin:       solidity.NewRaw[*origin](sctx, slotOrigin),
		cycleLength:  cycleLength,
		periodLength: periodLength,
	}
}

// Start fixes the time origin.
func (s *Service) Start(now uint64) error {
	o, err := s.origin.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get clock origin")
	}
	if o.Started {
		return reverts.ErrAlreadyStarted
	}
	return s.origin.Set(&origin{Started: true, Time: now})
}

// StartTime returns the origin, ok is false before start.
func (s *Service) StartTime() (uint64, bool, error) {
	o, err := s.origin.Get()
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to get clock origin")
	}
	return o.Time, o.Started, nil
}

// CurrentCycle returns the cycle now falls in.
func (s *Service) CurrentCycle(now uint64) (uint64, error) {
	start, started, err := s.StartTime()
	if err != nil {
		return 0, err
	}
	if !started || now < start {
		return 0, reverts.ErrNotStarted
	}
	return (now-start)/s.cycleLength + 1, nil
}

// CurrentPeriod returns the period now falls in.
func (s *Service) CurrentPeriod(now uint64) (uint64, error) {
	cycle, err := s.CurrentCycle(now)
	if err != nil {
		return 0, err
	}
	return s.PeriodOf(cycle), nil
}

// PeriodOf returns the period containing cycle.
func (s *Service) PeriodOf(cycle uint64) uint64 {
	return PeriodOf(cycle, s.periodLength)
}

// FirstCycle returns the first cycle of period.
func (s *Service) FirstCycle(period uint64) uint64 {
	return (period-1)*s.periodLength + 1
}

// LastCycle returns the last cycle of period.
func (s *Service) LastCycle(period uint64) uint64 {
	return period * s.periodLength
}

// CycleStart returns the unix time at which cycle begins.
func (s *Service) CycleStart(cycle uint64) (uint64, error) {
	start, started, err := s.StartTime()
	if err != nil {
		return 0, err
	}
	if !started {
		return 0, reverts.ErrNotStarted
	}
	if cycle == 0 {
		return 0, reverts.ErrInvalidRange
	}
	return start + (cycle-1)*s.cycleLength, nil
}

// PeriodOf returns the period containing cycle for periods of periodLength cycles.
func PeriodOf(cycle, periodLength uint64) uint64 {
	if cycle == 0 {
		return 0
	}
	return (cycle-1)/periodLength + 1
}
