// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/chain"
)

var (
	slotTokens      = chain.BytesToBytes32([]byte("token-info"))
	slotStakedCount = chain.BytesToBytes32([]byte("staked-count"))
)

// TokenInfo is the custody record of an item.
type TokenInfo struct {
	Owner         chain.Address
	Staked        bool
	Weight        uint64
	DepositCycle  uint64
	WithdrawCycle uint64
	Withdrawn     bool // WithdrawCycle is set
}

// Service tracks which staker holds each item and enforces the freeze and cooldown windows.
type Service struct {
	tokens         *solidity.Mapping[*big.Int, *TokenInfo]
	stakedCount    *solidity.Raw[uint64]
	freezeCycles   uint64
	cooldownCycles uint64
}

func New(sctx *solidity.Context, freezeCycles, cooldownCycles uint64) *Service {
	return &Service{
		tokens:         solidity.NewMapping[*big.Int, *TokenInfo](sctx, slotTokens),
		stakedCount:    solidity.NewRaw[uint64](sctx, slotStakedCount),
		freezeCycles:   freezeCycles,
		cooldownCycles: cooldownCycles,
	}
}

// Get returns the record of an item, zero valued when it was never staked.
func (s *Service) Get(id *big.Int) (*TokenInfo, error) {
	info, err := s.tokens.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get token info")
	}
	return info, nil
}

// StakedCount returns the number of items currently in custody.
func (s *Service) StakedCount() (uint64, error) {
	return s.stakedCount.Get()
}

// Stake records staker as the holder of id from cycle.
func (s *Service) Stake(staker chain.Address, id *big.Int, weight, cycle uint64) (*TokenInfo, error) {
	info, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if info.Staked {
		return nil, reverts.ErrAlreadyStaked
	}
	if info.Withdrawn && cycle-info.WithdrawCycle < s.cooldownCycles {
		return nil, reverts.ErrCooldownActive
	}

	info = &TokenInfo{
		Owner:        staker,
		Staked:       true,
		Weight:       weight,
		DepositCycle: cycle,
	}
	if err := s.tokens.Set(id, info); err != nil {
		return nil, errors.Wrap(err, "failed to set token info")
	}
	return info, s.adjustCount(1)
}

// Unstake releases id held by caller at cycle and returns the released record.
// The freeze window is skipped when force is set.
func (s *Service) Unstake(caller chain.Address, id *big.Int, cycle uint64, force bool) (*TokenInfo, error) {
	info, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !info.Staked || info.Owner != caller {
		return nil, reverts.ErrNotOwner
	}
	if !force && cycle-info.DepositCycle < s.freezeCycles {
		return nil, reverts.ErrStillFrozen
	}

	released := *info
	info.Owner = chain.Address{}
	info.Staked = false
	info.WithdrawCycle = cycle
	info.Withdrawn = true
	if err := s.tokens.Set(id, info); err != nil {
		return nil, errors.Wrap(err, "failed to set token info")
	}
	return &released, s.adjustCount(-1)
}

func (s *Service) adjustCount(delta int) error {
	count, err := s.stakedCount.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get staked count")
	}
	if delta < 0 {
		count--
	} else {
		count++
	}
	if count == 0 {
		s.stakedCount.Clear()
		return nil
	}
	return s.stakedCount.Set(count)
}
