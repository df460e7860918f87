// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/solidity"
	"github.com/vechain/nftstaking/builtin/staker/clock"
	"github.com/vechain/nftstaking/builtin/staker/lostcycle"
	"github.com/vechain/nftstaking/builtin/staker/registry"
	"github.com/vechain/nftstaking/builtin/staker/rewards"
	"github.com/vechain/nftstaking/builtin/staker/schedule"
	"github.com/vechain/nftstaking/builtin/staker/snapshot"
	"github.com/vechain/nftstaking/builtin/staker/stakes"
	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/log"
	"github.com/vechain/nftstaking/xenv"
)

var (
	logger = log.WithContext("pkg", "staker")

	slotDisabled      = chain.BytesToBytes32([]byte("disabled"))
	slotPoolWithdrawn = chain.BytesToBytes32([]byte("pool-withdrawn"))
)

func SetLogger(l log.Logger) {
	logger = l
}

// Staker implements the item staking contract.
type Staker struct {
	addr    chain.Address
	env     *xenv.Environment
	cfg     *Config
	ledger  RewardLedger
	custody CustodyLedger

	disabled      *solidity.Raw[bool]
	poolWithdrawn *solidity.Uint256

	clockService     *clock.Service
	scheduleService  *schedule.Service
	snapshotService  *snapshot.Service
	registryService  *registry.Service
	rewardsService   *rewards.Service
	lostCycleService *lostcycle.Service
}

// New create a new instance.
func New(addr chain.Address, env *xenv.Environment, cfg *Config, ledger RewardLedger, custody CustodyLedger) *Staker {
	sctx := solidity.NewContext(addr, env.State())

	clockService := clock.New(sctx, cfg.CycleLength, cfg.PeriodLength)
	scheduleService := schedule.New(sctx, cfg.PeriodLength)
	snapshotService := snapshot.New(sctx)

	return &Staker{
		addr:    addr,
		env:     env,
		cfg:     cfg,
		ledger:  ledger,
		custody: custody,

		disabled:      solidity.NewRaw[bool](sctx, slotDisabled),
		poolWithdrawn: solidity.NewUint256(sctx, slotPoolWithdrawn),

		clockService:     clockService,
		scheduleService:  scheduleService,
		snapshotService:  snapshotService,
		registryService:  registry.New(sctx, cfg.FreezeCycles, cfg.CooldownCycles),
		rewardsService:   rewards.New(sctx, clockService, scheduleService, snapshotService),
		lostCycleService: lostcycle.New(sctx, clockService, scheduleService, snapshotService.Global()),
	}
}

//
// Getters - no state change
//

// Address returns the contract address, which holds staked items and the reward pool.
func (s *Staker) Address() chain.Address {
	return s.addr
}

func (s *Staker) Config() *Config {
	return s.cfg
}

// StartTime returns the time cycle 1 began, ok is false before start.
func (s *Staker) StartTime() (uint64, bool, error) {
	return s.clockService.StartTime()
}

// CurrentCycle returns the cycle of the transaction time.
func (s *Staker) CurrentCycle() (uint64, error) {
	return s.clockService.CurrentCycle(s.env.Now())
}

// CurrentPeriod returns the period of the transaction time.
func (s *Staker) CurrentPeriod() (uint64, error) {
	return s.clockService.CurrentPeriod(s.env.Now())
}

// PeriodOf returns the period containing cycle.
func (s *Staker) PeriodOf(cycle uint64) uint64 {
	return s.clockService.PeriodOf(cycle)
}

// CycleStart returns the unix time at which cycle begins.
func (s *Staker) CycleStart(cycle uint64) (uint64, error) {
	return s.clockService.CycleStart(cycle)
}

func (s *Staker) IsDisabled() (bool, error) {
	return s.disabled.Get()
}

// RewardPerCycle returns the scheduled reward of each cycle in period.
func (s *Staker) RewardPerCycle(period uint64) (*big.Int, error) {
	return s.scheduleService.RewardPerCycle(period)
}

// TotalRewardsPool returns the sum of every scheduled reward.
func (s *Staker) TotalRewardsPool() (*big.Int, error) {
	return s.scheduleService.TotalPool()
}

// TotalClaimed returns the rewards paid to stakers.
func (s *Staker) TotalClaimed() (*big.Int, error) {
	return s.rewardsService.TotalClaimed()
}

// TotalLostWithdrawn returns the rewards of lost cycles recovered by the authority.
func (s *Staker) TotalLostWithdrawn() (*big.Int, error) {
	return s.lostCycleService.TotalWithdrawn()
}

// TotalPoolWithdrawn returns the rewards withdrawn after disabling.
func (s *Staker) TotalPoolWithdrawn() (*big.Int, error) {
	return s.poolWithdrawn.Get()
}

// RewardsBalance returns the reward currency held by the contract.
func (s *Staker) RewardsBalance() (*big.Int, error) {
	return s.ledger.BalanceOf(s.addr)
}

func (s *Staker) IsLostCycleWithdrawn(cycle uint64) (bool, error) {
	return s.lostCycleService.IsWithdrawn(cycle)
}

func (s *Staker) GlobalHistoryLength() (uint64, error) {
	return s.snapshotService.Global().Len()
}

func (s *Staker) GlobalSnapshot(index uint64) (*snapshot.Snapshot, error) {
	return s.snapshotService.Global().Get(index)
}

// GlobalSnapshotAt returns the global snapshot in force at cycle, index -1 when none is.
func (s *Staker) GlobalSnapshotAt(cycle uint64) (int64, *snapshot.Snapshot, error) {
	return s.snapshotService.Global().At(cycle)
}

// GlobalStake returns the weight currently staked.
func (s *Staker) GlobalStake() (uint64, error) {
	return s.snapshotService.Global().Current()
}

func (s *Staker) StakerHistoryLength(staker chain.Address) (uint64, error) {
	return s.snapshotService.Of(staker).Len()
}

func (s *Staker) StakerSnapshot(staker chain.Address, index uint64) (*snapshot.Snapshot, error) {
	return s.snapshotService.Of(staker).Get(index)
}

// StakerSnapshotAt returns the snapshot of staker in force at cycle, index -1 when none is.
func (s *Staker) StakerSnapshotAt(staker chain.Address, cycle uint64) (int64, *snapshot.Snapshot, error) {
	return s.snapshotService.Of(staker).At(cycle)
}

// StakerStake returns the weight staker has staked.
func (s *Staker) StakerStake(staker chain.Address) (uint64, error) {
	return s.snapshotService.Of(staker).Current()
}

// ClaimCursor returns the next unsettled period of staker and where to resume from.
func (s *Staker) ClaimCursor(staker chain.Address) (*rewards.Cursor, error) {
	return s.rewardsService.Cursor(staker)
}

// TokenInfo returns the custody record of an item.
func (s *Staker) TokenInfo(id *big.Int) (*registry.TokenInfo, error) {
	return s.registryService.Get(id)
}

// StakedCount returns the number of items in custody.
func (s *Staker) StakedCount() (uint64, error) {
	return s.registryService.StakedCount()
}

// EstimateRewards returns what ClaimRewards would pay staker now.
func (s *Staker) EstimateRewards(staker chain.Address, maxPeriods uint64) (*rewards.Result, error) {
	period, err := s.CurrentPeriod()
	if err != nil {
		return nil, err
	}
	res, _, err := s.rewardsService.Compute(staker, maxPeriods, period)
	return res, err
}

//
// Setters - state change
//

// Start fixes the beginning of cycle 1 at the transaction time.
func (s *Staker) Start(caller chain.Address) error {
	now := s.env.Now()
	logger.Debug("starting", "caller", caller, "time", now)

	err := s.atomic(func() error {
		if err := s.checkAuthority(caller); err != nil {
			return err
		}
		if err := s.checkEnabled(); err != nil {
			return err
		}
		if err := s.clockService.Start(now); err != nil {
			return err
		}
		return s.log(EventStarted, nil, now)
	})
	if err != nil {
		logger.Info("start failed", "caller", caller, "error", err)
		return err
	}

	logger.Info("started", "time", now)
	return nil
}

// SetRewardsForPeriods adds perCycle to the reward of every cycle in [startPeriod, endPeriod],
// funded by the caller.
func (s *Staker) SetRewardsForPeriods(caller chain.Address, startPeriod, endPeriod uint64, perCycle *big.Int) error {
	logger.Debug("setting rewards", "caller", caller, "start", startPeriod, "end", endPeriod, "perCycle", perCycle)

	var total *big.Int
	err := s.atomic(func() error {
		if err := s.checkAuthority(caller); err != nil {
			return err
		}
		if err := s.checkEnabled(); err != nil {
			return err
		}
		current, err := s.periodOrZero()
		if err != nil {
			return err
		}
		if total, err = s.scheduleService.Add(startPeriod, endPeriod, perCycle, current); err != nil {
			return err
		}
		if err := s.ledger.Transfer(caller, s.addr, total); err != nil {
			return err
		}
		return s.log(EventRewardsAdded, nil, startPeriod, endPeriod, perCycle, total)
	})
	if err != nil {
		logger.Info("set rewards failed", "start", startPeriod, "end", endPeriod, "error", err)
		return err
	}

	logger.Info("rewards added", "start", startPeriod, "end", endPeriod, "total", total)
	return nil
}

// Stake moves item id of contract into custody on behalf of its owner.
func (s *Staker) Stake(staker, contract chain.Address, id *big.Int) error {
	return s.stake(staker, contract, []*big.Int{id}, false)
}

// BatchStake stakes several items at once, all or none.
func (s *Staker) BatchStake(staker, contract chain.Address, ids []*big.Int) error {
	return s.stake(staker, contract, ids, true)
}

// Unstake returns item id to the staker holding it.
func (s *Staker) Unstake(caller chain.Address, id *big.Int) error {
	return s.unstake(caller, []*big.Int{id}, false)
}

// BatchUnstake unstakes several items at once, all or none.
func (s *Staker) BatchUnstake(caller chain.Address, ids []*big.Int) error {
	return s.unstake(caller, ids, true)
}

// ClaimRewards pays staker for at most maxPeriods elapsed periods and advances its cursor.
func (s *Staker) ClaimRewards(staker chain.Address, maxPeriods uint64) (*rewards.Result, error) {
	logger.Debug("claiming rewards", "staker", staker, "maxPeriods", maxPeriods)

	var res *rewards.Result
	err := s.atomic(func() error {
		if err := s.checkEnabled(); err != nil {
			return err
		}
		period, err := s.CurrentPeriod()
		if err != nil {
			return err
		}
		var next *rewards.Cursor
		if res, next, err = s.rewardsService.Compute(staker, maxPeriods, period); err != nil {
			return err
		}
		if res.Periods == 0 {
			return nil
		}
		if err := s.rewardsService.Settle(staker, res, next); err != nil {
			return err
		}
		if res.Amount.Sign() > 0 {
			if err := s.ledger.Transfer(s.addr, staker, res.Amount); err != nil {
				return err
			}
		}
		return s.log(EventRewardsClaimed, []chain.Address{staker}, res.StartPeriod, res.Periods, res.Amount)
	})
	if err != nil {
		logger.Info("claim failed", "staker", staker, "error", err)
		return nil, err
	}

	if res.Periods > 0 {
		metricClaimPeriods().Observe(int64(res.Periods))
		if res.Amount.IsInt64() {
			metricClaimedAmount().Add(res.Amount.Int64())
		}
		logger.Info("rewards claimed", "staker", staker, "start", res.StartPeriod, "periods", res.Periods, "amount", res.Amount)
	}
	return res, nil
}

// WithdrawLostCycleRewards recovers the reward of a past cycle nobody had stake in.
// index is the global snapshot covering cycle, or -1 for cycles before the first snapshot.
func (s *Staker) WithdrawLostCycleRewards(caller chain.Address, cycle uint64, index int64) (*big.Int, error) {
	logger.Debug("withdrawing lost cycle", "caller", caller, "cycle", cycle, "index", index)

	var reward *big.Int
	err := s.atomic(func() error {
		if err := s.checkAuthority(caller); err != nil {
			return err
		}
		if err := s.checkEnabled(); err != nil {
			return err
		}
		current, err := s.CurrentCycle()
		if err != nil {
			return err
		}
		if reward, err = s.lostCycleService.Withdraw(cycle, index, current); err != nil {
			return err
		}
		if err := s.ledger.Transfer(s.addr, caller, reward); err != nil {
			return err
		}
		return s.log(EventLostCycleRewardsWithdrawn, []chain.Address{caller}, cycle, reward)
	})
	if err != nil {
		logger.Info("withdraw lost cycle failed", "cycle", cycle, "error", err)
		return nil, err
	}

	metricLostWithdrawal().Add(1)
	logger.Info("lost cycle withdrawn", "cycle", cycle, "reward", reward)
	return reward, nil
}

// Disable permanently stops staking, claiming and scheduling. Items can still be unstaked.
func (s *Staker) Disable(caller chain.Address) error {
	logger.Debug("disabling", "caller", caller)

	err := s.atomic(func() error {
		if err := s.checkAuthority(caller); err != nil {
			return err
		}
		if err := s.checkEnabled(); err != nil {
			return err
		}
		if err := s.disabled.Set(true); err != nil {
			return err
		}
		return s.log(EventDisabled, nil)
	})
	if err != nil {
		logger.Info("disable failed", "caller", caller, "error", err)
		return err
	}

	logger.Warn("staking disabled")
	return nil
}

// WithdrawRewardsPool moves amount of the remaining rewards to the authority once disabled.
// A nil amount withdraws the whole balance.
func (s *Staker) WithdrawRewardsPool(caller chain.Address, amount *big.Int) error {
	logger.Debug("withdrawing rewards pool", "caller", caller, "amount", amount)

	err := s.atomic(func() error {
		if err := s.checkAuthority(caller); err != nil {
			return err
		}
		disabled, err := s.IsDisabled()
		if err != nil {
			return err
		}
		if !disabled {
			return reverts.ErrNotDisabled
		}
		if amount == nil {
			if amount, err = s.RewardsBalance(); err != nil {
				return err
			}
		}
		if err := s.ledger.Transfer(s.addr, caller, amount); err != nil {
			return err
		}
		if err := s.poolWithdrawn.Add(amount); err != nil {
			return err
		}
		return s.log(EventRewardsPoolWithdrawn, []chain.Address{caller}, amount)
	})
	if err != nil {
		logger.Info("withdraw rewards pool failed", "caller", caller, "error", err)
		return err
	}

	logger.Info("rewards pool withdrawn", "amount", amount)
	return nil
}

func (s *Staker) stake(staker, contract chain.Address, ids []*big.Int, batch bool) error {
	logger.Debug("staking", "staker", staker, "contract", contract, "ids", idStrings(ids))

	err := s.atomic(func() error {
		if len(ids) == 0 {
			return reverts.ErrEmptyBatch
		}
		if err := s.checkEnabled(); err != nil {
			return err
		}
		if contract != s.cfg.Collection {
			return reverts.ErrContractNotWhitelisted
		}
		cycle, err := s.CurrentCycle()
		if err != nil {
			return err
		}

		items := make([]*stakes.WeightedItem, 0, len(ids))
		for _, id := range ids {
			item, err := s.take(staker, id, cycle)
			if err != nil {
				return errors.WithMessagef(err, "item %s", id)
			}
			items = append(items, item)
			if !batch {
				if err := s.log(EventNftStaked, []chain.Address{staker}, id, item.Weight, cycle); err != nil {
					return err
				}
			}
		}
		total, err := stakes.TotalWeight(items)
		if err != nil {
			return err
		}
		if batch {
			if err := s.log(EventNftsBatchStaked, []chain.Address{staker}, ids, total, cycle); err != nil {
				return err
			}
		}

		upd, err := s.snapshotService.Add(staker, cycle, total)
		if err != nil {
			return err
		}
		if err := s.rewardsService.Track(staker, s.clockService.PeriodOf(cycle), upd); err != nil {
			return err
		}
		return s.log(EventHistoriesUpdated, []chain.Address{staker}, cycle, upd.Global.Stake, upd.Staker.Stake)
	})
	if err != nil {
		logger.Info("stake failed", "staker", staker, "error", err)
		return err
	}

	metricItemsStaked().Add(int64(len(ids)))
	logger.Info("staked", "staker", staker, "items", len(ids))
	return nil
}

// take checks item id can be staked by staker and moves it into custody.
func (s *Staker) take(staker chain.Address, id *big.Int, cycle uint64) (*stakes.WeightedItem, error) {
	class, err := s.custody.ClassOf(id)
	if err != nil {
		return nil, err
	}
	item, err := stakes.NewWeightedItem(s.cfg.Weights, id, class)
	if err != nil {
		return nil, err
	}
	// custody rules come first, so an item already held here reports as staked
	if _, err := s.registryService.Stake(staker, id, item.Weight, cycle); err != nil {
		return nil, err
	}
	owner, err := s.custody.OwnerOf(id)
	if err != nil {
		return nil, err
	}
	if owner != staker {
		return nil, reverts.ErrNotOwner
	}
	if err := s.custody.Transfer(staker, s.addr, id); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Staker) unstake(caller chain.Address, ids []*big.Int, batch bool) error {
	logger.Debug("unstaking", "caller", caller, "ids", idStrings(ids))

	err := s.atomic(func() error {
		if len(ids) == 0 {
			return reverts.ErrEmptyBatch
		}
		cycle, err := s.CurrentCycle()
		if err != nil {
			return err
		}
		// a disabled contract releases items without the freeze and without touching histories
		disabled, err := s.IsDisabled()
		if err != nil {
			return err
		}

		items := make([]*stakes.WeightedItem, 0, len(ids))
		for _, id := range ids {
			info, err := s.registryService.Unstake(caller, id, cycle, disabled)
			if err != nil {
				return errors.WithMessagef(err, "item %s", id)
			}
			if err := s.custody.Transfer(s.addr, caller, id); err != nil {
				return err
			}
			items = append(items, &stakes.WeightedItem{ID: id, Weight: info.Weight})
			if !batch {
				if err := s.log(EventNftUnstaked, []chain.Address{caller}, id, info.Weight, cycle); err != nil {
					return err
				}
			}
		}
		total, err := stakes.TotalWeight(items)
		if err != nil {
			return err
		}
		if batch {
			if err := s.log(EventNftsBatchUnstaked, []chain.Address{caller}, ids, total, cycle); err != nil {
				return err
			}
		}
		if disabled {
			return nil
		}

		upd, err := s.snapshotService.Sub(caller, cycle, total)
		if err != nil {
			return err
		}
		return s.log(EventHistoriesUpdated, []chain.Address{caller}, cycle, upd.Global.Stake, upd.Staker.Stake)
	})
	if err != nil {
		logger.Info("unstake failed", "caller", caller, "error", err)
		return err
	}

	metricItemsUnstaked().Add(int64(len(ids)))
	logger.Info("unstaked", "caller", caller, "items", len(ids))
	return nil
}

// atomic runs fn under a checkpoint, discarding its state changes and logs when it fails.
func (s *Staker) atomic(fn func() error) error {
	st := s.env.State()
	checkpoint := st.NewCheckpoint()
	events, transfers := s.env.Checkpoint()
	if err := fn(); err != nil {
		st.RevertTo(checkpoint)
		s.env.RevertLogs(events, transfers)
		return err
	}
	return nil
}

func (s *Staker) checkAuthority(caller chain.Address) error {
	if caller != s.cfg.Authority {
		return reverts.ErrNotAuthority
	}
	return nil
}

func (s *Staker) checkEnabled() error {
	disabled, err := s.IsDisabled()
	if err != nil {
		return err
	}
	if disabled {
		return reverts.ErrDisabled
	}
	return nil
}

// periodOrZero returns the current period, zero before start.
func (s *Staker) periodOrZero() (uint64, error) {
	period, err := s.CurrentPeriod()
	if errors.Is(err, reverts.ErrNotStarted) {
		return 0, nil
	}
	return period, err
}

func (s *Staker) log(name string, indexed []chain.Address, args ...any) error {
	topics := lo.Map(indexed, func(addr chain.Address, _ int) chain.Bytes32 {
		return chain.BytesToBytes32(addr.Bytes())
	})
	return s.env.Log(s.addr, name, topics, args...)
}

func idStrings(ids []*big.Int) []string {
	return lo.Map(ids, func(id *big.Int, _ int) string { return id.String() })
}
