// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"math/big"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/nftstaking/builtin"
	"github.com/vechain/nftstaking/builtin/collection"
	"github.com/vechain/nftstaking/builtin/staker"
	"github.com/vechain/nftstaking/builtin/staker/lostcycle"
	"github.com/vechain/nftstaking/builtin/staker/rewards"
	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/log"
	"github.com/vechain/nftstaking/runtime"
)

func withLedger(ctx *cli.Context, fn func(l *ledger) error) error {
	l, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer l.Close()
	return fn(l)
}

// sender returns --from, or the authority for administrative commands.
func sender(ctx *cli.Context, l *ledger, admin bool) (chain.Address, error) {
	if admin && ctx.String(fromFlag.Name) == "" {
		log.Debug("no sender given, using the authority", "authority", l.cfg.Authority)
		return l.cfg.Authority, nil
	}
	return parseAddress(ctx, fromFlag)
}

func initAction(ctx *cli.Context) error {
	authority, err := parseAddress(ctx, authorityFlag)
	if err != nil {
		return err
	}
	cfg := staker.DefaultConfig()
	cfg.CycleLength = ctx.Uint64(cycleLengthFlag.Name)
	cfg.PeriodLength = ctx.Uint64(periodLengthFlag.Name)
	cfg.FreezeCycles = ctx.Uint64(freezeFlag.Name)
	cfg.CooldownCycles = ctx.Uint64(cooldownFlag.Name)
	cfg.Authority = authority
	cfg.Collection = builtin.Collection.Address

	path := filepath.Join(makeDataDir(ctx), configFileName)
	if err := saveConfig(path, cfg); err != nil {
		return err
	}
	fmt.Println("config written to", path)
	for _, c := range builtin.Contracts() {
		fmt.Printf("%-14s %v\n", c.Name, c.Address)
	}
	return nil
}

func startAction(ctx *cli.Context) error {
	return withLedger(ctx, func(l *ledger) error {
		from, err := sender(ctx, l, true)
		if err != nil {
			return err
		}
		_, err = l.execute(from, "start", func(c *runtime.Contracts) error {
			return c.Staker.Start(from)
		})
		return err
	})
}

func mintRewardsAction(ctx *cli.Context) error {
	return withLedger(ctx, func(l *ledger) error {
		to, err := parseAddress(ctx, toFlag)
		if err != nil {
			return err
		}
		amount, err := parseAmount(ctx.String(amountFlag.Name), ctx.Int(decimalsFlag.Name))
		if err != nil {
			return err
		}
		_, err = l.execute(l.cfg.Authority, "mint-rewards", func(c *runtime.Contracts) error {
			return c.Token.Mint(to, amount)
		})
		return err
	})
}

func mintItemAction(ctx *cli.Context) error {
	return withLedger(ctx, func(l *ledger) error {
		to, err := parseAddress(ctx, toFlag)
		if err != nil {
			return err
		}
		ids, err := parseIDs(ctx.String(idsFlag.Name))
		if err != nil {
			return err
		}
		class, err := collection.ParseClass(ctx.String(classFlag.Name))
		if err != nil {
			return err
		}
		_, err = l.execute(l.cfg.Authority, "mint-item", func(c *runtime.Contracts) error {
			for _, id := range ids {
				if err := c.Collection.Mint(to, id, class); err != nil {
					return errors.WithMessagef(err, "item %s", id)
				}
			}
			return nil
		})
		return err
	})
}

func scheduleAction(ctx *cli.Context) error {
	return withLedger(ctx, func(l *ledger) error {
		from, err := sender(ctx, l, true)
		if err != nil {
			return err
		}
		perCycle, err := parseAmount(ctx.String(amountFlag.Name), ctx.Int(decimalsFlag.Name))
		if err != nil {
			return err
		}
		startPeriod, endPeriod := ctx.Uint64(startPeriodFlag.Name), ctx.Uint64(endPeriodFlag.Name)
		if endPeriod == 0 {
			endPeriod = startPeriod
		}
		_, err = l.execute(from, "schedule", func(c *runtime.Contracts) error {
			return c.Staker.SetRewardsForPeriods(from, startPeriod, endPeriod, perCycle)
		})
		return err
	})
}

func stakeAction(ctx *cli.Context) error {
	return withLedger(ctx, func(l *ledger) error {
		from, err := sender(ctx, l, false)
		if err != nil {
			return err
		}
		ids, err := parseIDs(ctx.String(idsFlag.Name))
		if err != nil {
			return err
		}
		_, err = l.execute(from, "stake", func(c *runtime.Contracts) error {
			if len(ids) == 1 {
				return c.Staker.Stake(from, l.cfg.Collection, ids[0])
			}
			return c.Staker.BatchStake(from, l.cfg.Collection, ids)
		})
		return err
	})
}

func unstakeAction(ctx *cli.Context) error {
	return withLedger(ctx, func(l *ledger) error {
		from, err := sender(ctx, l, false)
		if err != nil {
			return err
		}
		ids, err := parseIDs(ctx.String(idsFlag.Name))
		if err != nil {
			return err
		}
		_, err = l.execute(from, "unstake", func(c *runtime.Contracts) error {
			if len(ids) == 1 {
				return c.Staker.Unstake(from, ids[0])
			}
			return c.Staker.BatchUnstake(from, ids)
		})
		return err
	})
}

func estimateAction(ctx *cli.Context) error {
	return withLedger(ctx, func(l *ledger) error {
		who, err := parseAddress(ctx, stakerFlag)
		if err != nil {
			return err
		}
		var res *rewards.Result
		if err := l.call(func(c *runtime.Contracts) (err error) {
			res, err = c.Staker.EstimateRewards(who, ctx.Uint64(maxPeriodsFlag.Name))
			return err
		}); err != nil {
			return err
		}
		printResult("claimable", res, ctx.Int(decimalsFlag.Name))
		return nil
	})
}

func printResult(what string, res *rewards.Result, decimals int) {
	if res.Periods == 0 {
		fmt.Printf("%s: nothing\n", what)
		return
	}
	fmt.Printf("%s: %s over periods %d-%d\n", what, formatAmount(res.Amount, decimals), res.StartPeriod, res.StartPeriod+res.Periods-1)
}

func claimAction(ctx *cli.Context) error {
	return withLedger(ctx, func(l *ledger) error {
		from, err := sender(ctx, l, false)
		if err != nil {
			return err
		}
		maxPeriods := ctx.Uint64(maxPeriodsFlag.Name)
		decimals := ctx.Int(decimalsFlag.Name)

		if !ctx.Bool(allFlag.Name) {
			res, err := l.claim(from, maxPeriods)
			if err != nil {
				return err
			}
			printResult("claimed", res, decimals)
			return nil
		}

		pending, err := l.pendingPeriods(from)
		if err != nil {
			return err
		}
		bar := pb.New64(int64(pending)).SetMaxWidth(90).Start()
		defer func() { bar.NotPrint = true }()

		total := new(big.Int)
		for {
			res, err := l.claim(from, maxPeriods)
			if err != nil {
				return err
			}
			if res.Periods == 0 {
				break
			}
			total.Add(total, res.Amount)
			bar.Add64(int64(res.Periods))
		}
		bar.Finish()
		fmt.Printf("claimed: %s\n", formatAmount(total, decimals))
		return nil
	})
}

func (l *ledger) claim(from chain.Address, maxPeriods uint64) (*rewards.Result, error) {
	var res *rewards.Result
	_, err := l.execute(from, "claim", func(c *runtime.Contracts) (err error) {
		res, err = c.Staker.ClaimRewards(from, maxPeriods)
		return err
	})
	return res, err
}

// pendingPeriods counts the finished periods not yet settled for staker.
func (l *ledger) pendingPeriods(staker chain.Address) (uint64, error) {
	var pending uint64
	err := l.call(func(c *runtime.Contracts) error {
		cursor, err := c.Staker.ClaimCursor(staker)
		if err != nil {
			return err
		}
		current, err := c.Staker.CurrentPeriod()
		if err != nil {
			return err
		}
		if !cursor.IsZero() && current > cursor.Period {
			pending = current - cursor.Period
		}
		return nil
	})
	return pending, err
}

func withdrawLostAction(ctx *cli.Context) error {
	return withLedger(ctx, func(l *ledger) error {
		from, err := sender(ctx, l, true)
		if err != nil {
			return err
		}
		cycle := ctx.Uint64(cycleFlag.Name)

		// the hint is the global snapshot governing the cycle
		index := lostcycle.BeforeFirstSnapshot
		if err := l.call(func(c *runtime.Contracts) (err error) {
			index, _, err = c.Staker.GlobalSnapshotAt(cycle)
			return err
		}); err != nil {
			return err
		}

		var amount *big.Int
		if _, err := l.execute(from, "withdraw-lost", func(c *runtime.Contracts) (err error) {
			amount, err = c.Staker.WithdrawLostCycleRewards(from, cycle, index)
			return err
		}); err != nil {
			return err
		}
		fmt.Printf("recovered %s from cycle %d\n", formatAmount(amount, ctx.Int(decimalsFlag.Name)), cycle)
		return nil
	})
}

func disableAction(ctx *cli.Context) error {
	return withLedger(ctx, func(l *ledger) error {
		from, err := sender(ctx, l, true)
		if err != nil {
			return err
		}
		_, err = l.execute(from, "disable", func(c *runtime.Contracts) error {
			return c.Staker.Disable(from)
		})
		return err
	})
}

func withdrawPoolAction(ctx *cli.Context) error {
	return withLedger(ctx, func(l *ledger) error {
		from, err := sender(ctx, l, true)
		if err != nil {
			return err
		}
		var amount *big.Int
		if s := ctx.String(amountFlag.Name); s != "" {
			if amount, err = parseAmount(s, ctx.Int(decimalsFlag.Name)); err != nil {
				return err
			}
		}
		_, err = l.execute(from, "withdraw-pool", func(c *runtime.Contracts) error {
			return c.Staker.WithdrawRewardsPool(from, amount)
		})
		return err
	})
}
