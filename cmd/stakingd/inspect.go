// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/nftstaking/builtin"
	"github.com/vechain/nftstaking/builtin/collection"
	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/builtin/staker"
	"github.com/vechain/nftstaking/builtin/staker/rewards"
	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/logdb"
	"github.com/vechain/nftstaking/runtime"
	"github.com/vechain/nftstaking/tx"
)

var (
	eventNames = lo.SliceToMap(append([]string{collection.EventTransfer}, staker.EventNames...), func(name string) (chain.Bytes32, string) {
		return tx.EventID(name), name
	})
	contractNames = lo.SliceToMap(builtin.Contracts(), func(c *builtin.Contract) (chain.Address, string) {
		return c.Address, c.Name
	})
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

// overview holds the ledger totals shown by inspect.
type overview struct {
	rows [][]string
}

func (o *overview) add(key string, value any) {
	o.rows = append(o.rows, []string{key, fmt.Sprint(value)})
}

func collectOverview(c *runtime.Contracts, decimals int) (*overview, error) {
	s := c.Staker
	o := &overview{}

	startTime, started, err := s.StartTime()
	if err != nil {
		return nil, err
	}
	disabled, err := s.IsDisabled()
	if err != nil {
		return nil, err
	}
	o.add("started", started)
	if started {
		o.add("start time", time.Unix(int64(startTime), 0).UTC().Format(time.RFC3339))
		if cycle, err := s.CurrentCycle(); err == nil {
			o.add("current cycle", cycle)
			o.add("current period", s.PeriodOf(cycle))
			if next, err := s.CycleStart(cycle + 1); err == nil {
				o.add("next cycle at", time.Unix(int64(next), 0).UTC().Format(time.RFC3339))
			}
		}
	}
	o.add("disabled", disabled)

	amounts := []struct {
		name string
		get  func() (*big.Int, error)
	}{
		{"rewards pool", s.TotalRewardsPool},
		{"claimed", s.TotalClaimed},
		{"lost withdrawn", s.TotalLostWithdrawn},
		{"pool withdrawn", s.TotalPoolWithdrawn},
		{"balance", s.RewardsBalance},
	}
	for _, a := range amounts {
		v, err := a.get()
		if err != nil {
			return nil, err
		}
		o.add(a.name, formatAmount(v, decimals))
	}

	stake, err := s.GlobalStake()
	if err != nil {
		return nil, err
	}
	count, err := s.StakedCount()
	if err != nil {
		return nil, err
	}
	o.add("global stake", stake)
	o.add("staked items", count)

	cfg := s.Config()
	o.add("cycle length", time.Duration(cfg.CycleLength)*time.Second)
	o.add("period length", cfg.PeriodLength)
	o.add("freeze/cooldown", fmt.Sprintf("%d/%d cycles", cfg.FreezeCycles, cfg.CooldownCycles))
	for _, class := range weightNames(cfg.Weights) {
		o.add("weight "+class.String(), cfg.Weights[class])
	}
	return o, nil
}

func inspectAction(ctx *cli.Context) error {
	return withLedger(ctx, func(l *ledger) error {
		decimals := ctx.Int(decimalsFlag.Name)
		var who *chain.Address
		if ctx.String(stakerFlag.Name) != "" {
			addr, err := parseAddress(ctx, stakerFlag)
			if err != nil {
				return err
			}
			who = &addr
		}

		return l.call(func(c *runtime.Contracts) error {
			o, err := collectOverview(c, decimals)
			if err != nil {
				return err
			}
			table := newTable(os.Stdout, "ledger", "value")
			table.AppendBulk(o.rows)
			table.Render()

			if who == nil {
				return nil
			}
			return printStaker(c, *who, decimals)
		})
	})
}

func printStaker(c *runtime.Contracts, who chain.Address, decimals int) error {
	s := c.Staker
	cursor, err := s.ClaimCursor(who)
	if err != nil {
		return err
	}
	res, err := s.EstimateRewards(who, ^uint64(0))
	if errors.Is(err, reverts.ErrNotStarted) {
		res, err = &rewards.Result{Amount: new(big.Int)}, nil
	}
	if err != nil {
		return err
	}
	balance, err := c.Token.BalanceOf(who)
	if err != nil {
		return err
	}
	fmt.Printf("\nstaker %v\n", who)
	fmt.Printf("cursor: period %d, global #%d, staker #%d\n", cursor.Period, cursor.GlobalIndex, cursor.StakerIndex)
	fmt.Printf("claimable: %s over %d periods\n", formatAmount(res.Amount, decimals), res.Periods)
	fmt.Printf("reward balance: %s\n", formatAmount(balance, decimals))

	n, err := s.StakerHistoryLength(who)
	if err != nil {
		return err
	}
	table := newTable(os.Stdout, "#", "from cycle", "stake")
	for i := range n {
		snap, err := s.StakerSnapshot(who, i)
		if err != nil {
			return err
		}
		table.Append([]string{strconv.FormatUint(i, 10), strconv.FormatUint(snap.StartCycle, 10), strconv.FormatUint(snap.Stake, 10)})
	}
	table.Render()
	return nil
}

func eventsAction(ctx *cli.Context) error {
	return withLedger(ctx, func(l *ledger) error {
		filter := &logdb.EventFilter{
			Options: &logdb.Options{
				Offset: ctx.Uint64(offsetFlag.Name),
				Limit:  ctx.Uint64(limitFlag.Name),
			},
		}
		if ctx.Bool(descFlag.Name) {
			filter.Order = logdb.DESC
		}
		if name := ctx.String(eventFlag.Name); name != "" {
			id := tx.EventID(name)
			if _, ok := eventNames[id]; !ok {
				return errors.Errorf("unknown event %q", name)
			}
			filter.CriteriaSet = []*logdb.EventCriteria{{Topics: [5]*chain.Bytes32{&id}}}
		}

		events, err := l.logs.FilterEvents(context.Background(), filter)
		if err != nil {
			return err
		}
		table := newTable(os.Stdout, "seq", "time", "contract", "event", "origin", "data")
		for _, ev := range events {
			table.Append([]string{
				fmt.Sprintf("%d.%d", ev.TxSeq, ev.Index),
				time.Unix(int64(ev.TxTime), 0).UTC().Format(time.RFC3339),
				lo.ValueOr(contractNames, ev.Address, ev.Address.String()),
				eventName(ev),
				ev.TxOrigin.String(),
				"0x" + hex.EncodeToString(ev.Data),
			})
		}
		table.Render()
		return nil
	})
}

func eventName(ev *logdb.Event) string {
	if ev.Topics[0] == nil {
		return "anonymous"
	}
	return lo.ValueOr(eventNames, *ev.Topics[0], ev.Topics[0].AbbrevString())
}
