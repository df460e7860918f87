// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "stakingd",
		Usage:     "Weighted NFT staking ledger",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			verbosityFlag,
			jsonLogsFlag,
			nowFlag,
		},
		Before: func(ctx *cli.Context) error {
			initLogger(ctx)
			return nil
		},
		Commands: []cli.Command{
			{
				Name:   "init",
				Usage:  "write the ledger config into the data dir",
				Flags:  []cli.Flag{authorityFlag, cycleLengthFlag, periodLengthFlag, freezeFlag, cooldownFlag},
				Action: initAction,
			},
			{
				Name:   "start",
				Usage:  "start cycle accounting at the current time",
				Flags:  []cli.Flag{fromFlag},
				Action: startAction,
			},
			{
				Name:   "mint-rewards",
				Usage:  "mint reward tokens",
				Flags:  []cli.Flag{toFlag, amountFlag, decimalsFlag},
				Action: mintRewardsAction,
			},
			{
				Name:   "mint-item",
				Usage:  "mint collection items",
				Flags:  []cli.Flag{toFlag, idsFlag, classFlag},
				Action: mintItemAction,
			},
			{
				Name:   "schedule",
				Usage:  "add a per-cycle reward to a range of periods",
				Flags:  []cli.Flag{fromFlag, startPeriodFlag, endPeriodFlag, amountFlag, decimalsFlag},
				Action: scheduleAction,
			},
			{
				Name:   "stake",
				Usage:  "stake items",
				Flags:  []cli.Flag{fromFlag, idsFlag},
				Action: stakeAction,
			},
			{
				Name:   "unstake",
				Usage:  "unstake items",
				Flags:  []cli.Flag{fromFlag, idsFlag},
				Action: unstakeAction,
			},
			{
				Name:   "estimate",
				Usage:  "estimate the claimable rewards of a staker",
				Flags:  []cli.Flag{stakerFlag, maxPeriodsFlag, decimalsFlag},
				Action: estimateAction,
			},
			{
				Name:   "claim",
				Usage:  "claim rewards",
				Flags:  []cli.Flag{fromFlag, maxPeriodsFlag, allFlag, decimalsFlag},
				Action: claimAction,
			},
			{
				Name:   "withdraw-lost",
				Usage:  "recover the rewards of a cycle with no stake",
				Flags:  []cli.Flag{fromFlag, cycleFlag, decimalsFlag},
				Action: withdrawLostAction,
			},
			{
				Name:   "disable",
				Usage:  "permanently disable staking",
				Flags:  []cli.Flag{fromFlag},
				Action: disableAction,
			},
			{
				Name:   "withdraw-pool",
				Usage:  "withdraw the remaining rewards of a disabled ledger, all of it without --amount",
				Flags:  []cli.Flag{fromFlag, amountFlag, decimalsFlag},
				Action: withdrawPoolAction,
			},
			{
				Name:   "inspect",
				Usage:  "show the ledger totals and optionally a staker",
				Flags:  []cli.Flag{stakerFlag, decimalsFlag},
				Action: inspectAction,
			},
			{
				Name:   "events",
				Usage:  "list indexed events",
				Flags:  []cli.Flag{eventFlag, limitFlag, offsetFlag, descFlag},
				Action: eventsAction,
			},
			{
				Name:   "serve",
				Usage:  "serve ledger metrics",
				Flags:  []cli.Flag{metricsAddrFlag, refreshFlag, ntpServerFlag},
				Action: serveAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
