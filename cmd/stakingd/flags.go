// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/nftstaking/log"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for the ledger databases and config",
	}
	verbosityFlag = cli.Uint64Flag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	nowFlag = cli.Uint64Flag{
		Name:  "now",
		Usage: "unix time to execute at instead of the wall clock",
	}
	fromFlag = cli.StringFlag{
		Name:  "from",
		Usage: "address sending the transaction",
	}

	// init
	authorityFlag = cli.StringFlag{
		Name:  "authority",
		Usage: "address allowed to start, schedule, recover and disable",
	}
	cycleLengthFlag = cli.Uint64Flag{
		Name:  "cycle-length",
		Value: 86400,
		Usage: "cycle length in seconds",
	}
	periodLengthFlag = cli.Uint64Flag{
		Name:  "period-length",
		Value: 7,
		Usage: "cycles per period",
	}
	freezeFlag = cli.Uint64Flag{
		Name:  "freeze-cycles",
		Value: 2,
		Usage: "cycles an item stays staked before it can be unstaked",
	}
	cooldownFlag = cli.Uint64Flag{
		Name:  "cooldown-cycles",
		Value: 1,
		Usage: "cycles an item waits after unstaking before it can be staked again",
	}

	// transactions
	toFlag = cli.StringFlag{
		Name:  "to",
		Usage: "recipient address",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Usage: "amount in token units, decimals allowed",
	}
	decimalsFlag = cli.IntFlag{
		Name:  "decimals",
		Value: 18,
		Usage: "decimals of the reward token",
	}
	idsFlag = cli.StringFlag{
		Name:  "ids",
		Usage: "comma separated item ids",
	}
	classFlag = cli.StringFlag{
		Name:  "class",
		Value: "common",
		Usage: "item class (common|epic|legendary|apex)",
	}
	startPeriodFlag = cli.Uint64Flag{
		Name:  "start-period",
		Usage: "first period to fund",
	}
	endPeriodFlag = cli.Uint64Flag{
		Name:  "end-period",
		Usage: "last period to fund",
	}
	maxPeriodsFlag = cli.Uint64Flag{
		Name:  "max-periods",
		Value: 52,
		Usage: "maximum periods settled by one claim",
	}
	allFlag = cli.BoolFlag{
		Name:  "all",
		Usage: "claim repeatedly until nothing is left",
	}
	cycleFlag = cli.Uint64Flag{
		Name:  "cycle",
		Usage: "lost cycle to recover",
	}
	stakerFlag = cli.StringFlag{
		Name:  "staker",
		Usage: "staker address to inspect",
	}

	// events
	eventFlag = cli.StringFlag{
		Name:  "event",
		Usage: "event name to filter by",
	}
	limitFlag = cli.Uint64Flag{
		Name:  "limit",
		Value: 50,
		Usage: "maximum number of entries",
	}
	offsetFlag = cli.Uint64Flag{
		Name:  "offset",
		Usage: "entries to skip",
	}
	descFlag = cli.BoolFlag{
		Name:  "desc",
		Usage: "newest first",
	}

	// serve
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	refreshFlag = cli.DurationFlag{
		Name:  "refresh",
		Value: defaultRefresh,
		Usage: "interval between ledger gauge refreshes",
	}
	ntpServerFlag = cli.StringFlag{
		Name:  "ntp-server",
		Value: "pool.ntp.org",
		Usage: "NTP server used to check the clock offset, empty to skip",
	}
)
