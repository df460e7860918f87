// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"path/filepath"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/nftstaking/builtin/staker"
	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/log"
	"github.com/vechain/nftstaking/logdb"
	"github.com/vechain/nftstaking/lvldb"
	"github.com/vechain/nftstaking/runtime"
	"github.com/vechain/nftstaking/tx"
)

// ledger is an opened data directory.
type ledger struct {
	dir   string
	cfg   *staker.Config
	main  *lvldb.LevelDB
	logs  *logdb.LogDB
	rt    *runtime.Runtime
	clock func() uint64
}

func openLedger(ctx *cli.Context) (*ledger, error) {
	dir := makeDataDir(ctx)

	cfg, err := loadConfig(filepath.Join(dir, configFileName))
	if err != nil {
		return nil, errors.Wrapf(err, "data dir %v not initialized, run init first", dir)
	}

	mainDB, err := lvldb.New(filepath.Join(dir, "main.db"), lvldb.Options{
		CacheSize:              64,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open main database")
	}

	logDB, err := logdb.New(filepath.Join(dir, "logs.db"))
	if err != nil {
		mainDB.Close()
		return nil, errors.Wrap(err, "open log database")
	}

	rt, err := runtime.New(mainDB, logDB, cfg)
	if err != nil {
		logDB.Close()
		mainDB.Close()
		return nil, err
	}
	log.Debug("ledger opened", "dir", dir, "sqlite", logDB.DriverVersion())

	return &ledger{
		dir:   dir,
		cfg:   cfg,
		main:  mainDB,
		logs:  logDB,
		rt:    rt,
		clock: func() uint64 { return now(ctx) },
	}, nil
}

func (l *ledger) Close() {
	if err := l.logs.Close(); err != nil {
		log.Warn("failed to close log database", "error", err)
	}
	if err := l.main.Close(); err != nil {
		log.Warn("failed to close main database", "error", err)
	}
}

// execute runs clause and turns a reverted receipt into an error.
func (l *ledger) execute(origin chain.Address, name string, clause runtime.Clause) (*tx.Receipt, error) {
	receipt, err := l.rt.Execute(origin, l.clock(), name, clause)
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		return receipt, errors.Errorf("%s reverted: %s", name, receipt.RevertReason)
	}
	log.Info("transaction executed", "seq", receipt.Seq, "clause", name, "events", len(receipt.Events))
	return receipt, nil
}

func (l *ledger) call(fn runtime.Clause) error {
	return l.rt.Call(l.clock(), fn)
}
