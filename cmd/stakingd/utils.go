// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/log"
)

func fatal(args ...any) {
	var w io.Writer
	if goruntime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) {
	lvl := new(slog.LevelVar)
	lvl.Set(log.FromLegacyLevel(ctx.GlobalInt(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.GlobalBool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, lvl)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, lvl, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".nftstaking")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.GlobalString(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

// now returns the execution time, the --now flag wins over the wall clock.
func now(ctx *cli.Context) uint64 {
	if t := ctx.GlobalUint64(nowFlag.Name); t != 0 {
		return t
	}
	return uint64(time.Now().Unix())
}

func parseAddress(ctx *cli.Context, flag cli.StringFlag) (chain.Address, error) {
	s := ctx.String(flag.Name)
	if s == "" {
		s = ctx.GlobalString(flag.Name)
	}
	if s == "" {
		return chain.Address{}, errors.Errorf("missing --%s", flag.Name)
	}
	addr, err := chain.ParseAddress(s)
	if err != nil {
		return chain.Address{}, errors.Wrapf(err, "--%s", flag.Name)
	}
	return addr, nil
}

// parseAmount converts a decimal token amount into base units.
func parseAmount(s string, decimals int) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "amount %q", s)
	}
	scaled := d.Shift(int32(decimals))
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, errors.Errorf("amount %q has more than %d decimals", s, decimals)
	}
	if scaled.Sign() < 0 {
		return nil, errors.Errorf("negative amount %q", s)
	}
	return scaled.BigInt(), nil
}

// formatAmount renders base units as a decimal token amount.
func formatAmount(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, int32(-decimals)).String()
}

func parseIDs(s string) ([]*big.Int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New("no item ids")
	}
	parts := strings.Split(s, ",")
	ids := make([]*big.Int, 0, len(parts))
	for _, part := range parts {
		id, ok := new(big.Int).SetString(strings.TrimSpace(part), 10)
		if !ok || id.Sign() < 0 {
			return nil, errors.Errorf("invalid item id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func handleExitSignal() <-chan struct{} {
	done := make(chan struct{})
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		close(done)
	}()
	return done
}
