// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/beevik/ntp"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/log"
	"github.com/vechain/nftstaking/metrics"
	"github.com/vechain/nftstaking/runtime"
)

const defaultRefresh = 15 * time.Second

var (
	metricCurrentCycle  = metrics.LazyLoadGauge("staker_current_cycle")
	metricCurrentPeriod = metrics.LazyLoadGauge("staker_current_period")
	metricGlobalStake   = metrics.LazyLoadGauge("staker_global_stake")
	metricStakedItems   = metrics.LazyLoadGauge("staker_staked_items")
	metricDisabled      = metrics.LazyLoadGauge("staker_disabled")
	metricClockOffset   = metrics.LazyLoadGauge("ntp_clock_offset_ms")
)

func serveAction(ctx *cli.Context) error {
	metrics.InitializePrometheusMetrics()

	return withLedger(ctx, func(l *ledger) error {
		listener, err := net.Listen("tcp", ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return errors.Wrapf(err, "listen metrics addr [%v]", ctx.String(metricsAddrFlag.Name))
		}

		router := mux.NewRouter()
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		srv := &http.Server{
			Handler:           handlers.CompressHandler(router),
			ReadHeaderTimeout: time.Second,
			ReadTimeout:       5 * time.Second,
		}

		runCtx, cancel := context.WithCancel(context.Background())
		defer cancel()
		exit := handleExitSignal()

		group, gctx := errgroup.WithContext(runCtx)
		group.Go(func() error {
			if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		group.Go(func() error {
			select {
			case <-exit:
			case <-gctx.Done():
			}
			cancel()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
		group.Go(func() error {
			refreshLoop(gctx, l, ctx.Duration(refreshFlag.Name))
			return nil
		})
		if server := ctx.String(ntpServerFlag.Name); server != "" {
			group.Go(func() error {
				checkClockOffset(gctx, server, l.cfg.CycleLength)
				return nil
			})
		}

		log.Info("metrics service started", "url", "http://"+listener.Addr().String()+"/metrics")
		err = group.Wait()
		log.Info("metrics service stopped")
		return err
	})
}

func refreshLoop(ctx context.Context, l *ledger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := refreshGauges(l); err != nil {
			log.Warn("failed to refresh gauges", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func refreshGauges(l *ledger) error {
	return l.call(func(c *runtime.Contracts) error {
		s := c.Staker
		disabled, err := s.IsDisabled()
		if err != nil {
			return err
		}
		stake, err := s.GlobalStake()
		if err != nil {
			return err
		}
		count, err := s.StakedCount()
		if err != nil {
			return err
		}
		metricDisabled().Set(lo.Ternary(disabled, int64(1), 0))
		metricGlobalStake().Set(int64(stake))
		metricStakedItems().Set(int64(count))

		cycle, err := s.CurrentCycle()
		if errors.Is(err, reverts.ErrNotStarted) {
			return nil
		}
		if err != nil {
			return err
		}
		metricCurrentCycle().Set(int64(cycle))
		metricCurrentPeriod().Set(int64(s.PeriodOf(cycle)))
		return nil
	})
}

// checkClockOffset warns when the wall clock drifts, cycle accounting depends on it.
func checkClockOffset(ctx context.Context, server string, cycleLength uint64) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		resp, err := ntp.Query(server)
		if err != nil {
			log.Debug("failed to access NTP", "err", err)
		} else {
			metricClockOffset().Set(resp.ClockOffset.Milliseconds())
			if resp.ClockOffset.Abs() > time.Duration(cycleLength)*time.Second/100 {
				log.Warn("clock offset detected", "offset", resp.ClockOffset)
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
