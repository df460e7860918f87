// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"sync"
)

// metrics is the process-wide registry. It stays no-op until Init* is called.
var metrics = defaultNoopMetrics()

// Metrics is implemented by the no-op and prometheus registries.
type Metrics interface {
	GetOrCreateCountMeter(name string) CountMeter
	GetOrCreateCountVecMeter(name string, labels []string) CountVecMeter
	GetOrCreateGaugeMeter(name string) GaugeMeter
	GetOrCreateGaugeVecMeter(name string, labels []string) GaugeVecMeter
	GetOrCreateHistogramMeter(name string, buckets []int64) HistogramMeter
	GetOrCreateHistogramVecMeter(name string, labels []string, buckets []int64) HistogramVecMeter
	GetOrCreateHandler() http.Handler
}

type (
	// CountMeter only goes up.
	CountMeter interface {
		Add(int64)
	}
	CountVecMeter interface {
		AddWithLabel(int64, map[string]string)
	}
	// GaugeMeter tracks a value that may move both ways, like the current cycle.
	GaugeMeter interface {
		Add(int64)
		Set(int64)
	}
	GaugeVecMeter interface {
		AddWithLabel(int64, map[string]string)
		SetWithLabel(int64, map[string]string)
	}
	HistogramMeter interface {
		Observe(int64)
	}
	HistogramVecMeter interface {
		ObserveWithLabels(int64, map[string]string)
	}
)

var (
	// BucketPeriods covers the number of periods settled by one claim.
	BucketPeriods = []int64{0, 1, 2, 4, 8, 16, 32, 64, 128, 256, 512}
	// BucketMillis covers transaction execution time in milliseconds.
	BucketMillis = []int64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000}
)

// HTTPHandler serves the active registry.
func HTTPHandler() http.Handler {
	return metrics.GetOrCreateHandler()
}

// lazy resolves a meter against the registry on first use, so package level
// meter vars can be declared before Init picks the registry.
func lazy[T any](create func(Metrics) T) func() T {
	var (
		once  sync.Once
		meter T
	)
	return func() T {
		once.Do(func() { meter = create(metrics) })
		return meter
	}
}

func LazyLoadCounter(name string) func() CountMeter {
	return lazy(func(m Metrics) CountMeter { return m.GetOrCreateCountMeter(name) })
}

func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return lazy(func(m Metrics) CountVecMeter { return m.GetOrCreateCountVecMeter(name, labels) })
}

func LazyLoadGauge(name string) func() GaugeMeter {
	return lazy(func(m Metrics) GaugeMeter { return m.GetOrCreateGaugeMeter(name) })
}

func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return lazy(func(m Metrics) GaugeVecMeter { return m.GetOrCreateGaugeVecMeter(name, labels) })
}

func LazyLoadHistogram(name string, buckets []int64) func() HistogramMeter {
	return lazy(func(m Metrics) HistogramMeter { return m.GetOrCreateHistogramMeter(name, buckets) })
}

func LazyLoadHistogramVec(name string, labels []string, buckets []int64) func() HistogramVecMeter {
	return lazy(func(m Metrics) HistogramVecMeter { return m.GetOrCreateHistogramVecMeter(name, labels, buckets) })
}
