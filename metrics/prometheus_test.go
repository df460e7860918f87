// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gather(t *testing.T) map[string]*dto.MetricFamily {
	mfs, err := Gatherer().Gather()
	require.NoError(t, err)

	families := make(map[string]*dto.MetricFamily, len(mfs))
	for _, mf := range mfs {
		families[mf.GetName()] = mf
	}
	return families
}

func TestPromMetrics(t *testing.T) {
	useRegistry(t, newPrometheusMetrics())

	claims := LazyLoadCounter("claims_count")
	txs := LazyLoadCounterVec("tx_count", []string{"outcome"})
	cycle := LazyLoadGauge("cycle")
	stake := LazyLoadGaugeVec("stake", []string{"class"})
	periods := LazyLoadHistogram("claim_periods", BucketPeriods)
	duration := LazyLoadHistogramVec("tx_duration_ms", []string{"outcome"}, BucketMillis)

	claims().Add(2)
	claims().Add(3)

	txs().AddWithLabel(4, map[string]string{"outcome": "ok"})
	txs().AddWithLabel(1, map[string]string{"outcome": "reverted"})

	cycle().Set(10)
	cycle().Add(-3)

	stake().SetWithLabel(50, map[string]string{"class": "gold"})
	stake().AddWithLabel(5, map[string]string{"class": "gold"})
	stake().SetWithLabel(0, map[string]string{"class": "bronze"})

	for _, n := range []int64{1, 4, 16} {
		periods().Observe(n)
	}
	duration().ObserveWithLabels(7, map[string]string{"outcome": "ok"})
	duration().ObserveWithLabels(3, map[string]string{"outcome": "reverted"})

	families := gather(t)

	assert.Equal(t, float64(5), families["nftstaking_claims_count"].Metric[0].GetCounter().GetValue())
	assert.Len(t, families["nftstaking_tx_count"].Metric, 2)
	assert.Equal(t, float64(7), families["nftstaking_cycle"].Metric[0].GetGauge().GetValue())
	assert.Len(t, families["nftstaking_stake"].Metric, 2)

	hist := families["nftstaking_claim_periods"].Metric[0].GetHistogram()
	assert.Equal(t, uint64(3), hist.GetSampleCount())
	assert.Equal(t, float64(21), hist.GetSampleSum())
	assert.Len(t, hist.GetBucket(), len(BucketPeriods))

	var sum float64
	for _, m := range families["nftstaking_tx_duration_ms"].Metric {
		sum += m.GetHistogram().GetSampleSum()
	}
	assert.Equal(t, float64(10), sum)

	server := httptest.NewServer(HTTPHandler())
	defer server.Close()
	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "nftstaking_claims_count 5")
}

func TestLazyResolve(t *testing.T) {
	useRegistry(t, defaultNoopMetrics())

	gauge := LazyLoadGauge("lazy_gauge")
	counter := LazyLoadCounter("lazy_counter")
	hist := LazyLoadHistogramVec("lazy_hist", nil, nil)

	// declared before the registry is switched, resolved after
	metrics = newPrometheusMetrics()

	assert.IsType(t, &promGaugeMeter{}, gauge())
	assert.IsType(t, &promCountMeter{}, counter())
	assert.IsType(t, &promHistogramVecMeter{}, hist())

	// resolved once, later calls reuse the meter
	assert.Same(t, counter(), counter())
	assert.Same(t, counter(), metrics.GetOrCreateCountMeter("lazy_counter"))

	// a meter resolved under the noop registry stays noop
	metrics = defaultNoopMetrics()
	early := LazyLoadCounter("early")
	assert.IsType(t, &noopMeters{}, early())
}

func TestInitializeKeepsRegistry(t *testing.T) {
	useRegistry(t, defaultNoopMetrics())

	InitializePrometheusMetrics()
	first := Gatherer()
	require.NotNil(t, first)

	InitializePrometheusMetrics()
	assert.Same(t, first, Gatherer())
}
