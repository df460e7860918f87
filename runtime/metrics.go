// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/nftstaking/metrics"

var (
	metricTxCount    = metrics.LazyLoadCounterVec("runtime_tx_count", []string{"outcome"})
	metricTxDuration = metrics.LazyLoadHistogram("runtime_tx_duration_ms", metrics.BucketMillis)
	metricTxReverts  = metrics.LazyLoadCounterVec("runtime_tx_revert_count", []string{"reason"})
)
