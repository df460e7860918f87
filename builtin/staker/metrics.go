// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import "github.com/vechain/nftstaking/metrics"

var (
	metricItemsStaked    = metrics.LazyLoadCounter("staker_items_staked_count")
	metricItemsUnstaked  = metrics.LazyLoadCounter("staker_items_unstaked_count")
	metricClaimPeriods   = metrics.LazyLoadHistogram("staker_claim_periods", metrics.BucketPeriods)
	metricClaimedAmount  = metrics.LazyLoadCounter("staker_claimed_amount_count")
	metricLostWithdrawal = metrics.LazyLoadCounter("staker_lost_cycle_withdrawals_count")
)
