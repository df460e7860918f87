// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"sort"
	"strconv"
	"strings"

	"github.com/vechain/nftstaking/metrics"
)

var (
	metricCommittedLogs = metrics.LazyLoadCounterVec("logdb_committed_logs_count", []string{"type"})
	metricQueries       = metrics.LazyLoadCounterVec("logdb_query_count", []string{"type", "order", "range"})
	metricCriteria      = metrics.LazyLoadHistogramVec("logdb_query_criteria", []string{"type"}, []int64{0, 1, 2, 5, 10, 25})
	metricFields        = metrics.LazyLoadCounterVec("logdb_query_fields", []string{"type", "fields"})
	metricLimit         = metrics.LazyLoadHistogramVec("logdb_query_limit", []string{"type"}, []int64{0, 10, 50, 100, 500, 1000})
)

func observeQuery(kind string, rng *Range, opts *Options, order Order, fieldSets []string) {
	rangeLabel := "none"
	if rng != nil {
		rangeLabel = string(rng.Unit)
	}
	if order != DESC {
		order = ASC
	}
	metricQueries().AddWithLabel(1, map[string]string{"type": kind, "order": string(order), "range": rangeLabel})
	metricCriteria().ObserveWithLabels(int64(len(fieldSets)), map[string]string{"type": kind})
	for _, fields := range fieldSets {
		metricFields().AddWithLabel(1, map[string]string{"type": kind, "fields": fields})
	}
	if opts != nil {
		metricLimit().ObserveWithLabels(int64(min(opts.Limit, 1001)), map[string]string{"type": kind})
	}
}

func observeEventFilter(filter *EventFilter) {
	sets := make([]string, 0, len(filter.CriteriaSet))
	for _, c := range filter.CriteriaSet {
		var used []string
		if c.Address != nil {
			used = append(used, "address")
		}
		for i, topic := range c.Topics {
			if topic != nil {
				used = append(used, "topic"+strconv.Itoa(i))
			}
		}
		sets = append(sets, strings.Join(used, ","))
	}
	observeQuery("event", filter.Range, filter.Options, filter.Order, sets)
}

func observeTransferFilter(filter *TransferFilter) {
	sets := make([]string, 0, len(filter.CriteriaSet))
	for _, c := range filter.CriteriaSet {
		var used []string
		for name, set := range map[string]bool{
			"origin":    c.TxOrigin != nil,
			"token":     c.Token != nil,
			"sender":    c.Sender != nil,
			"recipient": c.Recipient != nil,
		} {
			if set {
				used = append(used, name)
			}
		}
		sort.Strings(used)
		sets = append(sets, strings.Join(used, ","))
	}
	observeQuery("transfer", filter.Range, filter.Options, filter.Order, sets)
}
