// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/vechain/stakecampaign/metrics"

var (
	metricCacheCounter = metrics.LazyLoadCounterVec("state_cache_count", []string{"event"})
	metricStageSize    = metrics.LazyLoadHistogram("state_stage_slots", []int64{0, 1, 2, 5, 10, 20, 50, 100, 200, 500, 1000})
)
