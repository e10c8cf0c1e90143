// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package campaign

import "github.com/vechain/stakecampaign/metrics"

var (
	metricActionCount  = metrics.LazyLoadCounterVec("campaign_action_count", []string{"action", "result"})
	metricSettleStakes = metrics.LazyLoadHistogram("campaign_settle_stakes", metrics.BucketStakes)
)

func observeAction(action string, err error) {
	result := "ok"
	if err != nil {
		result = "revert"
	}
	metricActionCount().AddWithLabel(1, map[string]string{"action": action, "result": result})
}
