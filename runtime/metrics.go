// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/vechain/stakecampaign/metrics"

var (
	metricCallCount  = metrics.LazyLoadCounterVec("runtime_call_count", []string{"action", "result"})
	metricCallCharge = metrics.LazyLoadHistogram("runtime_call_charge", []int64{
		0, 1_000, 5_000, 20_000, 50_000, 100_000, 250_000, 500_000, 1_000_000, 5_000_000,
	})
)

func observeCall(action string, err error) {
	result := "committed"
	if err != nil {
		result = "reverted"
	}
	metricCallCount().AddWithLabel(1, map[string]string{"action": action, "result": result})
}
