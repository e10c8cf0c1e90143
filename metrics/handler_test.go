// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/common/expfmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPHandlerExposition(t *testing.T) {
	InitializePrometheusMetrics()
	t.Cleanup(func() { metrics = defaultNoopMetrics() })
	require.False(t, NoOp())

	CounterVec("scraped_calls", []string{"action"}).AddWithLabel(3, map[string]string{"action": "claim"})

	rr := httptest.NewRecorder()
	HTTPHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(rr.Body)
	require.NoError(t, err)

	mf, ok := families["campaignd_scraped_calls"]
	require.True(t, ok)
	require.Len(t, mf.Metric, 1)
	assert.Equal(t, "claim", mf.Metric[0].GetLabel()[0].GetValue())
	assert.Equal(t, float64(3), mf.Metric[0].GetCounter().GetValue())
}
