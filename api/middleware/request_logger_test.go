// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakecampaign/log"
)

// recordingLogger keeps the key values of Info and Warn calls.
type recordingLogger struct {
	kvs []any
}

func (r *recordingLogger) With(_ ...any) log.Logger                     { return r }
func (r *recordingLogger) Trace(_ string, _ ...any)                     {}
func (r *recordingLogger) Debug(_ string, _ ...any)                     {}
func (r *recordingLogger) Error(_ string, _ ...any)                     {}
func (r *recordingLogger) Crit(_ string, _ ...any)                      {}
func (r *recordingLogger) Enabled(_ context.Context, _ slog.Level) bool { return true }
func (r *recordingLogger) Info(_ string, ctx ...any)                    { r.kvs = append(r.kvs, ctx...) }
func (r *recordingLogger) Warn(_ string, ctx ...any)                    { r.kvs = append(r.kvs, ctx...) }

func (r *recordingLogger) value(key string) (any, bool) {
	for i := 0; i+1 < len(r.kvs); i += 2 {
		if r.kvs[i] == key {
			return r.kvs[i+1], true
		}
	}
	return nil, false
}

func respond(status int, delay time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(delay)
		if status != 0 {
			w.WriteHeader(status)
		}
		w.Write([]byte(http.StatusText(status)))
	}
}

func TestRequestLoggerMiddleware(t *testing.T) {
	cases := []struct {
		name      string
		handler   http.HandlerFunc
		enabled   bool
		slow      time.Duration
		log5xx    bool
		status    int
		shouldLog bool
	}{
		{"enabled", respond(http.StatusOK, 0), true, 0, false, http.StatusOK, true},
		{"disabled", respond(http.StatusOK, 0), false, 0, false, http.StatusOK, false},
		{"slow claim", respond(http.StatusOK, 15*time.Millisecond), false, 10 * time.Millisecond, false, http.StatusOK, true},
		{"fast claim", respond(http.StatusOK, 0), false, time.Second, false, http.StatusOK, false},
		{"server error", respond(http.StatusInternalServerError, 0), false, 0, true, http.StatusInternalServerError, true},
		{"server error not tracked", respond(http.StatusInternalServerError, 0), false, 0, false, http.StatusInternalServerError, false},
		{"revert", respond(http.StatusUnprocessableEntity, 0), false, 0, true, http.StatusUnprocessableEntity, false},
		{"implicit ok", respond(0, 0), false, 0, true, http.StatusOK, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger := &recordingLogger{}
			var enabled atomic.Bool
			enabled.Store(tc.enabled)

			body := `{"caller":"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed","amount":"3000"}`
			req := httptest.NewRequest(http.MethodPost, "http://localhost/campaigns/0x01/claim", strings.NewReader(body))
			rr := httptest.NewRecorder()
			RequestLoggerMiddleware(logger, &enabled, tc.slow, tc.log5xx)(tc.handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.status, rr.Code)
			if !tc.shouldLog {
				assert.Empty(t, logger.kvs)
				return
			}
			for key, want := range map[string]any{
				"URI":    "http://localhost/campaigns/0x01/claim",
				"Method": http.MethodPost,
				"Body":   body,
				"Status": tc.status,
			} {
				got, ok := logger.value(key)
				require.True(t, ok, "%s not logged", key)
				assert.Equal(t, want, got)
			}
			ts, ok := logger.value("Timestamp")
			require.True(t, ok)
			assert.IsType(t, int64(0), ts)
		})
	}
}
