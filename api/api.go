// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/stakecampaign/api/campaigns"
	"github.com/vechain/stakecampaign/api/collections"
	"github.com/vechain/stakecampaign/api/events"
	"github.com/vechain/stakecampaign/api/factory"
	"github.com/vechain/stakecampaign/api/middleware"
	"github.com/vechain/stakecampaign/api/node"
	"github.com/vechain/stakecampaign/api/subscriptions"
	"github.com/vechain/stakecampaign/api/tokens"
	"github.com/vechain/stakecampaign/log"
	"github.com/vechain/stakecampaign/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	Version              string
	PprofOn              bool
	SkipLogs             bool
	EnableMetrics        bool
	LogsLimit            uint64
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
}

// New return api router
func New(host *runtime.Host, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	factory.New(host).
		Mount(router, "/factory")
	campaigns.New(host).
		Mount(router, "/campaigns")
	tokens.New(host).
		Mount(router, "/tokens")
	collections.New(host).
		Mount(router, "/collections")
	if !opts.SkipLogs {
		events.New(host.LogDB(), opts.LogsLimit).
			Mount(router, "/logs/event")
	}
	node.New(host, opts.Version).
		Mount(router, "/node")
	subs := subscriptions.New(host, origins)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
	)(handler)

	if opts.EnableReqLogger != nil {
		handler = middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)
	}

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
