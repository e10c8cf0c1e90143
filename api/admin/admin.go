// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/api/utils"
	"github.com/vechain/stakecampaign/co"
	"github.com/vechain/stakecampaign/health"
	"github.com/vechain/stakecampaign/log"
)

type LogLevelRequest struct {
	Level string `json:"level"`
}

type LogLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

type LogStatus struct {
	Enabled bool `json:"enabled"`
}

type Admin struct {
	logLevel    *slog.LevelVar
	logRequests *atomic.Bool
	health      *health.Health
}

func New(logLevel *slog.LevelVar, logRequests *atomic.Bool, health *health.Health) *Admin {
	return &Admin{
		logLevel:    logLevel,
		logRequests: logRequests,
		health:      health,
	}
}

func (a *Admin) getHealthHandler(w http.ResponseWriter, _ *http.Request) error {
	status := a.health.Status()
	if !status.Healthy {
		w.Header().Set("Content-Type", utils.JSONContentType)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, status)
}

func (a *Admin) getLogLevelHandler(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, LogLevelResponse{
		CurrentLevel: a.logLevel.Level().String(),
	})
}

func (a *Admin) postLogLevelHandler(w http.ResponseWriter, r *http.Request) error {
	var req LogLevelRequest
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "Invalid request body"))
	}

	switch req.Level {
	case "debug":
		a.logLevel.Set(log.LevelDebug)
	case "info":
		a.logLevel.Set(log.LevelInfo)
	case "warn":
		a.logLevel.Set(log.LevelWarn)
	case "error":
		a.logLevel.Set(log.LevelError)
	case "trace":
		a.logLevel.Set(log.LevelTrace)
	case "crit":
		a.logLevel.Set(log.LevelCrit)
	default:
		return utils.BadRequest(errors.New("Invalid verbosity level"))
	}

	return utils.WriteJSON(w, LogLevelResponse{
		CurrentLevel: a.logLevel.Level().String(),
	})
}

func (a *Admin) getRequestLoggerEnabled(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, LogStatus{
		Enabled: a.logRequests.Load(),
	})
}

func (a *Admin) postRequestLogger(w http.ResponseWriter, r *http.Request) error {
	var req LogStatus
	if err := utils.ParseJSON(r.Body, &req); err != nil {
		return utils.BadRequest(err)
	}
	a.logRequests.Store(req.Enabled)

	log.Info("api logs updated", "pkg", "admin", "enabled", req.Enabled)

	return utils.WriteJSON(w, LogStatus{
		Enabled: a.logRequests.Load(),
	})
}

func (a *Admin) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/health").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(utils.WrapHandlerFunc(a.getHealthHandler))

	sub.Path("/loglevel").
		Methods(http.MethodGet).
		Name("get-log-level").
		HandlerFunc(utils.WrapHandlerFunc(a.getLogLevelHandler))
	sub.Path("/loglevel").
		Methods(http.MethodPost).
		Name("post-log-level").
		HandlerFunc(utils.WrapHandlerFunc(a.postLogLevelHandler))

	sub.Path("/apilogs").
		Methods(http.MethodGet).
		Name("get-api-logs-enabled").
		HandlerFunc(utils.WrapHandlerFunc(a.getRequestLoggerEnabled))
	sub.Path("/apilogs").
		Methods(http.MethodPost).
		Name("post-api-logs-enabled").
		HandlerFunc(utils.WrapHandlerFunc(a.postRequestLogger))
}

// StartServer serves the admin API on addr until the returned func is called.
func StartServer(addr string, logLevel *slog.LevelVar, logRequests *atomic.Bool, health *health.Health) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen admin API addr [%v]", addr)
	}

	router := mux.NewRouter()
	New(logLevel, logRequests, health).Mount(router, "/admin")
	handler := handlers.CompressHandler(router)

	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/admin", func() {
		srv.Close()
		goes.Wait()
	}, nil
}
