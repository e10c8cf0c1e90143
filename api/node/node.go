// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/api/utils"
	"github.com/vechain/stakecampaign/runtime"
)

type Info struct {
	Version    string `json:"version"`
	CallNumber uint32 `json:"callNumber"`
	LogDB      string `json:"logDB,omitempty"`
}

type Time struct {
	Now    uint64 `json:"now"`
	Manual bool   `json:"manual"`
}

type SetTimeRequest struct {
	Now     *uint64 `json:"now,omitempty"`
	Advance *uint64 `json:"advance,omitempty"`
}

type Node struct {
	host    *runtime.Host
	version string
}

func New(host *runtime.Host, version string) *Node {
	return &Node{
		host,
		version,
	}
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, _ *http.Request) error {
	info := Info{
		Version:    n.version,
		CallNumber: n.host.CallNumber(),
	}
	if db := n.host.LogDB(); db != nil {
		info.LogDB = db.DriverVersion()
	}
	return utils.WriteJSON(w, info)
}

func (n *Node) handleGetTime(w http.ResponseWriter, _ *http.Request) error {
	_, manual := n.host.Clock().(*runtime.ManualClock)
	return utils.WriteJSON(w, Time{
		Now:    n.host.Clock().Now(),
		Manual: manual,
	})
}

// handleSetTime moves a manual clock, used to drive campaigns through their periods in dev mode.
func (n *Node) handleSetTime(w http.ResponseWriter, req *http.Request) error {
	clock, ok := n.host.Clock().(*runtime.ManualClock)
	if !ok {
		return utils.Forbidden(errors.New("clock is not manual"))
	}
	var body SetTimeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	switch {
	case body.Now != nil && body.Advance != nil:
		return utils.BadRequest(errors.New("now and advance are exclusive"))
	case body.Now != nil:
		if !clock.Set(*body.Now) {
			return utils.BadRequest(errors.New("now: time can not go backwards"))
		}
	case body.Advance != nil:
		clock.Advance(*body.Advance)
	default:
		return utils.BadRequest(errors.New("now or advance required"))
	}
	return utils.WriteJSON(w, Time{
		Now:    clock.Now(),
		Manual: true,
	})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/info").
		Methods(http.MethodGet).
		Name("GET /node/info").
		HandlerFunc(utils.WrapHandlerFunc(n.handleNodeInfo))
	sub.Path("/time").
		Methods(http.MethodGet).
		Name("GET /node/time").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetTime))
	sub.Path("/time").
		Methods(http.MethodPost).
		Name("POST /node/time").
		HandlerFunc(utils.WrapHandlerFunc(n.handleSetTime))
}
