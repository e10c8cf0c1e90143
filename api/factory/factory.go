// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package factory

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/api/campaigns"
	"github.com/vechain/stakecampaign/api/utils"
	"github.com/vechain/stakecampaign/builtin/factory"
	"github.com/vechain/stakecampaign/runtime"
	"github.com/vechain/stakecampaign/thor"
)

type Factory struct {
	host *runtime.Host
}

func New(host *runtime.Host) *Factory {
	return &Factory{host}
}

type Config struct {
	Owner thor.Address `json:"owner"`
}

type UpdateConfigRequest struct {
	utils.Caller
	Owner *thor.Address `json:"owner"`
}

type CreateRequest struct {
	utils.Caller
	campaigns.Params
}

type Entry struct {
	ID                uint64                `json:"id"`
	Owner             thor.Address          `json:"owner"`
	CampaignAddress   thor.Address          `json:"campaignAddress"`
	RewardAsset       campaigns.RewardAsset `json:"rewardAsset"`
	AllowedCollection thor.Address          `json:"allowedCollection"`
}

func convertEntry(e *factory.Entry) *Entry {
	return &Entry{
		ID:                uint64(e.ID),
		Owner:             e.Owner,
		CampaignAddress:   e.CampaignAddress,
		RewardAsset:       campaigns.ConvertAsset(e.RewardAsset),
		AllowedCollection: e.AllowedCollection,
	}
}

type CreateResult struct {
	*utils.Receipt
	Campaign *Entry `json:"campaign"`
}

func (f *Factory) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	var cfg *factory.Config
	if err := f.host.Query(func(env *runtime.Env) (err error) {
		cfg, err = env.Factory().Config()
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, &Config{Owner: cfg.Owner})
}

func (f *Factory) handleUpdateConfig(w http.ResponseWriter, req *http.Request) error {
	var body UpdateConfigRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := body.Address()
	if err != nil {
		return err
	}
	if body.Owner == nil {
		return utils.BadRequest(errors.New("owner: required"))
	}
	receipt, err := f.host.Execute(caller, "update_config", runtime.FactoryAddress, func(env *runtime.Env) error {
		return env.Factory().UpdateConfig(caller, *body.Owner)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (f *Factory) handleCreateCampaign(w http.ResponseWriter, req *http.Request) error {
	var body CreateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := body.Address()
	if err != nil {
		return err
	}
	params, err := body.Params.Params()
	if err != nil {
		return err
	}
	var entry *factory.Entry
	receipt, err := f.host.Execute(caller, "create_campaign", runtime.FactoryAddress, func(env *runtime.Env) (err error) {
		entry, err = env.Factory().CreateCampaign(caller, params, env.Now)
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &CreateResult{Receipt: utils.ConvertReceipt(receipt), Campaign: convertEntry(entry)})
}

func (f *Factory) handleGetCampaigns(w http.ResponseWriter, req *http.Request) error {
	startAfter, err := utils.UintQuery(req, "startAfter", 0)
	if err != nil {
		return err
	}
	limit, err := utils.UintQuery(req, "limit", factory.DefaultQueryLimit)
	if err != nil {
		return err
	}
	var list []*factory.Entry
	if err := f.host.Query(func(env *runtime.Env) (err error) {
		list, err = env.Factory().Campaigns(factory.ID(startAfter), limit)
		return err
	}); err != nil {
		return err
	}
	result := make([]*Entry, len(list))
	for i, e := range list {
		result[i] = convertEntry(e)
	}
	return utils.WriteJSON(w, result)
}

func (f *Factory) handleGetCampaign(w http.ResponseWriter, req *http.Request) error {
	id, err := strconv.ParseUint(mux.Vars(req)["id"], 10, 64)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	var entry *factory.Entry
	if err := f.host.Query(func(env *runtime.Env) (err error) {
		entry, err = env.Factory().Campaign(factory.ID(id))
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, convertEntry(entry))
}

func (f *Factory) handleGetAddresses(w http.ResponseWriter, _ *http.Request) error {
	var addrs []thor.Address
	if err := f.host.Query(func(env *runtime.Env) (err error) {
		addrs, err = env.Factory().Addresses()
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, addrs)
}

func (f *Factory) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/config").
		Methods(http.MethodGet).
		Name("GET /factory/config").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetConfig))
	sub.Path("/config").
		Methods(http.MethodPost).
		Name("POST /factory/config").
		HandlerFunc(utils.WrapHandlerFunc(f.handleUpdateConfig))
	sub.Path("/campaigns").
		Methods(http.MethodPost).
		Name("POST /factory/campaigns").
		HandlerFunc(utils.WrapHandlerFunc(f.handleCreateCampaign))
	sub.Path("/campaigns").
		Methods(http.MethodGet).
		Name("GET /factory/campaigns").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetCampaigns))
	sub.Path("/campaigns/{id}").
		Methods(http.MethodGet).
		Name("GET /factory/campaigns/{id}").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetCampaign))
	sub.Path("/addresses").
		Methods(http.MethodGet).
		Name("GET /factory/addresses").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetAddresses))
}
