// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package collections

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/api/utils"
	"github.com/vechain/stakecampaign/builtin/collection"
	"github.com/vechain/stakecampaign/runtime"
	"github.com/vechain/stakecampaign/thor"
)

type Collections struct {
	host *runtime.Host
}

func New(host *runtime.Host) *Collections {
	return &Collections{host}
}

type Collection struct {
	Address thor.Address `json:"address"`
	Name    string       `json:"name"`
	Symbol  string       `json:"symbol"`
	Minter  thor.Address `json:"minter"`
	Supply  uint64       `json:"supply"`
}

type Item struct {
	ID    string       `json:"id"`
	Owner thor.Address `json:"owner"`
}

type TransferRequest struct {
	utils.Caller
	TokenID string        `json:"tokenId"`
	To      *thor.Address `json:"to"`
}

type ApproveRequest struct {
	utils.Caller
	Operator *thor.Address `json:"operator"`
	Approved bool          `json:"approved"`
}

func bind(env *runtime.Env, req *http.Request) (*collection.Collection, *collection.Meta, error) {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return nil, nil, err
	}
	c := env.Collection(addr)
	meta, err := c.Meta()
	if err != nil {
		return nil, nil, err
	}
	if meta == nil {
		return nil, nil, collection.ErrNotRegistered
	}
	return c, meta, nil
}

func (c *Collections) handleGetCollection(w http.ResponseWriter, req *http.Request) error {
	var result *Collection
	if err := c.host.Query(func(env *runtime.Env) error {
		coll, meta, err := bind(env, req)
		if err != nil {
			return err
		}
		supply, err := coll.Supply()
		if err != nil {
			return err
		}
		result = &Collection{
			Address: coll.Address(),
			Name:    meta.Name,
			Symbol:  meta.Symbol,
			Minter:  meta.Minter,
			Supply:  supply,
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (c *Collections) handleGetItem(w http.ResponseWriter, req *http.Request) error {
	id := collection.TokenID(mux.Vars(req)["id"])
	var result *Item
	if err := c.host.Query(func(env *runtime.Env) error {
		coll, _, err := bind(env, req)
		if err != nil {
			return err
		}
		owner, err := coll.OwnerOf(id)
		if err != nil {
			return err
		}
		result = &Item{ID: string(id), Owner: owner}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (c *Collections) handleGetApproval(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req, "owner")
	if err != nil {
		return err
	}
	operator, err := utils.AddressVar(req, "operator")
	if err != nil {
		return err
	}
	var approved bool
	if err := c.host.Query(func(env *runtime.Env) error {
		coll, _, err := bind(env, req)
		if err != nil {
			return err
		}
		approved, err = coll.IsApprovedForAll(owner, operator)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"approved": approved})
}

func (c *Collections) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	var body TransferRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := body.Address()
	if err != nil {
		return err
	}
	if body.To == nil {
		return utils.BadRequest(errors.New("to: required"))
	}
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	receipt, err := c.host.Execute(caller, "transfer_nft", addr, func(env *runtime.Env) error {
		coll, _, err := bind(env, req)
		if err != nil {
			return err
		}
		return coll.Transfer(caller, collection.TokenID(body.TokenID), *body.To)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (c *Collections) handleApprove(w http.ResponseWriter, req *http.Request) error {
	var body ApproveRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := body.Address()
	if err != nil {
		return err
	}
	if body.Operator == nil {
		return utils.BadRequest(errors.New("operator: required"))
	}
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	receipt, err := c.host.Execute(caller, "approve_all", addr, func(env *runtime.Env) error {
		coll, _, err := bind(env, req)
		if err != nil {
			return err
		}
		return coll.SetApprovalForAll(caller, *body.Operator, body.Approved)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (c *Collections) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /collections/{address}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetCollection))
	sub.Path("/{address}/tokens/{id}").
		Methods(http.MethodGet).
		Name("GET /collections/{address}/tokens/{id}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetItem))
	sub.Path("/{address}/approvals/{owner}/{operator}").
		Methods(http.MethodGet).
		Name("GET /collections/{address}/approvals/{owner}/{operator}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetApproval))
	sub.Path("/{address}/transfer").
		Methods(http.MethodPost).
		Name("POST /collections/{address}/transfer").
		HandlerFunc(utils.WrapHandlerFunc(c.handleTransfer))
	sub.Path("/{address}/approve").
		Methods(http.MethodPost).
		Name("POST /collections/{address}/approve").
		HandlerFunc(utils.WrapHandlerFunc(c.handleApprove))
}
