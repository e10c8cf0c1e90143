// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package campaigns

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/api/utils"
	"github.com/vechain/stakecampaign/builtin/campaign"
	"github.com/vechain/stakecampaign/builtin/collection"
	"github.com/vechain/stakecampaign/runtime"
	"github.com/vechain/stakecampaign/thor"
)

type Campaigns struct {
	host *runtime.Host
}

func New(host *runtime.Host) *Campaigns {
	return &Campaigns{host}
}

// query runs fn against the campaign in the path.
func (c *Campaigns) query(req *http.Request, fn func(addr thor.Address, cp *campaign.Campaign, now uint64) error) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	return c.host.Query(func(env *runtime.Env) error {
		cp, err := env.Campaign(addr)
		if err != nil {
			return err
		}
		return fn(addr, cp, env.Now)
	})
}

// execute runs fn as a call of caller against the campaign in the path.
func (c *Campaigns) execute(req *http.Request, caller thor.Address, action string, fn func(cp *campaign.Campaign, now uint64) error) (*runtime.Receipt, error) {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return nil, err
	}
	return c.host.Execute(caller, action, addr, func(env *runtime.Env) error {
		cp, err := env.Campaign(addr)
		if err != nil {
			return err
		}
		return fn(cp, env.Now)
	})
}

func (c *Campaigns) handleGetCampaign(w http.ResponseWriter, req *http.Request) error {
	var result *Campaign
	if err := c.query(req, func(addr thor.Address, cp *campaign.Campaign, _ uint64) error {
		info, err := cp.Info()
		if err != nil {
			return err
		}
		result = convertCampaign(addr, info)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (c *Campaigns) handleGetStakes(w http.ResponseWriter, req *http.Request) error {
	limit, err := utils.UintQuery(req, "limit", campaign.DefaultQueryLimit)
	if err != nil {
		return err
	}
	var result []*Stake
	if err := c.query(req, func(_ thor.Address, cp *campaign.Campaign, now uint64) error {
		list, err := cp.Stakes(limit, now)
		if err != nil {
			return err
		}
		result = convertStakes(list)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (c *Campaigns) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	id := collection.TokenID(mux.Vars(req)["id"])
	var result *Stake
	if err := c.query(req, func(_ thor.Address, cp *campaign.Campaign, now uint64) error {
		s, err := cp.StakeInfo(id, now)
		if err != nil {
			return err
		}
		result = convertStake(s)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (c *Campaigns) handleGetRawStake(w http.ResponseWriter, req *http.Request) error {
	id := collection.TokenID(mux.Vars(req)["id"])
	var result *Stake
	if err := c.query(req, func(_ thor.Address, cp *campaign.Campaign, _ uint64) error {
		s, err := cp.RawStake(id)
		if err != nil {
			return err
		}
		result = convertStake(s)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (c *Campaigns) handleGetStaker(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req, "owner")
	if err != nil {
		return err
	}
	var result *StakerInfo
	if err := c.query(req, func(_ thor.Address, cp *campaign.Campaign, now uint64) error {
		info, err := cp.StakerInfo(owner, now)
		if err != nil {
			return err
		}
		result = &StakerInfo{
			Stakes:        convertStakes(info.Stakes),
			RewardDebt:    utils.ToAmount(info.RewardDebt),
			RewardClaimed: utils.ToAmount(info.RewardClaimed),
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (c *Campaigns) handleGetPendingReward(w http.ResponseWriter, req *http.Request) error {
	var total *uint256.Int
	if err := c.query(req, func(_ thor.Address, cp *campaign.Campaign, now uint64) (err error) {
		total, err = cp.TotalPendingReward(now)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"amount": utils.ToAmount(total)})
}

func (c *Campaigns) handleGetTokenIDs(w http.ResponseWriter, req *http.Request) error {
	var ids []string
	if err := c.query(req, func(_ thor.Address, cp *campaign.Campaign, _ uint64) error {
		list, err := cp.TokenIDs()
		if err != nil {
			return err
		}
		ids = make([]string, len(list))
		for i, id := range list {
			ids[i] = string(id)
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, ids)
}

func (c *Campaigns) handleFund(w http.ResponseWriter, req *http.Request) error {
	var body FundRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := body.Address()
	if err != nil {
		return err
	}
	amount, err := utils.FromAmount("amount", body.Amount)
	if err != nil {
		return err
	}
	receipt, err := c.execute(req, caller, "fund", func(cp *campaign.Campaign, now uint64) error {
		return cp.Fund(caller, amount, now)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (c *Campaigns) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := body.Address()
	if err != nil {
		return err
	}
	receipt, err := c.execute(req, caller, "stake", func(cp *campaign.Campaign, now uint64) error {
		return cp.Stake(caller, body.requests(), now)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (c *Campaigns) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	var body UnstakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := body.Address()
	if err != nil {
		return err
	}
	receipt, err := c.execute(req, caller, "unstake", func(cp *campaign.Campaign, now uint64) error {
		return cp.Unstake(caller, collection.TokenID(body.TokenID), now)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (c *Campaigns) handleClaim(w http.ResponseWriter, req *http.Request) error {
	var body ClaimRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := body.Address()
	if err != nil {
		return err
	}
	amount, err := utils.FromAmount("amount", body.Amount)
	if err != nil {
		return err
	}
	receipt, err := c.execute(req, caller, "claim", func(cp *campaign.Campaign, now uint64) error {
		return cp.Claim(caller, amount, now)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (c *Campaigns) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body WithdrawRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := body.Address()
	if err != nil {
		return err
	}
	var amount *uint256.Int
	receipt, err := c.execute(req, caller, "withdraw", func(cp *campaign.Campaign, now uint64) (err error) {
		amount, err = cp.WithdrawRemainder(caller, now)
		return err
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &WithdrawResult{Receipt: utils.ConvertReceipt(receipt), Amount: utils.ToAmount(amount)})
}

func (c *Campaigns) handleUpdate(w http.ResponseWriter, req *http.Request) error {
	var body UpdateRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := body.Address()
	if err != nil {
		return err
	}
	receipt, err := c.execute(req, caller, "update", func(cp *campaign.Campaign, now uint64) error {
		return cp.Update(caller, body.update(), now)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (c *Campaigns) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /campaigns/{address}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetCampaign))
	sub.Path("/{address}/nfts").
		Methods(http.MethodGet).
		Name("GET /campaigns/{address}/nfts").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetStakes))
	sub.Path("/{address}/nfts/{id}").
		Methods(http.MethodGet).
		Name("GET /campaigns/{address}/nfts/{id}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetStake))
	sub.Path("/{address}/nfts/{id}/raw").
		Methods(http.MethodGet).
		Name("GET /campaigns/{address}/nfts/{id}/raw").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetRawStake))
	sub.Path("/{address}/stakers/{owner}").
		Methods(http.MethodGet).
		Name("GET /campaigns/{address}/stakers/{owner}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetStaker))
	sub.Path("/{address}/pending-reward").
		Methods(http.MethodGet).
		Name("GET /campaigns/{address}/pending-reward").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetPendingReward))
	sub.Path("/{address}/token-ids").
		Methods(http.MethodGet).
		Name("GET /campaigns/{address}/token-ids").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetTokenIDs))

	sub.Path("/{address}/fund").
		Methods(http.MethodPost).
		Name("POST /campaigns/{address}/fund").
		HandlerFunc(utils.WrapHandlerFunc(c.handleFund))
	sub.Path("/{address}/stake").
		Methods(http.MethodPost).
		Name("POST /campaigns/{address}/stake").
		HandlerFunc(utils.WrapHandlerFunc(c.handleStake))
	sub.Path("/{address}/unstake").
		Methods(http.MethodPost).
		Name("POST /campaigns/{address}/unstake").
		HandlerFunc(utils.WrapHandlerFunc(c.handleUnstake))
	sub.Path("/{address}/claim").
		Methods(http.MethodPost).
		Name("POST /campaigns/{address}/claim").
		HandlerFunc(utils.WrapHandlerFunc(c.handleClaim))
	sub.Path("/{address}/withdraw").
		Methods(http.MethodPost).
		Name("POST /campaigns/{address}/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(c.handleWithdraw))
	sub.Path("/{address}/update").
		Methods(http.MethodPost).
		Name("POST /campaigns/{address}/update").
		HandlerFunc(utils.WrapHandlerFunc(c.handleUpdate))
}
