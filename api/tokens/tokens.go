// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/api/utils"
	"github.com/vechain/stakecampaign/builtin/token"
	"github.com/vechain/stakecampaign/runtime"
	"github.com/vechain/stakecampaign/thor"
)

type Tokens struct {
	host *runtime.Host
}

func New(host *runtime.Host) *Tokens {
	return &Tokens{host}
}

type Token struct {
	Address     thor.Address          `json:"address"`
	Name        string                `json:"name"`
	Symbol      string                `json:"symbol"`
	Decimals    uint8                 `json:"decimals"`
	Minter      thor.Address          `json:"minter"`
	TotalSupply *math.HexOrDecimal256 `json:"totalSupply"`
}

type TransferRequest struct {
	utils.Caller
	To     *thor.Address         `json:"to"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type ApproveRequest struct {
	utils.Caller
	Spender *thor.Address         `json:"spender"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

func registered(t *token.Token) error {
	meta, err := t.Meta()
	if err != nil {
		return err
	}
	if meta == nil {
		return token.ErrNotRegistered
	}
	return nil
}

func (t *Tokens) query(req *http.Request, fn func(tk *token.Token) error) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	return t.host.Query(func(env *runtime.Env) error {
		tk := env.Token(addr)
		if err := registered(tk); err != nil {
			return err
		}
		return fn(tk)
	})
}

func (t *Tokens) execute(req *http.Request, caller thor.Address, action string, fn func(tk *token.Token) error) (*runtime.Receipt, error) {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return nil, err
	}
	return t.host.Execute(caller, action, addr, func(env *runtime.Env) error {
		tk := env.Token(addr)
		if err := registered(tk); err != nil {
			return err
		}
		return fn(tk)
	})
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	var result *Token
	if err := t.query(req, func(tk *token.Token) error {
		meta, err := tk.Meta()
		if err != nil {
			return err
		}
		supply, err := tk.TotalSupply()
		if err != nil {
			return err
		}
		result = &Token{
			Address:     tk.Address(),
			Name:        meta.Name,
			Symbol:      meta.Symbol,
			Decimals:    meta.Decimals,
			Minter:      meta.Minter,
			TotalSupply: utils.ToAmount(supply),
		}
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, result)
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	holder, err := utils.AddressVar(req, "holder")
	if err != nil {
		return err
	}
	var bal *uint256.Int
	if err := t.query(req, func(tk *token.Token) (err error) {
		bal, err = tk.BalanceOf(holder)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"balance": utils.ToAmount(bal)})
}

func (t *Tokens) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	owner, err := utils.AddressVar(req, "owner")
	if err != nil {
		return err
	}
	spender, err := utils.AddressVar(req, "spender")
	if err != nil {
		return err
	}
	var allowance *uint256.Int
	if err := t.query(req, func(tk *token.Token) (err error) {
		allowance, err = tk.Allowance(owner, spender)
		return err
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"allowance": utils.ToAmount(allowance)})
}

func (t *Tokens) handleTransfer(w http.ResponseWriter, req *http.Request) error {
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
	amount, err := utils.FromAmount("amount", body.Amount)
	if err != nil {
		return err
	}
	receipt, err := t.execute(req, caller, "transfer", func(tk *token.Token) error {
		return tk.Transfer(caller, *body.To, amount)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (t *Tokens) handleApprove(w http.ResponseWriter, req *http.Request) error {
	var body ApproveRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	caller, err := body.Address()
	if err != nil {
		return err
	}
	if body.Spender == nil {
		return utils.BadRequest(errors.New("spender: required"))
	}
	amount, err := utils.FromAmount("amount", body.Amount)
	if err != nil {
		return err
	}
	receipt, err := t.execute(req, caller, "approve", func(tk *token.Token) error {
		return tk.Approve(caller, *body.Spender, amount)
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.ConvertReceipt(receipt))
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetToken))
	sub.Path("/{address}/balances/{holder}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}/balances/{holder}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
	sub.Path("/{address}/allowances/{owner}/{spender}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}/allowances/{owner}/{spender}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetAllowance))
	sub.Path("/{address}/transfer").
		Methods(http.MethodPost).
		Name("POST /tokens/{address}/transfer").
		HandlerFunc(utils.WrapHandlerFunc(t.handleTransfer))
	sub.Path("/{address}/approve").
		Methods(http.MethodPost).
		Name("POST /tokens/{address}/approve").
		HandlerFunc(utils.WrapHandlerFunc(t.handleApprove))
}
