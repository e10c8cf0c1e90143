// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/runtime"
	"github.com/vechain/stakecampaign/thor"
)

// ToAmount converts an amount for responses.
func ToAmount(v *uint256.Int) *math.HexOrDecimal256 {
	if v == nil {
		return (*math.HexOrDecimal256)(new(uint256.Int).ToBig())
	}
	return (*math.HexOrDecimal256)(v.ToBig())
}

// FromAmount converts a request amount, which must be set and fit 256 bits.
func FromAmount(name string, a *math.HexOrDecimal256) (*uint256.Int, error) {
	if a == nil {
		return nil, BadRequest(errors.Errorf("%s: required", name))
	}
	if (*big.Int)(a).Sign() < 0 {
		return nil, BadRequest(errors.Errorf("%s: negative", name))
	}
	v, overflow := uint256.FromBig((*big.Int)(a))
	if overflow {
		return nil, BadRequest(errors.Errorf("%s: overflows 256 bits", name))
	}
	return v, nil
}

// AddressVar parses the path variable name as an address.
func AddressVar(req *http.Request, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return thor.Address{}, BadRequest(errors.WithMessage(err, name))
	}
	return *addr, nil
}

// UintQuery parses the query parameter name, returning def if absent.
func UintQuery(req *http.Request, name string, def uint64) (uint64, error) {
	s := req.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, BadRequest(errors.WithMessage(err, name))
	}
	return v, nil
}

// Caller is embedded by request bodies of mutating calls.
type Caller struct {
	Caller *thor.Address `json:"caller"`
}

func (c *Caller) Address() (thor.Address, error) {
	if c.Caller == nil || c.Caller.IsZero() {
		return thor.Address{}, BadRequest(errors.New("caller: required"))
	}
	return *c.Caller, nil
}

// Receipt is the response of a committed call.
type Receipt struct {
	CallNumber uint32            `json:"callNumber"`
	Time       uint64            `json:"time"`
	Charged    uint64            `json:"charged"`
	Events     []*solidity.Event `json:"events"`
}

func ConvertReceipt(r *runtime.Receipt) *Receipt {
	events := r.Events
	if events == nil {
		events = []*solidity.Event{}
	}
	return &Receipt{
		CallNumber: r.CallNumber,
		Time:       r.Time,
		Charged:    r.Charged,
		Events:     events,
	}
}
