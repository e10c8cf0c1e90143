// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/stakecampaign/thor"
)

// DevAccounts are funded and hold collectibles in the dev genesis.
var DevAccounts = []thor.Address{
	thor.MustParseAddress("0xf077b491b355e64048ce21e3a6fc4751eeea77fa"),
	thor.MustParseAddress("0x435933c8064b4ae76be665428e0307ef2ccfbd68"),
	thor.MustParseAddress("0x0f872421dc479f3c11edd89512731814d0598db5"),
}

var (
	DevRewardToken = thor.MustParseAddress("0x000000000000000000000000000000000000d0e1")
	DevCollection  = thor.MustParseAddress("0x000000000000000000000000000000000000c011")
)

const devItemsPerAccount = 5

// NewDevnet returns the dev genesis: the first dev account owns the factory and mints, every
// account gets 10^24 reward units and devItemsPerAccount collectibles.
func NewDevnet(launchTime uint64) *Genesis {
	minter := DevAccounts[0]
	amount := (*math.HexOrDecimal256)(new(big.Int).Exp(big.NewInt(10), big.NewInt(24), nil))

	gen := &Genesis{
		LaunchTime: launchTime,
		Factory:    Factory{Owner: minter},
		Tokens: []Token{{
			Address:  DevRewardToken,
			Name:     "Dev Reward",
			Symbol:   "DRW",
			Decimals: 18,
			Minter:   minter,
		}},
		Collections: []Collection{{
			Address: DevCollection,
			Name:    "Dev Collectibles",
			Symbol:  "DCL",
			Minter:  minter,
		}},
	}
	for i, acc := range DevAccounts {
		gen.Tokens[0].Balances = append(gen.Tokens[0].Balances, Balance{Address: acc, Amount: amount})
		for j := range devItemsPerAccount {
			id := fmt.Sprint(i*devItemsPerAccount + j + 1)
			gen.Collections[0].Items = append(gen.Collections[0].Items, Item{ID: id, Owner: acc})
		}
	}
	return gen
}
