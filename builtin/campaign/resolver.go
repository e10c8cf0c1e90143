// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package campaign

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/builtin/collection"
	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/builtin/token"
	"github.com/vechain/stakecampaign/thor"
)

// Resolver binds collaborators to the builtin token and collection contracts sharing the
// state of sctx.
type Resolver struct {
	sctx *solidity.Context
}

func NewResolver(sctx *solidity.Context) *Resolver {
	return &Resolver{sctx: sctx}
}

func (r *Resolver) Ledger(addr thor.Address) (Ledger, error) {
	t := token.New(r.sctx.At(addr))
	meta, err := t.Meta()
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, errors.Errorf("token %s not registered", addr)
	}
	return t, nil
}

func (r *Resolver) Registry(addr thor.Address) (Registry, error) {
	c := collection.New(r.sctx.At(addr))
	meta, err := c.Meta()
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, errors.Errorf("collection %s not registered", addr)
	}
	return c, nil
}
