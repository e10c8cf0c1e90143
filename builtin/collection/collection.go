// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package collection is a registry of non-fungible collectibles.
package collection

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/builtin/reverts"
	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/thor"
)

var (
	slotMeta      = thor.BytesToBytes32([]byte("collection-meta"))
	slotOwners    = thor.BytesToBytes32([]byte("collection-owners"))
	slotOperators = thor.BytesToBytes32([]byte("collection-operators"))
	slotSupply    = thor.BytesToBytes32([]byte("collection-supply"))
)

var (
	ErrNotRegistered = reverts.NewKind(reverts.KindNotFound, "collection not registered")
	ErrTokenNotFound = reverts.NewKind(reverts.KindNotFound, "token not found")
	ErrTokenExists   = reverts.New("token already minted")
	ErrNotApproved   = reverts.NewKind(reverts.KindAuthorization, "caller is not token owner or approved")
)

// TokenID identifies a collectible inside its collection.
type TokenID string

func (id TokenID) Bytes() []byte {
	return []byte(id)
}

func (id TokenID) String() string {
	return string(id)
}

type Meta struct {
	Name   string
	Symbol string
	Minter thor.Address
}

// Collection is the builtin contract of a single collection, bound to the address of its context.
type Collection struct {
	sctx      *solidity.Context
	meta      *solidity.Raw[*Meta]
	owners    *solidity.Mapping[TokenID, thor.Address]
	operators *solidity.Mapping[thor.Bytes32, bool]
	supply    *solidity.Raw[uint64]
}

func New(sctx *solidity.Context) *Collection {
	return &Collection{
		sctx:      sctx,
		meta:      solidity.NewRaw[*Meta](sctx, slotMeta),
		owners:    solidity.NewMapping[TokenID, thor.Address](sctx, slotOwners),
		operators: solidity.NewMapping[thor.Bytes32, bool](sctx, slotOperators),
		supply:    solidity.NewRaw[uint64](sctx, slotSupply),
	}
}

func (c *Collection) Address() thor.Address {
	return c.sctx.Address()
}

func (c *Collection) Register(meta *Meta) error {
	existing, err := c.meta.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get collection meta")
	}
	if existing != nil {
		return reverts.New("collection already registered")
	}
	return c.meta.Upsert(meta)
}

// Meta returns nil if the collection is not registered.
func (c *Collection) Meta() (*Meta, error) {
	meta, err := c.meta.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get collection meta")
	}
	return meta, nil
}

func (c *Collection) requireRegistered() (*Meta, error) {
	meta, err := c.Meta()
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, ErrNotRegistered
	}
	return meta, nil
}

func (c *Collection) Mint(caller thor.Address, id TokenID, to thor.Address) error {
	meta, err := c.requireRegistered()
	if err != nil {
		return err
	}
	if caller != meta.Minter {
		return reverts.NewKind(reverts.KindAuthorization, "caller is not minter")
	}
	if id == "" || to.IsZero() {
		return reverts.New("invalid mint")
	}
	owner, err := c.owners.Get(id)
	if err != nil {
		return errors.Wrap(err, "failed to get token owner")
	}
	if !owner.IsZero() {
		return ErrTokenExists
	}
	if err := c.owners.Insert(id, to); err != nil {
		return errors.Wrap(err, "failed to set token owner")
	}
	supply, err := c.supply.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get supply")
	}
	if err := c.supply.Upsert(supply + 1); err != nil {
		return errors.Wrap(err, "failed to set supply")
	}
	c.sctx.Emit("mint", solidity.NewAttr("token_id", id), solidity.NewAttr("owner", to))
	return nil
}

// OwnerOf fails with ErrTokenNotFound for unknown tokens.
func (c *Collection) OwnerOf(id TokenID) (thor.Address, error) {
	owner, err := c.owners.Get(id)
	if err != nil {
		return thor.Address{}, errors.Wrap(err, "failed to get token owner")
	}
	if owner.IsZero() {
		return thor.Address{}, ErrTokenNotFound
	}
	return owner, nil
}

func (c *Collection) Supply() (uint64, error) {
	return c.supply.Get()
}

func operatorKey(owner, operator thor.Address) thor.Bytes32 {
	return thor.Blake2b(owner.Bytes(), operator.Bytes())
}

func (c *Collection) SetApprovalForAll(owner, operator thor.Address, approved bool) error {
	if _, err := c.requireRegistered(); err != nil {
		return err
	}
	key := operatorKey(owner, operator)
	if approved {
		if err := c.operators.Update(key, true); err != nil {
			return errors.Wrap(err, "failed to set operator")
		}
	} else {
		c.operators.Remove(key)
	}
	c.sctx.Emit("approve_all",
		solidity.NewAttr("owner", owner),
		solidity.NewAttr("operator", operator),
		solidity.NewAttr("approved", approved),
	)
	return nil
}

func (c *Collection) IsApprovedForAll(owner, operator thor.Address) (bool, error) {
	approved, err := c.operators.Get(operatorKey(owner, operator))
	if err != nil {
		return false, errors.Wrap(err, "failed to get operator")
	}
	return approved, nil
}

// Transfer moves token id to recipient. The spender must own the token or be an approved operator.
func (c *Collection) Transfer(spender thor.Address, id TokenID, to thor.Address) error {
	owner, err := c.OwnerOf(id)
	if err != nil {
		return err
	}
	if to.IsZero() {
		return reverts.New("transfer to zero address")
	}
	if spender != owner {
		approved, err := c.IsApprovedForAll(owner, spender)
		if err != nil {
			return err
		}
		if !approved {
			return ErrNotApproved
		}
	}
	if err := c.owners.Update(id, to); err != nil {
		return errors.Wrap(err, "failed to set token owner")
	}
	c.sctx.Emit("transfer_nft",
		solidity.NewAttr("token_id", id),
		solidity.NewAttr("sender", owner),
		solidity.NewAttr("recipient", to),
	)
	return nil
}
