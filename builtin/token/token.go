// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token is a fungible asset ledger.
package token

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/builtin/reverts"
	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/thor"
)

var (
	slotMeta        = thor.BytesToBytes32([]byte("token-meta"))
	slotBalances    = thor.BytesToBytes32([]byte("token-balances"))
	slotAllowances  = thor.BytesToBytes32([]byte("token-allowances"))
	slotTotalSupply = thor.BytesToBytes32([]byte("token-total-supply"))
)

var (
	ErrNotRegistered         = reverts.NewKind(reverts.KindNotFound, "token not registered")
	ErrInsufficientBalance   = reverts.NewKind(reverts.KindInsufficientBalance, "insufficient balance")
	ErrInsufficientAllowance = reverts.NewKind(reverts.KindInsufficientBalance, "insufficient allowance")
)

type Meta struct {
	Name     string
	Symbol   string
	Decimals uint8
	Minter   thor.Address
}

// Token is the ledger of a single fungible asset, bound to the address of its context.
type Token struct {
	sctx        *solidity.Context
	meta        *solidity.Raw[*Meta]
	balances    *solidity.Mapping[thor.Address, *uint256.Int]
	allowances  *solidity.Mapping[thor.Bytes32, *uint256.Int]
	totalSupply *solidity.Uint256
}

func New(sctx *solidity.Context) *Token {
	return &Token{
		sctx:        sctx,
		meta:        solidity.NewRaw[*Meta](sctx, slotMeta),
		balances:    solidity.NewMapping[thor.Address, *uint256.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[thor.Bytes32, *uint256.Int](sctx, slotAllowances),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
	}
}

func (t *Token) Address() thor.Address {
	return t.sctx.Address()
}

func (t *Token) Register(meta *Meta) error {
	existing, err := t.meta.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get token meta")
	}
	if existing != nil {
		return reverts.New("token already registered")
	}
	return t.meta.Upsert(meta)
}

// Meta returns nil if the token is not registered.
func (t *Token) Meta() (*Meta, error) {
	meta, err := t.meta.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get token meta")
	}
	return meta, nil
}

func (t *Token) TotalSupply() (*uint256.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(holder thor.Address) (*uint256.Int, error) {
	bal, err := t.balances.Get(holder)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	if bal == nil {
		return new(uint256.Int), nil
	}
	return bal, nil
}

func (t *Token) setBalance(holder thor.Address, bal *uint256.Int) error {
	if bal.IsZero() {
		t.balances.Remove(holder)
		return nil
	}
	if err := t.balances.Update(holder, bal); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}

func (t *Token) Mint(caller, to thor.Address, amount *uint256.Int) error {
	meta, err := t.Meta()
	if err != nil {
		return err
	}
	if meta == nil {
		return ErrNotRegistered
	}
	if caller != meta.Minter {
		return reverts.NewKind(reverts.KindAuthorization, "caller is not minter")
	}
	if err := t.totalSupply.Add(amount); err != nil {
		return reverts.NewKind(reverts.KindArithmetic, "Overflow")
	}
	bal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	// total supply bounds every balance
	bal = new(uint256.Int).Add(bal, amount)
	if err := t.setBalance(to, bal); err != nil {
		return err
	}
	t.sctx.Emit("mint", solidity.NewAttr("to", to), solidity.NewAttr("amount", amount))
	return nil
}

// Transfer moves amount from sender to recipient.
func (t *Token) Transfer(from, to thor.Address, amount *uint256.Int) error {
	if to.IsZero() {
		return reverts.New("transfer to zero address")
	}
	fromBal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return ErrInsufficientBalance
	}
	if err := t.setBalance(from, new(uint256.Int).Sub(fromBal, amount)); err != nil {
		return err
	}
	toBal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.setBalance(to, new(uint256.Int).Add(toBal, amount)); err != nil {
		return err
	}
	t.sctx.Emit("transfer",
		solidity.NewAttr("from", from),
		solidity.NewAttr("to", to),
		solidity.NewAttr("amount", amount),
	)
	return nil
}

func allowanceKey(owner, spender thor.Address) thor.Bytes32 {
	return thor.Blake2b(owner.Bytes(), spender.Bytes())
}

func (t *Token) Allowance(owner, spender thor.Address) (*uint256.Int, error) {
	v, err := t.allowances.Get(allowanceKey(owner, spender))
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allowance")
	}
	if v == nil {
		return new(uint256.Int), nil
	}
	return v, nil
}

// Approve sets the amount spender may move out of owner's balance.
func (t *Token) Approve(owner, spender thor.Address, amount *uint256.Int) error {
	if err := t.setAllowance(owner, spender, amount); err != nil {
		return err
	}
	t.sctx.Emit("approve",
		solidity.NewAttr("owner", owner),
		solidity.NewAttr("spender", spender),
		solidity.NewAttr("amount", amount),
	)
	return nil
}

func (t *Token) setAllowance(owner, spender thor.Address, amount *uint256.Int) error {
	key := allowanceKey(owner, spender)
	if amount.IsZero() {
		t.allowances.Remove(key)
		return nil
	}
	if err := t.allowances.Update(key, amount); err != nil {
		return errors.Wrap(err, "failed to set allowance")
	}
	return nil
}

// TransferFrom moves amount out of owner's balance on behalf of spender, consuming allowance.
func (t *Token) TransferFrom(spender, owner, to thor.Address, amount *uint256.Int) error {
	allowance, err := t.Allowance(owner, spender)
	if err != nil {
		return err
	}
	if allowance.Lt(amount) {
		return ErrInsufficientAllowance
	}
	if err := t.setAllowance(owner, spender, new(uint256.Int).Sub(allowance, amount)); err != nil {
		return err
	}
	return t.Transfer(owner, to, amount)
}
