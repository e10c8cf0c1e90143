// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/thor"
)

var (
	ErrUint256Overflow  = errors.New("uint256 overflow")
	ErrUint256Underflow = errors.New("uint256 underflow")
)

// Uint256 is a counter stored as 32 big-endian bytes at a fixed slot.
// An empty slot reads as zero and a zero value clears the slot.
type Uint256 struct {
	context *Context
	pos     thor.Bytes32
}

func NewUint256(context *Context, pos thor.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*uint256.Int, error) {
	raw, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	u.context.charger.load(len(raw))
	return new(uint256.Int).SetBytes(raw), nil
}

func (u *Uint256) Set(value *uint256.Int) {
	if value.IsZero() {
		u.context.charger.remove()
		u.context.state.SetStorage(u.context.address, u.pos, nil)
		return
	}
	b := value.Bytes32()
	u.context.charger.store(len(b), false)
	u.context.state.SetStorage(u.context.address, u.pos, b[:])
}

func (u *Uint256) Add(delta *uint256.Int) error {
	v, err := u.Get()
	if err != nil {
		return err
	}
	if _, overflow := v.AddOverflow(v, delta); overflow {
		return ErrUint256Overflow
	}
	u.Set(v)
	return nil
}

func (u *Uint256) Sub(delta *uint256.Int) error {
	v, err := u.Get()
	if err != nil {
		return err
	}
	if _, underflow := v.SubOverflow(v, delta); underflow {
		return ErrUint256Underflow
	}
	u.Set(v)
	return nil
}
