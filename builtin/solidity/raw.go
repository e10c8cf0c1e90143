// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakecampaign/thor"
)

// Raw is a single rlp encoded value stored at a fixed slot.
type Raw[V any] struct {
	context *Context
	pos     thor.Bytes32
}

func NewRaw[V any](context *Context, pos thor.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: pos}
}

// Get returns the zero value of V if the slot is empty.
func (r *Raw[V]) Get() (value V, err error) {
	err = r.context.state.DecodeStorage(r.context.address, r.pos, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		r.context.charger.load(len(raw))
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Upsert writes the value, charged as a new slot when the slot was empty.
func (r *Raw[V]) Upsert(value V) error {
	prev, err := r.context.state.GetStorage(r.context.address, r.pos)
	if err != nil {
		return err
	}
	return r.context.state.EncodeStorage(r.context.address, r.pos, func() ([]byte, error) {
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		r.context.charger.store(len(val), len(prev) == 0)
		return val, nil
	})
}
