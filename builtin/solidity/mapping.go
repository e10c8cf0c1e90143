// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/stakecampaign/thor"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction for builtin contracts, similar to the mapping in Solidity.
// Values are rlp encoded at blake2b(key, pos).
type Mapping[K Key, V any] struct {
	context *Context
	basePos thor.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos thor.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) thor.Bytes32 {
	return thor.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the zero value of V if the key was never set.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		m.context.charger.load(len(raw))
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Insert sets the value of a key expected to be empty.
func (m *Mapping[K, V]) Insert(key K, value V) error {
	return m.set(key, value, true)
}

// Update overwrites the value of an existing key.
func (m *Mapping[K, V]) Update(key K, value V) error {
	return m.set(key, value, false)
}

// Remove clears the key.
func (m *Mapping[K, V]) Remove(key K) {
	m.context.charger.remove()
	m.context.state.SetStorage(m.context.address, m.position(key), nil)
}

func (m *Mapping[K, V]) set(key K, value V, isNew bool) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		m.context.charger.store(len(val), isNew)
		return val, nil
	})
}
