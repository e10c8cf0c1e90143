// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/vechain/stakecampaign/kv"
	"github.com/vechain/stakecampaign/stackedmap"
	"github.com/vechain/stakecampaign/thor"
)

// storageBucket holds contract storage, keyed by address ++ slot.
const storageBucket = kv.Bucket("s")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

func (k storageKey) bytes() []byte {
	b := make([]byte, 0, thor.AddressLength+32)
	return append(append(b, k.addr[:]...), k.key[:]...)
}

// State is a journaled view of contract storage. Changes are kept in memory
// until staged and committed by the owner of the state.
type State struct {
	stater *Stater
	sm     *stackedmap.StackedMap[storageKey, []byte]
}

func newState(stater *Stater) *State {
	s := &State{stater: stater}
	s.sm = stackedmap.New(s.load)
	return s
}

// load reads committed storage through the shared cache.
func (s *State) load(k storageKey) ([]byte, bool, error) {
	key := k.bytes()
	if val, ok := s.stater.cached(key); ok {
		return val, true, nil
	}
	val, err := kv.GetOptional(s.stater.store, key)
	if err != nil {
		return nil, false, err
	}
	s.stater.cache(key, val)
	return val, true, nil
}

// GetStorage returns the raw storage value, nil if never set.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) ([]byte, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// SetStorage sets the raw storage value. Empty value deletes the slot.
func (s *State) SetStorage(addr thor.Address, key thor.Bytes32, value []byte) {
	s.sm.Put(storageKey{addr, key}, bytes.Clone(value))
}

// EncodeStorage set storage value encoded by given enc method.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage collects the latest value of every touched slot.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey][]byte)
	var order []storageKey
	s.sm.Journal(func(k storageKey, v []byte) bool {
		if _, ok := changes[k]; !ok {
			order = append(order, k)
		}
		changes[k] = v
		return true
	})

	st := &Stage{stater: s.stater}
	for _, k := range order {
		st.changes = append(st.changes, change{key: k.bytes(), value: changes[k]})
	}
	return st
}
