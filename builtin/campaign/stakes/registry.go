// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/builtin/collection"
	"github.com/vechain/stakecampaign/builtin/linkedlist"
	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/thor"
)

var (
	slotStakes     = thor.BytesToBytes32([]byte("nfts"))
	slotIndexHead  = thor.BytesToBytes32([]byte("nfts-head"))
	slotIndexTail  = thor.BytesToBytes32([]byte("nfts-tail"))
	slotIndexCount = thor.BytesToBytes32([]byte("nfts-count"))
)

// Registry keeps stake records by token id, plus an index in staking order.
type Registry struct {
	stakes *solidity.Mapping[collection.TokenID, *Stake]
	index  *linkedlist.LinkedList[collection.TokenID]
}

func NewRegistry(sctx *solidity.Context) *Registry {
	return &Registry{
		stakes: solidity.NewMapping[collection.TokenID, *Stake](sctx, slotStakes),
		index:  linkedlist.New[collection.TokenID](sctx, slotIndexHead, slotIndexTail, slotIndexCount),
	}
}

// Get returns nil if the token is not staked.
func (r *Registry) Get(id collection.TokenID) (*Stake, error) {
	s, err := r.stakes.Get(id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stake")
	}
	return s, nil
}

func (r *Registry) Add(s *Stake) error {
	if err := r.stakes.Insert(s.TokenID, s); err != nil {
		return errors.Wrap(err, "failed to set stake")
	}
	if err := r.index.Add(s.TokenID); err != nil {
		return errors.Wrap(err, "failed to index stake")
	}
	return nil
}

func (r *Registry) Update(s *Stake) error {
	if err := r.stakes.Update(s.TokenID, s); err != nil {
		return errors.Wrap(err, "failed to update stake")
	}
	return nil
}

func (r *Registry) Remove(id collection.TokenID) error {
	removed, err := r.index.Remove(id)
	if err != nil {
		return errors.Wrap(err, "failed to unindex stake")
	}
	if !removed {
		return errors.Errorf("stake %s not indexed", id)
	}
	r.stakes.Remove(id)
	return nil
}

// Count returns the number of staked tokens.
func (r *Registry) Count() (uint64, error) {
	return r.index.Len()
}

// Iterate visits stakes in staking order until callback returns false.
func (r *Registry) Iterate(callback func(*Stake) (bool, error)) error {
	return r.index.Iter(func(id collection.TokenID) (bool, error) {
		s, err := r.Get(id)
		if err != nil {
			return false, err
		}
		if s == nil {
			return false, errors.Errorf("indexed stake %s is missing", id)
		}
		return callback(s)
	})
}

// TokenIDs returns all staked token ids in staking order.
func (r *Registry) TokenIDs() ([]collection.TokenID, error) {
	var ids []collection.TokenID
	err := r.index.Iter(func(id collection.TokenID) (bool, error) {
		ids = append(ids, id)
		return true, nil
	})
	return ids, err
}

// All loads every stake in staking order.
func (r *Registry) All() ([]*Stake, error) {
	var all []*Stake
	err := r.Iterate(func(s *Stake) (bool, error) {
		all = append(all, s)
		return true, nil
	})
	return all, err
}
