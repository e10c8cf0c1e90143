// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"

	"github.com/qianbin/directcache"

	"github.com/vechain/stakecampaign/kv"
)

// Stater is the state creator.
type Stater struct {
	store kv.Store
	slots *directcache.Cache
}

// NewStater create a new stater over db. cacheSize is in bytes, 0 disables the cache.
func NewStater(db kv.Store, cacheSize int) *Stater {
	s := &Stater{store: storageBucket.NewStore(db)}
	if cacheSize > 0 {
		s.slots = directcache.New(cacheSize)
	}
	return s
}

// NewState create a new state object reading the committed storage.
func (s *Stater) NewState() *State {
	return newState(s)
}

// cached values are prefixed by a presence byte so missing slots are cached too.
func (s *Stater) cached(key []byte) (val []byte, found bool) {
	if s.slots == nil {
		return nil, false
	}
	if s.slots.AdvGet(key, func(v []byte) {
		if len(v) > 1 {
			val = bytes.Clone(v[1:])
		}
	}, false) {
		metricCacheCounter().AddWithLabel(1, map[string]string{"event": "hit"})
		return val, true
	}
	metricCacheCounter().AddWithLabel(1, map[string]string{"event": "miss"})
	return nil, false
}

func (s *Stater) cache(key, val []byte) {
	if s.slots == nil {
		return
	}
	entry := make([]byte, 1+len(val))
	if len(val) > 0 {
		entry[0] = 1
		copy(entry[1:], val)
	}
	_ = s.slots.Set(key, entry)
}
