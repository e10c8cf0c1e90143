// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/pkg/errors"

type change struct {
	key   []byte
	value []byte
}

// Stage abstracts changes on the state, ready to be committed.
type Stage struct {
	stater  *Stater
	changes []change
}

// Len returns the count of slots changed.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit writes all changes atomically and refreshes the shared cache.
func (s *Stage) Commit() error {
	if len(s.changes) == 0 {
		return nil
	}
	bulk := s.stater.store.Bulk()
	for _, c := range s.changes {
		if len(c.value) == 0 {
			if err := bulk.Delete(c.key); err != nil {
				return errors.Wrap(err, "delete storage")
			}
		} else if err := bulk.Put(c.key, c.value); err != nil {
			return errors.Wrap(err, "put storage")
		}
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "commit state")
	}
	for _, c := range s.changes {
		s.stater.cache(c.key, c.value)
	}
	metricStageSize().Observe(int64(len(s.changes)))
	return nil
}
