// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package linkedlist

import (
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/thor"
)

// Key is a list entry. The zero value marks the end of the list and cannot be stored.
type Key interface {
	comparable
	Bytes() []byte
}

// LinkedList is a persistent doubly linked list kept in insertion order.
type LinkedList[K Key] struct {
	head  *solidity.Raw[K]
	tail  *solidity.Raw[K]
	count *solidity.Raw[uint64]
	next  *solidity.Mapping[K, K]
	prev  *solidity.Mapping[K, K]
}

// New creates a list whose node pointers share the head and tail slots as mapping bases.
func New[K Key](sctx *solidity.Context, headPos, tailPos, countPos thor.Bytes32) *LinkedList[K] {
	return &LinkedList[K]{
		head:  solidity.NewRaw[K](sctx, headPos),
		tail:  solidity.NewRaw[K](sctx, tailPos),
		count: solidity.NewRaw[uint64](sctx, countPos),
		next:  solidity.NewMapping[K, K](sctx, headPos),
		prev:  solidity.NewMapping[K, K](sctx, tailPos),
	}
}

func isZero[K Key](k K) bool {
	var zero K
	return k == zero
}

// Add appends key to the end of the list.
func (l *LinkedList[K]) Add(key K) error {
	if isZero(key) {
		return errors.New("zero key")
	}
	oldTail, err := l.tail.Get()
	if err != nil {
		return err
	}

	if isZero(oldTail) {
		// empty list, key becomes head & tail
		if err := l.head.Upsert(key); err != nil {
			return err
		}
	} else {
		if err := l.next.Insert(oldTail, key); err != nil {
			return err
		}
		if err := l.prev.Insert(key, oldTail); err != nil {
			return err
		}
	}
	if err := l.tail.Upsert(key); err != nil {
		return err
	}
	return l.addCount(1)
}

// Remove unlinks key from anywhere in the list. It reports false if key is not in the list.
func (l *LinkedList[K]) Remove(key K) (bool, error) {
	if isZero(key) {
		return false, nil
	}
	prev, err := l.prev.Get(key)
	if err != nil {
		return false, err
	}
	next, err := l.next.Get(key)
	if err != nil {
		return false, err
	}

	if isZero(prev) {
		head, err := l.head.Get()
		if err != nil {
			return false, err
		}
		if head != key {
			return false, nil
		}
		if err := l.head.Upsert(next); err != nil {
			return false, err
		}
	} else if isZero(next) {
		l.next.Remove(prev)
	} else if err := l.next.Update(prev, next); err != nil {
		return false, err
	}

	if isZero(next) {
		if err := l.tail.Upsert(prev); err != nil {
			return false, err
		}
	} else if isZero(prev) {
		l.prev.Remove(next)
	} else if err := l.prev.Update(next, prev); err != nil {
		return false, err
	}

	l.next.Remove(key)
	l.prev.Remove(key)

	if err := l.addCount(-1); err != nil {
		return false, err
	}
	return true, nil
}

func (l *LinkedList[K]) addCount(delta int) error {
	n, err := l.count.Get()
	if err != nil {
		return err
	}
	if delta < 0 {
		if n == 0 {
			return errors.New("list count underflow")
		}
		n--
	} else {
		n++
	}
	return l.count.Upsert(n)
}

// Len returns the number of entries.
func (l *LinkedList[K]) Len() (uint64, error) {
	return l.count.Get()
}

// Head returns the oldest entry, or the zero key if the list is empty.
func (l *LinkedList[K]) Head() (K, error) {
	return l.head.Get()
}

// Next returns the successor of key, or the zero key at the end.
func (l *LinkedList[K]) Next(key K) (K, error) {
	return l.next.Get(key)
}

// Iter walks the list from head to tail until callback returns false or an error.
func (l *LinkedList[K]) Iter(callback func(K) (bool, error)) error {
	ptr, err := l.head.Get()
	if err != nil {
		return errors.Wrap(err, "failed to get list head")
	}
	for !isZero(ptr) {
		cont, err := callback(ptr)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
		if ptr, err = l.next.Get(ptr); err != nil {
			return errors.Wrap(err, "failed to get next entry")
		}
	}
	return nil
}
