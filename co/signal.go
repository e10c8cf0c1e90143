// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Waiter provides a channel closed by the next broadcast.
type Waiter interface {
	C() <-chan struct{}
}

// Signal wakes every goroutine waiting for the next occurrence of an event, e.g. a committed call.
// Unlike sync.Cond it can be waited on in a select.
type Signal struct {
	l  sync.Mutex
	ch chan struct{}
}

func (s *Signal) current() chan struct{} {
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes all waiters.
func (s *Signal) Broadcast() {
	s.l.Lock()
	defer s.l.Unlock()

	close(s.current())
	s.ch = make(chan struct{})
}

// NewWaiter returns a waiter for the next broadcast. Every call to C re-arms it.
func (s *Signal) NewWaiter() Waiter {
	s.l.Lock()
	ref := s.current()
	s.l.Unlock()

	return waiterFunc(func() <-chan struct{} {
		ch := ref
		s.l.Lock()
		ref = s.current()
		s.l.Unlock()
		return ch
	})
}

type waiterFunc func() <-chan struct{}

func (w waiterFunc) C() <-chan struct{} {
	return w()
}
