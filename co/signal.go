// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import "sync"

// Waiter provides a channel to wait for.
// The value read from the channel indicates signal or broadcast. true for
// signal, otherwise broadcast.
type Waiter interface {
	C() <-chan bool
}

// Signal is a rendezvous point for goroutines waiting for or announcing the
// occurrence of an event. Unlike sync.Cond it is channel based, so waiters
// can select on it.
type Signal struct {
	l  sync.Mutex
	ch chan bool
}

func (s *Signal) init() {
	if s.ch == nil {
		s.ch = make(chan bool, 1)
	}
}

// Signal wakes one goroutine that is waiting on s.
func (s *Signal) Signal() {
	s.l.Lock()
	defer s.l.Unlock()

	s.init()
	select {
	case s.ch <- true:
	default:
	}
}

// Broadcast wakes all goroutines that are waiting on s.
func (s *Signal) Broadcast() {
	s.l.Lock()
	defer s.l.Unlock()

	s.init()
	close(s.ch)
	s.ch = make(chan bool, 1)
}

// NewWaiter creates a Waiter object for acquiring a channel to wait for.
func (s *Signal) NewWaiter() Waiter {
	s.l.Lock()
	defer s.l.Unlock()

	s.init()
	ref := s.ch

	return waiterFunc(func() (ch <-chan bool) {
		ch = ref

		s.l.Lock()
		ref = s.ch
		s.l.Unlock()

		return
	})
}

type waiterFunc func() <-chan bool

func (w waiterFunc) C() <-chan bool {
	return w()
}
