// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sorcha-ledger/sorcha/co"
)

func TestGoes(t *testing.T) {
	var g co.Goes
	var n int32
	for i := 0; i < 5; i++ {
		g.Go(func() { atomic.AddInt32(&n, 1) })
	}
	g.Wait()
	assert.Equal(t, int32(5), atomic.LoadInt32(&n))
	<-g.Done()
}

func TestSignal_SignalBeforeWait(t *testing.T) {
	var sig co.Signal
	sig.Signal()

	<-sig.NewWaiter().C()
}

func TestSignal_SignalAfterWait(t *testing.T) {
	var sig co.Signal
	w := sig.NewWaiter()
	sig.Signal()
	<-w.C()
}

func TestSignal_BroadcastAfterWait(t *testing.T) {
	var sig co.Signal

	var ws []co.Waiter
	for i := 0; i < 10; i++ {
		ws = append(ws, sig.NewWaiter())
	}

	sig.Broadcast()

	for _, w := range ws {
		<-w.C()
	}
}

func TestSignal_CoalescedSignals(t *testing.T) {
	var sig co.Signal
	sig.Signal()
	sig.Signal()
	sig.Signal()

	w := sig.NewWaiter()
	<-w.C()
	select {
	case <-w.C():
		t.Fatal("signals should coalesce into one wakeup")
	default:
	}
}
