// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import "sync"

// Goes runs and manages the life-cycle of goroutines.
type Goes struct {
	wg sync.WaitGroup
}

// Go runs f in a goroutine.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		f()
	}()
}

// Wait waits for all goroutines started by Go to finish.
func (g *Goes) Wait() {
	g.wg.Wait()
}

// Done returns a channel closed when all goroutines started by Go are done.
func (g *Goes) Done() chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()
	return done
}
