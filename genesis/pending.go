// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/sorcha-ledger/sorcha/sorcha"
)

// template is one staged owner attestation. The raw canonical bytes are
// retained so finalize verifies signatures over exactly what was handed
// out, never a re-serialization.
type template struct {
	userID   string
	walletID string
	role     sorcha.Role
	raw      []byte
	hash     sorcha.Bytes32
}

// pending is a staged registration between initiate and finalize.
type pending struct {
	registerID  sorcha.RegisterID
	nonce       string
	name        string
	description string
	tenantID    string
	templates   []template
	createdAt   uint64
	expiresAt   uint64
}

// pendingTable holds staged registrations keyed by register id. Take is a
// compare-and-remove, so of any number of concurrent finalizes for the
// same register exactly one obtains the record.
type pendingTable struct {
	lock    sync.Mutex
	entries map[sorcha.RegisterID]*pending
}

func newPendingTable() *pendingTable {
	return &pendingTable{entries: make(map[sorcha.RegisterID]*pending)}
}

func (t *pendingTable) put(p *pending) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.entries[p.registerID] = p
}

// take atomically removes and returns the pending record matching the
// (registerID, nonce) pair. An expired record is removed but reported as
// expired.
func (t *pendingTable) take(registerID sorcha.RegisterID, nonce string, now uint64) (*pending, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	p, ok := t.entries[registerID]
	if !ok || p.nonce != nonce {
		return nil, errors.Wrapf(errPendingNotFound, "register %v", registerID)
	}
	delete(t.entries, registerID)
	if now >= p.expiresAt {
		return nil, errors.Wrapf(errExpired, "register %v", registerID)
	}
	return p, nil
}

// sweep removes expired records and returns how many were dropped.
func (t *pendingTable) sweep(now uint64) int {
	t.lock.Lock()
	defer t.lock.Unlock()

	swept := 0
	for id, p := range t.entries {
		if now >= p.expiresAt {
			delete(t.entries, id)
			swept++
		}
	}
	return swept
}

func (t *pendingTable) len() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.entries)
}
