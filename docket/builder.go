// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package docket

import "github.com/sorcha-ledger/sorcha/sorcha"

// Builder to make it easy to build a docket.
type Builder struct {
	body body
}

// ID sets the docket id.
func (b *Builder) ID(id uint64) *Builder {
	b.body.ID = id
	return b
}

// RegisterID sets the owning register.
func (b *Builder) RegisterID(id sorcha.RegisterID) *Builder {
	b.body.RegisterID = id
	return b
}

// PreviousHash sets the predecessor's digest.
func (b *Builder) PreviousHash(hash sorcha.Bytes32) *Builder {
	b.body.PreviousHash = hash
	return b
}

// TransactionIDs sets the sealed tx ids, in recorded order.
func (b *Builder) TransactionIDs(ids []sorcha.Bytes32) *Builder {
	b.body.TransactionIDs = append([]sorcha.Bytes32(nil), ids...)
	return b
}

// Timestamp sets the sealing unix timestamp.
func (b *Builder) Timestamp(ts uint64) *Builder {
	b.body.Timestamp = ts
	return b
}

// Build builds the docket in Proposed state.
func (b *Builder) Build() *Docket {
	docket := Docket{body: b.body}
	docket.body.DocketState = StateProposed
	return &docket
}
