// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import "github.com/sorcha-ledger/sorcha/sorcha"

// Builder to make it easy to build a transaction.
type Builder struct {
	body body
}

// RegisterID sets the register id.
func (b *Builder) RegisterID(id sorcha.RegisterID) *Builder {
	b.body.RegisterID = id
	return b
}

// SenderWallet sets the sender wallet address.
func (b *Builder) SenderWallet(address string) *Builder {
	b.body.SenderWallet = address
	return b
}

// Recipient adds a recipient.
func (b *Builder) Recipient(address string) *Builder {
	b.body.Recipients = append(b.body.Recipients, address)
	return b
}

// PrevTxID sets the previous tx reference.
func (b *Builder) PrevTxID(id sorcha.Bytes32) *Builder {
	b.body.PrevTxID = &id
	return b
}

// Payload appends a payload built from raw bytes.
func (b *Builder) Payload(data []byte) *Builder {
	b.body.Payloads = append(b.body.Payloads, NewPayload(data))
	return b
}

// BlueprintID sets the blueprint id.
func (b *Builder) BlueprintID(id string) *Builder {
	b.body.BlueprintID = id
	return b
}

// ActionID sets the action id.
func (b *Builder) ActionID(id string) *Builder {
	b.body.ActionID = id
	return b
}

// Type sets the transaction type. Genesis transactions are forced to
// high priority.
func (b *Builder) Type(t Type) *Builder {
	b.body.TxType = t
	if t == TypeGenesis {
		b.body.Priority = PriorityHigh
	}
	return b
}

// Priority sets the mempool priority.
func (b *Builder) Priority(p Priority) *Builder {
	b.body.Priority = p
	return b
}

// CreatedAt sets the creation unix timestamp.
func (b *Builder) CreatedAt(ts uint64) *Builder {
	b.body.CreatedAt = ts
	return b
}

// Build builds the unsigned tx object.
func (b *Builder) Build() *Transaction {
	tx := Transaction{body: b.body}
	if tx.body.TxType == TypeGenesis {
		tx.body.Priority = PriorityHigh
	}
	return &tx
}
