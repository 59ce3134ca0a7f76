// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"io"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/sorcha-ledger/sorcha/cry"
	"github.com/sorcha-ledger/sorcha/sorcha"
)

// Transaction is an immutable signed ledger transaction.
type Transaction struct {
	body body

	cache struct {
		signingHash atomic.Pointer[sorcha.Bytes32]
		id          atomic.Pointer[sorcha.Bytes32]
		size        atomic.Uint64
	}
}

// body describes details of a tx.
type body struct {
	RegisterID   sorcha.RegisterID
	SenderWallet string
	Recipients   []string
	PrevTxID     *sorcha.Bytes32 `rlp:"nil"`
	Payloads     []Payload
	BlueprintID  string
	ActionID     string
	TxType       Type
	Priority     Priority
	CreatedAt    uint64
	Signature    []byte
}

// RegisterID returns the register this tx belongs to.
func (t *Transaction) RegisterID() sorcha.RegisterID {
	return t.body.RegisterID
}

// SenderWallet returns the sender wallet address.
func (t *Transaction) SenderWallet() string {
	return t.body.SenderWallet
}

// SenderDID returns the sender as a wallet DID.
func (t *Transaction) SenderDID() sorcha.DID {
	return sorcha.WalletDID(t.body.SenderWallet)
}

// Recipients returns the recipient list.
func (t *Transaction) Recipients() []string {
	return append([]string(nil), t.body.Recipients...)
}

// PrevTxID returns the referenced previous tx id, nil when none.
func (t *Transaction) PrevTxID() *sorcha.Bytes32 {
	if t.body.PrevTxID == nil {
		return nil
	}
	cpy := *t.body.PrevTxID
	return &cpy
}

// Payloads returns the ordered payload list.
func (t *Transaction) Payloads() []Payload {
	return append([]Payload(nil), t.body.Payloads...)
}

// BlueprintID returns the blueprint id bound in metadata.
func (t *Transaction) BlueprintID() string {
	return t.body.BlueprintID
}

// ActionID returns the action id bound in metadata.
func (t *Transaction) ActionID() string {
	return t.body.ActionID
}

// Type returns the transaction type.
func (t *Transaction) Type() Type {
	return t.body.TxType
}

// Priority returns the mempool priority.
func (t *Transaction) Priority() Priority {
	return t.body.Priority
}

// CreatedAt returns the creation unix timestamp.
func (t *Transaction) CreatedAt() uint64 {
	return t.body.CreatedAt
}

// Signature returns a copy of the signature.
func (t *Transaction) Signature() []byte {
	return append([]byte(nil), t.body.Signature...)
}

// SigningHash returns the digest of the tx excluding its signature.
// Signers sign this digest via the pre-hashed path.
func (t *Transaction) SigningHash() sorcha.Bytes32 {
	if cached := t.cache.signingHash.Load(); cached != nil {
		return *cached
	}

	unsigned := t.body
	unsigned.Signature = nil
	enc, err := rlp.EncodeToBytes(&unsigned)
	if err != nil {
		panic(err)
	}
	h := cry.Hash(enc)
	t.cache.signingHash.Store(&h)
	return h
}

// ID returns the tx id, unique within a register.
func (t *Transaction) ID() sorcha.Bytes32 {
	if cached := t.cache.id.Load(); cached != nil {
		return *cached
	}

	sh := t.SigningHash()
	id := cry.Hash(sh.Bytes(), []byte(t.body.SenderWallet))
	t.cache.id.Store(&id)
	return id
}

// Size returns the encoded size of the tx.
func (t *Transaction) Size() uint64 {
	if cached := t.cache.size.Load(); cached != 0 {
		return cached
	}
	enc, err := rlp.EncodeToBytes(&t.body)
	if err != nil {
		panic(err)
	}
	size := uint64(len(enc))
	t.cache.size.Store(size)
	return size
}

// WithSignature creates a new tx with signature set.
func (t *Transaction) WithSignature(sig []byte) *Transaction {
	newTx := Transaction{body: t.body}
	newTx.body.Signature = append([]byte(nil), sig...)
	return &newTx
}

// EncodeRLP implements rlp.Encoder
func (t *Transaction) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &t.body)
}

// DecodeRLP implements rlp.Decoder
func (t *Transaction) DecodeRLP(s *rlp.Stream) error {
	var b body
	if err := s.Decode(&b); err != nil {
		return err
	}
	*t = Transaction{body: b}
	return nil
}

// Transactions is a slice of transactions.
type Transactions []*Transaction

// IDs returns the ids of all transactions, in order.
func (txs Transactions) IDs() []sorcha.Bytes32 {
	ids := make([]sorcha.Bytes32, len(txs))
	for i, t := range txs {
		ids[i] = t.ID()
	}
	return ids
}
