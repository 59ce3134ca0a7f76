// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package docket implements the sealed batch unit of a register. Dockets
// form a hash chain: each one commits to its predecessor's digest and to
// the sorted ids of the transactions it seals.
package docket

import (
	"encoding/binary"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/sorcha-ledger/sorcha/cry"
	"github.com/sorcha-ledger/sorcha/sorcha"
)

// State of a docket in its sealing lifecycle.
type State uint8

// Docket states.
const (
	StateProposed State = iota
	StateAccepted
	StateSealed
)

func (s State) String() string {
	switch s {
	case StateProposed:
		return "Proposed"
	case StateAccepted:
		return "Accepted"
	case StateSealed:
		return "Sealed"
	default:
		return "Unknown"
	}
}

// Docket is an immutable batch of sealed transactions.
type Docket struct {
	body body
}

type body struct {
	ID             uint64
	RegisterID     sorcha.RegisterID
	PreviousHash   sorcha.Bytes32
	TransactionIDs []sorcha.Bytes32
	DocketState    State
	Timestamp      uint64
	Signature      []byte
}

// ID returns the docket id, 1-based and contiguous per register.
func (d *Docket) ID() uint64 {
	return d.body.ID
}

// RegisterID returns the owning register.
func (d *Docket) RegisterID() sorcha.RegisterID {
	return d.body.RegisterID
}

// PreviousHash returns the predecessor's digest, zero for the first docket.
func (d *Docket) PreviousHash() sorcha.Bytes32 {
	return d.body.PreviousHash
}

// TransactionIDs returns the sealed tx ids in recorded order.
func (d *Docket) TransactionIDs() []sorcha.Bytes32 {
	return append([]sorcha.Bytes32(nil), d.body.TransactionIDs...)
}

// State returns the lifecycle state.
func (d *Docket) State() State {
	return d.body.DocketState
}

// Timestamp returns the sealing unix timestamp.
func (d *Docket) Timestamp() uint64 {
	return d.body.Timestamp
}

// Signature returns a copy of the system-wallet signature.
func (d *Docket) Signature() []byte {
	return append([]byte(nil), d.body.Signature...)
}

// Hash computes the chain digest of the docket under the register's digest
// key. The digest covers id, previous hash, the sorted tx id set and the
// timestamp; tx recording order does not affect it. A zero previous hash
// contributes nothing, so the first docket's digest is independent of the
// empty-predecessor representation.
func (d *Docket) Hash(digestKey []byte) sorcha.Bytes32 {
	var idBuf, tsBuf [8]byte
	binary.BigEndian.PutUint64(idBuf[:], d.body.ID)
	binary.BigEndian.PutUint64(tsBuf[:], d.body.Timestamp)

	parts := make([][]byte, 0, len(d.body.TransactionIDs)+3)
	parts = append(parts, idBuf[:])
	if !d.body.PreviousHash.IsZero() {
		parts = append(parts, d.body.PreviousHash.Bytes())
	}

	sorted := append([]sorcha.Bytes32(nil), d.body.TransactionIDs...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})
	for i := range sorted {
		parts = append(parts, sorted[i].Bytes())
	}
	parts = append(parts, tsBuf[:])

	return cry.KeyedHash(digestKey, parts...)
}

// WithState returns a copy of the docket in the given state.
func (d *Docket) WithState(s State) *Docket {
	newDocket := Docket{body: d.body}
	newDocket.body.DocketState = s
	return &newDocket
}

// WithSignature returns a copy of the docket with the signature set.
func (d *Docket) WithSignature(sig []byte) *Docket {
	newDocket := Docket{body: d.body}
	newDocket.body.Signature = append([]byte(nil), sig...)
	return &newDocket
}

// EncodeRLP implements rlp.Encoder
func (d *Docket) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &d.body)
}

// DecodeRLP implements rlp.Decoder
func (d *Docket) DecodeRLP(s *rlp.Stream) error {
	var b body
	if err := s.Decode(&b); err != nil {
		return err
	}
	*d = Docket{body: b}
	return nil
}

// Dockets is a slice of dockets.
type Dockets []*Docket
