// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package roster implements the governance roster of a register: the
// attested member list carried by control transactions and the state
// machine that evolves it through proposals, quorum voting and apply.
package roster

import (
	"github.com/pkg/errors"

	"github.com/sorcha-ledger/sorcha/cry"
	"github.com/sorcha-ledger/sorcha/sorcha"
)

// Attestation binds a subject DID to a verification key under a role.
type Attestation struct {
	Role      sorcha.Role      `json:"role"`
	Subject   sorcha.DID       `json:"subject"`
	PublicKey []byte           `json:"publicKey"`
	Algorithm sorcha.Algorithm `json:"algorithm"`
	Signature []byte           `json:"signature"`
	GrantedAt uint64           `json:"grantedAt"`
}

// ControlRecord is the roster snapshot of a register: its identity plus the
// ordered attestation list. It is the value serialized into control
// transaction payloads.
type ControlRecord struct {
	RegisterID   sorcha.RegisterID `json:"registerId"`
	Name         string            `json:"name"`
	TenantID     string            `json:"tenantId"`
	CreatedAt    uint64            `json:"createdAt"`
	Attestations []Attestation     `json:"attestations"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Copy returns a deep copy of the record.
func (r *ControlRecord) Copy() *ControlRecord {
	cpy := *r
	cpy.Attestations = append([]Attestation(nil), r.Attestations...)
	if r.Metadata != nil {
		cpy.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			cpy.Metadata[k] = v
		}
	}
	return &cpy
}

// Find returns the attestation of the given subject.
func (r *ControlRecord) Find(subject sorcha.DID) (*Attestation, bool) {
	for i := range r.Attestations {
		if r.Attestations[i].Subject == subject {
			return &r.Attestations[i], true
		}
	}
	return nil, false
}

// Contains reports whether the subject is on the roster.
func (r *ControlRecord) Contains(subject sorcha.DID) bool {
	_, ok := r.Find(subject)
	return ok
}

// Owner returns the single Owner attestation, nil when none.
func (r *ControlRecord) Owner() *Attestation {
	for i := range r.Attestations {
		if r.Attestations[i].Role == sorcha.RoleOwner {
			return &r.Attestations[i]
		}
	}
	return nil
}

// Validate checks the roster invariants: at most one Owner, size cap,
// pairwise distinct subjects and key/algorithm consistency.
func (r *ControlRecord) Validate() error {
	if len(r.Attestations) > sorcha.MaxRosterSize {
		return errors.Errorf("roster size %d exceeds %d", len(r.Attestations), sorcha.MaxRosterSize)
	}

	owners := 0
	seen := make(map[sorcha.DID]struct{}, len(r.Attestations))
	for _, att := range r.Attestations {
		if !att.Role.Valid() {
			return errors.Errorf("invalid role %q for %s", att.Role, att.Subject)
		}
		if att.Role == sorcha.RoleOwner {
			owners++
		}
		if _, dup := seen[att.Subject]; dup {
			return errors.Errorf("duplicate subject %s", att.Subject)
		}
		seen[att.Subject] = struct{}{}
		if !cry.ConsistentKey(att.Algorithm, att.PublicKey) {
			return errors.Errorf("key/algorithm mismatch for %s", att.Subject)
		}
	}
	if owners > 1 {
		return errors.Errorf("%d owner attestations, at most one allowed", owners)
	}
	return nil
}

// AdminRoster is the derived view of roster state reconstructed from the
// control-transaction chain.
type AdminRoster struct {
	RegisterID              sorcha.RegisterID
	ControlRecord           *ControlRecord
	ControlTransactionCount int
	LastControlTxID         sorcha.Bytes32
}

// OperationType of a governance operation.
type OperationType string

// Governance operation types.
const (
	OpAdd      OperationType = "Add"
	OpRemove   OperationType = "Remove"
	OpTransfer OperationType = "Transfer"
)

// Valid reports whether the operation type is known.
func (t OperationType) Valid() bool {
	switch t {
	case OpAdd, OpRemove, OpTransfer:
		return true
	default:
		return false
	}
}

// Operation is a proposed roster mutation.
type Operation struct {
	Type        OperationType     `json:"operationType"`
	ProposerDID sorcha.DID        `json:"proposerDid"`
	TargetDID   sorcha.DID        `json:"targetDid"`
	TargetRole  sorcha.Role       `json:"targetRole"`
	ProposedAt  uint64            `json:"proposedAt"`
	ExpiresAt   uint64            `json:"expiresAt"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Hash returns the canonical digest of the operation. Approval signatures
// are made over this digest.
func (op *Operation) Hash() sorcha.Bytes32 {
	enc, err := encodeCanonical(op)
	if err != nil {
		panic(err)
	}
	return cry.Hash(enc)
}

// Approval is a single member's vote on a proposal.
type Approval struct {
	ApproverDID sorcha.DID `json:"approverDid"`
	IsApproval  bool       `json:"isApproval"`
	VotedAt     uint64     `json:"votedAt"`
	Signature   []byte     `json:"signature"`
}
