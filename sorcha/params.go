// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sorcha

import "time"

// Constants of the Sorcha ledger.
const (
	// MaxRosterSize max count of attestations on a register roster.
	MaxRosterSize = 25

	// PendingRegistrationTTL lifetime of a staged registration between
	// initiate and finalize.
	PendingRegistrationTTL = 5 * time.Minute

	// MaxProposalLifetime upper bound of a governance proposal's
	// expiresAt - proposedAt window.
	MaxProposalLifetime = 7 * 24 * time.Hour

	// SealInterval default interval of the docket sealer loop.
	SealInterval = 10 * time.Second

	// MaxTxSize max encoded size of a transaction allowed into the mempool.
	MaxTxSize = 64 * 1024
)

// Role of a roster member.
type Role string

// Roster roles. At most one Owner exists on a roster at any time.
const (
	RoleOwner   Role = "Owner"
	RoleAdmin   Role = "Admin"
	RoleAuditor Role = "Auditor"
)

// Valid reports whether the role is a known roster role.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleAuditor:
		return true
	default:
		return false
	}
}

// CanVote reports whether members holding the role take part in quorum voting.
func (r Role) CanVote() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Algorithm is a signature algorithm family.
type Algorithm string

// Supported signature algorithm families.
const (
	AlgorithmEd25519 Algorithm = "ED25519"
	AlgorithmP256    Algorithm = "NIST_P256"
	AlgorithmRSA4096 Algorithm = "RSA_4096"
)

// Valid reports whether the algorithm is supported.
func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmEd25519, AlgorithmP256, AlgorithmRSA4096:
		return true
	default:
		return false
	}
}
