// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package roster

import "github.com/sorcha-ledger/sorcha/sorcha"

// QuorumResult describes a quorum evaluation over a proposal.
type QuorumResult struct {
	VotesRequired   int          `json:"votesRequired"`
	VotesReceived   int          `json:"votesReceived"`
	VotingPool      []sorcha.DID `json:"votingPool"`
	IsQuorumMet     bool         `json:"isQuorumMet"`
	IsOwnerOverride bool         `json:"isOwnerOverride"`
}

// ValidateQuorum evaluates approvals for an operation against the roster.
//
// The voting pool is every member with a voting role; on Remove the target
// is excluded from its own pool when it could otherwise vote. The owner may
// push Add and Remove through without approvals, never Transfer. The
// threshold is a simple majority of the pool, floor(n/2)+1. Duplicate
// approvers count once and rejections count nothing.
func ValidateQuorum(record *ControlRecord, op *Operation, approvals []Approval) *QuorumResult {
	result := &QuorumResult{}

	for _, att := range record.Attestations {
		if !att.Role.CanVote() {
			continue
		}
		if op.Type == OpRemove && att.Subject == op.TargetDID {
			continue
		}
		result.VotingPool = append(result.VotingPool, att.Subject)
	}

	if op.Type != OpTransfer {
		if owner := record.Owner(); owner != nil && owner.Subject == op.ProposerDID {
			result.IsOwnerOverride = true
			result.IsQuorumMet = true
		}
	}

	result.VotesRequired = len(result.VotingPool)/2 + 1

	inPool := make(map[sorcha.DID]struct{}, len(result.VotingPool))
	for _, did := range result.VotingPool {
		inPool[did] = struct{}{}
	}
	counted := make(map[sorcha.DID]struct{}, len(approvals))
	for _, a := range approvals {
		if !a.IsApproval {
			continue
		}
		if _, ok := inPool[a.ApproverDID]; !ok {
			continue
		}
		if _, dup := counted[a.ApproverDID]; dup {
			continue
		}
		counted[a.ApproverDID] = struct{}{}
		result.VotesReceived++
	}

	if !result.IsOwnerOverride {
		result.IsQuorumMet = result.VotesReceived >= result.VotesRequired
	}
	return result
}
