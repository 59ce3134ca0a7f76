// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package roster

import (
	"github.com/pkg/errors"

	"github.com/sorcha-ledger/sorcha/sorcha"
)

// Apply produces the successor control record of an accepted operation.
// It is a pure function; the input record is never mutated. Register
// identity fields and attestation insertion order are preserved, so
// replaying a chain of operations is byte-deterministic.
//
// Add requires the attestation of the new member. Remove and Transfer
// ignore it.
func Apply(record *ControlRecord, op *Operation, attestation *Attestation) (*ControlRecord, error) {
	next := record.Copy()

	switch op.Type {
	case OpAdd:
		if attestation == nil {
			return nil, errors.New("add operation requires an attestation")
		}
		if attestation.Subject != op.TargetDID {
			return nil, errors.Errorf("attestation subject %s does not match target %s", attestation.Subject, op.TargetDID)
		}
		if attestation.Role != op.TargetRole {
			return nil, errors.Errorf("attestation role %s does not match target role %s", attestation.Role, op.TargetRole)
		}
		if next.Contains(op.TargetDID) {
			return nil, errors.Errorf("target %s is already on the roster", op.TargetDID)
		}
		next.Attestations = append(next.Attestations, *attestation)

	case OpRemove:
		idx := -1
		for i := range next.Attestations {
			if next.Attestations[i].Subject == op.TargetDID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, errors.Errorf("target %s is not on the roster", op.TargetDID)
		}
		if next.Attestations[idx].Role == sorcha.RoleOwner {
			return nil, errors.New("owner cannot be removed, transfer ownership first")
		}
		next.Attestations = append(next.Attestations[:idx], next.Attestations[idx+1:]...)

	case OpTransfer:
		from, fromOK := next.Find(op.ProposerDID)
		to, toOK := next.Find(op.TargetDID)
		if !fromOK || from.Role != sorcha.RoleOwner {
			return nil, errors.Errorf("transfer proposer %s is not the owner", op.ProposerDID)
		}
		if !toOK || to.Role != sorcha.RoleAdmin {
			return nil, errors.Errorf("transfer target %s is not an admin", op.TargetDID)
		}
		from.Role, to.Role = sorcha.RoleAdmin, sorcha.RoleOwner

	default:
		return nil, errors.Errorf("unknown operation type %q", op.Type)
	}

	if err := next.Validate(); err != nil {
		return nil, errors.Wrap(err, "successor roster")
	}
	return next, nil
}
