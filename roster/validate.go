// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package roster

import (
	"fmt"
	"time"

	"github.com/sorcha-ledger/sorcha/sorcha"
)

// Validation error codes. They are stable tokens carried in ValidationResult
// so callers can branch without parsing prose.
const (
	CodeExpired                 = "Expired"
	CodeProposalTooLong         = "ProposalTooLong"
	CodeProposerNotMember       = "ProposerNotMember"
	CodeProposerCannotPropose   = "ProposerCannotPropose"
	CodeTargetAlreadyMember     = "TargetAlreadyMember"
	CodeTargetNotMember         = "TargetNotMember"
	CodeRosterFull              = "RosterFull"
	CodeInvalidTargetRole       = "InvalidTargetRole"
	CodeCannotRemoveOwner       = "CannotRemoveOwner"
	CodeProposerNotOwner        = "ProposerNotOwner"
	CodeTransferTargetNotMember = "TransferTargetNotMember"
	CodeTransferTargetNotAdmin  = "TransferTargetNotAdmin"
	CodeUnknownOperation        = "UnknownOperation"
)

// ValidationError is one failed precondition.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ValidationResult collects all failed preconditions of a proposal.
type ValidationResult struct {
	IsValid bool              `json:"isValid"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

func (r *ValidationResult) addError(code, format string, args ...any) {
	r.IsValid = false
	r.Errors = append(r.Errors, ValidationError{Code: code, Message: fmt.Sprintf(format, args...)})
}

// HasCode reports whether the result carries the given error code.
func (r *ValidationResult) HasCode(code string) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

// ValidateProposal checks a governance operation against the current roster.
// All failed preconditions are reported, not just the first. A proposal
// whose proposedAt equals expiresAt is already expired.
func ValidateProposal(record *ControlRecord, op *Operation, now uint64) *ValidationResult {
	result := &ValidationResult{IsValid: true}

	if now < op.ProposedAt || now >= op.ExpiresAt {
		result.addError(CodeExpired, "proposal window [%d, %d) does not contain %d", op.ProposedAt, op.ExpiresAt, now)
	}
	if maxLifetime := uint64(sorcha.MaxProposalLifetime / time.Second); op.ExpiresAt-op.ProposedAt > maxLifetime {
		result.addError(CodeProposalTooLong, "proposal lifetime %d exceeds max %d seconds", op.ExpiresAt-op.ProposedAt, maxLifetime)
	}

	proposer, proposerOK := record.Find(op.ProposerDID)
	if !proposerOK {
		result.addError(CodeProposerNotMember, "proposer %s is not on the roster", op.ProposerDID)
	}

	switch op.Type {
	case OpAdd:
		if record.Contains(op.TargetDID) {
			result.addError(CodeTargetAlreadyMember, "target %s is already on the roster", op.TargetDID)
		}
		if len(record.Attestations) >= sorcha.MaxRosterSize {
			result.addError(CodeRosterFull, "roster is at capacity %d", sorcha.MaxRosterSize)
		}
		if op.TargetRole != sorcha.RoleAdmin && op.TargetRole != sorcha.RoleAuditor {
			result.addError(CodeInvalidTargetRole, "add target role must be Admin or Auditor, got %q", op.TargetRole)
		}
		if proposerOK && !proposer.Role.CanVote() {
			result.addError(CodeProposerCannotPropose, "proposer role %s cannot propose additions", proposer.Role)
		}
	case OpRemove:
		target, targetOK := record.Find(op.TargetDID)
		if !targetOK {
			result.addError(CodeTargetNotMember, "target %s is not on the roster", op.TargetDID)
		} else if target.Role == sorcha.RoleOwner {
			result.addError(CodeCannotRemoveOwner, "owner %s can only leave via transfer", op.TargetDID)
		}
		if proposerOK && !proposer.Role.CanVote() {
			result.addError(CodeProposerCannotPropose, "proposer role %s cannot propose removals", proposer.Role)
		}
	case OpTransfer:
		if proposerOK && proposer.Role != sorcha.RoleOwner {
			result.addError(CodeProposerNotOwner, "transfer must be proposed by the owner, proposer %s is %s", op.ProposerDID, proposer.Role)
		}
		target, targetOK := record.Find(op.TargetDID)
		if !targetOK {
			result.addError(CodeTransferTargetNotMember, "transfer target %s is not on the roster", op.TargetDID)
		} else if target.Role != sorcha.RoleAdmin {
			result.addError(CodeTransferTargetNotAdmin, "transfer target %s is %s, must be Admin", op.TargetDID, target.Role)
		}
		if op.TargetRole != sorcha.RoleOwner {
			result.addError(CodeInvalidTargetRole, "transfer target role must be Owner, got %q", op.TargetRole)
		}
	default:
		result.addError(CodeUnknownOperation, "unknown operation type %q", op.Type)
	}

	return result
}
