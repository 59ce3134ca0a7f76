// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package register implements the control-plane register entity and its
// persistent repository: registers, their docket chains and the sealed
// transactions under them.
package register

import (
	"github.com/sorcha-ledger/sorcha/sorcha"
)

// Status of a register.
type Status uint8

// Register lifecycle states. A register is created Initializing by the
// genesis pipeline, goes Online once its genesis transaction is accepted,
// and may later be Quiesced or Deleted by operators.
const (
	StatusInitializing Status = iota
	StatusOnline
	StatusQuiesced
	StatusDeleted
)

func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "Initializing"
	case StatusOnline:
		return "Online"
	case StatusQuiesced:
		return "Quiesced"
	case StatusDeleted:
		return "Deleted"
	default:
		return "Unknown"
	}
}

// CanTransitionTo reports whether the status may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusInitializing:
		return next == StatusOnline || next == StatusDeleted
	case StatusOnline:
		return next == StatusQuiesced || next == StatusDeleted
	case StatusQuiesced:
		return next == StatusOnline || next == StatusDeleted
	default:
		return false
	}
}

// Register is the control-plane record of a ledger register.
type Register struct {
	ID        sorcha.RegisterID
	Name      string
	TenantID  string
	Height    uint64
	RegStatus Status
	CreatedAt uint64
	Advertise bool

	// DigestKey keys the docket chain digest of this register.
	DigestKey []byte
}

// AcceptsType reports whether the register admits transactions of the
// given genesis flag. Genesis transactions are only admitted while
// initializing; everything else requires the register to be online.
func (r *Register) AcceptsType(isGenesis bool) bool {
	if isGenesis {
		return r.RegStatus == StatusInitializing
	}
	return r.RegStatus == StatusOnline
}
