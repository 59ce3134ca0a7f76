// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package mempool

import "github.com/pkg/errors"

// Rejection sentinels.
var (
	errDuplicateTx         = errors.New("duplicate tx id")
	errRegisterUnavailable = errors.New("register unavailable")
	errTxTooLarge          = errors.New("tx too large")
	errBadSignature        = errors.New("bad signature")
	errBadControlPayload   = errors.New("bad control payload")
	errUnknownPrevTx       = errors.New("unknown prev tx")
)

// IsDuplicateTx reports whether the tx id was already admitted or sealed.
func IsDuplicateTx(err error) bool {
	return errors.Cause(err) == errDuplicateTx
}

// IsRegisterUnavailable reports whether the register is missing or not
// accepting this tx type.
func IsRegisterUnavailable(err error) bool {
	return errors.Cause(err) == errRegisterUnavailable
}

// IsTxTooLarge reports whether the tx exceeded the size cap.
func IsTxTooLarge(err error) bool {
	return errors.Cause(err) == errTxTooLarge
}

// IsBadSignature reports whether the sender signature failed to verify.
func IsBadSignature(err error) bool {
	return errors.Cause(err) == errBadSignature
}

// IsBadControlPayload reports whether a control or genesis payload was
// malformed or not a legal roster successor.
func IsBadControlPayload(err error) bool {
	return errors.Cause(err) == errBadControlPayload
}

// IsUnknownPrevTx reports whether an action referenced an unknown tx.
func IsUnknownPrevTx(err error) bool {
	return errors.Cause(err) == errUnknownPrevTx
}

func rejectReason(err error) string {
	switch errors.Cause(err) {
	case errDuplicateTx:
		return "duplicate"
	case errRegisterUnavailable:
		return "register_unavailable"
	case errTxTooLarge:
		return "too_large"
	case errBadSignature:
		return "bad_signature"
	case errBadControlPayload:
		return "bad_control_payload"
	case errUnknownPrevTx:
		return "unknown_prev_tx"
	default:
		return "other"
	}
}
