// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import "github.com/pkg/errors"

var (
	errInvalidRequest   = errors.New("invalid request")
	errTenantRejected   = errors.New("tenant rejected")
	errPendingNotFound  = errors.New("pending registration not found")
	errExpired          = errors.New("pending registration expired")
	errSignatureInvalid = errors.New("attestation signature invalid")
)

// IsInvalidRequest reports whether the initiate request was malformed.
func IsInvalidRequest(err error) bool {
	return errors.Cause(err) == errInvalidRequest
}

// IsTenantRejected reports whether the tenant gate declined the request.
func IsTenantRejected(err error) bool {
	return errors.Cause(err) == errTenantRejected
}

// IsPendingNotFound reports whether no pending registration matched.
func IsPendingNotFound(err error) bool {
	return errors.Cause(err) == errPendingNotFound
}

// IsExpired reports whether the pending registration outlived its TTL.
func IsExpired(err error) bool {
	return errors.Cause(err) == errExpired
}

// IsSignatureInvalid reports whether an owner attestation failed to verify.
func IsSignatureInvalid(err error) bool {
	return errors.Cause(err) == errSignatureInvalid
}
