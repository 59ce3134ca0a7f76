// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import "github.com/pkg/errors"

var (
	errInvalidKey         = errors.New("invalid key format")
	errInvalidSignature   = errors.New("invalid signature format")
	errVerificationFailed = errors.New("verification failed")
	errUnknownAlgorithm   = errors.New("unknown algorithm")
)

// IsErrInvalidKey reports whether err means a malformed public key.
func IsErrInvalidKey(err error) bool {
	return errors.Cause(err) == errInvalidKey
}

// IsErrInvalidSignature reports whether err means a malformed signature.
func IsErrInvalidSignature(err error) bool {
	return errors.Cause(err) == errInvalidSignature
}

// IsErrVerificationFailed reports whether err means a well formed but
// non-verifying signature.
func IsErrVerificationFailed(err error) bool {
	return errors.Cause(err) == errVerificationFailed
}
