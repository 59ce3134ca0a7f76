// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/sorcha-ledger/sorcha/sorcha"
)

// Hash computes the SHA-256 digest over the concatenation of data.
func Hash(data ...[]byte) (h sorcha.Bytes32) {
	hw := sha256.New()
	for _, b := range data {
		hw.Write(b)
	}
	hw.Sum(h[:0])
	return
}

// KeyedHash computes HMAC-SHA256 over the concatenation of data.
// It is the keyed digest configured per register for docket hashes.
func KeyedHash(key []byte, data ...[]byte) (h sorcha.Bytes32) {
	hw := hmac.New(sha256.New, key)
	for _, b := range data {
		hw.Write(b)
	}
	hw.Sum(h[:0])
	return
}
