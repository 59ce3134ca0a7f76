// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package did resolves decentralized identifiers to verification keys.
//
// Two grammars are supported: "w:<wallet-address>" referring to a wallet
// store record, and "r:<register-id>:t:<tx-id>" referring to an attestation
// carried by a control transaction of a register.
package did

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/sorcha-ledger/sorcha/sorcha"
)

// Resolution failure sentinels. ResolutionFailed wraps transient transport
// errors; callers may retry those. The other two are terminal.
var (
	errNotFound         = errors.New("did not found")
	errInvalidFormat    = errors.New("invalid did format")
	errResolutionFailed = errors.New("did resolution failed")
)

// IsNotFound reports whether the DID referenced nothing.
func IsNotFound(err error) bool {
	return errors.Cause(err) == errNotFound
}

// IsInvalidFormat reports whether the DID or its referenced payload was malformed.
func IsInvalidFormat(err error) bool {
	return errors.Cause(err) == errInvalidFormat
}

// IsResolutionFailed reports whether resolution failed transiently.
func IsResolutionFailed(err error) bool {
	return errors.Cause(err) == errResolutionFailed
}

// Kind of a parsed DID.
type Kind uint8

// DID kinds.
const (
	KindWallet Kind = iota
	KindRegister
)

// Parsed is the structured form of a DID.
type Parsed struct {
	Kind          Kind
	WalletAddress string            // wallet DIDs
	RegisterID    sorcha.RegisterID // register DIDs
	TxID          sorcha.Bytes32    // register DIDs
}

// Parse splits a DID into its structured form. Equality of DIDs is by
// value and case-sensitive, so no normalization happens here.
func Parse(did sorcha.DID) (*Parsed, error) {
	s := string(did)
	switch {
	case strings.HasPrefix(s, "w:"):
		address := s[2:]
		if address == "" {
			return nil, errors.Wrap(errInvalidFormat, "empty wallet address")
		}
		return &Parsed{Kind: KindWallet, WalletAddress: address}, nil

	case strings.HasPrefix(s, "r:"):
		rest := s[2:]
		sep := strings.Index(rest, ":t:")
		if sep < 0 {
			return nil, errors.Wrapf(errInvalidFormat, "%q", s)
		}
		regID, err := sorcha.ParseRegisterID(rest[:sep])
		if err != nil {
			return nil, errors.Wrapf(errInvalidFormat, "register id %q", rest[:sep])
		}
		txID, err := sorcha.ParseBytes32(rest[sep+3:])
		if err != nil {
			return nil, errors.Wrapf(errInvalidFormat, "tx id %q", rest[sep+3:])
		}
		return &Parsed{Kind: KindRegister, RegisterID: regID, TxID: txID}, nil

	default:
		return nil, errors.Wrapf(errInvalidFormat, "%q", s)
	}
}
