// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sorcha

import "fmt"

// DID is an opaque identity token. Two grammars exist:
//
//	w:<wallet-address>              wallet DID
//	r:<register-id>:t:<tx-id>       register DID
//
// Equality is by value and case-sensitive. Parsing lives in package did;
// most of the core only ever compares DIDs.
type DID string

// WalletDID builds a wallet DID from a wallet address.
func WalletDID(address string) DID {
	return DID("w:" + address)
}

// RegisterDID builds a register DID pointing at the control transaction
// whose roster attests the key.
func RegisterDID(registerID RegisterID, txID Bytes32) DID {
	return DID(fmt.Sprintf("r:%s:t:%s", registerID, txID))
}

// String implements stringer
func (d DID) String() string {
	return string(d)
}
