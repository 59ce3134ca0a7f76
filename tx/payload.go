// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/sorcha-ledger/sorcha/cry"
	"github.com/sorcha-ledger/sorcha/sorcha"
)

// Payload is an opaque byte blob carried by a transaction, together with its
// digest and size. The validator never interprets payload bytes; only the
// roster package decodes control payloads.
type Payload struct {
	Data []byte
	Hash sorcha.Bytes32
	Size uint32
}

// NewPayload builds a payload from raw bytes, computing digest and size.
func NewPayload(data []byte) Payload {
	return Payload{
		Data: data,
		Hash: cry.Hash(data),
		Size: uint32(len(data)),
	}
}
