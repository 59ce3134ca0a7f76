// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package roster

import (
	"encoding/base64"

	"github.com/pkg/errors"

	"github.com/sorcha-ledger/sorcha/cjson"
)

// PayloadVersion is the current control payload format version.
const PayloadVersion = 1

// Payload is the canonical control-transaction payload: a base64 encoded
// UTF-8 JSON object with deterministic serialization. The roster is a full
// snapshot; the operation that produced it is embedded for auditability but
// reconstruction derives state from the snapshot only.
type Payload struct {
	Version   int            `json:"version"`
	Roster    *ControlRecord `json:"roster"`
	Operation *Operation     `json:"operation,omitempty"`
}

// NewPayload wraps a roster snapshot, with the producing operation attached
// when there is one.
func NewPayload(record *ControlRecord, op *Operation) *Payload {
	return &Payload{
		Version:   PayloadVersion,
		Roster:    record,
		Operation: op,
	}
}

// Encode serializes the payload to its wire form.
func (p *Payload) Encode() ([]byte, error) {
	raw, err := encodeCanonical(p)
	if err != nil {
		return nil, err
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(out, raw)
	return out, nil
}

// DecodePayload parses the wire form back into a payload.
func DecodePayload(data []byte) (*Payload, error) {
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
	n, err := base64.StdEncoding.Decode(raw, data)
	if err != nil {
		return nil, errors.Wrap(err, "control payload base64")
	}

	var p Payload
	if err := cjson.Unmarshal(raw[:n], &p); err != nil {
		return nil, errors.Wrap(err, "control payload json")
	}
	if p.Version != PayloadVersion {
		return nil, errors.Errorf("unsupported control payload version %d", p.Version)
	}
	if p.Roster == nil {
		return nil, errors.New("control payload without roster")
	}
	return &p, nil
}

func encodeCanonical(v any) ([]byte, error) {
	return cjson.Marshal(v)
}
