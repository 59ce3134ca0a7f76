// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sorcha

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// RegisterID 128-bit register identifier. The string form is lowercase hex.
type RegisterID [16]byte

var (
	_ json.Marshaler   = (*RegisterID)(nil)
	_ json.Unmarshaler = (*RegisterID)(nil)
)

// String implements stringer
func (id RegisterID) String() string {
	return hex.EncodeToString(id[:])
}

// Bytes returns byte slice form of RegisterID.
func (id RegisterID) Bytes() []byte {
	return id[:]
}

// IsZero returns if RegisterID has all zero bytes.
func (id RegisterID) IsZero() bool {
	return id == RegisterID{}
}

// MarshalJSON implements json.Marshaler.
func (id *RegisterID) MarshalJSON() ([]byte, error) {
	if id == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(id.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *RegisterID) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseRegisterID(str)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseRegisterID convert string presented into RegisterID type.
func ParseRegisterID(s string) (RegisterID, error) {
	if len(s) == 16*2+2 && strings.ToLower(s[:2]) == "0x" {
		s = s[2:]
	}
	if len(s) != 16*2 {
		return RegisterID{}, errors.New("invalid length")
	}

	var id RegisterID
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return RegisterID{}, err
	}
	return id, nil
}

// MustParseRegisterID convert string presented into RegisterID type, panic on error.
func MustParseRegisterID(s string) RegisterID {
	id, err := ParseRegisterID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// NewRegisterID generates a fresh cryptographically random register ID.
func NewRegisterID() RegisterID {
	var id RegisterID
	if _, err := rand.Read(id[:]); err != nil {
		panic(errors.Wrap(err, "rand register id"))
	}
	return id
}
