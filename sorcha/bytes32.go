// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sorcha

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Bytes32 array of 32 bytes. Used for transaction IDs, docket hashes and
// canonical digests. The string form is lowercase hex without prefix.
type Bytes32 [32]byte

var (
	_ json.Marshaler   = (*Bytes32)(nil)
	_ json.Unmarshaler = (*Bytes32)(nil)
)

// String implements stringer
func (b Bytes32) String() string {
	return hex.EncodeToString(b[:])
}

// AbbrevString returns abbrev string presentation.
func (b Bytes32) AbbrevString() string {
	return fmt.Sprintf("%x…%x", b[:4], b[28:])
}

// Bytes returns byte slice form of Bytes32.
func (b Bytes32) Bytes() []byte {
	return b[:]
}

// IsZero returns if Bytes32 has all zero bytes.
func (b Bytes32) IsZero() bool {
	return b == Bytes32{}
}

// MarshalJSON implements json.Marshaler.
func (b *Bytes32) MarshalJSON() ([]byte, error) {
	if b == nil {
		return json.Marshal(nil)
	}
	return json.Marshal(b.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Bytes32) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseBytes32(str)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParseBytes32 convert string presented into Bytes32 type.
// Both plain hex and 0x prefixed hex are accepted.
func ParseBytes32(s string) (Bytes32, error) {
	if len(s) == 32*2 {
	} else if len(s) == 32*2+2 {
		if strings.ToLower(s[:2]) != "0x" {
			return Bytes32{}, errors.New("invalid prefix")
		}
		s = s[2:]
	} else {
		return Bytes32{}, errors.New("invalid length")
	}

	var b Bytes32
	if _, err := hex.Decode(b[:], []byte(s)); err != nil {
		return Bytes32{}, err
	}
	return b, nil
}

// MustParseBytes32 convert string presented into Bytes32 type, panic on error.
func MustParseBytes32(s string) Bytes32 {
	b, err := ParseBytes32(s)
	if err != nil {
		panic(err)
	}
	return b
}

// BytesToBytes32 converts bytes slice into Bytes32.
// If b is larger than 32 bytes, b will be cropped (from the left).
// If b is smaller than 32 bytes, b will be extended (from the left).
func BytesToBytes32(b []byte) (b32 Bytes32) {
	if len(b) > 32 {
		b = b[len(b)-32:]
	}
	copy(b32[32-len(b):], b)
	return
}

// RandomBytes32 returns a cryptographically random Bytes32.
func RandomBytes32() Bytes32 {
	var b Bytes32
	if _, err := rand.Read(b[:]); err != nil {
		panic(errors.Wrap(err, "rand bytes32"))
	}
	return b
}
