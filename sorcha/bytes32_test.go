// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package sorcha_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcha-ledger/sorcha/sorcha"
)

func TestBytes32(t *testing.T) {
	b := sorcha.RandomBytes32()
	assert.Len(t, b.String(), 64)
	assert.False(t, b.IsZero())
	assert.True(t, sorcha.Bytes32{}.IsZero())

	parsed, err := sorcha.ParseBytes32(b.String())
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	parsed, err = sorcha.ParseBytes32("0x" + b.String())
	require.NoError(t, err)
	assert.Equal(t, b, parsed)

	_, err = sorcha.ParseBytes32("abc")
	assert.Error(t, err)
	_, err = sorcha.ParseBytes32("zz" + b.String()[2:])
	assert.Error(t, err)

	enc, err := json.Marshal(&b)
	require.NoError(t, err)
	assert.Equal(t, `"`+b.String()+`"`, string(enc))
	var decoded sorcha.Bytes32
	require.NoError(t, json.Unmarshal(enc, &decoded))
	assert.Equal(t, b, decoded)
}

func TestBytesToBytes32(t *testing.T) {
	short := sorcha.BytesToBytes32([]byte{1, 2})
	assert.Equal(t, byte(1), short[30])
	assert.Equal(t, byte(2), short[31])

	long := make([]byte, 40)
	long[39] = 7
	cropped := sorcha.BytesToBytes32(long)
	assert.Equal(t, byte(7), cropped[31])
}

func TestRegisterID(t *testing.T) {
	id := sorcha.NewRegisterID()
	assert.Len(t, id.String(), 32)
	assert.False(t, id.IsZero())

	parsed, err := sorcha.ParseRegisterID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = sorcha.ParseRegisterID("nope")
	assert.Error(t, err)

	enc, err := json.Marshal(&id)
	require.NoError(t, err)
	var decoded sorcha.RegisterID
	require.NoError(t, json.Unmarshal(enc, &decoded))
	assert.Equal(t, id, decoded)
}

func TestDIDForms(t *testing.T) {
	assert.Equal(t, sorcha.DID("w:addr-1"), sorcha.WalletDID("addr-1"))

	regID := sorcha.MustParseRegisterID("00112233445566778899aabbccddeeff")
	txID := sorcha.MustParseBytes32("00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff")
	assert.Equal(t,
		sorcha.DID("r:00112233445566778899aabbccddeeff:t:00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"),
		sorcha.RegisterDID(regID, txID))

	// case-sensitive by-value equality
	assert.NotEqual(t, sorcha.WalletDID("Addr"), sorcha.WalletDID("addr"))
}
