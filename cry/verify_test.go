// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcha-ledger/sorcha/sorcha"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	msg := []byte("the canonical attestation bytes")

	for _, algorithm := range []sorcha.Algorithm{
		sorcha.AlgorithmEd25519,
		sorcha.AlgorithmP256,
		sorcha.AlgorithmRSA4096,
	} {
		t.Run(string(algorithm), func(t *testing.T) {
			priv, pub, err := GenerateKey(algorithm)
			require.NoError(t, err)

			sig, err := Sign(algorithm, priv, msg)
			require.NoError(t, err)
			assert.NoError(t, Verify(algorithm, pub, msg, sig))

			// pre-hashed path: caller supplies Hash(msg)
			digest := Hash(msg)
			preSig, err := SignPreHashed(algorithm, priv, digest)
			require.NoError(t, err)
			assert.NoError(t, VerifyPreHashed(algorithm, pub, digest, preSig))
		})
	}
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	priv, pub, err := GenerateKey(sorcha.AlgorithmEd25519)
	require.NoError(t, err)

	msg := []byte("original")
	sig, err := Sign(sorcha.AlgorithmEd25519, priv, msg)
	require.NoError(t, err)

	err = Verify(sorcha.AlgorithmEd25519, pub, []byte("tampered"), sig)
	assert.True(t, IsErrVerificationFailed(err))
}

func TestVerifyKeyFormat(t *testing.T) {
	msg := []byte("msg")

	err := Verify(sorcha.AlgorithmEd25519, make([]byte, 31), msg, make([]byte, 64))
	assert.True(t, IsErrInvalidKey(err))

	err = Verify(sorcha.AlgorithmP256, make([]byte, 10), msg, []byte{0x30})
	assert.True(t, IsErrInvalidKey(err))

	err = Verify(sorcha.AlgorithmRSA4096, []byte{0x01, 0x02}, msg, make([]byte, 512))
	assert.True(t, IsErrInvalidKey(err))
}

func TestVerifySignatureFormat(t *testing.T) {
	priv, pub, err := GenerateKey(sorcha.AlgorithmEd25519)
	require.NoError(t, err)
	_ = priv

	err = Verify(sorcha.AlgorithmEd25519, pub, []byte("msg"), make([]byte, 10))
	assert.True(t, IsErrInvalidSignature(err))
}

func TestVerifyUnknownAlgorithm(t *testing.T) {
	err := Verify(sorcha.Algorithm("SECP256K1"), nil, nil, nil)
	assert.Error(t, err)
}

func TestKeyedHashDiffersFromPlain(t *testing.T) {
	data := []byte("docket header")
	assert.NotEqual(t, Hash(data), KeyedHash([]byte("register-key"), data))
	assert.Equal(t, KeyedHash([]byte("k"), data), KeyedHash([]byte("k"), data))
	assert.NotEqual(t, KeyedHash([]byte("k1"), data), KeyedHash([]byte("k2"), data))
}

func TestConsistentKey(t *testing.T) {
	assert.True(t, ConsistentKey(sorcha.AlgorithmEd25519, make([]byte, 32)))
	assert.False(t, ConsistentKey(sorcha.AlgorithmEd25519, make([]byte, 33)))
	assert.True(t, ConsistentKey(sorcha.AlgorithmP256, make([]byte, 65)))
	assert.False(t, ConsistentKey(sorcha.AlgorithmP256, make([]byte, 70)))
	assert.True(t, ConsistentKey(sorcha.AlgorithmRSA4096, make([]byte, 550)))
	assert.False(t, ConsistentKey(sorcha.AlgorithmRSA4096, make([]byte, 100)))
}
