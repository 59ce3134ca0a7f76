// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wallet_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcha-ledger/sorcha/cry"
	"github.com/sorcha-ledger/sorcha/sorcha"
	"github.com/sorcha-ledger/sorcha/wallet"
)

func TestMemStoreSignAndVerify(t *testing.T) {
	ctx := context.Background()
	store := wallet.NewMemStore()

	for _, algorithm := range []sorcha.Algorithm{sorcha.AlgorithmEd25519, sorcha.AlgorithmP256} {
		address := "wallet-" + string(algorithm)
		rec, err := store.CreateWallet(address, algorithm)
		require.NoError(t, err)
		assert.Equal(t, wallet.StatusActive, rec.Status)
		assert.True(t, cry.ConsistentKey(algorithm, rec.PublicKey))

		message := []byte("attestation bytes")
		sig, publicKey, err := store.Sign(ctx, address, message, false)
		require.NoError(t, err)
		assert.Equal(t, rec.PublicKey, publicKey)
		require.NoError(t, cry.Verify(algorithm, publicKey, message, sig))

		digest := cry.Hash(message)
		sig, _, err = store.Sign(ctx, address, digest.Bytes(), true)
		require.NoError(t, err)
		require.NoError(t, cry.VerifyPreHashed(algorithm, publicKey, digest, sig))
	}
}

func TestMemStoreLookup(t *testing.T) {
	ctx := context.Background()
	store := wallet.NewMemStore()

	_, err := store.GetWallet(ctx, "missing")
	assert.True(t, wallet.IsNotFound(err))

	_, err = store.CreateWallet("w1", sorcha.AlgorithmEd25519)
	require.NoError(t, err)
	_, err = store.CreateWallet("w1", sorcha.AlgorithmEd25519)
	assert.Error(t, err)

	rec, err := store.GetWallet(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "w1", rec.Address)
}

func TestMemStoreDisable(t *testing.T) {
	ctx := context.Background()
	store := wallet.NewMemStore()
	_, err := store.CreateWallet("w1", sorcha.AlgorithmEd25519)
	require.NoError(t, err)

	store.Disable("w1")
	_, _, err = store.Sign(ctx, "w1", []byte("m"), false)
	assert.Error(t, err)

	// pre-hashed input must be a 32-byte digest
	store2 := wallet.NewMemStore()
	_, err = store2.CreateWallet("w2", sorcha.AlgorithmEd25519)
	require.NoError(t, err)
	_, _, err = store2.Sign(ctx, "w2", []byte("short"), true)
	assert.Error(t, err)
}
