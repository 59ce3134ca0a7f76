// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcha-ledger/sorcha/sorcha"
	"github.com/sorcha-ledger/sorcha/tx"
)

func TestTransactionBuildAndEncode(t *testing.T) {
	regID := sorcha.NewRegisterID()
	trx := new(tx.Builder).
		RegisterID(regID).
		SenderWallet("walt-1").
		Recipient("walt-2").
		Payload([]byte("payload-0")).
		BlueprintID("genesis").
		ActionID("register-creation").
		Type(tx.TypeGenesis).
		CreatedAt(1700000000).
		Build()

	// genesis is forced to high priority
	assert.Equal(t, tx.PriorityHigh, trx.Priority())
	assert.Equal(t, regID, trx.RegisterID())
	assert.Equal(t, sorcha.WalletDID("walt-1"), trx.SenderDID())

	signed := trx.WithSignature([]byte("sig"))
	// signature does not change the signing hash
	assert.Equal(t, trx.SigningHash(), signed.SigningHash())
	assert.Equal(t, trx.ID(), signed.ID())

	enc, err := rlp.EncodeToBytes(signed)
	require.NoError(t, err)

	var decoded tx.Transaction
	require.NoError(t, rlp.DecodeBytes(enc, &decoded))
	assert.Equal(t, signed.ID(), decoded.ID())
	assert.Equal(t, signed.Signature(), decoded.Signature())
	assert.Equal(t, signed.Payloads(), decoded.Payloads())
	assert.Equal(t, tx.TypeGenesis, decoded.Type())
}

func TestTransactionIDBoundToSender(t *testing.T) {
	regID := sorcha.NewRegisterID()
	build := func(sender string) *tx.Transaction {
		return new(tx.Builder).
			RegisterID(regID).
			SenderWallet(sender).
			Payload([]byte("x")).
			Type(tx.TypeAction).
			CreatedAt(1).
			Build()
	}
	assert.NotEqual(t, build("a").ID(), build("b").ID())
}

func TestTransactionPrevTxID(t *testing.T) {
	prev := sorcha.RandomBytes32()
	trx := new(tx.Builder).
		RegisterID(sorcha.NewRegisterID()).
		SenderWallet("w").
		PrevTxID(prev).
		Type(tx.TypeAction).
		Build()
	require.NotNil(t, trx.PrevTxID())
	assert.Equal(t, prev, *trx.PrevTxID())

	enc, err := rlp.EncodeToBytes(trx)
	require.NoError(t, err)
	var decoded tx.Transaction
	require.NoError(t, rlp.DecodeBytes(enc, &decoded))
	require.NotNil(t, decoded.PrevTxID())
	assert.Equal(t, prev, *decoded.PrevTxID())
}
