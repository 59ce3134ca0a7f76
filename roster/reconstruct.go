// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package roster

import (
	"github.com/pkg/errors"

	"github.com/sorcha-ledger/sorcha/sorcha"
	"github.com/sorcha-ledger/sorcha/tx"
)

// TransactionReader supplies the recorded transactions of a register in
// canonical order.
type TransactionReader interface {
	Transactions(id sorcha.RegisterID) (tx.Transactions, error)
}

// Reconstruct derives the current roster of a register from its recorded
// control transactions. Control payloads carry full snapshots, so the
// latest one is authoritative; earlier ones only contribute to the count.
// Returns nil when the register has no control transactions.
func Reconstruct(reader TransactionReader, id sorcha.RegisterID) (*AdminRoster, error) {
	txs, err := reader.Transactions(id)
	if err != nil {
		return nil, errors.Wrap(err, "fetch transactions")
	}

	var (
		count  int
		lastTx *tx.Transaction
	)
	for _, trx := range txs {
		if !trx.Type().HasControlPayload() {
			continue
		}
		count++
		lastTx = trx
	}
	if lastTx == nil {
		return nil, nil
	}

	payloads := lastTx.Payloads()
	if len(payloads) == 0 {
		return nil, errors.Errorf("control tx %v has no payload", lastTx.ID())
	}
	decoded, err := DecodePayload(payloads[0].Data)
	if err != nil {
		return nil, errors.Wrapf(err, "control tx %v", lastTx.ID())
	}

	return &AdminRoster{
		RegisterID:              id,
		ControlRecord:           decoded.Roster,
		ControlTransactionCount: count,
		LastControlTxID:         lastTx.ID(),
	}, nil
}
