// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package register

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"

	"github.com/sorcha-ledger/sorcha/kv"
)

// Key layout under the repository's buckets:
//
//	"r" <registerId>              -> register entity
//	"d" <registerId> <BE docketId> -> docket blob
//	"t" <registerId> <txId>        -> transaction blob
//	"s" <registerId> <BE seq>      -> txId (canonical recording order)
//
// Blobs are rlp encoded then snappy compressed.
const (
	registerBucket = kv.Bucket("r")
	docketBucket   = kv.Bucket("d")
	txBucket       = kv.Bucket("t")
	seqBucket      = kv.Bucket("s")
)

func saveRLP(p kv.Putter, key []byte, val any) error {
	data, err := rlp.EncodeToBytes(val)
	if err != nil {
		return err
	}
	return p.Put(key, snappy.Encode(nil, data))
}

func loadRLP(g kv.Getter, key []byte, val any) error {
	compressed, err := g.Get(key)
	if err != nil {
		return err
	}
	return decodeBlob(compressed, val)
}

func decodeBlob(compressed []byte, val any) error {
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return err
	}
	return rlp.DecodeBytes(data, val)
}

func docketKey(regID []byte, docketID uint64) []byte {
	key := make([]byte, 0, len(regID)+8)
	key = append(key, regID...)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], docketID)
	return append(key, buf[:]...)
}

func seqKey(regID []byte, seq uint64) []byte {
	return docketKey(regID, seq)
}

func txKey(regID, txID []byte) []byte {
	key := make([]byte, 0, len(regID)+len(txID))
	key = append(key, regID...)
	return append(key, txID...)
}

// registerBody is the persisted form of a register entity.
type registerBody struct {
	Name      string
	TenantID  string
	Height    uint64
	RegStatus Status
	CreatedAt uint64
	Advertise bool
	DigestKey []byte
}
