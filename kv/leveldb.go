// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	lvlerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	writeOpt = &opt.WriteOptions{}
	readOpt  = &opt.ReadOptions{}
)

type levelDB struct {
	db *leveldb.DB
}

// Open opens or creates a leveldb backed store at the given path.
func Open(path string, cacheSizeMB int) (Store, error) {
	if cacheSizeMB < 16 {
		cacheSizeMB = 16
	}
	db, err := leveldb.OpenFile(path, &opt.Options{
		BlockCacheCapacity: cacheSizeMB / 2 * opt.MiB,
		WriteBuffer:        cacheSizeMB / 4 * opt.MiB,
		Filter:             filter.NewBloomFilter(10),
	})
	if err != nil {
		if lvlerrors.IsCorrupted(err) {
			db, err = leveldb.RecoverFile(path, nil)
		}
		if err != nil {
			return nil, errors.Wrap(err, "open leveldb")
		}
	}
	return &levelDB{db: db}, nil
}

// OpenMem creates an in-memory store, mainly for tests and solo mode.
func OpenMem() Store {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		// memory storage never fails to open
		panic(errors.Wrap(err, "open mem leveldb"))
	}
	return &levelDB{db: db}
}

func (l *levelDB) Get(key []byte) ([]byte, error) {
	return l.db.Get(key, readOpt)
}

func (l *levelDB) Has(key []byte) (bool, error) {
	return l.db.Has(key, readOpt)
}

func (l *levelDB) IsNotFound(err error) bool {
	return err == leveldb.ErrNotFound
}

func (l *levelDB) Put(key, val []byte) error {
	return l.db.Put(key, val, writeOpt)
}

func (l *levelDB) Delete(key []byte) error {
	return l.db.Delete(key, writeOpt)
}

func (l *levelDB) NewBatch() Batch {
	return &levelDBBatch{db: l.db, batch: &leveldb.Batch{}}
}

func (l *levelDB) Iterate(r Range) Iterator {
	return l.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, readOpt)
}

func (l *levelDB) Close() error {
	return l.db.Close()
}

type levelDBBatch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *levelDBBatch) Put(key, val []byte) error {
	b.batch.Put(key, val)
	return nil
}

func (b *levelDBBatch) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *levelDBBatch) Len() int {
	return b.batch.Len()
}

func (b *levelDBBatch) Write() error {
	return b.db.Write(b.batch, writeOpt)
}
