// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package kv defines the key-value store abstraction the register
// repository is built on.
package kv

// Getter defines methods to read kv.
type Getter interface {
	// Get value for given key.
	// An error is returned if key not found. It can be checked via IsNotFound.
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter defines methods to write kv.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// Batch is an atomic putter. Nothing is visible until Write.
type Batch interface {
	Putter
	Len() int
	Write() error
}

// Iterator iterates over kv pairs in key order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Release()
	Error() error
}

// Range is the key range.
type Range struct {
	Start []byte // start of key range (included)
	Limit []byte // limit of key range (excluded)
}

// Store defines the full functional kv store.
type Store interface {
	Getter
	Putter

	NewBatch() Batch
	Iterate(r Range) Iterator
	Close() error
}
