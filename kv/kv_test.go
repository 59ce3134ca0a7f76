// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorcha-ledger/sorcha/kv"
)

func TestMemStoreBasics(t *testing.T) {
	store := kv.OpenMem()
	defer store.Close()

	_, err := store.Get([]byte("missing"))
	assert.True(t, store.IsNotFound(err))

	require.NoError(t, store.Put([]byte("k1"), []byte("v1")))
	val, err := store.Get([]byte("k1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), val)

	has, err := store.Has([]byte("k1"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, store.Delete([]byte("k1")))
	has, err = store.Has([]byte("k1"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBatchAtomicity(t *testing.T) {
	store := kv.OpenMem()
	defer store.Close()

	batch := store.NewBatch()
	require.NoError(t, batch.Put([]byte("a"), []byte("1")))
	require.NoError(t, batch.Put([]byte("b"), []byte("2")))
	assert.Equal(t, 2, batch.Len())

	// nothing visible before write
	has, err := store.Has([]byte("a"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, batch.Write())
	val, err := store.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), val)
}

func TestBucketIsolation(t *testing.T) {
	store := kv.OpenMem()
	defer store.Close()

	a := kv.Bucket("a")
	b := kv.Bucket("b")
	require.NoError(t, a.NewPutter(store).Put([]byte("k"), []byte("in-a")))
	require.NoError(t, b.NewPutter(store).Put([]byte("k"), []byte("in-b")))

	val, err := a.NewGetter(store).Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("in-a"), val)

	// iteration stays within the bucket and strips the prefix
	iter := a.Iterate(store, kv.Range{})
	defer iter.Release()
	count := 0
	for iter.Next() {
		assert.Equal(t, []byte("k"), iter.Key())
		assert.Equal(t, []byte("in-a"), iter.Value())
		count++
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, 1, count)
}

func TestIterateRange(t *testing.T) {
	store := kv.OpenMem()
	defer store.Close()

	for _, k := range []string{"a1", "a2", "a3", "b1"} {
		require.NoError(t, store.Put([]byte(k), []byte(k)))
	}

	iter := store.Iterate(kv.Range{Start: []byte("a2"), Limit: []byte("b1")})
	defer iter.Release()
	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"a2", "a3"}, keys)
}
