// Copyright (c) 2025 The Sorcha developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import "github.com/syndtr/goleveldb/leveldb/util"

// Bucket provides a logical bucket (key prefix) over a kv store.
type Bucket string

// NewGetter creates a bucket getter from the source getter.
func (b Bucket) NewGetter(src Getter) Getter {
	return &bucketGetter{string(b), src}
}

// NewPutter creates a bucket putter from the source putter.
func (b Bucket) NewPutter(src Putter) Putter {
	return &bucketPutter{string(b), src}
}

// Iterate iterates the bucket's key range of the source store.
// Returned keys have the bucket prefix stripped.
func (b Bucket) Iterate(src Store, r Range) Iterator {
	start := append([]byte(b), r.Start...)
	var limit []byte
	if len(r.Limit) == 0 {
		limit = util.BytesPrefix([]byte(b)).Limit
	} else {
		limit = append([]byte(b), r.Limit...)
	}
	return &bucketIterator{len(b), src.Iterate(Range{Start: start, Limit: limit})}
}

type bucketGetter struct {
	prefix string
	src    Getter
}

func (g *bucketGetter) Get(key []byte) ([]byte, error) {
	return g.src.Get(append([]byte(g.prefix), key...))
}

func (g *bucketGetter) Has(key []byte) (bool, error) {
	return g.src.Has(append([]byte(g.prefix), key...))
}

func (g *bucketGetter) IsNotFound(err error) bool {
	return g.src.IsNotFound(err)
}

type bucketPutter struct {
	prefix string
	src    Putter
}

func (p *bucketPutter) Put(key, val []byte) error {
	return p.src.Put(append([]byte(p.prefix), key...), val)
}

func (p *bucketPutter) Delete(key []byte) error {
	return p.src.Delete(append([]byte(p.prefix), key...))
}

type bucketIterator struct {
	prefixLen int
	src       Iterator
}

func (i *bucketIterator) Next() bool    { return i.src.Next() }
func (i *bucketIterator) Key() []byte   { return i.src.Key()[i.prefixLen:] }
func (i *bucketIterator) Value() []byte { return i.src.Value() }
func (i *bucketIterator) Release()      { i.src.Release() }
func (i *bucketIterator) Error() error  { return i.src.Error() }
