// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

// Getter defines methods to read kv.
type Getter interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	IsNotFound(err error) bool
}

// Putter defines methods to write kv.
type Putter interface {
	Put(key, val []byte) error
	Delete(key []byte) error
}

// GetPutter defines methods to read and write kv.
type GetPutter interface {
	Getter
	Putter
}

// Pair defines key-value pair.
type Pair interface {
	Key() []byte
	Value() []byte
}

// Range is the key range.
type Range struct {
	Start []byte // start of key range (included)
	Limit []byte // limit of key range (excluded)
}

// Store defines the full functional kv store.
type Store interface {
	GetPutter

	// Snapshot runs fn against a consistent read-only view.
	Snapshot(fn func(Getter) error) error
	// Batch collects the puts made by fn and writes them atomically.
	// Nothing is written if fn returns an error.
	Batch(fn func(Putter) error) error
	// Iterate calls fn for every pair in rng in key order until fn returns false.
	Iterate(rng Range, fn func(Pair) bool) error
}

// StoreCloser is a store that owns its resources.
type StoreCloser interface {
	Store
	Close() error
}
