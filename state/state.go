// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/nftstaking/cache"
	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/kv"
	"github.com/vechain/nftstaking/log"
	"github.com/vechain/nftstaking/stackedmap"
)

// StoreName is the kv bucket holding committed storage slots.
const StoreName = "state.s"

const slotCacheSize = 4096

var logger = log.WithContext("pkg", "state")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr chain.Address
	key  chain.Bytes32
}

func (k storageKey) bytes() []byte {
	b := make([]byte, 0, chain.AddressLength+32)
	return append(append(b, k.addr[:]...), k.key[:]...)
}

// State manages contract storage with checkpoints.
type State struct {
	store kv.Store
	cache *cache.LRU[storageKey, rlp.RawValue] // committed slots
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New create state object over the given store.
func New(store kv.Store) *State {
	slots, _ := cache.NewLRU[storageKey, rlp.RawValue](slotCacheSize)
	s := &State{
		store: kv.Bucket(StoreName).NewStore(store),
		cache: slots,
	}
	s.sm = stackedmap.New(s.cacheGetter)
	return s
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key storageKey) (rlp.RawValue, bool, error) {
	v, err := s.cache.GetOrLoad(key, func(key storageKey) (rlp.RawValue, error) {
		data, err := s.store.Get(key.bytes())
		if err != nil {
			if s.store.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr chain.Address, key chain.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr chain.Address, key chain.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by enc will be absorbed by State instance.
func (s *State) EncodeStorage(addr chain.Address, key chain.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr chain.Address, key chain.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage collects the uncommitted changes, last write wins.
func (s *State) Stage() *Stage {
	stage := &Stage{index: make(map[storageKey]int)}
	s.sm.Journal(func(key storageKey, value rlp.RawValue) bool {
		if i, ok := stage.index[key]; ok {
			stage.changes[i].value = value
		} else {
			stage.index[key] = len(stage.changes)
			stage.changes = append(stage.changes, change{key, value})
		}
		return true
	})
	return stage
}

// Commit writes all journaled changes to the store atomically and resets the journal.
// It returns the number of slots written.
func (s *State) Commit() (int, error) {
	stage := s.Stage()
	if err := s.store.Batch(func(putter kv.Putter) error {
		for _, c := range stage.changes {
			var err error
			if len(c.value) == 0 {
				err = putter.Delete(c.key.bytes())
			} else {
				err = putter.Put(c.key.bytes(), c.value)
			}
			if err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return 0, &Error{err}
	}

	for _, c := range stage.changes {
		s.cache.Add(c.key, c.value)
	}
	s.sm = stackedmap.New(s.cacheGetter)

	if changed, hit, miss := s.cache.Stats().Stats(); changed {
		logger.Debug("slot cache stats", "hit", hit, "miss", miss)
	}
	metricSlotWrites().Add(int64(len(stage.changes)))
	return len(stage.changes), nil
}

// Stage holds the net slot changes of a state.
type Stage struct {
	changes []change
	index   map[storageKey]int
}

type change struct {
	key   storageKey
	value rlp.RawValue
}

// Len returns the number of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}
