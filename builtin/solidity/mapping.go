// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"

	"github.com/vechain/nftstaking/chain"
)

type Key interface {
	Bytes() []byte
}

// Uint64Key keys a mapping by an unsigned integer.
type Uint64Key uint64

func (k Uint64Key) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(k))
}

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Each entry lives at blake2b(key, basePos).
type Mapping[K Key, V any] struct {
	context *Context
	basePos chain.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos chain.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) chain.Bytes32 {
	return chain.Blake2b(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = decodeSlot(m.context, m.position(key), &value)
	return
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return encodeSlot(m.context, m.position(key), value)
}

// Delete unsets the entry.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}
