// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"encoding/binary"
	"errors"

	"github.com/vechain/nftstaking/chain"
)

// ErrIndexOutOfRange is returned when an array element beyond its length is accessed.
var ErrIndexOutOfRange = errors.New("array index out of range")

// Array is a growable sequence laid out like a solidity dynamic array:
// the length sits at pos and element i at blake2b(pos, i).
type Array[V any] struct {
	context *Context
	pos     chain.Bytes32
	length  *Raw[uint64]
}

func NewArray[V any](context *Context, pos chain.Bytes32) *Array[V] {
	return &Array[V]{
		context: context,
		pos:     pos,
		length:  NewRaw[uint64](context, pos),
	}
}

func (a *Array[V]) position(index uint64) chain.Bytes32 {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], index)
	return chain.Blake2b(a.pos.Bytes(), b[:])
}

// Len returns the number of elements.
func (a *Array[V]) Len() (uint64, error) {
	return a.length.Get()
}

// Get returns the element at index.
func (a *Array[V]) Get(index uint64) (value V, err error) {
	length, err := a.Len()
	if err != nil {
		return value, err
	}
	if index >= length {
		return value, ErrIndexOutOfRange
	}
	err = decodeSlot(a.context, a.position(index), &value)
	return
}

// Set overwrites the element at index.
func (a *Array[V]) Set(index uint64, value V) error {
	length, err := a.Len()
	if err != nil {
		return err
	}
	if index >= length {
		return ErrIndexOutOfRange
	}
	return encodeSlot(a.context, a.position(index), value)
}

// Push appends value and returns its index.
func (a *Array[V]) Push(value V) (uint64, error) {
	length, err := a.Len()
	if err != nil {
		return 0, err
	}
	if err := encodeSlot(a.context, a.position(length), value); err != nil {
		return 0, err
	}
	if err := a.length.Set(length + 1); err != nil {
		return 0, err
	}
	return length, nil
}

// Last returns the final element, ok is false for an empty array.
func (a *Array[V]) Last() (value V, ok bool, err error) {
	length, err := a.Len()
	if err != nil || length == 0 {
		return value, false, err
	}
	value, err = a.Get(length - 1)
	return value, err == nil, err
}
