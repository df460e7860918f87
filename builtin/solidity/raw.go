// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/nftstaking/chain"
)

// Raw stores one rlp encoded value in a single slot.
// An unset slot decodes to the zero value of V (a fresh allocation when V is a pointer).
type Raw[V any] struct {
	context *Context
	pos     chain.Bytes32
}

func NewRaw[V any](context *Context, pos chain.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: pos}
}

func (r *Raw[V]) Get() (value V, err error) {
	err = decodeSlot(r.context, r.pos, &value)
	return
}

func (r *Raw[V]) Set(value V) error {
	return encodeSlot(r.context, r.pos, value)
}

// Clear unsets the slot.
func (r *Raw[V]) Clear() {
	r.context.state.SetRawStorage(r.context.address, r.pos, nil)
}

func decodeSlot[V any](ctx *Context, pos chain.Bytes32, value *V) error {
	return ctx.state.DecodeStorage(ctx.address, pos, func(raw []byte) error {
		if t := reflect.TypeOf(value).Elem(); t.Kind() == reflect.Ptr {
			*value = reflect.New(t.Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, value)
	})
}

func encodeSlot[V any](ctx *Context, pos chain.Bytes32, value V) error {
	return ctx.state.EncodeStorage(ctx.address, pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}
