// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence(t *testing.T) {
	type args struct {
		txSeq uint64
		index uint32
	}
	tests := []struct {
		name string
		args args
		want args
	}{
		{"regular", args{1, 2}, args{1, 2}},
		{"max seq", args{maxTxSeq, 1}, args{maxTxSeq, 1}},
		{"max index", args{5, maxIndex}, args{5, maxIndex}},
		{"both max", args{maxTxSeq, maxIndex}, args{maxTxSeq, maxIndex}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newSequence(tt.args.txSeq, tt.args.index)
			assert.Equal(t, tt.want.txSeq, got.TxSeq())
			assert.Equal(t, tt.want.index, got.Index())
			assert.GreaterOrEqual(t, int64(got), int64(0))
		})
	}

	assert.Less(t, int64(newSequence(1, maxIndex)), int64(newSequence(2, 0)))
	assert.Panics(t, func() { newSequence(1, maxIndex+1) })
	assert.Panics(t, func() { newSequence(maxTxSeq+1, 0) })
}
