// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/nftstaking/chain"
	"github.com/vechain/nftstaking/lvldb"
)

func M(a ...any) []any {
	return a
}

func newTestState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func TestStateReadWrite(t *testing.T) {
	st, _ := newTestState(t)

	addr := chain.BytesToAddress([]byte("account"))
	key := chain.BytesToBytes32([]byte("key"))
	val, _ := rlp.EncodeToBytes(uint64(42))

	assert.Equal(t, M(rlp.RawValue(nil), nil), M(st.GetRawStorage(addr, key)))

	st.SetRawStorage(addr, key, val)
	assert.Equal(t, M(rlp.RawValue(val), nil), M(st.GetRawStorage(addr, key)))

	var decoded uint64
	require.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &decoded)
	}))
	assert.Equal(t, uint64(42), decoded)
}

func TestStateRevert(t *testing.T) {
	st, _ := newTestState(t)

	addr := chain.BytesToAddress([]byte("account"))
	key := chain.BytesToBytes32([]byte("key"))

	st.SetRawStorage(addr, key, rlp.RawValue{0x01})
	chk := st.NewCheckpoint()
	st.SetRawStorage(addr, key, rlp.RawValue{0x02})
	st.SetRawStorage(addr, chain.BytesToBytes32([]byte("other")), rlp.RawValue{0x03})
	st.RevertTo(chk)

	assert.Equal(t, M(rlp.RawValue{0x01}, nil), M(st.GetRawStorage(addr, key)))
	assert.Equal(t, M(rlp.RawValue(nil), nil), M(st.GetRawStorage(addr, chain.BytesToBytes32([]byte("other")))))
	assert.Equal(t, 1, st.Stage().Len())

	// reverting past the base keeps the state usable
	st.RevertTo(0)
	st.SetRawStorage(addr, key, rlp.RawValue{0x04})
	assert.Equal(t, M(rlp.RawValue{0x04}, nil), M(st.GetRawStorage(addr, key)))
}

func TestStateCommit(t *testing.T) {
	st, db := newTestState(t)

	addr := chain.BytesToAddress([]byte("account"))
	k1 := chain.BytesToBytes32([]byte("k1"))
	k2 := chain.BytesToBytes32([]byte("k2"))

	st.SetRawStorage(addr, k1, rlp.RawValue{0x01})
	st.SetRawStorage(addr, k1, rlp.RawValue{0x11})
	st.SetRawStorage(addr, k2, rlp.RawValue{0x02})

	n, err := st.Commit()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, st.Stage().Len())

	// a fresh state over the same db sees the committed values
	reopened := New(db)
	assert.Equal(t, M(rlp.RawValue{0x11}, nil), M(reopened.GetRawStorage(addr, k1)))

	// clearing a slot deletes it from the store
	reopened.SetRawStorage(addr, k2, nil)
	_, err = reopened.Commit()
	require.NoError(t, err)
	assert.Equal(t, M(rlp.RawValue(nil), nil), M(New(db).GetRawStorage(addr, k2)))
}
