// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Bytes32 is a storage slot key, an event topic or a tx id.
type Bytes32 [32]byte

// BytesToBytes32 left-pads b to 32 bytes, keeping the rightmost 32 when b is longer.
func BytesToBytes32(b []byte) Bytes32 {
	return Bytes32(common.BytesToHash(b))
}

func (b Bytes32) Bytes() []byte { return b[:] }

func (b Bytes32) IsZero() bool { return b == Bytes32{} }

// String returns the 0x-prefixed hex form.
func (b Bytes32) String() string {
	return common.Hash(b).Hex()
}

// AbbrevString keeps the first and last four bytes, for tables and logs.
func (b Bytes32) AbbrevString() string {
	return fmt.Sprintf("0x%x…%x", b[:4], b[28:])
}
