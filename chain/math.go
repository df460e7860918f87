// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"errors"
	"math"
	"math/big"

	"github.com/holiman/uint256"
)

// ErrOverflow is returned when a checked arithmetic operation does not fit its type.
var ErrOverflow = errors.New("arithmetic overflow")

// SafeAdd returns a+b, failing if the result overflows 256 bits.
func SafeAdd(a, b *uint256.Int) (*uint256.Int, error) {
	res, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return res, nil
}

// SafeSub returns a-b, failing on underflow.
func SafeSub(a, b *uint256.Int) (*uint256.Int, error) {
	res, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, ErrOverflow
	}
	return res, nil
}

// SafeMul returns a*b, failing if the result overflows 256 bits.
func SafeMul(a, b *uint256.Int) (*uint256.Int, error) {
	res, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return res, nil
}

// SafeMulDiv returns a*b/c with a 512-bit intermediate product.
// Division by zero yields zero.
func SafeMulDiv(a, b, c *uint256.Int) (*uint256.Int, error) {
	if c.IsZero() {
		return new(uint256.Int), nil
	}
	res, overflow := new(uint256.Int).MulDivOverflow(a, b, c)
	if overflow {
		return nil, ErrOverflow
	}
	return res, nil
}

// AddUint64 returns a+b for stake weights.
func AddUint64(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, ErrOverflow
	}
	return a + b, nil
}

// SubUint64 returns a-b for stake weights.
func SubUint64(a, b uint64) (uint64, error) {
	if b > a {
		return 0, ErrOverflow
	}
	return a - b, nil
}

// ToUint256 converts a non-negative big integer, nil is treated as zero.
func ToUint256(v *big.Int) (*uint256.Int, error) {
	if v == nil {
		return new(uint256.Int), nil
	}
	if v.Sign() < 0 {
		return nil, ErrOverflow
	}
	res, overflow := uint256.FromBig(v)
	if overflow {
		return nil, ErrOverflow
	}
	return res, nil
}
