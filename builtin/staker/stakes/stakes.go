// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin/collection"
	"github.com/vechain/nftstaking/builtin/reverts"
	"github.com/vechain/nftstaking/chain"
)

// WeightTable assigns the accrual weight of each item class.
type WeightTable map[collection.Class]uint64

// DefaultWeights returns the stock rarity weights.
func DefaultWeights() WeightTable {
	return WeightTable{
		collection.Common:    1,
		collection.Epic:      10,
		collection.Legendary: 100,
		collection.Apex:      500,
	}
}

// WeightOf returns the weight of a class. Classes without a positive weight cannot be staked.
func (w WeightTable) WeightOf(class collection.Class) (uint64, error) {
	weight := w[class]
	if weight == 0 {
		return 0, reverts.ErrUnsupportedToken
	}
	return weight, nil
}

// Validate checks that at least one valid class carries weight.
func (w WeightTable) Validate() error {
	supported := 0
	for class, weight := range w {
		if !class.Valid() {
			return errors.Errorf("invalid class %s in weight table", class)
		}
		if weight > 0 {
			supported++
		}
	}
	if supported == 0 {
		return errors.New("weight table supports no class")
	}
	return nil
}

// WeightedItem is an item with the weight it accrues while staked.
type WeightedItem struct {
	ID     *big.Int
	Weight uint64
}

// NewWeightedItem weighs item id of class.
func NewWeightedItem(w WeightTable, id *big.Int, class collection.Class) (*WeightedItem, error) {
	weight, err := w.WeightOf(class)
	if err != nil {
		return nil, err
	}
	return &WeightedItem{ID: id, Weight: weight}, nil
}

// TotalWeight sums the weights of items, failing with reverts.ErrOverflow.
func TotalWeight(items []*WeightedItem) (uint64, error) {
	var total uint64
	for _, item := range items {
		var err error
		if total, err = chain.AddUint64(total, item.Weight); err != nil {
			return 0, reverts.ErrOverflow
		}
	}
	return total, nil
}
