// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/nftstaking/chain"
)

// Event represents a contract event log.
// Topics[0] is the event id, blake2b of the event name.
type Event struct {
	Address chain.Address
	Topics  []chain.Bytes32
	Data    []byte
}

// Events slice of event logs.
type Events []*Event

// EventID returns the first topic of events with the given name.
func EventID(name string) chain.Bytes32 {
	return chain.Blake2b([]byte(name))
}

// Is reports whether the event carries the given name.
func (e *Event) Is(name string) bool {
	return len(e.Topics) > 0 && e.Topics[0] == EventID(name)
}

// DecodeData decodes the rlp payload of the event into val.
func (e *Event) DecodeData(val any) error {
	return rlp.DecodeBytes(e.Data, val)
}
