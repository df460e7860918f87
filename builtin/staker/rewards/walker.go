// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/builtin/staker/snapshot"
)

// walker steps forward through one history, holding the snapshot in force and its successor.
type walker struct {
	history *snapshot.History
	length  uint64
	index   uint64
	current *snapshot.Snapshot
	next    *snapshot.Snapshot
}

func newWalker(history *snapshot.History, index uint64) (*walker, error) {
	length, err := history.Len()
	if err != nil {
		return nil, err
	}
	if index >= length {
		return nil, errors.Errorf("snapshot index %d out of range %d", index, length)
	}
	w := &walker{history: history, length: length, index: index}
	if w.current, err = history.Get(index); err != nil {
		return nil, err
	}
	if err := w.loadNext(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *walker) loadNext() (err error) {
	w.next = nil
	if w.index+1 < w.length {
		w.next, err = w.history.Get(w.index + 1)
	}
	return
}

// seek moves to the snapshot in force at cycle.
func (w *walker) seek(cycle uint64) error {
	for w.next != nil && w.next.StartCycle <= cycle {
		w.index++
		w.current = w.next
		if err := w.loadNext(); err != nil {
			return err
		}
	}
	return nil
}

// stakeAt returns the stake at cycle, zero before the snapshot the walk started from.
func (w *walker) stakeAt(cycle uint64) uint64 {
	if w.current.StartCycle > cycle {
		return 0
	}
	return w.current.Stake
}

// rangeEnd clips end to the last cycle the stake at cycle stays constant.
func (w *walker) rangeEnd(cycle, end uint64) uint64 {
	if w.current.StartCycle > cycle {
		return min(end, w.current.StartCycle-1)
	}
	if w.next != nil {
		return min(end, w.next.StartCycle-1)
	}
	return end
}

// exhausted reports whether the walk reached the final snapshot by cycle.
func (w *walker) exhausted(cycle uint64) bool {
	return w.next == nil && w.current.StartCycle <= cycle
}
