// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

// Event names. The first topic of an emitted event is tx.EventID(name).
const (
	EventStarted                   = "Started"
	EventRewardsAdded              = "RewardsAdded"
	EventNftStaked                 = "NftStaked"
	EventNftsBatchStaked           = "NftsBatchStaked"
	EventNftUnstaked               = "NftUnstaked"
	EventNftsBatchUnstaked         = "NftsBatchUnstaked"
	EventHistoriesUpdated          = "HistoriesUpdated"
	EventRewardsClaimed            = "RewardsClaimed"
	EventLostCycleRewardsWithdrawn = "LostCycleRewardsWithdrawn"
	EventDisabled                  = "Disabled"
	EventRewardsPoolWithdrawn      = "RewardsPoolWithdrawn"
)

// EventNames lists every event the staker emits.
var EventNames = []string{
	EventStarted,
	EventRewardsAdded,
	EventNftStaked,
	EventNftsBatchStaked,
	EventNftUnstaked,
	EventNftsBatchUnstaked,
	EventHistoriesUpdated,
	EventRewardsClaimed,
	EventLostCycleRewardsWithdrawn,
	EventDisabled,
	EventRewardsPoolWithdrawn,
}
