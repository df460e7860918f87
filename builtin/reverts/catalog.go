// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

// staking
var (
	ErrNotStarted             = New("staking not started")
	ErrAlreadyStarted         = New("staking already started")
	ErrInvalidRange           = New("invalid period range")
	ErrAlreadyCommitted       = New("rewards already committed for period")
	ErrAlreadyStaked          = New("token already staked")
	ErrCooldownActive         = New("token in cooldown")
	ErrNotOwner               = New("caller is not the owner")
	ErrStillFrozen            = New("token still frozen")
	ErrEmptyBatch             = New("empty batch")
	ErrContractNotWhitelisted = New("contract not whitelisted")
	ErrUnsupportedToken       = New("token class not supported")
	ErrNotAuthority           = New("caller is not the authority")
	ErrDisabled               = New("staking disabled")
	ErrNotDisabled            = New("staking not disabled")
)

// lost cycle recovery
var (
	ErrNotPast          = New("cycle not past")
	ErrAlreadyWithdrawn = New("cycle rewards already withdrawn")
	ErrHasSnapshot      = New("cycle covered by a snapshot")
	ErrWrongIndex       = New("wrong snapshot index")
	ErrNonLostCycle     = New("cycle is not lost")
	ErrRewardlessCycle  = New("cycle has no rewards")
)

// ledgers
var (
	ErrInsufficientBalance = New("insufficient balance")
	ErrOverflow            = New("arithmetic overflow")
)
