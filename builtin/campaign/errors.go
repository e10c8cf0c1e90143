// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package campaign

import (
	"github.com/vechain/stakecampaign/builtin/collection"
	"github.com/vechain/stakecampaign/builtin/reverts"
)

var (
	ErrNotInitialized              = reverts.NewKind(reverts.KindNotFound, "campaign not found")
	ErrAlreadyInitialized          = reverts.New("campaign already initialized")
	ErrUnauthorized                = reverts.NewKind(reverts.KindAuthorization, "unauthorized")
	ErrLimitPerStake               = reverts.New("you have reached the maximum staked NFTs")
	ErrInvalidFunds                = reverts.New("invalid funds")
	ErrInsufficientBalance         = reverts.NewKind(reverts.KindInsufficientBalance, "insufficient balance")
	ErrTooManyTokenIDs             = reverts.New("too many token ids")
	ErrNoTokenIDs                  = reverts.New("no token ids")
	ErrInvalidTimeToUpdate         = reverts.NewKind(reverts.KindTemporal, "invalid time to update")
	ErrInvalidTimeToStakeNft       = reverts.NewKind(reverts.KindTemporal, "this campaign is not available for staking")
	ErrInvalidTimeToUnStake        = reverts.NewKind(reverts.KindTemporal, "this NFT is still in staking period, cannot unstake now")
	ErrInvalidTimeToAddReward      = reverts.NewKind(reverts.KindTemporal, "cannot deposit rewards to this pool")
	ErrInvalidClaim                = reverts.NewKind(reverts.KindAuthorization, "only stakers could claim rewards in this pool")
	ErrInvalidTimeToWithdrawReward = reverts.NewKind(reverts.KindTemporal, "invalid time to withdraw reward")
	ErrAlreadyExist                = reverts.New("already exist")
	ErrEmptyReward                 = reverts.NewKind(reverts.KindTemporal, "empty reward pool")
	ErrTimeBeforeCheckpoint        = reverts.NewKind(reverts.KindTemporal, "time is before the last settlement")
)

// ErrNotOwner is returned when caller does not own the token.
func ErrNotOwner(id collection.TokenID) error {
	return reverts.Newf(reverts.KindAuthorization, "you are not the owner of NFT %s", id)
}

// ErrEmptyNft is returned when the token is not staked.
func ErrEmptyNft(id collection.TokenID) error {
	return reverts.Newf(reverts.KindNotFound, "empty token_id: %s", id)
}
