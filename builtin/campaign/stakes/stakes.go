// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakecampaign/builtin/campaign/record"
	"github.com/vechain/stakecampaign/builtin/collection"
	"github.com/vechain/stakecampaign/thor"
)

// Stake is the record of one staked token.
type Stake struct {
	TokenID       collection.TokenID
	Owner         thor.Address
	LockupTerm    record.LockupTerm
	StartTime     uint64
	EndTime       uint64
	PendingReward *uint256.Int
	IsSettled     bool
}

func New(id collection.TokenID, owner thor.Address, term record.LockupTerm, now uint64) *Stake {
	return &Stake{
		TokenID:       id,
		Owner:         owner,
		LockupTerm:    term,
		StartTime:     now,
		EndTime:       now + term.Duration,
		PendingReward: new(uint256.Int),
	}
}

// Clone returns a deep copy.
func (s *Stake) Clone() *Stake {
	cpy := *s
	cpy.PendingReward = new(uint256.Int).Set(s.PendingReward)
	return &cpy
}
