// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package record

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/vechain/stakecampaign/thor"
)

// AssetKind tells how the reward asset is held.
type AssetKind uint8

const (
	AssetToken AssetKind = iota
	AssetNative
)

func (k AssetKind) String() string {
	switch k {
	case AssetToken:
		return "token"
	case AssetNative:
		return "native"
	default:
		return fmt.Sprintf("asset(%d)", uint8(k))
	}
}

// RewardAsset identifies the reward. Only ledger tracked tokens are accepted.
type RewardAsset struct {
	Kind    AssetKind
	Address thor.Address
	Denom   string
}

func (a RewardAsset) String() string {
	if a.Kind == AssetNative {
		return a.Denom
	}
	return a.Address.String()
}

// LockupTerm is a lock duration and the percentage of the reward rate its stakes share.
type LockupTerm struct {
	Duration uint64
	Percent  uint64
}

// Record is the singleton state of a campaign.
type Record struct {
	Owner             thor.Address
	Name              string
	Image             string
	Description       string
	RewardAsset       RewardAsset
	AllowedCollection thor.Address
	RewardAmount      *uint256.Int // funded and not yet paid out
	TotalFunded       *uint256.Int
	TotalClaimed      *uint256.Int
	TotalWithdrawn    *uint256.Int
	RewardRate        *uint256.Int // per second
	LockupTerms       []LockupTerm
	LimitPerStaker    uint64
	Checkpoint        uint64
	StartTime         uint64
	EndTime           uint64
}

// New builds the initial record of a campaign from validated params.
func New(p *Params) *Record {
	return &Record{
		Owner:             p.Owner,
		Name:              p.Name,
		Image:             p.Image,
		Description:       p.Description,
		RewardAsset:       p.RewardAsset,
		AllowedCollection: p.AllowedCollection,
		RewardAmount:      new(uint256.Int),
		TotalFunded:       new(uint256.Int),
		TotalClaimed:      new(uint256.Int),
		TotalWithdrawn:    new(uint256.Int),
		RewardRate:        new(uint256.Int),
		LockupTerms:       append([]LockupTerm(nil), p.LockupTerms...),
		LimitPerStaker:    p.LimitPerStaker,
		StartTime:         p.StartTime,
		EndTime:           p.EndTime,
	}
}

// Term returns the lockup term with the given duration.
func (r *Record) Term(duration uint64) (LockupTerm, bool) {
	for _, t := range r.LockupTerms {
		if t.Duration == duration {
			return t, true
		}
	}
	return LockupTerm{}, false
}

// IsFunded reports whether stakes can earn.
func (r *Record) IsFunded() bool {
	return !r.RewardAmount.IsZero() && !r.RewardRate.IsZero()
}

// CanFund reports whether more reward may be added at now.
func (r *Record) CanFund(now uint64) bool {
	return r.RewardRate.IsZero() || r.StartTime > now
}

// SettleTime caps now at the end of the campaign.
func (r *Record) SettleTime(now uint64) uint64 {
	return min(now, r.EndTime)
}
