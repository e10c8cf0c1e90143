// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package campaigns

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/pkg/errors"

	"github.com/vechain/stakecampaign/api/utils"
	"github.com/vechain/stakecampaign/builtin/campaign"
	"github.com/vechain/stakecampaign/builtin/campaign/record"
	"github.com/vechain/stakecampaign/builtin/campaign/stakes"
	"github.com/vechain/stakecampaign/builtin/collection"
	"github.com/vechain/stakecampaign/thor"
)

type RewardAsset struct {
	Kind    string        `json:"kind"`
	Address *thor.Address `json:"address,omitempty"`
	Denom   string        `json:"denom,omitempty"`
}

func ConvertAsset(a record.RewardAsset) RewardAsset {
	if a.Kind == record.AssetNative {
		return RewardAsset{Kind: a.Kind.String(), Denom: a.Denom}
	}
	addr := a.Address
	return RewardAsset{Kind: a.Kind.String(), Address: &addr}
}

// Asset converts the request form of the reward asset.
func (a *RewardAsset) Asset() (record.RewardAsset, error) {
	switch a.Kind {
	case "", "token":
		if a.Address == nil {
			return record.RewardAsset{}, errors.New("address required")
		}
		return record.RewardAsset{Kind: record.AssetToken, Address: *a.Address}, nil
	case "native":
		return record.RewardAsset{Kind: record.AssetNative, Denom: a.Denom}, nil
	default:
		return record.RewardAsset{}, errors.Errorf("unknown kind %q", a.Kind)
	}
}

type LockupTerm struct {
	Duration uint64 `json:"duration"`
	Percent  uint64 `json:"percent"`
}

func convertTerms(terms []record.LockupTerm) []LockupTerm {
	out := make([]LockupTerm, len(terms))
	for i, t := range terms {
		out[i] = LockupTerm(t)
	}
	return out
}

func ConvertTermsBack(terms []LockupTerm) []record.LockupTerm {
	if terms == nil {
		return nil
	}
	out := make([]record.LockupTerm, len(terms))
	for i, t := range terms {
		out[i] = record.LockupTerm(t)
	}
	return out
}

type Campaign struct {
	Address           thor.Address          `json:"address"`
	Owner             thor.Address          `json:"owner"`
	Name              string                `json:"name"`
	Image             string                `json:"image"`
	Description       string                `json:"description"`
	RewardAsset       RewardAsset           `json:"rewardAsset"`
	AllowedCollection thor.Address          `json:"allowedCollection"`
	RewardAmount      *math.HexOrDecimal256 `json:"rewardAmount"`
	TotalFunded       *math.HexOrDecimal256 `json:"totalFunded"`
	TotalClaimed      *math.HexOrDecimal256 `json:"totalClaimed"`
	TotalWithdrawn    *math.HexOrDecimal256 `json:"totalWithdrawn"`
	RewardRate        *math.HexOrDecimal256 `json:"rewardRate"`
	LockupTerms       []LockupTerm          `json:"lockupTerms"`
	LimitPerStaker    uint64                `json:"limitPerStaker"`
	Checkpoint        uint64                `json:"checkpoint"`
	StartTime         uint64                `json:"startTime"`
	EndTime           uint64                `json:"endTime"`
	TotalStaked       uint64                `json:"totalStaked"`
}

func convertCampaign(addr thor.Address, info *campaign.Info) *Campaign {
	return &Campaign{
		Address:           addr,
		Owner:             info.Owner,
		Name:              info.Name,
		Image:             info.Image,
		Description:       info.Description,
		RewardAsset:       ConvertAsset(info.RewardAsset),
		AllowedCollection: info.AllowedCollection,
		RewardAmount:      utils.ToAmount(info.RewardAmount),
		TotalFunded:       utils.ToAmount(info.TotalFunded),
		TotalClaimed:      utils.ToAmount(info.TotalClaimed),
		TotalWithdrawn:    utils.ToAmount(info.TotalWithdrawn),
		RewardRate:        utils.ToAmount(info.RewardRate),
		LockupTerms:       convertTerms(info.LockupTerms),
		LimitPerStaker:    info.LimitPerStaker,
		Checkpoint:        info.Checkpoint,
		StartTime:         info.StartTime,
		EndTime:           info.EndTime,
		TotalStaked:       info.TotalStaked,
	}
}

type Stake struct {
	TokenID       string                `json:"tokenId"`
	Owner         thor.Address          `json:"owner"`
	LockupTerm    LockupTerm            `json:"lockupTerm"`
	StartTime     uint64                `json:"startTime"`
	EndTime       uint64                `json:"endTime"`
	PendingReward *math.HexOrDecimal256 `json:"pendingReward"`
	IsSettled     bool                  `json:"isSettled"`
}

func convertStake(s *stakes.Stake) *Stake {
	return &Stake{
		TokenID:       string(s.TokenID),
		Owner:         s.Owner,
		LockupTerm:    LockupTerm(s.LockupTerm),
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		PendingReward: utils.ToAmount(s.PendingReward),
		IsSettled:     s.IsSettled,
	}
}

func convertStakes(list []*stakes.Stake) []*Stake {
	out := make([]*Stake, len(list))
	for i, s := range list {
		out[i] = convertStake(s)
	}
	return out
}

type StakerInfo struct {
	Stakes        []*Stake              `json:"stakes"`
	RewardDebt    *math.HexOrDecimal256 `json:"rewardDebt"`
	RewardClaimed *math.HexOrDecimal256 `json:"rewardClaimed"`
}

type FundRequest struct {
	utils.Caller
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type StakeItem struct {
	TokenID  string `json:"tokenId"`
	Duration uint64 `json:"duration"`
}

type StakeRequest struct {
	utils.Caller
	Stakes []StakeItem `json:"stakes"`
}

func (r *StakeRequest) requests() []campaign.StakeRequest {
	out := make([]campaign.StakeRequest, len(r.Stakes))
	for i, s := range r.Stakes {
		out[i] = campaign.StakeRequest{TokenID: collection.TokenID(s.TokenID), Duration: s.Duration}
	}
	return out
}

type UnstakeRequest struct {
	utils.Caller
	TokenID string `json:"tokenId"`
}

type ClaimRequest struct {
	utils.Caller
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type WithdrawRequest struct {
	utils.Caller
}

type WithdrawResult struct {
	*utils.Receipt
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type UpdateRequest struct {
	utils.Caller
	Name           *string      `json:"name"`
	Image          *string      `json:"image"`
	Description    *string      `json:"description"`
	LimitPerStaker *uint64      `json:"limitPerStaker"`
	LockupTerms    []LockupTerm `json:"lockupTerms"`
	StartTime      *uint64      `json:"startTime"`
	EndTime        *uint64      `json:"endTime"`
}

func (r *UpdateRequest) update() *record.Update {
	return &record.Update{
		Name:           r.Name,
		Image:          r.Image,
		Description:    r.Description,
		LimitPerStaker: r.LimitPerStaker,
		LockupTerms:    ConvertTermsBack(r.LockupTerms),
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
	}
}

// Params is the request form of the creation parameters, used by the factory.
type Params struct {
	Name              string        `json:"name"`
	Image             string        `json:"image"`
	Description       string        `json:"description"`
	RewardAsset       RewardAsset   `json:"rewardAsset"`
	AllowedCollection *thor.Address `json:"allowedCollection"`
	LockupTerms       []LockupTerm  `json:"lockupTerms"`
	LimitPerStaker    uint64        `json:"limitPerStaker"`
	StartTime         uint64        `json:"startTime"`
	EndTime           uint64        `json:"endTime"`
}

func (p *Params) Params() (*record.Params, error) {
	asset, err := p.RewardAsset.Asset()
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "rewardAsset"))
	}
	if p.AllowedCollection == nil {
		return nil, utils.BadRequest(errors.New("allowedCollection: required"))
	}
	return &record.Params{
		Name:              p.Name,
		Image:             p.Image,
		Description:       p.Description,
		RewardAsset:       asset,
		AllowedCollection: *p.AllowedCollection,
		LockupTerms:       ConvertTermsBack(p.LockupTerms),
		LimitPerStaker:    p.LimitPerStaker,
		StartTime:         p.StartTime,
		EndTime:           p.EndTime,
	}, nil
}
