// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package record

import (
	"strconv"

	"github.com/vechain/stakecampaign/builtin/reverts"
	"github.com/vechain/stakecampaign/thor"
)

const (
	MaxDuration          uint64 = 94_608_000 // 3 years
	MaxNameLength               = 100
	MaxImageLength              = 500
	MaxDescriptionLength        = 500
)

var (
	ErrInvalidToken      = reverts.New("invalid token")
	ErrLimitStartDate    = reverts.New("max 3 years since start date")
	ErrInvalidLockupTerm = reverts.New("invalid lockup term")
	ErrInvalidTimeRange  = reverts.New("start time is greater than end time")
	ErrInvalidStartTime  = reverts.NewKind(reverts.KindTemporal, "current time is greater than start time")
)

// ErrLimitCharacter is returned when a text field exceeds limit characters.
func ErrLimitCharacter(limit int) error {
	return reverts.New("max limit " + strconv.Itoa(limit) + " character")
}

// Params are the creation parameters of a campaign.
type Params struct {
	Owner             thor.Address
	Name              string
	Image             string
	Description       string
	RewardAsset       RewardAsset
	AllowedCollection thor.Address
	LockupTerms       []LockupTerm
	LimitPerStaker    uint64
	StartTime         uint64
	EndTime           uint64
}

// Validate applies the creation rules at time now.
func (p *Params) Validate(now uint64) error {
	if p.RewardAsset.Kind != AssetToken || p.RewardAsset.Address.IsZero() {
		return ErrInvalidToken
	}
	if p.Owner.IsZero() || p.AllowedCollection.IsZero() {
		return reverts.New("invalid address")
	}
	if p.StartTime >= p.EndTime {
		return ErrInvalidTimeRange
	}
	if p.EndTime-p.StartTime > MaxDuration {
		return ErrLimitStartDate
	}
	if len(p.Name) > MaxNameLength {
		return ErrLimitCharacter(MaxNameLength)
	}
	if len(p.Image) > MaxImageLength {
		return ErrLimitCharacter(MaxImageLength)
	}
	if len(p.Description) > MaxDescriptionLength {
		return ErrLimitCharacter(MaxDescriptionLength)
	}
	if err := validateTerms(p.LockupTerms); err != nil {
		return err
	}
	if now > p.StartTime {
		return ErrInvalidStartTime
	}
	return nil
}

// validateTerms requires at least one term, unique positive durations and weights summing to at most 100.
func validateTerms(terms []LockupTerm) error {
	if len(terms) == 0 {
		return ErrInvalidLockupTerm
	}
	seen := make(map[uint64]struct{}, len(terms))
	var total uint64
	for _, t := range terms {
		if t.Duration == 0 || t.Percent == 0 || t.Percent > 100 {
			return ErrInvalidLockupTerm
		}
		if _, ok := seen[t.Duration]; ok {
			return ErrInvalidLockupTerm
		}
		seen[t.Duration] = struct{}{}
		total += t.Percent
	}
	if total > 100 {
		return ErrInvalidLockupTerm
	}
	return nil
}

// Update carries the optional fields of a pre-activation update.
type Update struct {
	Name           *string
	Image          *string
	Description    *string
	LimitPerStaker *uint64
	LockupTerms    []LockupTerm
	StartTime      *uint64
	EndTime        *uint64
}

// Apply returns the params of r with u applied. The result is not validated.
func (u *Update) Apply(r *Record) *Params {
	p := &Params{
		Owner:             r.Owner,
		Name:              r.Name,
		Image:             r.Image,
		Description:       r.Description,
		RewardAsset:       r.RewardAsset,
		AllowedCollection: r.AllowedCollection,
		LockupTerms:       r.LockupTerms,
		LimitPerStaker:    r.LimitPerStaker,
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.LimitPerStaker != nil {
		p.LimitPerStaker = *u.LimitPerStaker
	}
	if u.LockupTerms != nil {
		p.LockupTerms = u.LockupTerms
	}
	if u.StartTime != nil {
		p.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		p.EndTime = *u.EndTime
	}
	return p
}
