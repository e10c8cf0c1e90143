// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package record

import (
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakecampaign/builtin/solidity"
	"github.com/vechain/stakecampaign/lvldb"
	"github.com/vechain/stakecampaign/state"
	"github.com/vechain/stakecampaign/thor"
)

func validParams() *Params {
	return &Params{
		Owner:             thor.BytesToAddress([]byte("owner")),
		Name:              "campaign",
		RewardAsset:       RewardAsset{Kind: AssetToken, Address: thor.BytesToAddress([]byte("reward"))},
		AllowedCollection: thor.BytesToAddress([]byte("punks")),
		LockupTerms:       []LockupTerm{{Duration: 10, Percent: 30}, {Duration: 30, Percent: 70}},
		StartTime:         100,
		EndTime:           200,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validParams().Validate(100))

	tests := []struct {
		name   string
		modify func(p *Params)
		now    uint64
		want   error
	}{
		{"native reward", func(p *Params) { p.RewardAsset = RewardAsset{Kind: AssetNative, Denom: "vet"} }, 0, ErrInvalidToken},
		{"inverted window", func(p *Params) { p.EndTime = p.StartTime }, 0, ErrInvalidTimeRange},
		{"window too long", func(p *Params) { p.EndTime = p.StartTime + MaxDuration + 1 }, 0, ErrLimitStartDate},
		{"long name", func(p *Params) { p.Name = strings.Repeat("n", MaxNameLength+1) }, 0, ErrLimitCharacter(MaxNameLength)},
		{"long image", func(p *Params) { p.Image = strings.Repeat("i", MaxImageLength+1) }, 0, ErrLimitCharacter(MaxImageLength)},
		{"long description", func(p *Params) { p.Description = strings.Repeat("d", MaxDescriptionLength+1) }, 0, ErrLimitCharacter(MaxDescriptionLength)},
		{"no terms", func(p *Params) { p.LockupTerms = nil }, 0, ErrInvalidLockupTerm},
		{"zero duration", func(p *Params) { p.LockupTerms[0].Duration = 0 }, 0, ErrInvalidLockupTerm},
		{"duplicate duration", func(p *Params) { p.LockupTerms[1].Duration = 10 }, 0, ErrInvalidLockupTerm},
		{"weights over 100", func(p *Params) { p.LockupTerms[1].Percent = 71 }, 0, ErrInvalidLockupTerm},
		{"started", func(p *Params) {}, 101, ErrInvalidStartTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.modify(p)
			assert.ErrorIs(t, p.Validate(tt.now), tt.want)
		})
	}

	// exactly 3 years is allowed
	p := validParams()
	p.EndTime = p.StartTime + MaxDuration
	assert.NoError(t, p.Validate(0))
}

func TestUpdateApply(t *testing.T) {
	r := New(validParams())
	name := "renamed"
	start := uint64(150)
	u := &Update{Name: &name, StartTime: &start}

	p := u.Apply(r)
	assert.Equal(t, "renamed", p.Name)
	assert.Equal(t, uint64(150), p.StartTime)
	assert.Equal(t, r.EndTime, p.EndTime)
	assert.Equal(t, r.LockupTerms, p.LockupTerms)
	assert.NoError(t, p.Validate(120))
}

func TestRecord(t *testing.T) {
	r := New(validParams())
	assert.False(t, r.IsFunded())
	assert.True(t, r.CanFund(150))

	r.RewardAmount = uint256.NewInt(100)
	r.RewardRate = uint256.NewInt(1)
	assert.True(t, r.IsFunded())
	assert.True(t, r.CanFund(99))
	assert.False(t, r.CanFund(100))

	term, ok := r.Term(30)
	assert.True(t, ok)
	assert.Equal(t, uint64(70), term.Percent)
	_, ok = r.Term(20)
	assert.False(t, ok)

	assert.Equal(t, uint64(150), r.SettleTime(150))
	assert.Equal(t, uint64(200), r.SettleTime(250))
}

func TestService(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()
	sctx := solidity.NewContext(thor.BytesToAddress([]byte("campaign")), state.NewStater(db, 0).NewState(), nil)
	svc := NewService(sctx)

	r, err := svc.Get()
	require.NoError(t, err)
	assert.Nil(t, r)

	want := New(validParams())
	want.RewardAmount = uint256.NewInt(1_000_000)
	require.NoError(t, svc.Set(want))

	got, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
