// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakecampaign/lvldb"
	"github.com/vechain/stakecampaign/state"
	"github.com/vechain/stakecampaign/thor"
)

type entry struct {
	Owner  thor.Address
	Amount *uint256.Int
	Flag   bool
}

func newContext(t *testing.T, charger *Charger) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	st := state.NewStater(db, 0).NewState()
	return NewContext(thor.BytesToAddress([]byte("contract")), st, charger)
}

func TestMapping(t *testing.T) {
	charger := NewCharger()
	sctx := newContext(t, charger)
	m := NewMapping[thor.Address, *entry](sctx, thor.StringToBytes32("entries"))
	key := thor.BytesToAddress([]byte("key"))

	got, err := m.Get(key)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, uint64(0), charger.Total())

	require.NoError(t, m.Insert(key, &entry{Owner: key, Amount: uint256.NewInt(42), Flag: true}))
	assert.Equal(t, SstoreSetCost, charger.Total())

	got, err = m.Get(key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, key, got.Owner)
	assert.Equal(t, uint64(42), got.Amount.Uint64())
	assert.True(t, got.Flag)

	got.Flag = false
	require.NoError(t, m.Update(key, got))
	got, err = m.Get(key)
	require.NoError(t, err)
	assert.False(t, got.Flag)

	m.Remove(key)
	got, err = m.Get(key)
	require.NoError(t, err)
	assert.Nil(t, got)

	// same key under another slot is independent
	other := NewMapping[thor.Address, thor.Address](sctx, thor.StringToBytes32("other"))
	require.NoError(t, other.Insert(key, key))
	v, err := other.Get(key)
	require.NoError(t, err)
	assert.Equal(t, key, v)
	got, err = m.Get(key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRaw(t *testing.T) {
	charger := NewCharger()
	sctx := newContext(t, charger)
	r := NewRaw[uint64](sctx, thor.StringToBytes32("counter"))

	v, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	require.NoError(t, r.Upsert(7))
	assert.Equal(t, SstoreSetCost, charger.Total())
	require.NoError(t, r.Upsert(8))
	assert.Equal(t, SstoreSetCost+SstoreResetCost, charger.Total())

	v, err = r.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(8), v)
}

func TestUint256(t *testing.T) {
	sctx := newContext(t, nil)
	u := NewUint256(sctx, thor.StringToBytes32("total"))

	v, err := u.Get()
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	require.NoError(t, u.Add(uint256.NewInt(10)))
	require.NoError(t, u.Sub(uint256.NewInt(3)))
	v, err = u.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v.Uint64())

	assert.ErrorIs(t, u.Sub(uint256.NewInt(8)), ErrUint256Underflow)

	u.Set(new(uint256.Int).SetAllOne())
	assert.ErrorIs(t, u.Add(uint256.NewInt(1)), ErrUint256Overflow)

	u.Set(new(uint256.Int))
	raw, err := sctx.State().GetStorage(sctx.Address(), thor.StringToBytes32("total"))
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestNilCharger(t *testing.T) {
	var c *Charger
	c.load(64)
	c.store(64, true)
	c.remove()
	assert.Equal(t, uint64(0), c.Total())
	assert.Equal(t, "none", c.Breakdown())

	c = NewCharger()
	c.load(33)
	assert.Equal(t, 2*SloadCost, c.Total())
	assert.Contains(t, c.Breakdown(), "SLOAD: 2 slots")
}

func TestEvents(t *testing.T) {
	sctx := newContext(t, nil)
	sctx.Emit("dropped")

	var log EventLog
	ev := sctx.WithEvents(&log)
	other := thor.BytesToAddress([]byte("other"))
	ev.Emit("stake_nft", NewAttr("token_id", "7"), NewAttr("amount", uint256.NewInt(3)), NewAttr("count", 2))
	ev.At(other).Emit("transfer", NewAttr("to", other))

	events := log.Events()
	require.Len(t, events, 2)
	assert.Equal(t, sctx.Address(), events[0].Address)
	v, ok := events[0].Attr("amount")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
	v, _ = events[0].Attr("count")
	assert.Equal(t, "2", v)
	assert.Equal(t, other, events[1].Address)
	v, _ = events[1].Attr("to")
	assert.Equal(t, other.String(), v)

	_, ok = events[1].Attr("missing")
	assert.False(t, ok)
}
