// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakecampaign/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	persisted, err := New(filepath.Join(t.TempDir(), "main.db"), Options{16, 16})
	require.NoError(t, err)
	defer persisted.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{persisted, mem} {
		require.NoError(t, db.Put(key, value))

		got, err := db.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))

		val, err := kv.GetOptional(db, key)
		assert.NoError(t, err)
		assert.Nil(t, val)
	}
}

func TestBulkAndSnapshot(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Put([]byte("a"), []byte("1")))
	snap := db.Snapshot()
	defer snap.Release()

	bulk := db.Bulk()
	require.NoError(t, bulk.Put([]byte("a"), []byte("2")))
	require.NoError(t, bulk.Put([]byte("b"), []byte("3")))
	require.NoError(t, bulk.Delete([]byte("c")))
	assert.Equal(t, 3, bulk.Len())

	// nothing visible before write
	_, err = db.Get([]byte("b"))
	assert.True(t, db.IsNotFound(err))

	require.NoError(t, bulk.Write())
	assert.Equal(t, 0, bulk.Len())

	got, err := db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)

	// snapshot keeps the old view
	got, err = snap.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)
	_, err = snap.Get([]byte("b"))
	assert.True(t, snap.IsNotFound(err))
}

func TestIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	for _, k := range []string{"a1", "a2", "a3", "b1"} {
		require.NoError(t, db.Put([]byte(k), []byte(k)))
	}

	iter := db.Iterate(kv.BytesPrefixRange([]byte("a")))
	defer iter.Release()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"a1", "a2", "a3"}, keys)
}
