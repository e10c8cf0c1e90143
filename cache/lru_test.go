// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU(t *testing.T) {
	_, err := NewLRU[int, string](0)
	assert.Error(t, err)

	c, err := NewLRU[int, string](2)
	require.NoError(t, err)

	c.Add(1, "a")
	c.Add(2, "b")
	c.Add(3, "c")
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get(1)
	assert.False(t, ok, "oldest entry evicted")

	v, ok := c.Get(3)
	assert.True(t, ok)
	assert.Equal(t, "c", v)

	hit, miss := c.Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	c.Remove(3)
	_, ok = c.Get(3)
	assert.False(t, ok)

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestGetOrLoad(t *testing.T) {
	c, err := NewLRU[string, int](8)
	require.NoError(t, err)

	loads := 0
	loader := func(k string) (int, error) {
		loads++
		if k == "bad" {
			return 0, errors.New("load failed")
		}
		return len(k), nil
	}

	for range 3 {
		v, err := c.GetOrLoad("four", loader)
		require.NoError(t, err)
		assert.Equal(t, 4, v)
	}
	assert.Equal(t, 1, loads)

	_, err = c.GetOrLoad("bad", loader)
	assert.EqualError(t, err, "load failed")
	_, ok := c.Get("bad")
	assert.False(t, ok)
}
