// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Reverts(t *testing.T) {
	revert := New("test")
	assert.Equal(t, "test", revert.message)
	assert.Equal(t, revert.Error(), revert.message)
	assert.Equal(t, KindValidation, revert.Kind())

	assert.True(t, IsRevertErr(revert))
	assert.True(t, IsRevertErr(errors.Wrap(revert, "wrapped")))
	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(fmt.Errorf("test")))
	assert.False(t, IsRevertErr(big.NewInt(0)))
}

func TestKind(t *testing.T) {
	err := errors.Wrap(Newf(KindNotFound, "EmptyNft %s", "7"), "unstake")
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindNotFound, kind)
	assert.Equal(t, "not found", kind.String())

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)

	assert.ErrorIs(t, err, NewKind(KindNotFound, "EmptyNft 7"))
	assert.NotErrorIs(t, err, NewKind(KindNotFound, "EmptyNft 8"))
}
