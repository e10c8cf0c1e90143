// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHealth_Idle(t *testing.T) {
	h := New()

	status := h.Status()
	assert.True(t, status.Healthy)
	assert.Equal(t, uint32(0), status.CallIngestion.Number)
	assert.Nil(t, status.CallIngestion.Timestamp)
}

func TestHealth_NewCall(t *testing.T) {
	h := New()
	h.NewCall(3, nil)

	status := h.Status()
	assert.True(t, status.Healthy)
	assert.True(t, status.JournalSynced)
	assert.Equal(t, uint32(3), status.CallIngestion.Number)
	if assert.NotNil(t, status.CallIngestion.Timestamp) {
		assert.WithinDuration(t, time.Now(), *status.CallIngestion.Timestamp, time.Second)
	}
}

func TestHealth_JournalFailure(t *testing.T) {
	h := New()
	h.NewCall(1, errors.New("disk full"))
	h.NewCall(2, nil)

	status := h.Status()
	assert.False(t, status.Healthy)
	assert.False(t, status.JournalSynced)
	assert.Equal(t, "disk full", status.JournalFailure)
	assert.Equal(t, uint32(2), status.CallIngestion.Number)
}
