// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"sync/atomic"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
)

// Clock supplies the block time of calls, in unix seconds.
type Clock interface {
	Now() uint64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// ManualClock only moves when told to. It backs dev mode and tests.
type ManualClock struct {
	now atomic.Uint64
}

func NewManualClock(now uint64) *ManualClock {
	c := &ManualClock{}
	c.now.Store(now)
	return c
}

func (c *ManualClock) Now() uint64 {
	return c.now.Load()
}

// Set moves the clock to now. Time never goes backwards, it returns false if now is in the past.
func (c *ManualClock) Set(now uint64) bool {
	for {
		cur := c.now.Load()
		if now < cur {
			return false
		}
		if c.now.CompareAndSwap(cur, now) {
			return true
		}
	}
}

func (c *ManualClock) Advance(d uint64) uint64 {
	return c.now.Add(d)
}

// MaxClockOffset is the tolerated drift of the system clock.
const MaxClockOffset = 5 * time.Second

// CheckClockOffset queries an NTP server and warns when the local clock drifted more than
// MaxClockOffset.
func CheckClockOffset(server string) (time.Duration, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return 0, err
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > MaxClockOffset {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
	return resp.ClockOffset, nil
}
