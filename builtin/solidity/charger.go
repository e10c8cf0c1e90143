// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import "fmt"

// Storage costs, in units, per 32-byte slot touched.
const (
	SloadCost        uint64 = 200
	SstoreSetCost    uint64 = 20000
	SstoreResetCost  uint64 = 5000
	SstoreDeleteCost uint64 = 5000
)

// Charger accumulates the storage cost of a single call.
// A nil Charger is valid and charges nothing.
type Charger struct {
	sloadOps       uint64
	sstoreSetOps   uint64
	sstoreResetOps uint64
	deleteOps      uint64
	total          uint64
}

func NewCharger() *Charger {
	return &Charger{}
}

func slots(n int) uint64 {
	return (uint64(n) + 31) / 32
}

func (c *Charger) load(size int) {
	if c == nil || size == 0 {
		return
	}
	n := slots(size)
	c.sloadOps += n
	c.total += n * SloadCost
}

func (c *Charger) store(size int, isNew bool) {
	if c == nil {
		return
	}
	n := slots(size)
	if isNew {
		c.sstoreSetOps += n
		c.total += n * SstoreSetCost
	} else {
		c.sstoreResetOps += n
		c.total += n * SstoreResetCost
	}
}

func (c *Charger) remove() {
	if c == nil {
		return
	}
	c.deleteOps++
	c.total += SstoreDeleteCost
}

// Total returns the accumulated cost.
func (c *Charger) Total() uint64 {
	if c == nil {
		return 0
	}
	return c.total
}

func (c *Charger) Breakdown() string {
	if c == nil {
		return "none"
	}
	return fmt.Sprintf(
		"SLOAD: %d slots | SSTORE_SET: %d slots | SSTORE_RESET: %d slots | DELETE: %d | TOTAL: %d",
		c.sloadOps,
		c.sstoreSetOps,
		c.sstoreResetOps,
		c.deleteOps,
		c.total,
	)
}
