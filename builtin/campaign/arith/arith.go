// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package arith holds the checked reward arithmetic. Every operation returns a fresh value
// and fails instead of wrapping.
package arith

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakecampaign/builtin/reverts"
)

var (
	ErrOverflow  = reverts.NewKind(reverts.KindArithmetic, "overflow")
	ErrUnderflow = reverts.NewKind(reverts.KindArithmetic, "underflow")
	ErrDivByZero = reverts.NewKind(reverts.KindArithmetic, "division by zero")
)

var hundred = uint256.NewInt(100)

func Add(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	z, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, ErrUnderflow
	}
	return z, nil
}

func Mul(a, b *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Div truncates.
func Div(a, b *uint256.Int) (*uint256.Int, error) {
	if b.IsZero() {
		return nil, ErrDivByZero
	}
	return new(uint256.Int).Div(a, b), nil
}

// IntervalReward is the amount a single token earns over [start, end] when n tokens share
// percent of rate: (end - start) * rate * percent / (100 * n). An inverted interval earns nothing.
func IntervalReward(start, end uint64, rate *uint256.Int, percent uint64, n uint64) (*uint256.Int, error) {
	if n == 0 {
		return nil, ErrDivByZero
	}
	var elapsed uint64
	if end > start {
		elapsed = end - start
	}
	v, err := Mul(uint256.NewInt(elapsed), rate)
	if err != nil {
		return nil, err
	}
	if v, err = Mul(v, uint256.NewInt(percent)); err != nil {
		return nil, err
	}
	divisor, err := Mul(hundred, uint256.NewInt(n))
	if err != nil {
		return nil, err
	}
	return Div(v, divisor)
}

// RewardRate spreads amount evenly over the campaign window.
func RewardRate(amount *uint256.Int, start, end uint64) (*uint256.Int, error) {
	if end <= start {
		return nil, ErrDivByZero
	}
	return Div(amount, uint256.NewInt(end-start))
}
