// Package fixedpoint implements the Q32.32 fixed-point helpers shared by the
// tick, liquidity and swap math packages: mulDiv with explicit rounding, the
// handful of wide-multiply helpers that keep a 64-bit Δx·√P product from
// silently wrapping, and — for the rarer products that overrun even 128
// bits, e.g. a liquidity value already widened by Q32 against a second
// Q32.32 factor — a cosmossdk.io/math.Int-backed mulDiv pair.
//
// The narrowing from the predecessor protocol's Q64.96 down to Q32.32 is a
// deliberate choice: it halves the word width to fit a 64-bit price, at the
// cost of a smaller representable price ratio.
package fixedpoint

import (
	cosmath "cosmossdk.io/math"
	"lukechampine.com/uint128"
)

// Resolution is the number of fractional bits in the Q32.32 format.
const Resolution = 32

// Q32 is 2^32, the fixed-point unit.
const Q32 uint64 = 1 << Resolution

// MulDivFloor returns floor(a*b/denominator) using a 128-bit intermediate
// product so that a*b never wraps a uint64. Panics if denominator is zero.
func MulDivFloor(a, b, denominator uint64) uint64 {
	if denominator == 0 {
		panic("fixedpoint: division by zero")
	}
	product := uint128.From64(a).Mul(uint128.From64(b))
	q, _ := product.QuoRem64(denominator)
	return q.Big().Uint64()
}

// MulDivCeil returns ceil(a*b/denominator) using a 128-bit intermediate
// product. Panics if denominator is zero.
func MulDivCeil(a, b, denominator uint64) uint64 {
	if denominator == 0 {
		panic("fixedpoint: division by zero")
	}
	product := uint128.From64(a).Mul(uint128.From64(b))
	q, r := product.QuoRem64(denominator)
	if r != 0 {
		q = q.Add64(1)
	}
	return q.Big().Uint64()
}

// DivRoundingUp returns ceil(a/b). Panics if b is zero.
func DivRoundingUp(a, b uint64) uint64 {
	if b == 0 {
		panic("fixedpoint: division by zero")
	}
	q := a / b
	if a%b != 0 {
		q++
	}
	return q
}

// Mul128 returns the full 128-bit product of a and b, split as (hi, lo).
func Mul128(a, b uint64) (hi, lo uint64) {
	p := uint128.From64(a).Mul(uint128.From64(b))
	return p.Hi, p.Lo
}

// MulDivFloorWide returns floor(a*b/denominator) for operands whose product
// can exceed 128 bits (e.g. a liquidity amount already widened by Q32
// against a second Q32.32 factor), via cosmossdk.io/math's arbitrary
// precision Int — the same wide-arithmetic path the tick ladder uses.
// Panics if denominator is not positive.
func MulDivFloorWide(a, b, denominator cosmath.Int) uint64 {
	if !denominator.IsPositive() {
		panic("fixedpoint: division by zero")
	}
	return a.Mul(b).Quo(denominator).Uint64()
}

// MulDivCeilWide is the rounding-up counterpart of MulDivFloorWide.
func MulDivCeilWide(a, b, denominator cosmath.Int) uint64 {
	if !denominator.IsPositive() {
		panic("fixedpoint: division by zero")
	}
	product := a.Mul(b)
	q := product.Quo(denominator)
	if !product.Sub(q.Mul(denominator)).IsZero() {
		q = q.AddRaw(1)
	}
	return q.Uint64()
}
