// Package liquiditymath implements signed liquidity deltas and the
// √P-from-amount / amount-from-√P conversions used by the swap step and the
// mint/burn lifecycle.
//
// AddDelta is grounded directly on
// original_source/programs/core/src/libraries/liquidity_math.rs
// (add_delta). The sqrt-price and amount-delta functions are grounded on
// original_source/programs/core/src/libraries/sqrt_price_math.rs, narrowed
// from its native u64 sqrt-price word (the predecessor's Q64.64) to Q32.32,
// with wide intermediates supplied by pkg/clmm/fixedpoint: 128-bit products
// in the same role lukechampine.com/uint128 plays for the teacher's
// clmmPool.go swap math, widening further to cosmossdk.io/math.Int wherever
// liquidity<<32 against a second Q32.32 factor would overrun that.
package liquiditymath

import (
	"fmt"

	cosmath "cosmossdk.io/math"

	"github.com/solana-zh/clmmcore/pkg/clmm/clmmerr"
	"github.com/solana-zh/clmmcore/pkg/clmm/fixedpoint"
)

// AddDelta adds a signed liquidity delta to an unsigned liquidity total.
// Returns clmmerr.ErrLiquidityAdd on overflow, clmmerr.ErrLiquiditySub on
// underflow.
func AddDelta(x uint64, y int64) (uint64, error) {
	if y < 0 {
		delta := uint64(-y)
		if delta > x {
			return 0, fmt.Errorf("liquiditymath: %d - %d: %w", x, delta, clmmerr.ErrLiquiditySub)
		}
		return x - delta, nil
	}
	delta := uint64(y)
	z := x + delta
	if z < x {
		return 0, fmt.Errorf("liquiditymath: %d + %d: %w", x, delta, clmmerr.ErrLiquidityAdd)
	}
	return z, nil
}

// NextSqrtPriceFromAmount0RoundingUp computes the new √P after adding
// (zeroForOne) or removing (!zeroForOne) amount of token0, rounding the
// result up so a subsequent step never overstates the liquidity available.
func NextSqrtPriceFromAmount0RoundingUp(sqrtPriceX32, liquidity uint64, amount uint64, add bool) uint64 {
	if amount == 0 {
		return sqrtPriceX32
	}
	// liquidity<<32 can run past 2^64 well within legal per-tick liquidity
	// (ticktable.TickSpacingToMaxLiquidityPerTick permits it for ordinary
	// tick spacings), and the subsequent *sqrtPriceX32 can run past even a
	// 128-bit intermediate, so numerator1 is carried as an arbitrary
	// precision cosmath.Int throughout rather than a native uint64.
	numerator1 := cosmath.NewIntFromUint64(liquidity).Mul(cosmath.NewIntFromUint64(fixedpoint.Q32))
	sqrtPrice := cosmath.NewIntFromUint64(sqrtPriceX32)
	product := cosmath.NewIntFromUint64(amount).Mul(sqrtPrice)

	if add {
		denominator := numerator1.Add(product)
		return fixedpoint.MulDivCeilWide(numerator1, sqrtPrice, denominator)
	}

	if !numerator1.GT(product) {
		panic("liquiditymath: amount0 delta overflows available liquidity")
	}
	denominator := numerator1.Sub(product)
	return fixedpoint.MulDivCeilWide(numerator1, sqrtPrice, denominator)
}

// NextSqrtPriceFromAmount1RoundingDown computes the new √P after adding
// (!zeroForOne, i.e. add=true) or removing (add=false) amount of token1,
// rounding the result down.
func NextSqrtPriceFromAmount1RoundingDown(sqrtPriceX32, liquidity uint64, amount uint64, add bool) uint64 {
	if add {
		quotient := fixedpoint.MulDivFloor(amount, fixedpoint.Q32, liquidity)
		return sqrtPriceX32 + quotient
	}
	quotient := fixedpoint.MulDivCeil(amount, fixedpoint.Q32, liquidity)
	if sqrtPriceX32 <= quotient {
		panic("liquiditymath: amount1 delta underflows current price")
	}
	return sqrtPriceX32 - quotient
}

// NextSqrtPriceFromInput computes the √P reached after swapping
// amountIn of token0 (zeroForOne) or token1 (!zeroForOne) into the pool.
func NextSqrtPriceFromInput(sqrtPriceX32, liquidity uint64, amountIn uint64, zeroForOne bool) uint64 {
	if zeroForOne {
		return NextSqrtPriceFromAmount0RoundingUp(sqrtPriceX32, liquidity, amountIn, true)
	}
	return NextSqrtPriceFromAmount1RoundingDown(sqrtPriceX32, liquidity, amountIn, true)
}

// NextSqrtPriceFromOutput computes the √P reached after swapping out
// amountOut of token1 (zeroForOne) or token0 (!zeroForOne) from the pool.
func NextSqrtPriceFromOutput(sqrtPriceX32, liquidity uint64, amountOut uint64, zeroForOne bool) uint64 {
	if zeroForOne {
		return NextSqrtPriceFromAmount1RoundingDown(sqrtPriceX32, liquidity, amountOut, false)
	}
	return NextSqrtPriceFromAmount0RoundingUp(sqrtPriceX32, liquidity, amountOut, false)
}

// Amount0Delta returns the amount of token0 owed for a liquidity position
// spanning [sqrtPriceAX32, sqrtPriceBX32], rounding up or down per roundUp.
func Amount0Delta(sqrtPriceAX32, sqrtPriceBX32, liquidity uint64, roundUp bool) uint64 {
	if sqrtPriceAX32 > sqrtPriceBX32 {
		sqrtPriceAX32, sqrtPriceBX32 = sqrtPriceBX32, sqrtPriceAX32
	}
	numerator1 := cosmath.NewIntFromUint64(liquidity).Mul(cosmath.NewIntFromUint64(fixedpoint.Q32))
	numerator2 := cosmath.NewIntFromUint64(sqrtPriceBX32 - sqrtPriceAX32)
	sqrtB := cosmath.NewIntFromUint64(sqrtPriceBX32)

	if roundUp {
		inner := fixedpoint.MulDivCeilWide(numerator1, numerator2, sqrtB)
		return fixedpoint.DivRoundingUp(inner, sqrtPriceAX32)
	}
	inner := fixedpoint.MulDivFloorWide(numerator1, numerator2, sqrtB)
	return inner / sqrtPriceAX32
}

// Amount1Delta returns the amount of token1 owed for a liquidity position
// spanning [sqrtPriceAX32, sqrtPriceBX32], rounding up or down per roundUp.
func Amount1Delta(sqrtPriceAX32, sqrtPriceBX32, liquidity uint64, roundUp bool) uint64 {
	if sqrtPriceAX32 > sqrtPriceBX32 {
		sqrtPriceAX32, sqrtPriceBX32 = sqrtPriceBX32, sqrtPriceAX32
	}
	diff := sqrtPriceBX32 - sqrtPriceAX32
	if roundUp {
		return fixedpoint.MulDivCeil(liquidity, diff, fixedpoint.Q32)
	}
	return fixedpoint.MulDivFloor(liquidity, diff, fixedpoint.Q32)
}

// SignedAmount0Delta is the signed form used when walking across a tick:
// positive liquidityDelta rounds up (the pool is owed more), negative
// rounds down.
func SignedAmount0Delta(sqrtPriceAX32, sqrtPriceBX32 uint64, liquidityDelta int64) int64 {
	if liquidityDelta < 0 {
		return -int64(Amount0Delta(sqrtPriceAX32, sqrtPriceBX32, uint64(-liquidityDelta), false))
	}
	return int64(Amount0Delta(sqrtPriceAX32, sqrtPriceBX32, uint64(liquidityDelta), true))
}

// SignedAmount1Delta is the signed counterpart of SignedAmount0Delta.
func SignedAmount1Delta(sqrtPriceAX32, sqrtPriceBX32 uint64, liquidityDelta int64) int64 {
	if liquidityDelta < 0 {
		return -int64(Amount1Delta(sqrtPriceAX32, sqrtPriceBX32, uint64(-liquidityDelta), false))
	}
	return int64(Amount1Delta(sqrtPriceAX32, sqrtPriceBX32, uint64(liquidityDelta), true))
}
