// Package swapmath implements the single-tick-range swap step: given a
// starting √P, a target √P (the next initialized tick or the caller's
// limit), available liquidity, a remaining amount, and a fee, compute how
// far the price moves and how much is consumed/produced/taken as fee.
//
// Grounded on the teacher's swapStepCompute in
// pkg/pool/raydium/clmm_tickerarray.go, narrowed to the Q32.32 word and
// restructured around pkg/clmm/liquiditymath instead of inline cosmath.Int
// arithmetic.
package swapmath

import (
	"github.com/solana-zh/clmmcore/pkg/clmm/fixedpoint"
	"github.com/solana-zh/clmmcore/pkg/clmm/liquiditymath"
)

// FeeRateDenominator matches the 10^6 pips convention used throughout the
// fee taxonomy (fee_pips / 1_000_000).
const FeeRateDenominator uint64 = 1_000_000

// Step is the result of a single swap step within one tick range.
type Step struct {
	SqrtPriceNextX32 uint64
	AmountIn         uint64
	AmountOut        uint64
	FeeAmount        uint64
}

// ComputeSwapStep advances the price from sqrtPriceCurrentX32 towards
// sqrtPriceTargetX32, consuming at most amountRemaining (positive:
// exact-input, negative: exact-output magnitude) of liquidity at the given
// fee rate (pips, out of FeeRateDenominator).
func ComputeSwapStep(
	sqrtPriceCurrentX32, sqrtPriceTargetX32 uint64,
	liquidity uint64,
	amountRemaining int64,
	feePips uint32,
) Step {
	zeroForOne := sqrtPriceCurrentX32 >= sqrtPriceTargetX32
	exactIn := amountRemaining >= 0

	var step Step

	if exactIn {
		remainingLessFee := fixedpoint.MulDivFloor(uint64(amountRemaining), FeeRateDenominator-uint64(feePips), FeeRateDenominator)

		var amountIn uint64
		if zeroForOne {
			amountIn = liquiditymath.Amount0Delta(sqrtPriceTargetX32, sqrtPriceCurrentX32, liquidity, true)
		} else {
			amountIn = liquiditymath.Amount1Delta(sqrtPriceCurrentX32, sqrtPriceTargetX32, liquidity, true)
		}

		if remainingLessFee >= amountIn {
			step.SqrtPriceNextX32 = sqrtPriceTargetX32
		} else {
			step.SqrtPriceNextX32 = liquiditymath.NextSqrtPriceFromInput(sqrtPriceCurrentX32, liquidity, remainingLessFee, zeroForOne)
		}
	} else {
		var amountOut uint64
		if zeroForOne {
			amountOut = liquiditymath.Amount1Delta(sqrtPriceTargetX32, sqrtPriceCurrentX32, liquidity, false)
		} else {
			amountOut = liquiditymath.Amount0Delta(sqrtPriceCurrentX32, sqrtPriceTargetX32, liquidity, false)
		}

		absRemaining := uint64(-amountRemaining)
		if absRemaining >= amountOut {
			step.SqrtPriceNextX32 = sqrtPriceTargetX32
		} else {
			step.SqrtPriceNextX32 = liquiditymath.NextSqrtPriceFromOutput(sqrtPriceCurrentX32, liquidity, absRemaining, zeroForOne)
		}
	}

	reachedTarget := sqrtPriceTargetX32 == step.SqrtPriceNextX32

	if zeroForOne {
		if !(reachedTarget && exactIn) {
			step.AmountIn = liquiditymath.Amount0Delta(step.SqrtPriceNextX32, sqrtPriceCurrentX32, liquidity, true)
		} else {
			step.AmountIn = liquiditymath.Amount0Delta(sqrtPriceTargetX32, sqrtPriceCurrentX32, liquidity, true)
		}
		if !(reachedTarget && !exactIn) {
			step.AmountOut = liquiditymath.Amount1Delta(step.SqrtPriceNextX32, sqrtPriceCurrentX32, liquidity, false)
		} else {
			step.AmountOut = liquiditymath.Amount1Delta(sqrtPriceTargetX32, sqrtPriceCurrentX32, liquidity, false)
		}
	} else {
		if !(reachedTarget && exactIn) {
			step.AmountIn = liquiditymath.Amount1Delta(sqrtPriceCurrentX32, step.SqrtPriceNextX32, liquidity, true)
		} else {
			step.AmountIn = liquiditymath.Amount1Delta(sqrtPriceCurrentX32, sqrtPriceTargetX32, liquidity, true)
		}
		if !(reachedTarget && !exactIn) {
			step.AmountOut = liquiditymath.Amount0Delta(sqrtPriceCurrentX32, step.SqrtPriceNextX32, liquidity, false)
		} else {
			step.AmountOut = liquiditymath.Amount0Delta(sqrtPriceCurrentX32, sqrtPriceTargetX32, liquidity, false)
		}
	}

	// Cap exact-output amountOut at the remaining amount: the step never
	// produces more than the caller asked for.
	if !exactIn && step.AmountOut > uint64(-amountRemaining) {
		step.AmountOut = uint64(-amountRemaining)
	}

	if exactIn && step.SqrtPriceNextX32 != sqrtPriceTargetX32 {
		// Consumed the whole remaining amount; the rest becomes fee.
		step.FeeAmount = uint64(amountRemaining) - step.AmountIn
	} else {
		step.FeeAmount = fixedpoint.MulDivCeil(step.AmountIn, uint64(feePips), FeeRateDenominator-uint64(feePips))
	}

	return step
}
