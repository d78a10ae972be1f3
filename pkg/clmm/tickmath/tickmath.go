// Package tickmath implements the √P ↔ tick bijection over the monotone
// power-of-1.0001 ladder, narrowed to Q32.32.
//
// The magic-factor ladder below is the same kind the teacher's raydium CLMM
// simulator walks in pkg/pool/raydium/clmm_tickerarray.go
// (getSqrtPriceX64FromTick / getTickFromSqrtPriceX64), which accumulates the
// product over cosmossdk.io/math's arbitrary-precision cosmath.Int rather
// than risking overflow in native 128-bit arithmetic. The factor values
// themselves come from the original cykura-protocol Rust source
// (original_source/programs/core/src/libraries/tick_math.rs), whose
// tick_at_sqrt_ratio/get_sqrt_ratio_at_tick pair this package reimplements.
package tickmath

import (
	"fmt"

	cosmath "cosmossdk.io/math"

	"github.com/solana-zh/clmmcore/pkg/clmm/bitmath"
	"github.com/solana-zh/clmmcore/pkg/clmm/clmmerr"
)

const (
	// MinTick is the minimum admissible tick index.
	MinTick int32 = -221818
	// MaxTick is the maximum admissible tick index.
	MaxTick int32 = -MinTick

	// MinSqrtRatio is 2^16, the lower bound of the sqrt price domain;
	// SqrtRatioAtTick(MinTick) lies just above it, at 2^16 + 1.
	MinSqrtRatio uint64 = 1 << 16
	// MaxSqrtRatio is the sqrt price just above MaxTick, i.e. 2^48.
	MaxSqrtRatio uint64 = 1 << 48
)

// two64 is 2^64; dividing by it after every magic-factor multiply is the
// same ">> 64" step the Rust original performs natively, done here via
// cosmath.Int since no native 128-bit type exists in Go.
var two64, _ = cosmath.NewIntFromString("18446744073709551616")

// two32 is 2^32, used to shift a Q64.64 accumulator down into Q32.32.
var two32 = cosmath.NewIntFromUint64(1 << 32)

// maxUint128 is 2^128 - 1, the numerator used to invert a Q64.64 ratio.
var maxUint128, _ = cosmath.NewIntFromString("340282366920938463463374607431768211455")

// magicFactors[i] ≈ 2^64 / 1.0001^(2^(i-1)), used to build 1.0001^(tick/2)
// as a running Q64.64 product over the set bits of |tick|.
var magicFactors = [18]uint64{
	0xfffcb933bd6fb800,
	0xfff97272373d4000,
	0xfff2e50f5f657000,
	0xffe5caca7e10f000,
	0xffcb9843d60f7000,
	0xff973b41fa98e800,
	0xff2ea16466c9b000,
	0xfe5dee046a9a3800,
	0xfcbe86c7900bb000,
	0xf987a7253ac65800,
	0xf3392b0822bb6000,
	0xe7159475a2caf000,
	0xd097f3bdfd2f2000,
	0xa9f746462d9f8000,
	0x70d869a156f31c00,
	0x31be135f97ed3200,
	0x9aa508b5b85a500,
	0x5d6af8dedc582c,
}

// SqrtRatioAtTick computes 1.0001^(tick/2) in Q32.32, i.e. √P for the given
// tick. Returns clmmerr.ErrTickRange wrapped with the offending tick if
// |tick| > MaxTick.
func SqrtRatioAtTick(tick int32) (uint64, error) {
	absTick := tick
	if absTick < 0 {
		absTick = -absTick
	}
	if absTick > MaxTick {
		return 0, fmt.Errorf("tickmath: tick %d: %w", tick, clmmerr.ErrTickRange)
	}

	var ratio cosmath.Int
	if absTick&0x1 != 0 {
		ratio = cosmath.NewIntFromUint64(magicFactors[0])
	} else {
		ratio = two64
	}

	for i := 1; i < 18; i++ {
		bit := uint32(1) << uint(i)
		if uint32(absTick)&bit != 0 {
			ratio = ratio.Mul(cosmath.NewIntFromUint64(magicFactors[i])).Quo(two64)
		}
	}

	if tick > 0 {
		ratio = maxUint128.Quo(ratio)
	}

	// ratio is Q64.64; shift down to Q32.32, rounding up on any
	// remaining fractional bits.
	sqrtPriceX32 := ratio.Quo(two32)
	remainder := ratio.Sub(sqrtPriceX32.Mul(two32))
	if remainder.IsPositive() {
		sqrtPriceX32 = sqrtPriceX32.AddRaw(1)
	}

	return sqrtPriceX32.Uint64(), nil
}

// TickAtSqrtRatio computes the greatest tick such that
// SqrtRatioAtTick(tick) <= sqrtPriceX32. Returns clmmerr.ErrSqrtRatioRange if
// sqrtPriceX32 is outside [MinSqrtRatio, MaxSqrtRatio).
func TickAtSqrtRatio(sqrtPriceX32 uint64) (int32, error) {
	if sqrtPriceX32 < MinSqrtRatio || sqrtPriceX32 >= MaxSqrtRatio {
		return 0, fmt.Errorf("tickmath: sqrt price %d: %w", sqrtPriceX32, clmmerr.ErrSqrtRatioRange)
	}

	msb := bitmath.MostSignificantBit(sqrtPriceX32)

	// log2(m * 2^e) = log2(m) + e; for Q32.32, e = msb - 32. Left shift
	// by 16 to hold the result as a Q48.16 fixed-point integer.
	log2x16 := (int64(msb) - 32) << 16

	var r uint64
	if msb >= 32 {
		r = sqrtPriceX32 >> (msb - 31)
	} else {
		r = sqrtPriceX32 << (31 - msb)
	}

	for shift := 15; shift >= 2; shift-- {
		r = (r * r) >> 31
		f := uint8(r >> 32)
		log2x16 |= int64(f) << uint(shift)
		r >>= f
	}

	// Change of base: multiply by 2^16 / log2(√1.0001) in Q0.32.
	const changeOfBase = 908567298
	logSqrt10001X32 := log2x16 * changeOfBase

	tickLow := int32((logSqrt10001X32 - 42949672) >> 32)
	tickHigh := int32((logSqrt10001X32 + 3677218864) >> 32)

	if tickLow == tickHigh {
		return tickLow, nil
	}
	highRatio, err := SqrtRatioAtTick(tickHigh)
	if err != nil {
		return 0, err
	}
	if highRatio <= sqrtPriceX32 {
		return tickHigh, nil
	}
	return tickLow, nil
}
