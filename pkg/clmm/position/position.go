// Package position implements per-owner, per-range liquidity accounting:
// how much liquidity a position holds, and the fees it has accrued since
// it was last touched.
//
// Grounded on original_source/programs/core/src/states/position.rs
// (PositionState.update). That Rust method multiplies liquidity by the
// fee-growth delta without a final >>32 rescale, which is inconsistent
// with a Q32.32 fee-growth accumulator (it would credit fees 2^32 times
// too large) and with the invariant that a pool's accumulated fee payouts
// equal Δfee_growth_global · liquidity / 2^32. This package divides by
// fixedpoint.Q32 after the multiply, matching true Uniswap v3 semantics
// rather than the incomplete Rust snippet.
package position

import (
	"fmt"

	"github.com/solana-zh/clmmcore/pkg/clmm/clmmerr"
	"github.com/solana-zh/clmmcore/pkg/clmm/fixedpoint"
	"github.com/solana-zh/clmmcore/pkg/clmm/liquiditymath"
)

// Position is the accounting record for one owner's liquidity over one
// tick range.
type Position struct {
	Liquidity uint64

	FeeGrowthInside0LastX32 uint64
	FeeGrowthInside1LastX32 uint64

	TokensOwed0 uint64
	TokensOwed1 uint64
}

// Update credits a liquidity delta (zero for a "poke": recompute owed fees
// without changing liquidity) and rolls forward the fee-growth-inside
// snapshot, crediting any fees accrued since the position was last
// touched.
func (p *Position) Update(liquidityDelta int64, feeGrowthInside0X32, feeGrowthInside1X32 uint64) error {
	var liquidityNext uint64
	if liquidityDelta == 0 {
		if p.Liquidity == 0 {
			return fmt.Errorf("position: update: %w", clmmerr.ErrPokeZeroLiquidity)
		}
		liquidityNext = p.Liquidity
	} else {
		next, err := liquiditymath.AddDelta(p.Liquidity, liquidityDelta)
		if err != nil {
			return fmt.Errorf("position: update: %w", err)
		}
		liquidityNext = next
	}

	feeGrowthDelta0 := feeGrowthInside0X32 - p.FeeGrowthInside0LastX32
	feeGrowthDelta1 := feeGrowthInside1X32 - p.FeeGrowthInside1LastX32

	tokensOwed0 := fixedpoint.MulDivFloor(p.Liquidity, feeGrowthDelta0, fixedpoint.Q32)
	tokensOwed1 := fixedpoint.MulDivFloor(p.Liquidity, feeGrowthDelta1, fixedpoint.Q32)

	if liquidityDelta != 0 {
		p.Liquidity = liquidityNext
	}
	p.FeeGrowthInside0LastX32 = feeGrowthInside0X32
	p.FeeGrowthInside1LastX32 = feeGrowthInside1X32

	if tokensOwed0 > 0 || tokensOwed1 > 0 {
		// Overflow is acceptable here the same way the original accepts
		// it: a position must be collected before fees can wrap u64.
		p.TokensOwed0 += tokensOwed0
		p.TokensOwed1 += tokensOwed1
	}

	return nil
}

// Collect withdraws up to (amount0Requested, amount1Requested) of owed
// tokens, returning the amounts actually paid out.
func (p *Position) Collect(amount0Requested, amount1Requested uint64) (amount0, amount1 uint64) {
	amount0 = amount0Requested
	if amount0 > p.TokensOwed0 {
		amount0 = p.TokensOwed0
	}
	amount1 = amount1Requested
	if amount1 > p.TokensOwed1 {
		amount1 = p.TokensOwed1
	}

	if amount0 > 0 {
		p.TokensOwed0 -= amount0
	}
	if amount1 > 0 {
		p.TokensOwed1 -= amount1
	}
	return amount0, amount1
}
