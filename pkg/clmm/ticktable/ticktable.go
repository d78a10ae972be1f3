// Package ticktable implements per-tick state: the liquidity referencing a
// tick, the fee growth recorded "outside" it, and the oracle snapshot taken
// the moment it was last crossed.
//
// Grounded on original_source/programs/core/src/states/tick.rs.
// get_fee_growth_inside is implemented there and ported directly; update,
// cross, clear and tick_spacing_to_max_liquidity_per_tick are all commented
// out in the original, so this package completes them against the
// canonical Uniswap v3 TickState precedent instead of guessing. liquidity_net
// is kept as a signed int64 rather than the stub's u32, matching how a
// cross can legitimately push net liquidity negative relative to the pool's
// traversal direction.
package ticktable

import (
	"fmt"

	"github.com/solana-zh/clmmcore/pkg/clmm/clmmerr"
	"github.com/solana-zh/clmmcore/pkg/clmm/liquiditymath"
	"github.com/solana-zh/clmmcore/pkg/clmm/tickmath"
)

// Tick holds the per-tick accounting record.
type Tick struct {
	Index       int32
	Initialized bool

	LiquidityGross uint64
	LiquidityNet   int64

	FeeGrowthOutside0X32 uint64
	FeeGrowthOutside1X32 uint64

	TickCumulativeOutside        int64
	SecondsPerLiquidityOutsideX32 uint64
	SecondsOutside                uint32
}

// TickSpacingToMaxLiquidityPerTick returns the maximum liquidity_gross a
// single tick may hold for the given spacing, spreading uint64 liquidity
// evenly across every legal tick in range so no single tick can overflow
// the pool's aggregate liquidity counter.
func TickSpacingToMaxLiquidityPerTick(tickSpacing int32) uint64 {
	minTick := (tickmath.MinTick / tickSpacing) * tickSpacing
	maxTick := (tickmath.MaxTick / tickSpacing) * tickSpacing
	numTicks := uint64((maxTick-minTick)/tickSpacing) + 1
	return ^uint64(0) / numTicks
}

// Update records a liquidity delta crossing this tick's initialization
// boundary at tickCurrent, returning whether the tick flipped from
// uninitialized to initialized or vice versa.
func (tk *Tick) Update(tickCurrent int32, liquidityDelta int64, feeGrowthGlobal0X32, feeGrowthGlobal1X32 uint64, upper bool, maxLiquidity uint64) (flipped bool, err error) {
	liquidityGrossBefore := tk.LiquidityGross

	liquidityGrossAfter, err := liquiditymath.AddDelta(liquidityGrossBefore, liquidityDelta)
	if err != nil {
		return false, fmt.Errorf("ticktable: update tick %d: %w", tk.Index, err)
	}
	if liquidityGrossAfter > maxLiquidity {
		return false, fmt.Errorf("ticktable: update tick %d: liquidity_gross %d exceeds max %d: %w", tk.Index, liquidityGrossAfter, maxLiquidity, clmmerr.ErrLiquidityAdd)
	}

	flipped = (liquidityGrossAfter == 0) != (liquidityGrossBefore == 0)

	if liquidityGrossBefore == 0 {
		// All fee growth prior to initialization is taken to be below the
		// tick, i.e. entirely "outside" from this tick's perspective.
		if tk.Index <= tickCurrent {
			tk.FeeGrowthOutside0X32 = feeGrowthGlobal0X32
			tk.FeeGrowthOutside1X32 = feeGrowthGlobal1X32
		}
		tk.Initialized = true
	}

	tk.LiquidityGross = liquidityGrossAfter

	// Crossing the lower (upper) tick left to right adds (removes)
	// liquidity from the active range.
	if upper {
		tk.LiquidityNet -= liquidityDelta
	} else {
		tk.LiquidityNet += liquidityDelta
	}

	return flipped, nil
}

// Clear deinitializes the tick, releasing it for reuse by a future mint.
func (tk *Tick) Clear() {
	*tk = Tick{Index: tk.Index}
}

// Cross flips the tick's fee-growth-outside accounting as the pool's
// active tick walks across it, and returns its net liquidity delta to
// apply to the pool's running liquidity total.
func (tk *Tick) Cross(feeGrowthGlobal0X32, feeGrowthGlobal1X32 uint64, tickCumulative int64, secondsPerLiquidityCumulativeX32 uint64, blockTimestamp uint32) int64 {
	tk.FeeGrowthOutside0X32 = feeGrowthGlobal0X32 - tk.FeeGrowthOutside0X32
	tk.FeeGrowthOutside1X32 = feeGrowthGlobal1X32 - tk.FeeGrowthOutside1X32
	tk.SecondsPerLiquidityOutsideX32 = secondsPerLiquidityCumulativeX32 - tk.SecondsPerLiquidityOutsideX32
	tk.TickCumulativeOutside = tickCumulative - tk.TickCumulativeOutside
	tk.SecondsOutside = blockTimestamp - tk.SecondsOutside
	return tk.LiquidityNet
}

// GetFeeGrowthInside calculates the fee growth accrued per unit of
// liquidity inside [lower, upper] as of tickCurrent: fr = fg - f_below -
// f_above (formula 6.19 of the Uniswap v3 whitepaper).
func GetFeeGrowthInside(lower, upper *Tick, tickCurrent int32, feeGrowthGlobal0X32, feeGrowthGlobal1X32 uint64) (inside0, inside1 uint64) {
	var below0, below1 uint64
	if tickCurrent >= lower.Index {
		below0, below1 = lower.FeeGrowthOutside0X32, lower.FeeGrowthOutside1X32
	} else {
		below0 = feeGrowthGlobal0X32 - lower.FeeGrowthOutside0X32
		below1 = feeGrowthGlobal1X32 - lower.FeeGrowthOutside1X32
	}

	var above0, above1 uint64
	if tickCurrent < upper.Index {
		above0, above1 = upper.FeeGrowthOutside0X32, upper.FeeGrowthOutside1X32
	} else {
		above0 = feeGrowthGlobal0X32 - upper.FeeGrowthOutside0X32
		above1 = feeGrowthGlobal1X32 - upper.FeeGrowthOutside1X32
	}

	inside0 = feeGrowthGlobal0X32 - below0 - above0
	inside1 = feeGrowthGlobal1X32 - below1 - above1
	return inside0, inside1
}
