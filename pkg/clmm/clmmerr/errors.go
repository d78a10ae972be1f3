// Package clmmerr defines the sentinel error taxonomy for the concentrated
// liquidity core. Call sites wrap these with fmt.Errorf("...: %w", ...) for
// context; callers test with errors.Is against the sentinels below.
package clmmerr

import "errors"

var (
	// ErrLocked means the pool's reentrancy guard was held on entry.
	ErrLocked = errors.New("LOK: pool is locked")

	// ErrTickLowerUpper means tick_lower >= tick_upper.
	ErrTickLowerUpper = errors.New("TLU: tick_lower must be less than tick_upper")
	// ErrTickLowMin means a tick is below MIN_TICK.
	ErrTickLowMin = errors.New("TLM: tick below MIN_TICK")
	// ErrTickUpperMax means a tick is above MAX_TICK.
	ErrTickUpperMax = errors.New("TUM: tick above MAX_TICK")
	// ErrTickSpacing means a tick is not a multiple of tick_spacing.
	ErrTickSpacing = errors.New("TMS: tick not a multiple of tick_spacing")

	// ErrTickRange means |tick| exceeds MAX_TICK in TickMath.
	ErrTickRange = errors.New("T: tick out of range")
	// ErrSqrtRatioRange means sqrt price is outside [MIN_SQRT_RATIO, MAX_SQRT_RATIO).
	ErrSqrtRatioRange = errors.New("R: sqrt price out of range")

	// ErrLiquidityAdd means add_delta overflowed.
	ErrLiquidityAdd = errors.New("LA: liquidity overflow")
	// ErrLiquiditySub means add_delta underflowed.
	ErrLiquiditySub = errors.New("LS: liquidity underflow")

	// ErrCallbackShort0 means the callback underfunded the token0 vault.
	ErrCallbackShort0 = errors.New("M0: callback underfunded token0 vault")
	// ErrCallbackShort1 means the callback underfunded the token1 vault.
	ErrCallbackShort1 = errors.New("M1: callback underfunded token1 vault")

	// ErrObservationMismatch means a grow() target slot did not match expectations.
	ErrObservationMismatch = errors.New("OS: observation identifier mismatch")

	// ErrZeroMintAmount means mint was called with ΔL == 0.
	ErrZeroMintAmount = errors.New("ZeroMintAmount: liquidity delta must be positive")

	// ErrPokeZeroLiquidity means a poke (ΔL == 0) was attempted on a
	// position holding no liquidity.
	ErrPokeZeroLiquidity = errors.New("poke on zero-liquidity position")

	// ErrPriceLimit means sqrt_price_limit was on the wrong side of the
	// current price, or outside the valid sqrt-ratio range.
	ErrPriceLimit = errors.New("PriceLimit: invalid sqrt price limit")

	// ErrTickNotClear means close_tick_account was attempted on a tick
	// whose liquidity_gross has not returned to zero.
	ErrTickNotClear = errors.New("tick still referenced by open positions")

	// ErrFeeTierExists means enable_fee_amount was called for an already-admitted fee tier.
	ErrFeeTierExists = errors.New("fee tier already enabled")
	// ErrFeeTierUnknown means create_and_init_pool named a fee tier the factory never admitted.
	ErrFeeTierUnknown = errors.New("fee tier not enabled on factory")
	// ErrInvalidFeePips means fee_pips is 0 or >= 10^6.
	ErrInvalidFeePips = errors.New("fee_pips must be in (0, 1_000_000)")
	// ErrInvalidTickSpacing means tick_spacing is 0 or >= 16384.
	ErrInvalidTickSpacing = errors.New("tick_spacing must be in (0, 16384)")
	// ErrInvalidProtocolFee means a fee_protocol denominator is outside {0} ∪ [4,10].
	ErrInvalidProtocolFee = errors.New("fee_protocol denominator must be 0 or in [4, 10]")

	// ErrUnauthorized means the caller is not the factory owner.
	ErrUnauthorized = errors.New("unauthorized: caller is not the factory owner")

	// ErrTokenOrder means token0 was not strictly less than token1.
	ErrTokenOrder = errors.New("token0 must be canonically less than token1")

	// ErrPoolExists means create_and_init_pool was called twice for the same key.
	ErrPoolExists = errors.New("pool already created")
	// ErrNotFound means a keyed record does not exist in the store.
	ErrNotFound = errors.New("record not found")

	// ErrCardinalityNotIncreasing means observation_cardinality_next did not strictly increase.
	ErrCardinalityNotIncreasing = errors.New("observation cardinality_next must strictly increase")
)
