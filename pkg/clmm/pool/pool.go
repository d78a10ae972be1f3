// Package pool implements the Pool orchestrator: the mint / burn / collect
// / swap / flash lifecycle, the fee-growth-inside trick, and the oracle
// write/grow hooks, all driven against the tick, position, bitmap and
// oracle packages.
//
// Grounded on original_source/programs/core/src/lib.rs, whose
// create_and_init_pool / increase_observation_cardinality_next /
// set_fee_protocol / collect_protocol / init_*_account instructions are
// implemented there and whose collect / burn / swap / flash / mint bodies
// are commented out or stubbed (swap is a literal todo!()) — this package
// completes all of them against the Uniswap v3 precedent the design notes
// direct implementers to when the source itself goes silent. The
// reentrancy guard and vault-underfunding checks are simulated in-process
// (pkg/clmm/chainhost stands in for the transaction runtime that would
// otherwise enforce them), the same "callback handle + callback data"
// pattern the design notes describe in place of cross-program invocation.
package pool

import (
	"context"
	"fmt"

	"github.com/solana-zh/clmmcore/pkg/clmm/chainhost"
	"github.com/solana-zh/clmmcore/pkg/clmm/clmmerr"
	"github.com/solana-zh/clmmcore/pkg/clmm/events"
	"github.com/solana-zh/clmmcore/pkg/clmm/fixedpoint"
	"github.com/solana-zh/clmmcore/pkg/clmm/liquiditymath"
	"github.com/solana-zh/clmmcore/pkg/clmm/oracle"
	"github.com/solana-zh/clmmcore/pkg/clmm/position"
	"github.com/solana-zh/clmmcore/pkg/clmm/store"
	"github.com/solana-zh/clmmcore/pkg/clmm/swapmath"
	"github.com/solana-zh/clmmcore/pkg/clmm/tickbitmap"
	"github.com/solana-zh/clmmcore/pkg/clmm/tickmath"
	"github.com/solana-zh/clmmcore/pkg/clmm/ticktable"
)

// MintCallback funds the pool's vaults with at least the owed amounts and
// reports how much it actually transferred in.
type MintCallback func(ctx context.Context, amount0Owed, amount1Owed uint64, data []byte) (funded0, funded1 uint64, err error)

// SwapCallback funds the pool's input vault with at least the owed delta
// after the pool has released the output side.
type SwapCallback func(ctx context.Context, amount0Delta, amount1Delta int64, data []byte) (funded0, funded1 uint64, err error)

// FlashCallback repays a flash donation plus fee.
type FlashCallback func(ctx context.Context, fee0, fee1 uint64, data []byte) (repaid0, repaid1 uint64, err error)

// bitmapAdapter bridges the pool's per-pool bitmap table to
// tickbitmap.WordStore.
type bitmapAdapter struct {
	pool   store.PoolKey
	words  *store.Table[store.BitmapWordKey, [4]uint64]
}

func (a bitmapAdapter) Word(wordPos int16) [4]uint64 {
	w, _ := a.words.Get(store.BitmapWordKey{Pool: a.pool, WordPos: wordPos})
	return w
}

func (a bitmapAdapter) SetWord(wordPos int16, word [4]uint64) {
	a.words.Set(store.BitmapWordKey{Pool: a.pool, WordPos: wordPos}, word)
}

// Pool is the authoritative concentrated-liquidity pool: the state
// machine, not a simulator reading someone else's deployed instance.
type Pool struct {
	Key         store.PoolKey
	TickSpacing int32

	Liquidity    uint64
	SqrtPriceX32 uint64
	Tick         int32

	FeeGrowthGlobal0X32 uint64
	FeeGrowthGlobal1X32 uint64

	ProtocolFeesToken0 uint64
	ProtocolFeesToken1 uint64
	FeeProtocol        uint8 // packed (d1<<4)|d0

	Oracle *oracle.Ring

	Vault0, Vault1 uint64

	Unlocked bool

	ticks     *store.Table[store.TickKey, *ticktable.Tick]
	positions *store.Table[store.PositionKey, *position.Position]
	words     *store.Table[store.BitmapWordKey, [4]uint64]

	host *chainhost.Host
	sink events.Sink
}

// New creates and initializes a pool at the given starting price. Computes
// the initial tick and seeds one oracle observation, matching
// create_and_init_pool.
func New(key store.PoolKey, tickSpacing int32, sqrtPriceX32 uint64, host *chainhost.Host, sink events.Sink) (*Pool, error) {
	tick, err := tickmath.TickAtSqrtRatio(sqrtPriceX32)
	if err != nil {
		return nil, fmt.Errorf("pool: new: %w", err)
	}
	if sink == nil {
		sink = events.NopSink{}
	}

	p := &Pool{
		Key:          key,
		TickSpacing:  tickSpacing,
		SqrtPriceX32: sqrtPriceX32,
		Tick:         tick,
		Oracle:       oracle.NewRing(host.BlockTimestamp()),
		Unlocked:     true,
		ticks:        store.NewTable[store.TickKey, *ticktable.Tick](),
		positions:    store.NewTable[store.PositionKey, *position.Position](),
		words:        store.NewTable[store.BitmapWordKey, [4]uint64](),
		host:         host,
		sink:         sink,
	}

	sink.Emit(events.PoolCreatedAndInitialized{
		Token0:       key.Token0,
		Token1:       key.Token1,
		FeePips:      key.FeePips,
		TickSpacing:  tickSpacing,
		SqrtPriceX32: sqrtPriceX32,
		Tick:         tick,
	})

	return p, nil
}

func (p *Pool) bitmap() tickbitmap.WordStore {
	return bitmapAdapter{pool: p.Key, words: p.words}
}

func (p *Pool) lock() error {
	if !p.Unlocked {
		return clmmerr.ErrLocked
	}
	p.Unlocked = false
	return nil
}

func (p *Pool) unlock() {
	p.Unlocked = true
}

// checkTicks validates MIN_TICK ≤ tickLower < tickUpper ≤ MAX_TICK, each a
// multiple of tick_spacing.
func (p *Pool) checkTicks(tickLower, tickUpper int32) error {
	if tickLower >= tickUpper {
		return clmmerr.ErrTickLowerUpper
	}
	if tickLower < tickmath.MinTick {
		return clmmerr.ErrTickLowMin
	}
	if tickUpper > tickmath.MaxTick {
		return clmmerr.ErrTickUpperMax
	}
	if tickLower%p.TickSpacing != 0 || tickUpper%p.TickSpacing != 0 {
		return clmmerr.ErrTickSpacing
	}
	return nil
}

// InitTickAccount lazily creates a zeroed tick record.
func (p *Pool) InitTickAccount(index int32) error {
	key := store.TickKey{Pool: p.Key, Index: index}
	if p.ticks.Has(key) {
		return nil
	}
	p.ticks.Set(key, &ticktable.Tick{Index: index})
	return nil
}

// CloseTickAccount deletes a tick record; succeeds only when the tick has
// returned to liquidity_gross == 0.
func (p *Pool) CloseTickAccount(index int32) error {
	key := store.TickKey{Pool: p.Key, Index: index}
	tk, ok := p.ticks.Get(key)
	if !ok {
		return clmmerr.ErrNotFound
	}
	if tk.LiquidityGross != 0 {
		return clmmerr.ErrTickNotClear
	}
	p.ticks.Delete(key)
	return nil
}

// InitBitmapAccount lazily creates a zeroed bitmap word.
func (p *Pool) InitBitmapAccount(wordPos int16) error {
	key := store.BitmapWordKey{Pool: p.Key, WordPos: wordPos}
	if !p.words.Has(key) {
		p.words.Set(key, [4]uint64{})
	}
	return nil
}

// InitPositionAccount lazily creates a zeroed position record.
func (p *Pool) InitPositionAccount(owner store.Address, tickLower, tickUpper int32) error {
	key := store.PositionKey{Pool: p.Key, Owner: owner, TickLower: tickLower, TickUpper: tickUpper}
	if p.positions.Has(key) {
		return nil
	}
	p.positions.Set(key, &position.Position{})
	return nil
}

func (p *Pool) getOrCreateTick(index int32) *ticktable.Tick {
	key := store.TickKey{Pool: p.Key, Index: index}
	tk, ok := p.ticks.Get(key)
	if !ok {
		tk = &ticktable.Tick{Index: index}
		p.ticks.Set(key, tk)
	}
	return tk
}

func (p *Pool) getOrCreatePosition(owner store.Address, tickLower, tickUpper int32) *position.Position {
	key := store.PositionKey{Pool: p.Key, Owner: owner, TickLower: tickLower, TickUpper: tickUpper}
	pos, ok := p.positions.Get(key)
	if !ok {
		pos = &position.Position{}
		p.positions.Set(key, pos)
	}
	return pos
}

// modifyPosition is the shared core of Mint and Burn.
func (p *Pool) modifyPosition(owner store.Address, tickLower, tickUpper int32, liquidityDelta int64) (amount0, amount1 uint64, err error) {
	if err := p.checkTicks(tickLower, tickUpper); err != nil {
		return 0, 0, fmt.Errorf("pool: modify_position: %w", err)
	}

	maxLiquidityPerTick := ticktable.TickSpacingToMaxLiquidityPerTick(p.TickSpacing)
	blockTimestamp := p.host.BlockTimestamp()
	tickCumulative, secPerLCum := p.Oracle.ObserveLatest(blockTimestamp, p.Tick, p.Liquidity)

	lowerTick := p.getOrCreateTick(tickLower)
	flippedLower, err := lowerTick.Update(p.Tick, liquidityDelta, p.FeeGrowthGlobal0X32, p.FeeGrowthGlobal1X32, false, maxLiquidityPerTick)
	if err != nil {
		return 0, 0, fmt.Errorf("pool: modify_position: lower tick: %w", err)
	}
	if flippedLower {
		lowerTick.TickCumulativeOutside = tickCumulative
		lowerTick.SecondsPerLiquidityOutsideX32 = secPerLCum
		lowerTick.SecondsOutside = blockTimestamp
	}

	upperTick := p.getOrCreateTick(tickUpper)
	flippedUpper, err := upperTick.Update(p.Tick, liquidityDelta, p.FeeGrowthGlobal0X32, p.FeeGrowthGlobal1X32, true, maxLiquidityPerTick)
	if err != nil {
		return 0, 0, fmt.Errorf("pool: modify_position: upper tick: %w", err)
	}
	if flippedUpper {
		upperTick.TickCumulativeOutside = tickCumulative
		upperTick.SecondsPerLiquidityOutsideX32 = secPerLCum
		upperTick.SecondsOutside = blockTimestamp
	}

	if flippedLower {
		tickbitmap.FlipTick(p.bitmap(), tickLower, p.TickSpacing)
	}
	if flippedUpper {
		tickbitmap.FlipTick(p.bitmap(), tickUpper, p.TickSpacing)
	}

	feeGrowthInside0, feeGrowthInside1 := ticktable.GetFeeGrowthInside(lowerTick, upperTick, p.Tick, p.FeeGrowthGlobal0X32, p.FeeGrowthGlobal1X32)

	pos := p.getOrCreatePosition(owner, tickLower, tickUpper)
	if err := pos.Update(liquidityDelta, feeGrowthInside0, feeGrowthInside1); err != nil {
		return 0, 0, fmt.Errorf("pool: modify_position: position: %w", err)
	}

	sqrtPriceLowerX32, err := tickmath.SqrtRatioAtTick(tickLower)
	if err != nil {
		return 0, 0, fmt.Errorf("pool: modify_position: %w", err)
	}
	sqrtPriceUpperX32, err := tickmath.SqrtRatioAtTick(tickUpper)
	if err != nil {
		return 0, 0, fmt.Errorf("pool: modify_position: %w", err)
	}

	switch {
	case p.Tick < tickLower:
		amount0 = abs64(liquiditymath.SignedAmount0Delta(sqrtPriceLowerX32, sqrtPriceUpperX32, liquidityDelta))
	case p.Tick < tickUpper:
		amount0 = abs64(liquiditymath.SignedAmount0Delta(p.SqrtPriceX32, sqrtPriceUpperX32, liquidityDelta))
		amount1 = abs64(liquiditymath.SignedAmount1Delta(sqrtPriceLowerX32, p.SqrtPriceX32, liquidityDelta))
		p.Liquidity, err = liquiditymath.AddDelta(p.Liquidity, liquidityDelta)
		if err != nil {
			return 0, 0, fmt.Errorf("pool: modify_position: pool liquidity: %w", err)
		}
	default:
		amount1 = abs64(liquiditymath.SignedAmount1Delta(sqrtPriceLowerX32, sqrtPriceUpperX32, liquidityDelta))
	}

	// A liquidity_gross of zero after a burn means the tick is no longer
	// referenced; clear its bit's backing record became eligible for
	// CloseTickAccount, but we leave that an explicit caller action per
	// the external-interface contract rather than deleting inline here.

	return amount0, amount1, nil
}

func abs64(x int64) uint64 {
	if x < 0 {
		return uint64(-x)
	}
	return uint64(x)
}

// Mint adds ΔL > 0 liquidity to [tickLower, tickUpper] on behalf of owner.
// The callback must fund the pool's vaults with at least the returned
// amounts before Mint returns; an underfunded callback fails M0/M1.
func (p *Pool) Mint(ctx context.Context, owner store.Address, tickLower, tickUpper int32, liquidityDelta uint64, cb MintCallback, data []byte) (amount0, amount1 uint64, err error) {
	if liquidityDelta == 0 {
		return 0, 0, fmt.Errorf("pool: mint: %w", clmmerr.ErrZeroMintAmount)
	}
	if err := p.lock(); err != nil {
		return 0, 0, fmt.Errorf("pool: mint: %w", err)
	}
	defer p.unlock()

	amount0, amount1, err = p.modifyPosition(owner, tickLower, tickUpper, int64(liquidityDelta))
	if err != nil {
		return 0, 0, err
	}

	err = p.host.Dispatch(ctx, func() error {
		funded0, funded1, cbErr := cb(ctx, amount0, amount1, data)
		if cbErr != nil {
			return fmt.Errorf("pool: mint callback: %w", cbErr)
		}
		if funded0 < amount0 {
			return fmt.Errorf("pool: mint: vault0 short by %d: %w", amount0-funded0, clmmerr.ErrCallbackShort0)
		}
		if funded1 < amount1 {
			return fmt.Errorf("pool: mint: vault1 short by %d: %w", amount1-funded1, clmmerr.ErrCallbackShort1)
		}
		p.Vault0 += amount0
		p.Vault1 += amount1
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	p.sink.Emit(events.Mint{Pool: p.Key, Owner: owner, TickLower: tickLower, TickUpper: tickUpper, Liquidity: liquidityDelta, Amount0: amount0, Amount1: amount1})
	return amount0, amount1, nil
}

// Burn removes ΔL liquidity from [tickLower, tickUpper]; ΔL == 0 is a
// "poke" that only refreshes fee_growth_inside_last. Computed amounts are
// credited to the position's tokens_owed, not transferred.
func (p *Pool) Burn(owner store.Address, tickLower, tickUpper int32, liquidityDelta uint64) (amount0, amount1 uint64, err error) {
	if err := p.lock(); err != nil {
		return 0, 0, fmt.Errorf("pool: burn: %w", err)
	}
	defer p.unlock()

	amount0, amount1, err = p.modifyPosition(owner, tickLower, tickUpper, -int64(liquidityDelta))
	if err != nil {
		return 0, 0, err
	}

	if amount0 > 0 || amount1 > 0 {
		pos := p.getOrCreatePosition(owner, tickLower, tickUpper)
		pos.TokensOwed0 += amount0
		pos.TokensOwed1 += amount1
	}

	p.sink.Emit(events.Burn{Pool: p.Key, Owner: owner, TickLower: tickLower, TickUpper: tickUpper, Liquidity: liquidityDelta, Amount0: amount0, Amount1: amount1})
	return amount0, amount1, nil
}

// Collect withdraws up to (requested0, requested1) of a position's owed
// tokens from the pool vaults.
func (p *Pool) Collect(owner store.Address, tickLower, tickUpper int32, requested0, requested1 uint64) (amount0, amount1 uint64, err error) {
	if err := p.lock(); err != nil {
		return 0, 0, fmt.Errorf("pool: collect: %w", err)
	}
	defer p.unlock()

	pos := p.getOrCreatePosition(owner, tickLower, tickUpper)
	amount0, amount1 = pos.Collect(requested0, requested1)

	if amount0 > p.Vault0 || amount1 > p.Vault1 {
		return 0, 0, fmt.Errorf("pool: collect: vault underfunded")
	}
	p.Vault0 -= amount0
	p.Vault1 -= amount1

	p.sink.Emit(events.Collect{Pool: p.Key, Owner: owner, TickLower: tickLower, TickUpper: tickUpper, Amount0: amount0, Amount1: amount1})
	return amount0, amount1, nil
}

// feeProtocolDenominators unpacks FeeProtocol into (d0, d1).
func (p *Pool) feeProtocolDenominators() (d0, d1 uint8) {
	return p.FeeProtocol & 0x0f, p.FeeProtocol >> 4
}

// SetFeeProtocol sets the protocol fee denominators; each of d0, d1 must be
// 0 or in [4, 10]. Gating by factory ownership is the caller's
// responsibility (see factory.Factory.SetFeeProtocol).
func (p *Pool) SetFeeProtocol(d0, d1 uint8) error {
	if !validFeeProtocolDenominator(d0) || !validFeeProtocolDenominator(d1) {
		return fmt.Errorf("pool: set_fee_protocol: %w", clmmerr.ErrInvalidProtocolFee)
	}
	oldD0, oldD1 := p.feeProtocolDenominators()
	p.FeeProtocol = (d1 << 4) | d0
	p.sink.Emit(events.SetFeeProtocol{Pool: p.Key, FeeProtocol0Old: oldD0, FeeProtocol1Old: oldD1, FeeProtocol0New: d0, FeeProtocol1New: d1})
	return nil
}

func validFeeProtocolDenominator(d uint8) bool {
	return d == 0 || (d >= 4 && d <= 10)
}

// CollectProtocol withdraws up to (max0, max1) of the unwithdrawn protocol
// fee share.
func (p *Pool) CollectProtocol(sender store.Address, max0, max1 uint64) (amount0, amount1 uint64) {
	amount0 = max0
	if amount0 > p.ProtocolFeesToken0 {
		amount0 = p.ProtocolFeesToken0
	}
	amount1 = max1
	if amount1 > p.ProtocolFeesToken1 {
		amount1 = p.ProtocolFeesToken1
	}
	p.ProtocolFeesToken0 -= amount0
	p.ProtocolFeesToken1 -= amount1
	if amount0 > p.Vault0 {
		amount0 = p.Vault0
	}
	if amount1 > p.Vault1 {
		amount1 = p.Vault1
	}
	p.Vault0 -= amount0
	p.Vault1 -= amount1

	p.sink.Emit(events.CollectProtocol{Pool: p.Key, Sender: sender, Amount0: amount0, Amount1: amount1})
	return amount0, amount1
}

// IncreaseObservationCardinalityNext pre-allocates n oracle ring slots.
func (p *Pool) IncreaseObservationCardinalityNext(n uint16) error {
	old := p.Oracle.CardinalityNext
	if err := p.Oracle.Grow(n); err != nil {
		return fmt.Errorf("pool: increase_observation_cardinality_next: %w", err)
	}
	p.sink.Emit(events.IncreaseObservationCardinalityNext{Pool: p.Key, ObservationCardinalityNextOld: old, ObservationCardinalityNextNew: n})
	return nil
}

// swapState is the SwapState of spec §4.6.
type swapState struct {
	amountRemaining    int64
	amountCalculated   int64
	sqrtPriceX32       uint64
	tick               int32
	liquidity          uint64
	feeGrowthGlobalX32 uint64
	protocolFeeAccum   uint64
}

// Swap executes the single-tick-range-stepping swap state machine.
// amountSpecified is positive for exact-input, negative for exact-output.
// Returns the signed (amount0Delta, amount1Delta): positive means the pool
// received that amount from the caller, negative means the pool paid it
// out.
func (p *Pool) Swap(ctx context.Context, sender store.Address, zeroForOne bool, amountSpecified int64, sqrtPriceLimitX32 uint64, cb SwapCallback, data []byte) (amount0Delta, amount1Delta int64, err error) {
	if err := p.lock(); err != nil {
		return 0, 0, fmt.Errorf("pool: swap: %w", err)
	}
	defer p.unlock()

	if zeroForOne {
		if sqrtPriceLimitX32 >= p.SqrtPriceX32 || sqrtPriceLimitX32 <= tickmath.MinSqrtRatio {
			return 0, 0, fmt.Errorf("pool: swap: %w", clmmerr.ErrPriceLimit)
		}
	} else {
		if sqrtPriceLimitX32 <= p.SqrtPriceX32 || sqrtPriceLimitX32 >= tickmath.MaxSqrtRatio {
			return 0, 0, fmt.Errorf("pool: swap: %w", clmmerr.ErrPriceLimit)
		}
	}

	exactIn := amountSpecified >= 0
	startTick := p.Tick
	blockTimestamp := p.host.BlockTimestamp()

	state := swapState{
		amountRemaining: amountSpecified,
		sqrtPriceX32:    p.SqrtPriceX32,
		tick:            p.Tick,
		liquidity:       p.Liquidity,
	}
	if zeroForOne {
		state.feeGrowthGlobalX32 = p.FeeGrowthGlobal0X32
	} else {
		state.feeGrowthGlobalX32 = p.FeeGrowthGlobal1X32
	}

	protoD0, protoD1 := p.feeProtocolDenominators()
	protoDenom := protoD0
	if !zeroForOne {
		protoDenom = protoD1
	}

	feePips := uint32(p.Key.FeePips)

	for state.amountRemaining != 0 && state.sqrtPriceX32 != sqrtPriceLimitX32 {
		nextTick, initialized := tickbitmap.NextInitializedTickWithinOneWord(p.bitmap(), state.tick, p.TickSpacing, zeroForOne)
		if nextTick < tickmath.MinTick {
			nextTick = tickmath.MinTick
		}
		if nextTick > tickmath.MaxTick {
			nextTick = tickmath.MaxTick
		}

		sqrtPriceNextTick, err := tickmath.SqrtRatioAtTick(nextTick)
		if err != nil {
			return 0, 0, fmt.Errorf("pool: swap: %w", err)
		}

		target := sqrtPriceNextTick
		if zeroForOne {
			if target < sqrtPriceLimitX32 {
				target = sqrtPriceLimitX32
			}
		} else {
			if target > sqrtPriceLimitX32 {
				target = sqrtPriceLimitX32
			}
		}

		step := swapmath.ComputeSwapStep(state.sqrtPriceX32, target, state.liquidity, state.amountRemaining, feePips)

		if exactIn {
			state.amountRemaining -= int64(step.AmountIn + step.FeeAmount)
			state.amountCalculated -= int64(step.AmountOut)
		} else {
			state.amountRemaining += int64(step.AmountOut)
			state.amountCalculated += int64(step.AmountIn + step.FeeAmount)
		}

		fee := step.FeeAmount
		if protoDenom != 0 {
			delta := fee / uint64(protoDenom)
			state.protocolFeeAccum += delta
			fee -= delta
		}

		if state.liquidity > 0 {
			state.feeGrowthGlobalX32 += fixedpoint.MulDivFloor(fee, fixedpoint.Q32, state.liquidity)
		}

		if step.SqrtPriceNextX32 == sqrtPriceNextTick && initialized {
			tickCumulative, secPerLCum := p.Oracle.ObserveLatest(blockTimestamp, state.tick, state.liquidity)

			tk := p.getOrCreateTick(nextTick)
			var fg0, fg1 uint64
			if zeroForOne {
				fg0, fg1 = state.feeGrowthGlobalX32, p.FeeGrowthGlobal1X32
			} else {
				fg0, fg1 = p.FeeGrowthGlobal0X32, state.feeGrowthGlobalX32
			}
			liquidityNet := tk.Cross(fg0, fg1, tickCumulative, secPerLCum, blockTimestamp)

			if zeroForOne {
				liquidityNet = -liquidityNet
			}
			state.liquidity, err = liquiditymath.AddDelta(state.liquidity, liquidityNet)
			if err != nil {
				return 0, 0, fmt.Errorf("pool: swap: cross: %w", err)
			}

			if zeroForOne {
				state.tick = nextTick - 1
			} else {
				state.tick = nextTick
			}
		} else if step.SqrtPriceNextX32 == sqrtPriceNextTick {
			// Reached an uninitialized word boundary: step past it so the
			// next lookup searches the adjacent word.
			if zeroForOne {
				state.tick = nextTick - 1
			} else {
				state.tick = nextTick
			}
		} else if step.SqrtPriceNextX32 != state.sqrtPriceX32 {
			newTick, err := tickmath.TickAtSqrtRatio(step.SqrtPriceNextX32)
			if err != nil {
				return 0, 0, fmt.Errorf("pool: swap: %w", err)
			}
			state.tick = newTick
		}

		state.sqrtPriceX32 = step.SqrtPriceNextX32
	}

	if state.tick != startTick {
		p.Oracle.Write(blockTimestamp, startTick, p.Liquidity)
	}

	p.SqrtPriceX32 = state.sqrtPriceX32
	p.Tick = state.tick
	p.Liquidity = state.liquidity
	if zeroForOne {
		p.FeeGrowthGlobal0X32 = state.feeGrowthGlobalX32
		p.ProtocolFeesToken0 += state.protocolFeeAccum
	} else {
		p.FeeGrowthGlobal1X32 = state.feeGrowthGlobalX32
		p.ProtocolFeesToken1 += state.protocolFeeAccum
	}

	if exactIn {
		amount0Delta, amount1Delta = amountSpecified-state.amountRemaining, state.amountCalculated
	} else {
		amount0Delta, amount1Delta = state.amountCalculated, amountSpecified-state.amountRemaining
	}
	if !zeroForOne {
		amount0Delta, amount1Delta = amount1Delta, amount0Delta
	}

	owed0, owed1 := int64(0), int64(0)
	if amount0Delta > 0 {
		owed0 = amount0Delta
	}
	if amount1Delta > 0 {
		owed1 = amount1Delta
	}
	if amount0Delta < 0 {
		p.Vault0 -= uint64(-amount0Delta)
	}
	if amount1Delta < 0 {
		p.Vault1 -= uint64(-amount1Delta)
	}

	err = p.host.Dispatch(ctx, func() error {
		funded0, funded1, cbErr := cb(ctx, amount0Delta, amount1Delta, data)
		if cbErr != nil {
			return fmt.Errorf("pool: swap callback: %w", cbErr)
		}
		if uint64(owed0) > funded0 {
			return fmt.Errorf("pool: swap: vault0 short by %d: %w", uint64(owed0)-funded0, clmmerr.ErrCallbackShort0)
		}
		if uint64(owed1) > funded1 {
			return fmt.Errorf("pool: swap: vault1 short by %d: %w", uint64(owed1)-funded1, clmmerr.ErrCallbackShort1)
		}
		p.Vault0 += uint64(owed0)
		p.Vault1 += uint64(owed1)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	p.sink.Emit(events.Swap{Pool: p.Key, Sender: sender, Amount0: amount0Delta, Amount1: amount1Delta, SqrtPriceX32: p.SqrtPriceX32, Liquidity: p.Liquidity, Tick: p.Tick})
	return amount0Delta, amount1Delta, nil
}

// Flash donates amount0/amount1 to in-range positions by skimming a fee
// into fee_growth_global, then invokes the caller's callback, which must
// repay the donated principal plus fee. Not named in spec.md's operation
// list, but not excluded by its Non-goals either: §2 explicitly lists
// "flash" among what Pool orchestrates, and the original's lib.rs stubs
// the same instruction.
func (p *Pool) Flash(ctx context.Context, recipient store.Address, amount0, amount1 uint64, cb FlashCallback, data []byte) error {
	if err := p.lock(); err != nil {
		return fmt.Errorf("pool: flash: %w", err)
	}
	defer p.unlock()

	if p.Liquidity == 0 {
		return fmt.Errorf("pool: flash: no liquidity to skim a fee into")
	}

	feePips := uint64(p.Key.FeePips)
	fee0 := fixedpoint.MulDivCeil(amount0, feePips, swapmath.FeeRateDenominator)
	fee1 := fixedpoint.MulDivCeil(amount1, feePips, swapmath.FeeRateDenominator)

	if amount0 > p.Vault0 || amount1 > p.Vault1 {
		return fmt.Errorf("pool: flash: vault underfunded for requested donation")
	}
	p.Vault0 -= amount0
	p.Vault1 -= amount1

	return p.host.Dispatch(ctx, func() error {
		repaid0, repaid1, cbErr := cb(ctx, fee0, fee1, data)
		if cbErr != nil {
			return fmt.Errorf("pool: flash callback: %w", cbErr)
		}
		if repaid0 < amount0+fee0 {
			return fmt.Errorf("pool: flash: vault0 short by %d: %w", amount0+fee0-repaid0, clmmerr.ErrCallbackShort0)
		}
		if repaid1 < amount1+fee1 {
			return fmt.Errorf("pool: flash: vault1 short by %d: %w", amount1+fee1-repaid1, clmmerr.ErrCallbackShort1)
		}
		p.Vault0 += repaid0
		p.Vault1 += repaid1
		if fee0 > 0 {
			p.FeeGrowthGlobal0X32 += fixedpoint.MulDivFloor(fee0, fixedpoint.Q32, p.Liquidity)
		}
		if fee1 > 0 {
			p.FeeGrowthGlobal1X32 += fixedpoint.MulDivFloor(fee1, fixedpoint.Q32, p.Liquidity)
		}
		return nil
	})
}
