// Package oracle implements the expandable ring of short-window TWAP
// observations. Write records at most one observation per block timestamp;
// the pool calls it at the end of a swap that moved the tick, while mint and
// burn only read the ring through ObserveLatest.
//
// Grounded on original_source/programs/core/src/states/oracle.rs
// (ObservationState.transform / observe_latest), which is fully
// implemented there (unlike tick.rs / tick_bitmap.rs): this package is a
// close port, generalized from a fixed PDA-per-index layout to an
// in-memory ring slice sized by Cardinality, with Grow implementing the
// pre-allocation operation the original only documents in its doc comment
// for IncreaseObservationCardinalityNext.
package oracle

import (
	"fmt"

	"github.com/solana-zh/clmmcore/pkg/clmm/clmmerr"
)

// Observation is one entry of the ring.
type Observation struct {
	BlockTimestamp                uint32
	TickCumulative                int64
	SecondsPerLiquidityCumulativeX32 uint64
	Initialized                   bool
}

// Ring is the pool's oracle state: a slice of observations plus the
// bookkeeping of which slot was written last and how large the ring is
// allowed to grow.
type Ring struct {
	Observations             []Observation
	Index                    uint16
	Cardinality              uint16
	CardinalityNext          uint16
}

// NewRing initializes a ring with a single populated slot at the given
// timestamp, the same "every pool starts with an oracle array length of
// 1" rule the original documents.
func NewRing(blockTimestamp uint32) *Ring {
	return &Ring{
		Observations: []Observation{{
			BlockTimestamp: blockTimestamp,
			Initialized:    true,
		}},
		Index:           0,
		Cardinality:     1,
		CardinalityNext: 1,
	}
}

// transform folds the passage of time since last into a new observation at
// the current tick and liquidity.
func transform(last Observation, blockTimestamp uint32, tick int32, liquidity uint64) Observation {
	delta := int64(blockTimestamp - last.BlockTimestamp)
	denom := liquidity
	if denom == 0 {
		denom = 1
	}
	return Observation{
		BlockTimestamp:                   blockTimestamp,
		TickCumulative:                   last.TickCumulative + int64(tick)*delta,
		SecondsPerLiquidityCumulativeX32: last.SecondsPerLiquidityCumulativeX32 + (uint64(delta)<<32)/denom,
		Initialized:                      true,
	}
}

// ObserveLatest returns the (tick_cumulative, seconds_per_liquidity_cumulative)
// pair as of the given time, transforming the last-written observation if
// the clock has advanced since it was recorded.
func (r *Ring) ObserveLatest(blockTimestamp uint32, tick int32, liquidity uint64) (int64, uint64) {
	last := r.Observations[r.Index]
	if last.BlockTimestamp != blockTimestamp {
		last = transform(last, blockTimestamp, tick, liquidity)
	}
	return last.TickCumulative, last.SecondsPerLiquidityCumulativeX32
}

// Write appends a new observation on the first mutating call of a block,
// growing the ring to CardinalityNext if it was already full. Returns the
// (possibly unchanged) index/cardinality pair the pool should persist.
func (r *Ring) Write(blockTimestamp uint32, tick int32, liquidity uint64) (indexUpdated uint16, cardinalityUpdated uint16) {
	last := r.Observations[r.Index]
	if last.BlockTimestamp == blockTimestamp {
		return r.Index, r.Cardinality
	}

	cardinalityUpdated = r.Cardinality
	if r.CardinalityNext > r.Cardinality && r.Index == r.Cardinality-1 {
		cardinalityUpdated = r.CardinalityNext
	}

	indexUpdated = (r.Index + 1) % cardinalityUpdated
	next := transform(last, blockTimestamp, tick, liquidity)

	for len(r.Observations) <= int(indexUpdated) {
		r.Observations = append(r.Observations, Observation{})
	}
	r.Observations[indexUpdated] = next

	r.Index = indexUpdated
	r.Cardinality = cardinalityUpdated
	return indexUpdated, cardinalityUpdated
}

// Grow pre-allocates n additional slots, each a sentinel entry
// (block_timestamp = 1, uninitialized) matching the original's rationale
// for a nonzero sentinel distinguishing a grown slot from one merely
// zero-valued by default storage.
func (r *Ring) Grow(n uint16) error {
	if n <= r.CardinalityNext {
		return fmt.Errorf("oracle: grow(%d) must exceed current cardinality_next %d: %w", n, r.CardinalityNext, clmmerr.ErrCardinalityNotIncreasing)
	}
	for len(r.Observations) < int(n) {
		r.Observations = append(r.Observations, Observation{BlockTimestamp: 1, Initialized: false})
	}
	r.CardinalityNext = n
	return nil
}
