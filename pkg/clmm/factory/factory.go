// Package factory implements the owner-gated registry of admitted fee
// tiers and the pool-creation dispatch, grounded on
// original_source/programs/core/src/lib.rs's create_and_init_pool /
// enable_fee_amount / set_owner instructions and the FactoryState record in
// original_source/programs/core/src/states/factory.rs.
package factory

import (
	"fmt"

	"github.com/solana-zh/clmmcore/pkg/clmm/chainhost"
	"github.com/solana-zh/clmmcore/pkg/clmm/clmmerr"
	"github.com/solana-zh/clmmcore/pkg/clmm/events"
	"github.com/solana-zh/clmmcore/pkg/clmm/pool"
	"github.com/solana-zh/clmmcore/pkg/clmm/store"
)

const (
	maxFeePips     = 1_000_000
	maxTickSpacing = 16_384
)

// Factory owns the fee-tier registry and mints new pools.
type Factory struct {
	owner    store.Address
	feeTiers *store.Table[store.FeeTierKey, int32] // fee_pips -> tick_spacing
	pools    *store.Table[store.PoolKey, *pool.Pool]

	host *chainhost.Host
	sink events.Sink
}

// InitFactory constructs a Factory owned by owner.
func InitFactory(owner store.Address, host *chainhost.Host, sink events.Sink) *Factory {
	if sink == nil {
		sink = events.NopSink{}
	}
	return &Factory{
		owner:    owner,
		feeTiers: store.NewTable[store.FeeTierKey, int32](),
		pools:    store.NewTable[store.PoolKey, *pool.Pool](),
		host:     host,
		sink:     sink,
	}
}

// Owner returns the current factory owner.
func (f *Factory) Owner() store.Address {
	return f.owner
}

func (f *Factory) requireOwner(caller store.Address) error {
	if caller != f.owner {
		return clmmerr.ErrUnauthorized
	}
	return nil
}

// SetOwner transfers factory ownership; caller must be the current owner.
func (f *Factory) SetOwner(caller, newOwner store.Address) error {
	if err := f.requireOwner(caller); err != nil {
		return fmt.Errorf("factory: set_owner: %w", err)
	}
	old := f.owner
	f.owner = newOwner
	f.sink.Emit(events.OwnerChanged{OldOwner: old, NewOwner: newOwner})
	return nil
}

// EnableFeeAmount admits a new (fee_pips, tick_spacing) tier. The registry
// is append-only: a tier, once enabled, is never disabled or overwritten.
func (f *Factory) EnableFeeAmount(caller store.Address, feePips uint32, tickSpacing int32) error {
	if err := f.requireOwner(caller); err != nil {
		return fmt.Errorf("factory: enable_fee_amount: %w", err)
	}
	if feePips == 0 || feePips >= maxFeePips {
		return fmt.Errorf("factory: enable_fee_amount: %w", clmmerr.ErrInvalidFeePips)
	}
	if tickSpacing <= 0 || tickSpacing >= maxTickSpacing {
		return fmt.Errorf("factory: enable_fee_amount: %w", clmmerr.ErrInvalidTickSpacing)
	}
	key := store.FeeTierKey{FeePips: feePips}
	if f.feeTiers.Has(key) {
		return fmt.Errorf("factory: enable_fee_amount: %w", clmmerr.ErrFeeTierExists)
	}
	f.feeTiers.Set(key, tickSpacing)
	f.sink.Emit(events.FeeAmountEnabled{FeePips: feePips, TickSpacing: tickSpacing})
	return nil
}

// TickSpacing returns the tick spacing admitted for feePips, if any.
func (f *Factory) TickSpacing(feePips uint32) (int32, bool) {
	return f.feeTiers.Get(store.FeeTierKey{FeePips: feePips})
}

// CreateAndInitPool mints a new pool for (token0, token1, feePips) at the
// given starting price. token0 must canonically precede token1 and
// feePips must already be admitted via EnableFeeAmount.
func (f *Factory) CreateAndInitPool(token0, token1 store.Address, feePips uint32, sqrtPriceX32 uint64) (*pool.Pool, error) {
	if !addressLess(token0, token1) {
		return nil, fmt.Errorf("factory: create_and_init_pool: %w", clmmerr.ErrTokenOrder)
	}
	tickSpacing, ok := f.TickSpacing(feePips)
	if !ok {
		return nil, fmt.Errorf("factory: create_and_init_pool: %w", clmmerr.ErrFeeTierUnknown)
	}

	key := store.PoolKey{Token0: token0, Token1: token1, FeePips: feePips}
	if f.pools.Has(key) {
		return nil, fmt.Errorf("factory: create_and_init_pool: %w", clmmerr.ErrPoolExists)
	}

	p, err := pool.New(key, tickSpacing, sqrtPriceX32, f.host, f.sink)
	if err != nil {
		return nil, fmt.Errorf("factory: create_and_init_pool: %w", err)
	}

	f.pools.Set(key, p)
	return p, nil
}

// Pool returns the pool for key, if it was created.
func (f *Factory) Pool(key store.PoolKey) (*pool.Pool, bool) {
	return f.pools.Get(key)
}

// SetFeeProtocol applies a new protocol-fee split to a pool; gated on
// factory ownership the way original_source's set_fee_protocol instruction
// requires the factory owner signer.
func (f *Factory) SetFeeProtocol(caller store.Address, key store.PoolKey, d0, d1 uint8) error {
	if err := f.requireOwner(caller); err != nil {
		return fmt.Errorf("factory: set_fee_protocol: %w", err)
	}
	p, ok := f.pools.Get(key)
	if !ok {
		return fmt.Errorf("factory: set_fee_protocol: %w", clmmerr.ErrNotFound)
	}
	return p.SetFeeProtocol(d0, d1)
}

func addressLess(a, b store.Address) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}
