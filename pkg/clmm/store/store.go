// Package store implements the abstract key-value persistence the core
// needs in place of on-chain PDA account plumbing: a Factory, Pools, Ticks,
// TickBitmap words, Positions and Observation rings, each keyed by an
// opaque identifier.
//
// solana.PublicKey is reused directly from the teacher's dependency stack
// as the opaque identifier type threaded through every record (grounded on
// solana.PublicKey's use as the field type for every mint/owner/vault
// across pkg/pool/raydium/clmmPool.go), and composite keys (pool+tick,
// pool+owner+range) are base58-encoded the same way
// utils/beautiful_address.go base58-encodes a key pair for display.
package store

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// Address is the opaque identifier type for tokens, owners and pool keys.
type Address = solana.PublicKey

// PoolKey identifies a pool by its canonical (token0, token1, fee_pips)
// triple; token0 must sort before token1.
type PoolKey struct {
	Token0  Address
	Token1  Address
	FeePips uint32
}

// String renders a PoolKey as a base58-joined composite string, the store's
// native key space.
func (k PoolKey) String() string {
	return fmt.Sprintf("%s:%s:%d", base58.Encode(k.Token0[:]), base58.Encode(k.Token1[:]), k.FeePips)
}

// TickKey identifies a tick record within a pool.
type TickKey struct {
	Pool  PoolKey
	Index int32
}

func (k TickKey) String() string {
	return fmt.Sprintf("%s:%d", k.Pool.String(), k.Index)
}

// PositionKey identifies a position record within a pool.
type PositionKey struct {
	Pool      PoolKey
	Owner     Address
	TickLower int32
	TickUpper int32
}

func (k PositionKey) String() string {
	return fmt.Sprintf("%s:%s:%d:%d", k.Pool.String(), base58.Encode(k.Owner[:]), k.TickLower, k.TickUpper)
}

// BitmapWordKey identifies a tick-bitmap word within a pool.
type BitmapWordKey struct {
	Pool    PoolKey
	WordPos int16
}

func (k BitmapWordKey) String() string {
	return fmt.Sprintf("%s:%d", k.Pool.String(), k.WordPos)
}

// FeeTierKey identifies an admitted fee tier by its fee_pips; the tier's
// tick_spacing is the value stored under it.
type FeeTierKey struct {
	FeePips uint32
}

func (k FeeTierKey) String() string {
	return fmt.Sprintf("%d", k.FeePips)
}
