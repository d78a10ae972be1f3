// Package wire implements fixed-layout little-endian encode/decode for the
// records named in the data model: Pool, Tick, Position and Observation.
//
// Grounded on the bin:"le" struct-tag convention the teacher decodes
// on-chain accounts with throughout pkg/pool/raydium (TickState/TickArray
// in clmm_tickerarray.go, CLMMPool in clmmPool.go) via
// github.com/gagliardetto/binary's bin.NewBinDecoder/bin.NewBinEncoder.
// Where the teacher's records hold uint128.Uint128 limbs for a Q64.64
// price, these mirror the same tags over the narrower Q32.32 uint64 word.
package wire

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// PoolRecord is the wire-layout form of a pool's persistent state.
type PoolRecord struct {
	Token0      solana.PublicKey `bin:"le"`
	Token1      solana.PublicKey `bin:"le"`
	FeePips     uint32           `bin:"le"`
	TickSpacing uint16           `bin:"le"`

	Liquidity    uint64 `bin:"le"`
	SqrtPriceX32 uint64 `bin:"le"`
	Tick         int32  `bin:"le"`

	FeeGrowthGlobal0X32 uint64 `bin:"le"`
	FeeGrowthGlobal1X32 uint64 `bin:"le"`

	ProtocolFeesToken0 uint64 `bin:"le"`
	ProtocolFeesToken1 uint64 `bin:"le"`
	FeeProtocol        uint8  `bin:"le"`

	ObservationIndex           uint16 `bin:"le"`
	ObservationCardinality     uint16 `bin:"le"`
	ObservationCardinalityNext uint16 `bin:"le"`

	Unlocked bool `bin:"le"`
}

// TickRecord is the wire-layout form of a tick's persistent state.
type TickRecord struct {
	Index          int32  `bin:"le"`
	LiquidityGross uint64 `bin:"le"`
	LiquidityNet   int64  `bin:"le"`

	FeeGrowthOutside0X32 uint64 `bin:"le"`
	FeeGrowthOutside1X32 uint64 `bin:"le"`

	TickCumulativeOutside         int64  `bin:"le"`
	SecondsPerLiquidityOutsideX32 uint64 `bin:"le"`
	SecondsOutside                uint32 `bin:"le"`

	Initialized bool `bin:"le"`
}

// PositionRecord is the wire-layout form of a position's persistent state.
type PositionRecord struct {
	Owner     solana.PublicKey `bin:"le"`
	TickLower int32            `bin:"le"`
	TickUpper int32            `bin:"le"`

	Liquidity uint64 `bin:"le"`

	FeeGrowthInside0LastX32 uint64 `bin:"le"`
	FeeGrowthInside1LastX32 uint64 `bin:"le"`

	TokensOwed0 uint64 `bin:"le"`
	TokensOwed1 uint64 `bin:"le"`
}

// ObservationRecord is the wire-layout form of one oracle ring slot.
type ObservationRecord struct {
	BlockTimestamp                   uint32 `bin:"le"`
	TickCumulative                   int64  `bin:"le"`
	SecondsPerLiquidityCumulativeX32 uint64 `bin:"le"`
	Initialized                      bool   `bin:"le"`
}

// Encode serializes v (one of the Record types above) to its fixed
// little-endian layout.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBinEncoder(&buf)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("wire: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode deserializes data into v (a pointer to one of the Record types
// above).
func Decode(data []byte, v any) error {
	dec := bin.NewBinDecoder(data)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("wire: decode: %w", err)
	}
	return nil
}
