// Command clmmsim drives a single-process concentrated-liquidity pool
// through factory setup, a mint, a swap, and a fee collection, logging each
// step the way the teacher's main.go narrates a live swap route.
package main

import (
	"context"
	"log"

	"github.com/gagliardetto/solana-go"
	"github.com/solana-zh/clmmcore/pkg/clmm/chainhost"
	"github.com/solana-zh/clmmcore/pkg/clmm/factory"
)

func main() {
	log.Printf("booting a simulated CLMM chain host...")

	host := chainhost.NewHost(chainhost.NewSystemClock(), 50) // 50 mutating calls/sec
	owner := solana.NewWallet().PublicKey()
	f := factory.InitFactory(owner, host, nil)

	const feePips = 3000
	const tickSpacing = 60
	if err := f.EnableFeeAmount(owner, feePips, tickSpacing); err != nil {
		log.Fatalf("enable_fee_amount: %v", err)
	}
	log.Printf("admitted fee tier %d pips / spacing %d", feePips, tickSpacing)

	tokenA := solana.NewWallet().PublicKey()
	tokenB := solana.NewWallet().PublicKey()
	token0, token1 := tokenA, tokenB
	if bytesGreater(token0[:], token1[:]) {
		token0, token1 = token1, token0
	}

	const sqrtPriceX32AtParity = 1 << 32 // price 1.0
	p, err := f.CreateAndInitPool(token0, token1, feePips, sqrtPriceX32AtParity)
	if err != nil {
		log.Fatalf("create_and_init_pool: %v", err)
	}
	log.Printf("pool created at tick %d, sqrt_price_x32 %d", p.Tick, p.SqrtPriceX32)

	lp := solana.NewWallet().PublicKey()
	fund := func(ctx context.Context, amount0Owed, amount1Owed uint64, data []byte) (uint64, uint64, error) {
		return amount0Owed, amount1Owed, nil
	}

	amount0, amount1, err := p.Mint(context.Background(), lp, -60, 60, 100_000_000, fund, nil)
	if err != nil {
		log.Fatalf("mint: %v", err)
	}
	log.Printf("minted 1e8 liquidity into [-60, 60]: amount0=%d amount1=%d", amount0, amount1)

	trader := solana.NewWallet().PublicKey()
	fundSwap := func(ctx context.Context, amount0Delta, amount1Delta int64, data []byte) (uint64, uint64, error) {
		owed0, owed1 := uint64(0), uint64(0)
		if amount0Delta > 0 {
			owed0 = uint64(amount0Delta)
		}
		if amount1Delta > 0 {
			owed1 = uint64(amount1Delta)
		}
		return owed0, owed1, nil
	}

	const minSqrtRatio = 1 << 16
	a0, a1, err := p.Swap(context.Background(), trader, true, 1_000_000, minSqrtRatio+1, fundSwap, nil)
	if err != nil {
		log.Fatalf("swap: %v", err)
	}
	log.Printf("swap zero_for_one 1e6: amount0Delta=%d amount1Delta=%d, new tick=%d", a0, a1, p.Tick)

	if _, _, err := p.Burn(lp, -60, 60, 0); err != nil {
		log.Fatalf("poke: %v", err)
	}
	owed0, owed1, err := p.Collect(lp, -60, 60, ^uint64(0), ^uint64(0))
	if err != nil {
		log.Fatalf("collect: %v", err)
	}
	log.Printf("collected fees: token0=%d token1=%d", owed0, owed1)
}

func bytesGreater(a, b []byte) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}
