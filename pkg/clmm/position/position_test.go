package position

import (
	"errors"
	"testing"

	"github.com/solana-zh/clmmcore/pkg/clmm/clmmerr"
)

func TestUpdateMintCreditsLiquidity(t *testing.T) {
	p := &Position{}
	if err := p.Update(1000, 0, 0); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.Liquidity != 1000 {
		t.Errorf("Liquidity = %d, want 1000", p.Liquidity)
	}
}

func TestUpdatePokeRequiresExistingLiquidity(t *testing.T) {
	p := &Position{}
	if err := p.Update(0, 0, 0); !errors.Is(err, clmmerr.ErrPokeZeroLiquidity) {
		t.Errorf("got %v, want ErrPokeZeroLiquidity", err)
	}
}

func TestUpdateCreditsFeesScaledByQ32(t *testing.T) {
	p := &Position{Liquidity: 1000}
	// fee_growth_inside delta of 1 unit of Q32.32 (1<<32) per unit liquidity
	// should credit exactly `Liquidity` tokens owed once rescaled by 2^32.
	const oneQ32 = uint64(1) << 32
	if err := p.Update(0, oneQ32, 2*oneQ32); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.TokensOwed0 != 1000 {
		t.Errorf("TokensOwed0 = %d, want 1000 (fee growth must be rescaled by 2^32)", p.TokensOwed0)
	}
	if p.TokensOwed1 != 2000 {
		t.Errorf("TokensOwed1 = %d, want 2000", p.TokensOwed1)
	}
}

func TestUpdateBurnDebitsLiquidity(t *testing.T) {
	p := &Position{Liquidity: 1000}
	if err := p.Update(-400, 0, 0); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.Liquidity != 600 {
		t.Errorf("Liquidity = %d, want 600", p.Liquidity)
	}
}

func TestUpdateBurnPastZeroFails(t *testing.T) {
	p := &Position{Liquidity: 100}
	if err := p.Update(-200, 0, 0); err == nil {
		t.Error("expected underflow error burning more liquidity than held")
	}
}

func TestCollectCapsAtOwed(t *testing.T) {
	p := &Position{TokensOwed0: 50, TokensOwed1: 30}
	amount0, amount1 := p.Collect(1000, 10)
	if amount0 != 50 {
		t.Errorf("amount0 = %d, want 50 (capped at owed)", amount0)
	}
	if amount1 != 10 {
		t.Errorf("amount1 = %d, want 10", amount1)
	}
	if p.TokensOwed0 != 0 || p.TokensOwed1 != 20 {
		t.Errorf("owed not debited correctly: (%d, %d)", p.TokensOwed0, p.TokensOwed1)
	}
}
