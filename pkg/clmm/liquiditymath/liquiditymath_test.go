package liquiditymath

import (
	"math/big"
	"testing"

	"github.com/solana-zh/clmmcore/pkg/clmm/fixedpoint"
)

func TestAddDeltaPositive(t *testing.T) {
	got, err := AddDelta(100, 50)
	if err != nil {
		t.Fatalf("AddDelta: %v", err)
	}
	if got != 150 {
		t.Errorf("got %d, want 150", got)
	}
}

func TestAddDeltaNegative(t *testing.T) {
	got, err := AddDelta(100, -50)
	if err != nil {
		t.Fatalf("AddDelta: %v", err)
	}
	if got != 50 {
		t.Errorf("got %d, want 50", got)
	}
}

func TestAddDeltaUnderflow(t *testing.T) {
	if _, err := AddDelta(10, -20); err == nil {
		t.Error("expected underflow error")
	}
}

func TestAddDeltaOverflow(t *testing.T) {
	if _, err := AddDelta(^uint64(0)-5, 10); err == nil {
		t.Error("expected overflow error")
	}
}

func TestAmount0DeltaOrderIndependent(t *testing.T) {
	a := Amount0Delta(1<<32, 2<<32, 1000, false)
	b := Amount0Delta(2<<32, 1<<32, 1000, false)
	if a != b {
		t.Errorf("Amount0Delta not symmetric under swapped bounds: %d != %d", a, b)
	}
}

func TestAmount1DeltaOrderIndependent(t *testing.T) {
	a := Amount1Delta(1<<32, 2<<32, 1000, false)
	b := Amount1Delta(2<<32, 1<<32, 1000, false)
	if a != b {
		t.Errorf("Amount1Delta not symmetric under swapped bounds: %d != %d", a, b)
	}
}

func TestAmount0DeltaRoundingDirection(t *testing.T) {
	down := Amount0Delta(1<<32, (3<<31)+1, 7, false)
	up := Amount0Delta(1<<32, (3<<31)+1, 7, true)
	if up < down {
		t.Errorf("rounded-up amount0 (%d) less than rounded-down (%d)", up, down)
	}
}

func TestAmount1DeltaRoundingDirection(t *testing.T) {
	down := Amount1Delta(1<<32, (3<<31)+1, 7, false)
	up := Amount1Delta(1<<32, (3<<31)+1, 7, true)
	if up < down {
		t.Errorf("rounded-up amount1 (%d) less than rounded-down (%d)", up, down)
	}
}

func TestNextSqrtPriceFromAmount0DecreasesOnAdd(t *testing.T) {
	price := uint64(1) << 32
	next := NextSqrtPriceFromAmount0RoundingUp(price, 1_000_000, 1000, true)
	if next >= price {
		t.Errorf("adding token0 should lower the price: got %d, want < %d", next, price)
	}
}

func TestNextSqrtPriceFromAmount1IncreasesOnAdd(t *testing.T) {
	price := uint64(1) << 32
	next := NextSqrtPriceFromAmount1RoundingDown(price, 1_000_000, 1000, true)
	if next <= price {
		t.Errorf("adding token1 should raise the price: got %d, want > %d", next, price)
	}
}

func TestNextSqrtPriceFromAmount0NoOp(t *testing.T) {
	price := uint64(1) << 32
	next := NextSqrtPriceFromAmount0RoundingUp(price, 1_000_000, 0, true)
	if next != price {
		t.Errorf("zero amount should be a no-op: got %d, want %d", next, price)
	}
}

// bigCeilSqrtPrice0 is an independent math/big oracle for
// NextSqrtPriceFromAmount0RoundingUp's add=true formula,
// ceil(numerator1*sqrtPrice/(numerator1+amount*sqrtPrice)), carried at full
// precision throughout so the test doesn't just re-run the implementation's
// own arithmetic path.
func bigCeilSqrtPrice0(sqrtPriceX32, liquidity, amount uint64) uint64 {
	numerator1 := new(big.Int).Lsh(new(big.Int).SetUint64(liquidity), fixedpoint.Resolution)
	sqrtPrice := new(big.Int).SetUint64(sqrtPriceX32)
	product := new(big.Int).Mul(new(big.Int).SetUint64(amount), sqrtPrice)
	denominator := new(big.Int).Add(numerator1, product)
	num := new(big.Int).Mul(numerator1, sqrtPrice)
	q, r := new(big.Int).QuoRem(num, denominator, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Uint64()
}

// TestNextSqrtPriceFromAmount0RoundingUpOverflowSafe mirrors the Rust
// corpus's own large-amount overflow scenarios in sqrt_price_math.rs: an
// amount large enough that amount*sqrtPriceX32 would wrap a native uint64
// must still land on the exact result, not a value corrupted by that wrap.
func TestNextSqrtPriceFromAmount0RoundingUpOverflowSafe(t *testing.T) {
	sqrtPriceX32 := uint64(1) << 32
	liquidity := uint64(1_000_000)
	amount := uint64(1) << 40 // amount*sqrtPriceX32 == 1<<72, overruns a uint64

	if amount <= ^uint64(0)/sqrtPriceX32 {
		t.Fatal("test setup: expected amount*sqrtPriceX32 to overrun a uint64")
	}

	got := NextSqrtPriceFromAmount0RoundingUp(sqrtPriceX32, liquidity, amount, true)
	want := bigCeilSqrtPrice0(sqrtPriceX32, liquidity, amount)
	if got != want {
		t.Errorf("got %d, want %d (exact ceil-div oracle)", got, want)
	}
}

// TestNextSqrtPriceFromAmount0RoundingUpLargeLiquidity covers liquidity at
// and above 2^32: ticktable.TickSpacingToMaxLiquidityPerTick permits such
// values for ordinary tick spacings, and liquidity<<32 itself overruns a
// native uint64 at that point, independent of how large amount is.
func TestNextSqrtPriceFromAmount0RoundingUpLargeLiquidity(t *testing.T) {
	sqrtPriceX32 := uint64(1) << 32
	liquidity := (uint64(1) << 32) + 12345
	amount := uint64(1_000_000)

	got := NextSqrtPriceFromAmount0RoundingUp(sqrtPriceX32, liquidity, amount, true)
	want := bigCeilSqrtPrice0(sqrtPriceX32, liquidity, amount)
	if got != want {
		t.Errorf("got %d, want %d (exact ceil-div oracle)", got, want)
	}
	if got >= sqrtPriceX32 {
		t.Errorf("adding token0 should lower the price: got %d, want < %d", got, sqrtPriceX32)
	}
}

// bigAmount0Delta is an independent math/big oracle for Amount0Delta.
func bigAmount0Delta(sqrtPriceAX32, sqrtPriceBX32, liquidity uint64, roundUp bool) uint64 {
	if sqrtPriceAX32 > sqrtPriceBX32 {
		sqrtPriceAX32, sqrtPriceBX32 = sqrtPriceBX32, sqrtPriceAX32
	}
	numerator1 := new(big.Int).Lsh(new(big.Int).SetUint64(liquidity), fixedpoint.Resolution)
	numerator2 := new(big.Int).SetUint64(sqrtPriceBX32 - sqrtPriceAX32)
	sqrtB := new(big.Int).SetUint64(sqrtPriceBX32)
	sqrtA := new(big.Int).SetUint64(sqrtPriceAX32)

	num := new(big.Int).Mul(numerator1, numerator2)
	inner, r := new(big.Int).QuoRem(num, sqrtB, new(big.Int))
	if roundUp && r.Sign() != 0 {
		inner.Add(inner, big.NewInt(1))
	}

	result, r2 := new(big.Int).QuoRem(inner, sqrtA, new(big.Int))
	if roundUp && r2.Sign() != 0 {
		result.Add(result, big.NewInt(1))
	}
	return result.Uint64()
}

// TestAmount0DeltaLargeLiquidity covers the same liquidity>=2^32 regime for
// Amount0Delta, whose numerator1 the mint/burn path shares with
// NextSqrtPriceFromAmount0RoundingUp.
func TestAmount0DeltaLargeLiquidity(t *testing.T) {
	sqrtPriceAX32 := uint64(1) << 32
	sqrtPriceBX32 := uint64(3) << 31
	liquidity := (uint64(1) << 33) + 7

	for _, roundUp := range []bool{false, true} {
		got := Amount0Delta(sqrtPriceAX32, sqrtPriceBX32, liquidity, roundUp)
		want := bigAmount0Delta(sqrtPriceAX32, sqrtPriceBX32, liquidity, roundUp)
		if got != want {
			t.Errorf("roundUp=%v: got %d, want %d", roundUp, got, want)
		}
	}
}

func TestNextSqrtPriceFromInputMovesPriceInSwapDirection(t *testing.T) {
	price := uint64(1) << 32
	liquidity := uint64(5_000_000)

	nextZeroForOne := NextSqrtPriceFromInput(price, liquidity, 10_000, true)
	if nextZeroForOne >= price {
		t.Errorf("zeroForOne input should lower price: got %d", nextZeroForOne)
	}

	nextOneForZero := NextSqrtPriceFromInput(price, liquidity, 10_000, false)
	if nextOneForZero <= price {
		t.Errorf("oneForZero input should raise price: got %d", nextOneForZero)
	}
}
