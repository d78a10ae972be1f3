package swapmath

import "testing"

func TestComputeSwapStepExactInNeverRaisesPriceForZeroForOne(t *testing.T) {
	current := uint64(1) << 32
	target := current - (1 << 20) // target below current: zeroForOne
	step := ComputeSwapStep(current, target, 1_000_000_000, 1, 600)

	if step.SqrtPriceNextX32 != target && step.SqrtPriceNextX32 > current {
		t.Errorf("price moved the wrong direction: %d", step.SqrtPriceNextX32)
	}
}

func TestComputeSwapStepExactInFullyConsumesTinyAmount(t *testing.T) {
	current := uint64(1) << 32
	target := current - (1 << 20)
	step := ComputeSwapStep(current, target, 1_000_000_000, 1000, 3000)

	if step.SqrtPriceNextX32 == target {
		t.Error("a tiny amount should not reach the target price")
	}
	if step.AmountIn+step.FeeAmount > 1000 {
		t.Errorf("amountIn+fee (%d+%d) exceeds amountRemaining 1000", step.AmountIn, step.FeeAmount)
	}
}

func TestComputeSwapStepExactInReachesTargetOnLargeAmount(t *testing.T) {
	current := uint64(1) << 32
	target := current - (1 << 10)
	step := ComputeSwapStep(current, target, 1_000_000_000, 1_000_000_000, 3000)

	if step.SqrtPriceNextX32 != target {
		t.Errorf("a huge exact-input amount should reach the target: got %d, want %d", step.SqrtPriceNextX32, target)
	}
	if step.AmountOut == 0 {
		t.Error("expected nonzero output")
	}
}

func TestComputeSwapStepExactOutCapsAtRemaining(t *testing.T) {
	current := uint64(1) << 32
	target := current - (1 << 20)
	step := ComputeSwapStep(current, target, 1_000_000_000, -500, 3000)

	if step.AmountOut > 500 {
		t.Errorf("amountOut %d exceeds requested 500", step.AmountOut)
	}
}

func TestComputeSwapStepFeeIsNonNegative(t *testing.T) {
	current := uint64(1) << 32
	target := current + (1 << 20) // oneForZero direction
	step := ComputeSwapStep(current, target, 1_000_000_000, 10_000, 500)

	if step.FeeAmount == 0 && step.AmountIn != 0 {
		t.Log("fee came out zero for a nonzero input; acceptable only at the boundary")
	}
}

func TestComputeSwapStepZeroLiquidityNoMovement(t *testing.T) {
	current := uint64(1) << 32
	target := current - (1 << 20)
	step := ComputeSwapStep(current, target, 0, 1000, 3000)

	if step.AmountIn != 0 || step.AmountOut != 0 {
		t.Errorf("zero liquidity should move nothing: in=%d out=%d", step.AmountIn, step.AmountOut)
	}
}
