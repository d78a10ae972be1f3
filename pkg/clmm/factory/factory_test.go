package factory

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/solana-zh/clmmcore/pkg/clmm/chainhost"
	"github.com/solana-zh/clmmcore/pkg/clmm/clmmerr"
)

func newTestFactory(owner solana.PublicKey) *Factory {
	host := chainhost.NewHost(chainhost.NewMockClock(1_700_000_000), 1000)
	return InitFactory(owner, host, nil)
}

func TestSetOwnerRequiresCurrentOwner(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	intruder := solana.NewWallet().PublicKey()
	f := newTestFactory(owner)

	if err := f.SetOwner(intruder, intruder); !errors.Is(err, clmmerr.ErrUnauthorized) {
		t.Fatalf("SetOwner by non-owner: got %v, want ErrUnauthorized", err)
	}

	newOwner := solana.NewWallet().PublicKey()
	if err := f.SetOwner(owner, newOwner); err != nil {
		t.Fatalf("SetOwner by owner: %v", err)
	}
	if f.Owner() != newOwner {
		t.Error("owner did not update")
	}
}

func TestEnableFeeAmountValidatesBoundsAndDuplicates(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	f := newTestFactory(owner)

	if err := f.EnableFeeAmount(owner, 0, 60); !errors.Is(err, clmmerr.ErrInvalidFeePips) {
		t.Fatalf("fee_pips=0: got %v, want ErrInvalidFeePips", err)
	}
	if err := f.EnableFeeAmount(owner, 1_000_000, 60); !errors.Is(err, clmmerr.ErrInvalidFeePips) {
		t.Fatalf("fee_pips=1e6: got %v, want ErrInvalidFeePips", err)
	}
	if err := f.EnableFeeAmount(owner, 500, 0); !errors.Is(err, clmmerr.ErrInvalidTickSpacing) {
		t.Fatalf("tick_spacing=0: got %v, want ErrInvalidTickSpacing", err)
	}
	if err := f.EnableFeeAmount(owner, 500, 16384); !errors.Is(err, clmmerr.ErrInvalidTickSpacing) {
		t.Fatalf("tick_spacing=16384: got %v, want ErrInvalidTickSpacing", err)
	}

	if err := f.EnableFeeAmount(owner, 3000, 60); err != nil {
		t.Fatalf("valid enable: %v", err)
	}
	if err := f.EnableFeeAmount(owner, 3000, 10); !errors.Is(err, clmmerr.ErrFeeTierExists) {
		t.Fatalf("duplicate fee tier: got %v, want ErrFeeTierExists", err)
	}

	intruder := solana.NewWallet().PublicKey()
	if err := f.EnableFeeAmount(intruder, 500, 10); !errors.Is(err, clmmerr.ErrUnauthorized) {
		t.Fatalf("non-owner enable: got %v, want ErrUnauthorized", err)
	}
}

func TestCreateAndInitPoolRequiresAdmittedTierAndTokenOrder(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	f := newTestFactory(owner)
	if err := f.EnableFeeAmount(owner, 3000, 60); err != nil {
		t.Fatalf("enable: %v", err)
	}

	a, b := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	token0, token1 := a, b
	if !addressLess(token0, token1) {
		token0, token1 = b, a
	}

	if _, err := f.CreateAndInitPool(token1, token0, 3000, 1<<32); !errors.Is(err, clmmerr.ErrTokenOrder) {
		t.Fatalf("reversed order: got %v, want ErrTokenOrder", err)
	}

	if _, err := f.CreateAndInitPool(token0, token1, 500, 1<<32); !errors.Is(err, clmmerr.ErrFeeTierUnknown) {
		t.Fatalf("unknown tier: got %v, want ErrFeeTierUnknown", err)
	}

	p, err := f.CreateAndInitPool(token0, token1, 3000, 1<<32)
	if err != nil {
		t.Fatalf("create_and_init_pool: %v", err)
	}
	if p.Tick != 0 {
		t.Errorf("sqrt_price=2^32 should initialize tick 0, got %d", p.Tick)
	}

	if _, err := f.CreateAndInitPool(token0, token1, 3000, 1<<32); !errors.Is(err, clmmerr.ErrPoolExists) {
		t.Fatalf("duplicate pool: got %v, want ErrPoolExists", err)
	}
}

func TestSetFeeProtocolDelegatesToPool(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	f := newTestFactory(owner)
	if err := f.EnableFeeAmount(owner, 3000, 60); err != nil {
		t.Fatalf("enable: %v", err)
	}
	a, b := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	token0, token1 := a, b
	if !addressLess(a, b) {
		token0, token1 = b, a
	}
	p, err := f.CreateAndInitPool(token0, token1, 3000, 1<<32)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	key := p.Key
	if err := f.SetFeeProtocol(owner, key, 5, 5); err != nil {
		t.Fatalf("set_fee_protocol: %v", err)
	}
	if p.FeeProtocol != (5<<4)|5 {
		t.Errorf("FeeProtocol = %d, want packed 5/5", p.FeeProtocol)
	}

	intruder := solana.NewWallet().PublicKey()
	if err := f.SetFeeProtocol(intruder, key, 4, 4); !errors.Is(err, clmmerr.ErrUnauthorized) {
		t.Fatalf("non-owner: got %v, want ErrUnauthorized", err)
	}
}
