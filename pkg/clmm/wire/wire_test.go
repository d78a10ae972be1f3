package wire

import "testing"

func TestTickRecordRoundTrip(t *testing.T) {
	want := TickRecord{
		Index:                5160,
		LiquidityGross:       123456789,
		LiquidityNet:         -987654321,
		FeeGrowthOutside0X32: 42,
		FeeGrowthOutside1X32: 84,
		Initialized:          true,
	}

	data, err := Encode(&want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var got TickRecord
	if err := Decode(data, &got); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestObservationRecordRoundTrip(t *testing.T) {
	want := ObservationRecord{
		BlockTimestamp:                   1_700_000_000,
		TickCumulative:                   -42,
		SecondsPerLiquidityCumulativeX32: 9000,
		Initialized:                      true,
	}

	data, err := Encode(&want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var got ObservationRecord
	if err := Decode(data, &got); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestPositionRecordRoundTrip(t *testing.T) {
	want := PositionRecord{
		TickLower:               -60,
		TickUpper:               60,
		Liquidity:                100_000_000,
		FeeGrowthInside0LastX32: 7,
		FeeGrowthInside1LastX32: 11,
		TokensOwed0:             3,
		TokensOwed1:             5,
	}

	data, err := Encode(&want)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var got PositionRecord
	if err := Decode(data, &got); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.TickLower != want.TickLower || got.Liquidity != want.Liquidity || got.TokensOwed1 != want.TokensOwed1 {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}
