package core

import "testing"

func TestSideString(t *testing.T) {
	if Buy.String() != "BUY" || Sell.String() != "SELL" {
		t.Errorf("side strings = %q/%q", Buy.String(), Sell.String())
	}
	if Side(9).String() != "UNKNOWN" {
		t.Errorf("invalid side string = %q", Side(9).String())
	}
}

func TestOrderTypeString(t *testing.T) {
	if Limit.String() != "LIMIT" || Market.String() != "MARKET" {
		t.Errorf("type strings = %q/%q", Limit.String(), Market.String())
	}
	if OrderType(9).String() != "UNKNOWN" {
		t.Errorf("invalid type string = %q", OrderType(9).String())
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MinPrice != 0 || cfg.MaxPrice != 20000 {
		t.Errorf("default price range = [%d, %d]", cfg.MinPrice, cfg.MaxPrice)
	}
	if cfg.PoolCapacity != 1<<20 {
		t.Errorf("default pool capacity = %d", cfg.PoolCapacity)
	}
}
