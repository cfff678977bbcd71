package models

import "testing"

func TestTradeRecordGet(t *testing.T) {
	r := &TradeRecord{Fields: map[string]string{
		ColIssuerCIK:         "1234",
		ColIssuerSymbol:      "ACME",
		ColTransCode:         "P",
		ColTransAcquiredDisp: "A",
	}}
	if r.IssuerCIK() != "1234" || r.IssuerSymbol() != "ACME" {
		t.Errorf("unexpected issuer fields: %q %q", r.IssuerCIK(), r.IssuerSymbol())
	}
	if r.TransCode() != "P" || r.AcquiredDisposed() != "A" {
		t.Errorf("unexpected codes: %q %q", r.TransCode(), r.AcquiredDisposed())
	}
	if r.Get(ColOwnerName) != "" {
		t.Error("absent column should be empty")
	}

	var nilRecord *TradeRecord
	if nilRecord.Get(ColIssuerCIK) != "" {
		t.Error("nil record should read as empty")
	}
	if (&TradeRecord{}).IssuerName() != "" {
		t.Error("record without fields should read as empty")
	}
}

func TestTradeRecordHasMarketCap(t *testing.T) {
	r := &TradeRecord{}
	if r.HasMarketCap() {
		t.Error("unknown market cap reported as present")
	}
	r.MarketCapUSD = Float(0)
	if !r.HasMarketCap() {
		t.Error("zero market cap is known, not absent")
	}
}

func TestFloatReturnsDistinctPointers(t *testing.T) {
	a, b := Float(1), Float(1)
	if a == b {
		t.Fatal("expected distinct pointers")
	}
	*a = 2
	if *b != 1 {
		t.Errorf("b changed to %v", *b)
	}
}
