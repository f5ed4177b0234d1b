package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMoneyMarshalFixedTwoDecimals(t *testing.T) {
	m := NewMoneyFromDecimal(decimal.NewFromFloat(18.5))
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b) != `"18.50"` {
		t.Fatalf("unexpected JSON: %s", b)
	}
}

func TestMoneyUnmarshalStringAndNumber(t *testing.T) {
	var fromString Money
	if err := json.Unmarshal([]byte(`"22.00"`), &fromString); err != nil {
		t.Fatalf("unmarshal string failed: %v", err)
	}
	var fromNumber Money
	if err := json.Unmarshal([]byte(`22`), &fromNumber); err != nil {
		t.Fatalf("unmarshal number failed: %v", err)
	}
	if !fromString.Decimal.Equal(fromNumber.Decimal) {
		t.Fatalf("expected equal amounts: %s vs %s", fromString.String(), fromNumber.String())
	}
}

func TestMoneyArithmetic(t *testing.T) {
	price, err := NewMoneyFromString("18.50")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	line := price.Mul(2)
	if line.String() != "37.00" {
		t.Fatalf("unexpected line total: %s", line.String())
	}
	other, _ := NewMoneyFromString("22.00")
	sum := line.Add(other)
	if sum.String() != "59.00" {
		t.Fatalf("unexpected sum: %s", sum.String())
	}
}
