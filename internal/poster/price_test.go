package poster

import (
	"math"
	"testing"
)

func TestNewPriceBlockDiscount(t *testing.T) {
	cases := []struct {
		name     string
		price    float64
		oldPrice *float64
		show     bool
		label    string
		percent  int64
	}{
		{name: "no old price", price: 10},
		{name: "old price below price", price: 50, oldPrice: floatPtr(40)},
		{name: "old price equal to price", price: 40, oldPrice: floatPtr(40)},
		{name: "valid discount", price: 40, oldPrice: floatPtr(50), show: true, label: "De R$ 50,00", percent: 20},
		{name: "rounded discount", price: 6.99, oldPrice: floatPtr(9.99), show: true, label: "De R$ 9,99", percent: 30},
		{name: "nan old price", price: 1, oldPrice: floatPtr(math.NaN())},
	}

	for _, tc := range cases {
		block := NewPriceBlock(tc.price, tc.oldPrice, "UN")
		if block.ShowOldPrice != tc.show {
			t.Fatalf("%s: expected show=%v, got %v", tc.name, tc.show, block.ShowOldPrice)
		}
		if got := block.OldPriceLabel(); got != tc.label {
			t.Fatalf("%s: expected label %q, got %q", tc.name, tc.label, got)
		}
		if block.DiscountPercent != tc.percent {
			t.Fatalf("%s: expected %d%%, got %d%%", tc.name, tc.percent, block.DiscountPercent)
		}
	}
}

func TestSplitPrice(t *testing.T) {
	cases := []struct {
		value   float64
		integer string
		cents   string
	}{
		{9.5, "9", "50"},
		{25.9, "25", "90"},
		{0, "0", "00"},
		{1234.567, "1234", "57"},
		{math.Inf(1), "+Inf", ""},
	}

	for _, tc := range cases {
		integer, cents := SplitPrice(tc.value)
		if integer != tc.integer || cents != tc.cents {
			t.Fatalf("SplitPrice(%v) = %q, %q; want %q, %q", tc.value, integer, cents, tc.integer, tc.cents)
		}
	}
}

func TestPriceBlockText(t *testing.T) {
	block := NewPriceBlock(9.5, nil, "KG")
	if got := block.Text(); got != "R$ 9,50 KG" {
		t.Fatalf("unexpected text %q", got)
	}
	if got := FormatPrice(1000.5); got != "1000,50" {
		t.Fatalf("unexpected formatted price %q", got)
	}
}

func TestParsePrice(t *testing.T) {
	cases := map[string]float64{
		"R$ 1.000,50": 1000.5,
		"10,50":       10.5,
		"10.50":       10.5,
		"\"7,99\"":    7.99,
		"12":          12,
	}
	for input, expected := range cases {
		got, ok := ParsePrice(input)
		if !ok || math.Abs(got-expected) > 1e-9 {
			t.Fatalf("ParsePrice(%q) = %v, %v; want %v", input, got, ok, expected)
		}
	}

	for _, input := range []string{"", "R$", "abc", "1,2,3"} {
		if _, ok := ParsePrice(input); ok {
			t.Fatalf("expected %q to be rejected", input)
		}
	}
}
