package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(t *testing.T, value string) decimal.Decimal {
	t.Helper()
	dec, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", value, err)
	}
	return dec
}

func testTiers(t *testing.T) TierSet {
	return TierSet{
		Enabled: true,
		Tiers: []Tier{
			{Quantity: 3, DiscountPercent: d(t, "5"), Label: "3+"},
			{Quantity: 6, DiscountPercent: d(t, "10"), Label: "6+"},
			{Quantity: 12, DiscountPercent: d(t, "15"), Label: "12+"},
		},
	}
}

func TestApplySellerDiscount(t *testing.T) {
	got := ApplySellerDiscount(d(t, "100"), d(t, "20"))
	if !got.PerUnitAfter.Equal(d(t, "80")) {
		t.Fatalf("expected 80 after discount, got %s", got.PerUnitAfter)
	}
	if !got.PerUnitSaved.Equal(d(t, "20")) {
		t.Fatalf("expected 20 saved, got %s", got.PerUnitSaved)
	}
}

func TestApplySellerDiscountZeroPercent(t *testing.T) {
	got := ApplySellerDiscount(d(t, "9.99"), decimal.Zero)
	if !got.PerUnitAfter.Equal(d(t, "9.99")) {
		t.Fatalf("expected unchanged price, got %s", got.PerUnitAfter)
	}
	if !got.PerUnitSaved.IsZero() {
		t.Fatalf("expected zero saved, got %s", got.PerUnitSaved)
	}
}

func TestApplyVolumeDiscountTierBoundaries(t *testing.T) {
	tiers := testTiers(t)
	cases := []struct {
		qty       int
		wantLabel string
		wantAfter string
	}{
		{1, "", "100"},
		{2, "", "100"},
		{3, "3+", "95"},   // threshold is inclusive
		{5, "3+", "95"},
		{6, "6+", "90"},
		{11, "6+", "90"},
		{12, "12+", "85"},
		{50, "12+", "85"},
	}
	for _, tc := range cases {
		got := ApplyVolumeDiscount(d(t, "100"), tc.qty, tiers)
		if got.TierLabel != tc.wantLabel {
			t.Fatalf("qty %d: expected label %q, got %q", tc.qty, tc.wantLabel, got.TierLabel)
		}
		if !got.PerUnitAfter.Equal(d(t, tc.wantAfter)) {
			t.Fatalf("qty %d: expected %s after discount, got %s", tc.qty, tc.wantAfter, got.PerUnitAfter)
		}
		if got.Applied != (tc.wantLabel != "") {
			t.Fatalf("qty %d: applied flag mismatch", tc.qty)
		}
	}
}

func TestApplyVolumeDiscountCompoundsOnSellerPrice(t *testing.T) {
	// 10% seller then 5% volume: multiplicative, not additive.
	seller := ApplySellerDiscount(d(t, "1200"), d(t, "10"))
	volume := ApplyVolumeDiscount(seller.PerUnitAfter, 3, testTiers(t))
	if !volume.PerUnitAfter.Equal(d(t, "1026")) {
		t.Fatalf("expected 1026, got %s", volume.PerUnitAfter)
	}
	if !volume.PerUnitSaved.Equal(d(t, "54")) {
		t.Fatalf("expected 54 saved per unit, got %s", volume.PerUnitSaved)
	}
}

func TestApplyVolumeDiscountDisabledSet(t *testing.T) {
	disabled := TierSet{Enabled: false, Tiers: testTiers(t).Tiers}
	got := ApplyVolumeDiscount(d(t, "100"), 20, disabled)
	if got.Applied || !got.PerUnitAfter.Equal(d(t, "100")) {
		t.Fatalf("disabled set must not discount, got %+v", got)
	}

	empty := TierSet{Enabled: true}
	got = ApplyVolumeDiscount(d(t, "100"), 20, empty)
	if got.Applied || !got.PerUnitAfter.Equal(d(t, "100")) {
		t.Fatalf("empty set must not discount, got %+v", got)
	}
}
