package pricing

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	zero    = decimal.Zero
)

// SellerDiscount is the per-unit outcome of applying a seller's markdown.
type SellerDiscount struct {
	PerUnitAfter decimal.Decimal
	PerUnitSaved decimal.Decimal
}

// VolumeDiscount is the per-unit outcome of applying a quantity tier.
// Applied reports whether any tier matched; TierLabel is empty when none did.
type VolumeDiscount struct {
	PerUnitAfter decimal.Decimal
	PerUnitSaved decimal.Decimal
	TierLabel    string
	Applied      bool
}

// ApplySellerDiscount computes the per-unit price after the seller's own
// markdown. Quantity plays no part here.
func ApplySellerDiscount(unitBasePrice, sellerDiscountPercent decimal.Decimal) SellerDiscount {
	saved := unitBasePrice.Mul(sellerDiscountPercent).Div(hundred)
	return SellerDiscount{
		PerUnitAfter: unitBasePrice.Sub(saved),
		PerUnitSaved: saved,
	}
}

// ApplyVolumeDiscount selects the tier with the greatest threshold not
// exceeding quantity (inclusive boundary) and applies its percentage to the
// seller-discounted unit price. Seller first, volume second: the discounts
// compound multiplicatively and the ordering is fixed. Duplicate thresholds
// in the tier set are the caller's bug; the resolver does not check.
func ApplyVolumeDiscount(perUnitAfterSeller decimal.Decimal, quantity int, tiers TierSet) VolumeDiscount {
	none := VolumeDiscount{PerUnitAfter: perUnitAfterSeller, PerUnitSaved: zero}
	if !tiers.Enabled || len(tiers.Tiers) == 0 {
		return none
	}
	var matched *Tier
	for i := range tiers.Tiers {
		if tiers.Tiers[i].Quantity <= quantity {
			matched = &tiers.Tiers[i]
		}
	}
	if matched == nil {
		return none
	}
	saved := perUnitAfterSeller.Mul(matched.DiscountPercent).Div(hundred)
	return VolumeDiscount{
		PerUnitAfter: perUnitAfterSeller.Sub(saved),
		PerUnitSaved: saved,
		TierLabel:    matched.Label,
		Applied:      true,
	}
}
