package pricing

import "github.com/shopspring/decimal"

// Compute runs the seven-stage calculation against a pinned configuration
// snapshot. It is the only place the arithmetic lives: the live cart
// pipeline, the checkout payload, the order redisplay adapter, and the test
// suite all call through here.
//
// Rounding: each stage's aggregate is rounded to 2 decimal places after
// summing (half away from zero), never per unit before summing, and a
// rounded stage output is reused as-is by the next stage. Discount totals
// are summed per item unrounded and rounded once, not recomputed from the
// already-rounded stage subtotals.
func Compute(items []Item, coupon *Coupon, cfg Resolved) Result {
	var (
		originalRaw    decimal.Decimal
		afterSellerRaw decimal.Decimal
		afterVolumeRaw decimal.Decimal
		sellerSavedRaw decimal.Decimal
		volumeSavedRaw decimal.Decimal
	)

	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		originalRaw = originalRaw.Add(it.UnitBasePrice.Mul(qty))

		sd := ApplySellerDiscount(it.UnitBasePrice, it.SellerDiscountPercent)
		afterSellerRaw = afterSellerRaw.Add(sd.PerUnitAfter.Mul(qty))
		sellerSavedRaw = sellerSavedRaw.Add(sd.PerUnitSaved.Mul(qty))

		vd := ApplyVolumeDiscount(sd.PerUnitAfter, it.Quantity, cfg.Tiers)
		afterVolumeRaw = afterVolumeRaw.Add(vd.PerUnitAfter.Mul(qty))
		volumeSavedRaw = volumeSavedRaw.Add(vd.PerUnitSaved.Mul(qty))
	}

	// Stages 1-3.
	original := originalRaw.Round(2)
	afterSeller := afterSellerRaw.Round(2)
	afterVolume := afterVolumeRaw.Round(2)
	sellerSaved := sellerSavedRaw.Round(2)
	volumeSaved := volumeSavedRaw.Round(2)

	// Stage 4: coupon applies once to the cart-level subtotal, never per
	// item and never to shipping.
	couponSaved := zero
	couponCode := ""
	if coupon != nil {
		couponCode = coupon.Code
		raw := zero
		if coupon.Percent.IsPositive() {
			raw = afterVolume.Mul(coupon.Percent).Div(hundred)
		} else if coupon.Amount.IsPositive() {
			raw = decimal.Min(coupon.Amount, afterVolume)
		}
		if raw.IsNegative() {
			raw = zero
		}
		couponSaved = raw.Round(2)
	}
	afterCoupon := afterVolume.Sub(couponSaved)

	// Stage 5: free shipping has an inclusive threshold boundary.
	shipping := zero
	if cfg.Shipping.Enabled && afterCoupon.LessThan(cfg.Shipping.FreeThreshold) {
		shipping = cfg.Shipping.DefaultCost
	}
	withShipping := afterCoupon.Add(shipping)

	// Stage 6: tax is computed on the shipping-inclusive amount. Backend
	// order totals are validated against exactly this base.
	tax := withShipping.Mul(cfg.TaxRate).Round(2)

	// Stage 7.
	total := withShipping.Add(tax)

	return Result{
		OriginalSubtotal:      original,
		AfterSellerSubtotal:   afterSeller,
		AfterVolumeSubtotal:   afterVolume,
		AfterCouponSubtotal:   afterCoupon,
		WithShippingSubtotal:  withShipping,
		Tax:                   tax,
		Total:                 total,
		SellerDiscountTotal:   sellerSaved,
		VolumeDiscountTotal:   volumeSaved,
		CouponDiscountTotal:   couponSaved,
		Shipping:              shipping,
		CouponCode:            couponCode,
		FreeShippingApplied:   cfg.Shipping.Enabled && shipping.IsZero(),
		VolumeDiscountApplied: volumeSaved.IsPositive(),
	}
}
