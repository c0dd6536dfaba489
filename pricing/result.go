package pricing

import "github.com/shopspring/decimal"

// Result is an immutable snapshot of one price calculation: every stage
// subtotal, the three discount totals, and the shipping/tax breakdown.
// All consumers read from the same snapshot instead of re-deriving any
// subset of it.
type Result struct {
	// Stage subtotals, in calculation order.
	OriginalSubtotal     decimal.Decimal `json:"originalSubtotal"`
	AfterSellerSubtotal  decimal.Decimal `json:"afterSellerSubtotal"`
	AfterVolumeSubtotal  decimal.Decimal `json:"afterVolumeSubtotal"`
	AfterCouponSubtotal  decimal.Decimal `json:"afterCouponSubtotal"`
	WithShippingSubtotal decimal.Decimal `json:"withShippingSubtotal"`
	Tax                  decimal.Decimal `json:"tax"`
	Total                decimal.Decimal `json:"total"`

	SellerDiscountTotal decimal.Decimal `json:"sellerDiscountTotal"`
	VolumeDiscountTotal decimal.Decimal `json:"volumeDiscountTotal"`
	CouponDiscountTotal decimal.Decimal `json:"couponDiscountTotal"`
	Shipping            decimal.Decimal `json:"shipping"`

	CouponCode            string `json:"couponCode,omitempty"`
	FreeShippingApplied   bool   `json:"freeShippingApplied"`
	VolumeDiscountApplied bool   `json:"volumeDiscountApplied"`
}
