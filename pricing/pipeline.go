package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ConfigProvider supplies the resolved pricing configuration. The getters
// never fail: the provider falls back to cached or default values on its
// own, because an unpriceable cart is worse than a cart priced with
// last-known-good configuration.
type ConfigProvider interface {
	Shipping(ctx context.Context) ShippingPolicy
	VolumeTiers(ctx context.Context) TierSet
	TaxRate() decimal.Decimal
}

// Pipeline binds the pure calculation to a configuration provider. Every
// call site that needs a total goes through a Pipeline so that the live
// cart preview, the checkout submission, and the order redisplay can never
// drift apart.
type Pipeline struct {
	Config ConfigProvider
	Logger zerolog.Logger
}

// ResolvedItem is the per-item breakdown sent with a checkout submission so
// the backend can independently verify the math. BasePrice and FinalPrice
// are per unit; the discount amounts are line totals.
type ResolvedItem struct {
	ProductID            uuid.UUID       `json:"productId"`
	Title                string          `json:"title,omitempty"`
	Quantity             int             `json:"qty"`
	BasePrice            decimal.Decimal `json:"basePrice"`
	FinalPrice           decimal.Decimal `json:"finalPrice"`
	SellerDiscountAmount decimal.Decimal `json:"sellerDiscountAmount"`
	VolumeDiscountAmount decimal.Decimal `json:"volumeDiscountAmount"`
	VolumeDiscountTier   string          `json:"volumeDiscountTier,omitempty"`
}

// CheckoutPayload is the order-submission body: resolved line items plus
// the totals snapshot they aggregate to.
type CheckoutPayload struct {
	Items  []ResolvedItem `json:"items"`
	Totals Result         `json:"totals"`
}

// Resolve pins the configuration snapshot for one calculation.
func (p *Pipeline) Resolve(ctx context.Context) Resolved {
	if p == nil || p.Config == nil {
		return DefaultResolved()
	}
	return Resolved{
		Shipping: p.Config.Shipping(ctx),
		Tiers:    p.Config.VolumeTiers(ctx),
		TaxRate:  p.Config.TaxRate(),
	}
}

// CalculateTotals prices a live cart. Configuration failures never surface
// here; the provider resolves to last-known-good or default values.
func (p *Pipeline) CalculateTotals(ctx context.Context, items []Item, coupon *Coupon) Result {
	res := Compute(items, coupon, p.Resolve(ctx))
	if p != nil {
		p.Logger.Debug().
			Int("items", len(items)).
			Str("total", res.Total.String()).
			Bool("free_shipping", res.FreeShippingApplied).
			Msg("cart priced")
	}
	return res
}

// PrepareCheckoutPayload resolves each line for order submission and
// attaches the totals computed from the same configuration snapshot.
func (p *Pipeline) PrepareCheckoutPayload(ctx context.Context, items []Item, coupon *Coupon) CheckoutPayload {
	cfg := p.Resolve(ctx)

	resolved := make([]ResolvedItem, 0, len(items))
	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.Quantity))
		sd := ApplySellerDiscount(it.UnitBasePrice, it.SellerDiscountPercent)
		vd := ApplyVolumeDiscount(sd.PerUnitAfter, it.Quantity, cfg.Tiers)
		resolved = append(resolved, ResolvedItem{
			ProductID:            it.ProductID,
			Title:                it.Title,
			Quantity:             it.Quantity,
			BasePrice:            it.UnitBasePrice,
			FinalPrice:           vd.PerUnitAfter.Round(2),
			SellerDiscountAmount: sd.PerUnitSaved.Mul(qty).Round(2),
			VolumeDiscountAmount: vd.PerUnitSaved.Mul(qty).Round(2),
			VolumeDiscountTier:   vd.TierLabel,
		})
	}

	return CheckoutPayload{
		Items:  resolved,
		Totals: Compute(items, coupon, cfg),
	}
}
