package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine is a persisted order entry. Unlike a live cart item its unit
// price and seller discount were resolved and frozen at purchase time, so
// redisplay needs no catalog lookup.
type OrderLine struct {
	ProductID             uuid.UUID       `json:"productId"`
	Title                 string          `json:"title,omitempty"`
	UnitBasePrice         decimal.Decimal `json:"unitBasePrice"`
	SellerDiscountPercent decimal.Decimal `json:"sellerDiscountPercent"`
	Quantity              int             `json:"qty"`
}

// OrderTotals restates a historical order through the identical seven-stage
// calculation used for live carts. It shares the pipeline's configuration
// provider and discount resolver; there is deliberately no second copy of
// the arithmetic to drift from.
func (p *Pipeline) OrderTotals(ctx context.Context, lines []OrderLine, coupon *Coupon) Result {
	items := make([]Item, len(lines))
	for i, line := range lines {
		items[i] = Item{
			ProductID:             line.ProductID,
			Title:                 line.Title,
			UnitBasePrice:         line.UnitBasePrice,
			Quantity:              line.Quantity,
			SellerDiscountPercent: line.SellerDiscountPercent,
		}
	}
	return p.CalculateTotals(ctx, items, coupon)
}
