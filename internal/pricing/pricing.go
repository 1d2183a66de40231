// Package pricing turns cart contents and the money inputs of an order into a breakdown.
//
// All arithmetic is exact decimal arithmetic. Values are only rounded, to two places, when a
// breakdown is prepared for display.
package pricing

import (
	"orderdesk/internal/apperror"
	"orderdesk/internal/cart"

	"github.com/shopspring/decimal"
)

const displayPlaces = 2

var hundred = decimal.NewFromInt(100)

// DefaultTaxRatePercent is the rate a new order starts with until the operator edits it.
var DefaultTaxRatePercent = decimal.NewFromInt(18)

type Config struct {
	Discount       decimal.Decimal `json:"discount"`
	ShippingFees   decimal.Decimal `json:"shippingFees"`
	OtherFees      decimal.Decimal `json:"otherFees"`
	TaxRatePercent decimal.Decimal `json:"taxRatePercent"`
	// TaxIncludedInPrice comes from store settings: unit prices already contain tax.
	TaxIncludedInPrice bool `json:"taxIncludedInPrice"`
}

func DefaultConfig(taxIncluded bool) Config {
	return Config{TaxRatePercent: DefaultTaxRatePercent, TaxIncludedInPrice: taxIncluded}
}

// Validate rejects negative money inputs. A discount larger than the subtotal is allowed.
func (c Config) Validate() error {
	switch {
	case c.Discount.IsNegative():
		return apperror.InvalidField("discount", "must not be negative")
	case c.ShippingFees.IsNegative():
		return apperror.InvalidField("shippingFees", "must not be negative")
	case c.OtherFees.IsNegative():
		return apperror.InvalidField("otherFees", "must not be negative")
	case c.TaxRatePercent.IsNegative():
		return apperror.InvalidField("taxRatePercent", "must not be negative")
	}
	return nil
}

type Breakdown struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`
}

// LineTotal is unitPrice × quantity for one row.
func LineTotal(item cart.LineItem) decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// ComputeBreakdown is pure: same inputs, same output, no side effects.
//
//	subtotal = Σ unitPrice × quantity
//	tax      = (subtotal − discount) × rate / 100
//	total    = subtotal − discount + shipping + other (+ tax unless tax is included in prices)
//
// The taxable base is not clamped, so a discount above the subtotal yields negative tax.
func ComputeBreakdown(items []cart.LineItem, cfg Config) Breakdown {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(LineTotal(it))
	}

	taxable := subtotal.Sub(cfg.Discount)
	tax := taxable.Mul(cfg.TaxRatePercent).Div(hundred)

	total := taxable.Add(cfg.ShippingFees).Add(cfg.OtherFees)
	if !cfg.TaxIncludedInPrice {
		total = total.Add(tax)
	}

	return Breakdown{Subtotal: subtotal, TaxAmount: tax, Total: total}
}

// Rounded returns the breakdown with every amount rounded half away from zero to cents.
func (b Breakdown) Rounded() Breakdown {
	return Breakdown{
		Subtotal:  b.Subtotal.Round(displayPlaces),
		TaxAmount: b.TaxAmount.Round(displayPlaces),
		Total:     b.Total.Round(displayPlaces),
	}
}

// Display is the presentation form, amounts as fixed two-place strings.
type Display struct {
	Subtotal  string `json:"subtotal"`
	TaxAmount string `json:"taxAmount"`
	Total     string `json:"total"`
}

func (b Breakdown) Display() Display {
	return Display{
		Subtotal:  b.Subtotal.StringFixed(displayPlaces),
		TaxAmount: b.TaxAmount.StringFixed(displayPlaces),
		Total:     b.Total.StringFixed(displayPlaces),
	}
}
