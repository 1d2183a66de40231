package httpapi

import (
	"orderdesk/internal/cart"
	"orderdesk/internal/draft"
	"orderdesk/internal/order"
	"orderdesk/internal/pricing"

	"github.com/shopspring/decimal"
)

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type addCustomItemRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    int              `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type tagRequest struct {
	Tag string `json:"tag" binding:"required"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type selectCustomerRequest struct {
	CustomerID string `json:"customerId" binding:"required"`
}

// pricingRequest updates only the fields that are present.
type pricingRequest struct {
	Discount            *decimal.Decimal `json:"discount"`
	ShippingFees        *decimal.Decimal `json:"shippingFees"`
	OtherFees           *decimal.Decimal `json:"otherFees"`
	TaxRatePercent      *decimal.Decimal `json:"taxRatePercent"`
	CollectPaymentLater *bool            `json:"collectPaymentLater"`
}

func (r pricingRequest) apply(cfg pricing.Config) pricing.Config {
	if r.Discount != nil {
		cfg.Discount = *r.Discount
	}
	if r.ShippingFees != nil {
		cfg.ShippingFees = *r.ShippingFees
	}
	if r.OtherFees != nil {
		cfg.OtherFees = *r.OtherFees
	}
	if r.TaxRatePercent != nil {
		cfg.TaxRatePercent = *r.TaxRatePercent
	}
	return cfg
}

type invoiceRequest struct {
	Channel string `json:"channel" binding:"required"`
}

type lineItemResponse struct {
	cart.LineItem
	LineTotal string `json:"lineTotal"`
}

type draftResponse struct {
	ID                  string             `json:"id"`
	State               order.State        `json:"state"`
	Items               []lineItemResponse `json:"items"`
	Customer            *cart.Customer     `json:"customer"`
	Tags                []string           `json:"tags"`
	Notes               string             `json:"notes"`
	CollectPaymentLater bool               `json:"collectPaymentLater"`
	Pricing             pricing.Config     `json:"pricing"`
	Breakdown           pricing.Display    `json:"breakdown"`
	LastError           string             `json:"lastError,omitempty"`
}

func toDraftResponse(d *draft.Draft) draftResponse {
	snap := d.Store.Snapshot()
	cfg := d.Pricing()

	items := make([]lineItemResponse, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, lineItemResponse{
			LineItem:  it,
			LineTotal: pricing.LineTotal(it).StringFixed(2),
		})
	}

	resp := draftResponse{
		ID:                  d.ID,
		State:               d.Checkout.State(),
		Items:               items,
		Customer:            snap.Customer,
		Tags:                snap.Tags,
		Notes:               snap.Notes,
		CollectPaymentLater: snap.CollectPaymentLater,
		Pricing:             cfg,
		Breakdown:           pricing.ComputeBreakdown(snap.Items, cfg).Display(),
	}
	if err := d.Checkout.LastError(); err != nil {
		resp.LastError = err.Error()
	}
	return resp
}

type submitResponse struct {
	OrderID   string          `json:"orderId"`
	Total     string          `json:"total"`
	Breakdown pricing.Display `json:"breakdown"`
}

func toSubmitResponse(res *order.Result) submitResponse {
	return submitResponse{
		OrderID:   res.OrderID,
		Total:     res.Total.StringFixed(2),
		Breakdown: res.Breakdown.Display(),
	}
}
