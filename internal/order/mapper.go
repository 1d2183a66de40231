package order

import (
	"strings"

	"orderdesk/internal/apperror"
	"orderdesk/internal/cart"
	"orderdesk/internal/dataapi"
	"orderdesk/internal/pricing"
	"orderdesk/internal/utils"
)

// ToCreateOrderInput assembles the createOrder payload. Shipping and billing both use the
// customer's address. A snapshot without a customer yields ErrNoCustomer.
func ToCreateOrderInput(snap cart.Snapshot, cfg pricing.Config) (dataapi.CreateOrderInput, error) {
	if snap.Customer == nil {
		return dataapi.CreateOrderInput{}, ErrNoCustomer
	}
	customerID, err := utils.ParseID(snap.Customer.ID)
	if err != nil {
		return dataapi.CreateOrderInput{}, apperror.InvalidField("customerId", err.Error())
	}

	items := make([]dataapi.OrderItemInput, 0, len(snap.Items))
	for _, it := range snap.Items {
		in, err := toOrderItemInput(it)
		if err != nil {
			return dataapi.CreateOrderInput{}, err
		}
		items = append(items, in)
	}

	addr := toAddressInput(snap.Customer)

	return dataapi.CreateOrderInput{
		CustomerID:          customerID,
		ShippingAddress:     addr,
		BillingAddress:      addr,
		OrderItems:          items,
		Discount:            dataapi.Number(cfg.Discount),
		ShippingFees:        dataapi.Number(cfg.ShippingFees),
		OtherFees:           dataapi.Number(cfg.OtherFees),
		TaxRate:             dataapi.Number(cfg.TaxRatePercent),
		Notes:               utils.OptionalString(snap.Notes),
		Tags:                snap.Tags,
		CollectPaymentLater: snap.CollectPaymentLater,
	}, nil
}

func toOrderItemInput(it cart.LineItem) (dataapi.OrderItemInput, error) {
	if it.IsCustom() {
		return dataapi.OrderItemInput{
			Quantity: it.Quantity,
			Name:     utils.StrPtr(it.Name),
			Price:    dataapi.Number(it.UnitPrice),
		}, nil
	}

	ref := it.ProductID
	if ref == "" {
		ref = it.ID
	}
	productID, err := utils.ParseID(ref)
	if err != nil {
		return dataapi.OrderItemInput{}, apperror.InvalidField("productId", err.Error())
	}
	return dataapi.OrderItemInput{ProductID: &productID, Quantity: it.Quantity}, nil
}

func toAddressInput(c *cart.Customer) dataapi.AddressInput {
	return dataapi.AddressInput{
		Address: strings.TrimSpace(c.Address),
		Phone:   utils.OptionalString(c.Phone),
	}
}

func toCreateCustomerInput(d CustomerDraft) dataapi.CreateCustomerInput {
	return dataapi.CreateCustomerInput{
		Name:    strings.TrimSpace(d.Name),
		Email:   strings.TrimSpace(d.Email),
		Phone:   strings.TrimSpace(d.Phone),
		Address: strings.TrimSpace(d.Address),
	}
}

// ToCartCustomer maps a data API customer onto the cart's customer type.
func ToCartCustomer(c *dataapi.Customer) cart.Customer {
	return cart.Customer{
		ID:      c.ID.String(),
		Name:    c.Name,
		Email:   utils.PtrString(c.Email),
		Phone:   utils.PtrString(c.Phone),
		Address: utils.PtrString(c.Address),
	}
}
