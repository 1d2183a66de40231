package invoice

import (
	"strings"
	"time"

	"orderdesk/internal/dataapi"
	"orderdesk/internal/utils"

	"github.com/shopspring/decimal"
)

const customLineName = "Custom item"

// Build turns a placed order into an invoice addressed for ch. The remote order is the source of
// every amount.
func Build(ch Channel, o *dataapi.Order, now time.Time) (*Invoice, error) {
	if o == nil {
		return nil, ErrNoOrder
	}

	recipient := recipientFor(ch, o)
	if recipient == "" {
		return nil, ErrMissingRecipient
	}

	lines := make([]Line, 0, len(o.OrderItems))
	for _, it := range o.OrderItems {
		name := customLineName
		if it.Product != nil && it.Product.Name != "" {
			name = it.Product.Name
		}
		lines = append(lines, Line{
			Name:      name,
			Quantity:  it.Quantity,
			UnitPrice: utils.FormatMoney(it.Price),
			Total:     utils.FormatMoney(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))),
		})
	}

	return &Invoice{
		Number:       NewNumber(now),
		OrderID:      o.ID.String(),
		Channel:      ch,
		Recipient:    recipient,
		CustomerName: o.Customer.FullName(),
		Lines:        lines,
		Discount:     utils.FormatMoney(orZero(o.Discount)),
		ShippingFees: utils.FormatMoney(orZero(o.ShippingFees)),
		TaxRate:      percent(o.TaxRate),
		Total:        utils.FormatMoney(o.Total),
		Notes:        strings.TrimSpace(utils.PtrString(o.Notes)),
		IssuedAt:     now.UTC(),
	}, nil
}

func recipientFor(ch Channel, o *dataapi.Order) string {
	if ch.UsesPhone() {
		var phone string
		if o.Customer != nil {
			phone = utils.PtrString(o.Customer.PhoneNumber)
		}
		if strings.TrimSpace(phone) == "" && o.ShippingAddress != nil {
			phone = utils.PtrString(o.ShippingAddress.Phone)
		}
		return utils.NormalizePhone(phone)
	}
	if o.Customer == nil {
		return ""
	}
	return strings.TrimSpace(utils.PtrString(o.Customer.Email))
}

func percent(rate *decimal.Decimal) string {
	if rate == nil {
		return ""
	}
	return rate.String() + "%"
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
