package dataapi

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ID accepts both string and numeric GraphQL ids from the remote side.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

type Product struct {
	ID          ID              `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

type Customer struct {
	ID      ID      `json:"id"`
	Name    string  `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

type CreateCustomerInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type StoreSettings struct {
	TaxIncludedInPrice bool `json:"taxIncludedInPrice"`
}

type AddressInput struct {
	Address  string  `json:"address"`
	Landmark *string `json:"landmark,omitempty"`
	City     *string `json:"city,omitempty"`
	State    *string `json:"state,omitempty"`
	Pincode  *string `json:"pincode,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// OrderItemInput is one order line. ProductID is nil for custom entries, which carry their
// own name and price instead.
type OrderItemInput struct {
	ProductID *int         `json:"productId"`
	Quantity  int          `json:"quantity"`
	Name      *string      `json:"name,omitempty"`
	Price     *json.Number `json:"price,omitempty"`
}

// CreateOrderInput money fields are json.Number so decimals reach the wire without passing
// through float64.
type CreateOrderInput struct {
	CustomerID          int              `json:"customerId"`
	ShippingAddress     AddressInput     `json:"shippingAddress"`
	BillingAddress      AddressInput     `json:"billingAddress"`
	OrderItems          []OrderItemInput `json:"orderItems"`
	Discount            *json.Number     `json:"discount,omitempty"`
	ShippingFees        *json.Number     `json:"shippingFees,omitempty"`
	OtherFees           *json.Number     `json:"otherFees,omitempty"`
	TaxRate             *json.Number     `json:"taxRate,omitempty"`
	Notes               *string          `json:"notes,omitempty"`
	Tags                []string         `json:"tags,omitempty"`
	CollectPaymentLater bool             `json:"collectPaymentLater"`
}

type CreatedOrder struct {
	ID    ID              `json:"id"`
	Total decimal.Decimal `json:"total"`
}

type OrderCustomer struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
}

func (c *OrderCustomer) FullName() string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(deref(c.FirstName) + " " + deref(c.LastName))
}

type OrderSummary struct {
	ID        ID              `json:"id"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"createdAt"`
	Customer  *OrderCustomer  `json:"customer"`
	Total     decimal.Decimal `json:"total"`
}

type OrderLine struct {
	Product *struct {
		Name string `json:"name"`
	} `json:"product"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type Address struct {
	Address  *string `json:"address"`
	Landmark *string `json:"landmark"`
	City     *string `json:"city"`
	State    *string `json:"state"`
	Pincode  *string `json:"pincode"`
	Phone    *string `json:"phone"`
}

type Order struct {
	ID              ID               `json:"id"`
	Status          string           `json:"status"`
	CreatedAt       string           `json:"createdAt"`
	Total           decimal.Decimal  `json:"total"`
	Discount        *decimal.Decimal `json:"discount"`
	ShippingFees    *decimal.Decimal `json:"shippingFees"`
	TaxRate         *decimal.Decimal `json:"taxRate"`
	Notes           *string          `json:"notes"`
	Customer        *OrderCustomer   `json:"customer"`
	OrderItems      []OrderLine      `json:"orderItems"`
	ShippingAddress *Address         `json:"shippingAddress"`
}

// Number renders d as a JSON number literal.
func Number(d decimal.Decimal) *json.Number {
	n := json.Number(d.String())
	return &n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
