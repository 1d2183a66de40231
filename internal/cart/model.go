package cart

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Source string

const (
	SourceCatalog Source = "catalog"
	SourceCustom  Source = "custom"
)

// customIDPrefix keeps ad-hoc line item ids out of the catalog id space.
const customIDPrefix = "custom-"

type LineItem struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	Source      Source          `json:"source"`
}

func (i LineItem) IsCustom() bool {
	return i.Source == SourceCustom
}

// Product is the part of a catalog search hit the cart needs.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
}

// CustomItemInput is an ad-hoc entry typed in by the operator.
type CustomItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Quantity    int
}

type Customer struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Persisted reports whether the customer has been saved remotely and can own an order.
func (c *Customer) Persisted() bool {
	return c != nil && strings.TrimSpace(c.ID) != ""
}

// Snapshot is a detached copy of the cart contents. Mutating it does not affect the store.
type Snapshot struct {
	Items    []LineItem `json:"items"`
	Customer *Customer  `json:"customer,omitempty"`
	Tags     []string   `json:"tags"`
	Notes    string     `json:"notes"`

	CollectPaymentLater bool `json:"collectPaymentLater"`
}

func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}
