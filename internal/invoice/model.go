package invoice

import (
	"strings"
	"time"
)

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

func ParseChannel(s string) (Channel, error) {
	switch ch := Channel(strings.ToLower(strings.TrimSpace(s))); ch {
	case ChannelEmail, ChannelSMS, ChannelWhatsApp:
		return ch, nil
	}
	return "", ErrUnknownChannel
}

// UsesPhone reports whether the channel delivers to a phone number.
func (c Channel) UsesPhone() bool {
	return c == ChannelSMS || c == ChannelWhatsApp
}

type Line struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
	Total     string `json:"total"`
}

// Invoice is a rendered-ready view of a placed order. Money fields are display strings.
type Invoice struct {
	Number       string    `json:"number"`
	OrderID      string    `json:"orderId"`
	Channel      Channel   `json:"channel"`
	Recipient    string    `json:"recipient"`
	CustomerName string    `json:"customerName"`
	Lines        []Line    `json:"lines"`
	Discount     string    `json:"discount"`
	ShippingFees string    `json:"shippingFees"`
	TaxRate      string    `json:"taxRate,omitempty"` // "11%"; empty when the order carries none
	Total        string    `json:"total"`
	Notes        string    `json:"notes,omitempty"`
	IssuedAt     time.Time `json:"issuedAt"`
}
