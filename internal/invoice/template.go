package invoice

import (
	"bytes"
	"fmt"
	"text/template"
)

// Message bodies per channel. Chat channels get a short form, email the full table.
var channelTemplates = map[Channel]string{
	ChannelEmail: `Hello {{.CustomerName}},

Thank you for your order #{{.OrderID}}. Invoice {{.Number}} ({{.IssuedAt.Format "2006-01-02"}}).

{{range .Lines}}- {{.Name}} x{{.Quantity}} @ {{.UnitPrice}} = {{.Total}}
{{end}}
Discount: {{.Discount}}
Shipping: {{.ShippingFees}}
{{with .TaxRate}}Tax:      {{.}}
{{end}}Total:    {{.Total}}
{{with .Notes}}
Notes: {{.}}
{{end}}`,

	ChannelSMS: `Invoice {{.Number}} for order #{{.OrderID}}: total {{.Total}}. Thank you!`,

	ChannelWhatsApp: `Hi {{.CustomerName}}, here is invoice *{{.Number}}* for order #{{.OrderID}}.
{{range .Lines}}
• {{.Name}} x{{.Quantity}}: {{.Total}}{{end}}
{{with .TaxRate}}
Tax rate: {{.}}{{end}}
*Total: {{.Total}}*`,
}

var templates = parseTemplates()

func parseTemplates() map[Channel]*template.Template {
	out := make(map[Channel]*template.Template, len(channelTemplates))
	for ch, body := range channelTemplates {
		out[ch] = template.Must(template.New(string(ch)).Parse(body))
	}
	return out
}

// Render produces the message body for inv's channel.
func Render(inv *Invoice) (string, error) {
	tmpl, ok := templates[inv.Channel]
	if !ok {
		return "", ErrUnknownChannel
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, inv); err != nil {
		return "", fmt.Errorf("render %s invoice: %w", inv.Channel, err)
	}
	return buf.String(), nil
}
