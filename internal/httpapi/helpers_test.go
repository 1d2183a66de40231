package httpapi

import (
	"orderdesk/internal/cart"

	"github.com/shopspring/decimal"
)

func customItem(name, price string) cart.CustomItemInput {
	return cart.CustomItemInput{Name: name, Price: decimal.RequireFromString(price), Quantity: 1}
}

func customer(id string) cart.Customer {
	return cart.Customer{ID: id, Name: "Ana", Address: "Jl. Mawar 1"}
}
