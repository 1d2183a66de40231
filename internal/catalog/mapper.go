package catalog

import (
	"orderdesk/internal/cart"
	"orderdesk/internal/dataapi"
	"orderdesk/internal/order"
	"orderdesk/internal/utils"
)

func ToCartProduct(p dataapi.Product) cart.Product {
	return cart.Product{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: utils.PtrString(p.Description),
		Price:       p.Price,
	}
}

func toCartProducts(in []dataapi.Product) []cart.Product {
	out := make([]cart.Product, 0, len(in))
	for _, p := range in {
		out = append(out, ToCartProduct(p))
	}
	return out
}

func toCartCustomers(in []dataapi.Customer) []cart.Customer {
	out := make([]cart.Customer, 0, len(in))
	for i := range in {
		out = append(out, order.ToCartCustomer(&in[i]))
	}
	return out
}
