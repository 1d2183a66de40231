package catalog

import "errors"

var (
	ErrProductNotInResults  = errors.New("product not in search results")
	ErrCustomerNotInResults = errors.New("customer not in search results")
)
