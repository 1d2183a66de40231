package dataapi

import (
	_ "embed"
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphql
var schemaSDL string

type operation struct {
	name  string
	query string
}

var (
	opCreateCustomer = operation{"CreateCustomer", `
mutation CreateCustomer($input: CreateCustomerInput!) {
  createCustomer(input: $input) {
    id
    name
    email
    phone
    address
  }
}`}

	opCreateOrder = operation{"CreateOrder", `
mutation CreateOrder($input: CreateOrderInput!) {
  createOrder(input: $input) {
    id
    total
  }
}`}

	opSearchProducts = operation{"SearchProducts", `
query SearchProducts($searchTerm: String!) {
  searchProducts(searchTerm: $searchTerm) {
    id
    name
    description
    price
  }
}`}

	opSearchCustomers = operation{"SearchCustomers", `
query SearchCustomers($searchTerm: String!) {
  searchCustomers(searchTerm: $searchTerm) {
    id
    name
    email
    phone
    address
  }
}`}

	opStoreSettings = operation{"GetStoreSettings", `
query GetStoreSettings {
  storeSettings {
    taxIncludedInPrice
  }
}`}

	opOrders = operation{"GetOrders", `
query GetOrders($page: Int!, $perPage: Int!) {
  orders(page: $page, perPage: $perPage) {
    edges {
      node {
        id
        status
        createdAt
        customer {
          firstName
          lastName
          email
        }
        total
      }
    }
  }
}`}

	opOrderDetails = operation{"OrderDetails", `
query OrderDetails($id: Int!) {
  order(id: $id) {
    id
    status
    createdAt
    total
    discount
    shippingFees
    taxRate
    notes
    customer {
      firstName
      lastName
      email
      phoneNumber
    }
    orderItems {
      product {
        name
      }
      quantity
      price
    }
    shippingAddress {
      address
      landmark
      city
      state
      pincode
      phone
    }
  }
}`}
)

var allOperations = []operation{
	opCreateCustomer,
	opCreateOrder,
	opSearchProducts,
	opSearchCustomers,
	opStoreSettings,
	opOrders,
	opOrderDetails,
}

// ValidateOperations checks every operation document against the bundled remote schema, so a
// drifted query fails at startup instead of on the first order.
func ValidateOperations() error {
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: schemaSDL})
	if err != nil {
		return fmt.Errorf("load data api schema: %w", err)
	}

	for _, op := range allOperations {
		doc, errs := gqlparser.LoadQuery(schema, op.query)
		if len(errs) > 0 {
			return fmt.Errorf("operation %s: %w", op.name, errs)
		}
		if doc.Operations.ForName(op.name) == nil {
			return fmt.Errorf("operation %s: name not declared in document", op.name)
		}
	}
	return nil
}
