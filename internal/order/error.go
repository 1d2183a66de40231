package order

import (
	"errors"

	"orderdesk/internal/apperror"
)

var (
	// -- Validation & Input --
	ErrNoCustomer = apperror.Validation("no customer")
	ErrEmptyCart  = apperror.Validation("empty cart")

	// -- Lifecycle --
	ErrSubmissionInProgress = errors.New("order submission already in progress")
	ErrAlreadySubmitted     = errors.New("order already submitted for this cart")
)

const (
	opCreateOrder    = "createOrder"
	opCreateCustomer = "createCustomer"
)
