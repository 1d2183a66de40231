package cart

import (
	"errors"

	"orderdesk/internal/apperror"
)

var (
	// -- Validation & Input --
	ErrInvalidQuantity   = apperror.InvalidField("quantity", "must be at least 1")
	ErrNegativePrice     = apperror.InvalidField("unitPrice", "must not be negative")
	ErrMissingItemID     = apperror.InvalidField("id", "is required")
	ErrMissingItemName   = apperror.InvalidField("name", "is required")
	ErrDuplicateLineItem = apperror.InvalidField("id", "already in cart")

	// -- Resource State --
	ErrLineItemNotFound = errors.New("line item not found")
)
