package invoice

import "errors"

var (
	ErrUnknownChannel   = errors.New("unknown invoice channel")
	ErrMissingRecipient = errors.New("customer has no contact for this channel")
	ErrNoOrder          = errors.New("no order to invoice")
)
