package order

import (
	"orderdesk/internal/pricing"

	"github.com/shopspring/decimal"
)

// Result is what a successful submission reports. OrderID and Total come from the data API
// and win over the locally computed breakdown, which is kept for display.
type Result struct {
	OrderID   string            `json:"orderId"`
	Total     decimal.Decimal   `json:"total"`
	Breakdown pricing.Breakdown `json:"breakdown"`
}

// CustomerDraft is a customer that has not been saved remotely yet.
type CustomerDraft struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// State is a step of the submission lifecycle of one cart.
type State string

const (
	StateIdle       State = "IDLE"
	StateValidating State = "VALIDATING"
	StateSubmitting State = "SUBMITTING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

// Busy reports whether a submission is underway.
func (s State) Busy() bool {
	return s == StateValidating || s == StateSubmitting
}
