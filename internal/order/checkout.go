package order

import (
	"context"
	"sync"

	"orderdesk/internal/cart"
	"orderdesk/internal/logger"
	"orderdesk/internal/pricing"

	"go.uber.org/zap"
)

// Checkout tracks the submission lifecycle of one cart:
//
//	IDLE -> VALIDATING -> SUBMITTING -> SUCCEEDED | FAILED
//
// FAILED returns to IDLE at once; LastError keeps the cause. SUCCEEDED is terminal; the next
// order needs a fresh cart. A second Submit while one is in flight is rejected.
type Checkout struct {
	svc   Service
	store *cart.Store

	mu      sync.Mutex
	state   State
	result  *Result
	lastErr error
}

func NewCheckout(svc Service, store *cart.Store) *Checkout {
	return &Checkout{svc: svc, store: store, state: StateIdle}
}

func (c *Checkout) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Result is the accepted order, or nil before success.
func (c *Checkout) Result() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// LastError is the error of the most recent failed attempt.
func (c *Checkout) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Submit validates the current cart and submits it. The cart is never modified here, so a
// failed attempt can be retried as is.
func (c *Checkout) Submit(ctx context.Context, cfg pricing.Config) (*Result, error) {
	if err := c.begin(ctx); err != nil {
		return nil, err
	}

	snap := c.store.Snapshot()
	if err := c.svc.Validate(snap, cfg); err != nil {
		c.finish(ctx, StateIdle, nil, err)
		return nil, err
	}

	c.transition(ctx, StateSubmitting)
	res, err := c.svc.SubmitOrder(ctx, snap, cfg)
	if err != nil {
		c.finish(ctx, StateFailed, nil, err)
		return nil, err
	}

	c.finish(ctx, StateSucceeded, res, nil)
	return res, nil
}

// CreateCustomerAndAttach saves draft remotely and attaches the result to the cart. On
// failure the cart keeps whatever customer it had.
func (c *Checkout) CreateCustomerAndAttach(ctx context.Context, draft CustomerDraft) (*cart.Customer, error) {
	if c.State() == StateSucceeded {
		return nil, ErrAlreadySubmitted
	}

	customer, err := c.svc.CreateCustomer(ctx, draft)
	if err != nil {
		return nil, err
	}
	c.store.SetCustomer(*customer)
	return customer, nil
}

func (c *Checkout) begin(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.state.Busy():
		return ErrSubmissionInProgress
	case c.state == StateSucceeded:
		return ErrAlreadySubmitted
	}
	c.setState(ctx, StateValidating)
	return nil
}

func (c *Checkout) transition(ctx context.Context, to State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setState(ctx, to)
}

func (c *Checkout) finish(ctx context.Context, to State, res *Result, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.result = res
	c.lastErr = err
	c.setState(ctx, to)
	if to == StateFailed {
		c.setState(ctx, StateIdle)
	}
}

func (c *Checkout) setState(ctx context.Context, to State) {
	from := c.state
	c.state = to
	logger.FromCtx(ctx).Debug("checkout state changed",
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
}
