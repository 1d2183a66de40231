package draft

import (
	"context"
	"sync"
	"time"

	"orderdesk/internal/cart"
	"orderdesk/internal/catalog"
	"orderdesk/internal/order"
	"orderdesk/internal/pricing"
)

// Draft is one order being composed: its cart, pricing inputs, search state and submission
// lifecycle.
type Draft struct {
	ID        string
	CreatedAt time.Time

	Store    *cart.Store
	Checkout *order.Checkout
	Search   *catalog.Searcher

	mu        sync.Mutex
	pricing   pricing.Config
	touchedAt time.Time
}

func (d *Draft) Pricing() pricing.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pricing
}

// SetPricing replaces the pricing inputs after validating them.
func (d *Draft) SetPricing(cfg pricing.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	d.pricing = cfg
	d.mu.Unlock()
	return nil
}

// Breakdown prices the current cart with the current inputs.
func (d *Draft) Breakdown() pricing.Breakdown {
	return pricing.ComputeBreakdown(d.Store.Snapshot().Items, d.Pricing())
}

func (d *Draft) submit(ctx context.Context) (*order.Result, error) {
	return d.Checkout.Submit(ctx, d.Pricing())
}

func (d *Draft) touch(now time.Time) {
	d.mu.Lock()
	d.touchedAt = now
	d.mu.Unlock()
}

func (d *Draft) idleSince(now time.Time) time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return now.Sub(d.touchedAt)
}
