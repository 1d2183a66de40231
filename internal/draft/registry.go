package draft

import (
	"context"
	"sync"
	"time"

	"orderdesk/internal/cart"
	"orderdesk/internal/catalog"
	"orderdesk/internal/logger"
	"orderdesk/internal/order"
	"orderdesk/internal/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Options struct {
	// TTL is how long an untouched draft is kept. Zero keeps drafts forever.
	TTL time.Duration
	// DefaultTaxRate seeds new drafts. Nil means pricing.DefaultTaxRatePercent; zero is a valid rate.
	DefaultTaxRate *decimal.Decimal
}

// Registry holds the open drafts in memory. Nothing here is persisted: a placed order lives on
// the data API, and its draft is dropped.
type Registry struct {
	svc     order.Service
	source  catalog.Source
	limiter *rate.Limiter
	opts    Options
	now     func() time.Time

	mu     sync.RWMutex
	drafts map[string]*Draft
}

func NewRegistry(svc order.Service, source catalog.Source, limiter *rate.Limiter, opts Options) *Registry {
	if opts.DefaultTaxRate == nil {
		rate := pricing.DefaultTaxRatePercent
		opts.DefaultTaxRate = &rate
	}
	return &Registry{
		svc:     svc,
		source:  source,
		limiter: limiter,
		opts:    opts,
		now:     time.Now,
		drafts:  make(map[string]*Draft),
	}
}

// Create opens an empty draft. taxIncluded comes from the store settings.
func (r *Registry) Create(taxIncluded bool) *Draft {
	now := r.now()
	store := cart.NewStore()

	cfg := pricing.DefaultConfig(taxIncluded)
	cfg.TaxRatePercent = *r.opts.DefaultTaxRate

	d := &Draft{
		ID:        uuid.NewString(),
		CreatedAt: now,
		Store:     store,
		Checkout:  order.NewCheckout(r.svc, store),
		Search:    catalog.NewSearcher(r.source, r.limiter),
		pricing:   cfg,
		touchedAt: now,
	}

	r.mu.Lock()
	r.drafts[d.ID] = d
	r.mu.Unlock()

	logger.L().Debug("draft created", zap.String("draft_id", d.ID), zap.Bool("tax_included", taxIncluded))
	return d
}

// Get returns the draft and marks it as recently used.
func (r *Registry) Get(id string) (*Draft, error) {
	r.mu.RLock()
	d, ok := r.drafts[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrDraftNotFound
	}
	d.touch(r.now())
	return d, nil
}

func (r *Registry) Discard(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drafts[id]; !ok {
		return false
	}
	delete(r.drafts, id)
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.drafts)
}

// Submit places the draft's order and drops the draft once the order exists remotely. A failed
// submission keeps the draft so it can be retried.
func (r *Registry) Submit(ctx context.Context, id string) (*order.Result, error) {
	d, err := r.Get(id)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithDraftID(ctx, id)
	res, err := d.submit(ctx)
	if err != nil {
		return nil, err
	}

	r.Discard(id)
	logger.FromCtx(ctx).Info("draft submitted", zap.String("order_id", res.OrderID))
	return res, nil
}

// Sweep drops drafts idle for longer than the TTL, skipping any with a submission in flight.
func (r *Registry) Sweep() int {
	if r.opts.TTL <= 0 {
		return 0
	}
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, d := range r.drafts {
		if d.Checkout.State().Busy() {
			continue
		}
		if d.idleSince(now) > r.opts.TTL {
			delete(r.drafts, id)
			removed++
		}
	}
	return removed
}

// Run sweeps on every tick until ctx is done.
func (r *Registry) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				logger.L().Info("expired drafts removed", zap.Int("count", n))
			}
		}
	}
}
