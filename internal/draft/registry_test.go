package draft

import (
	"context"
	"errors"
	"testing"
	"time"

	"orderdesk/internal/cart"
	"orderdesk/internal/catalog"
	"orderdesk/internal/dataapi"
	"orderdesk/internal/order"
	"orderdesk/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Validate(snap cart.Snapshot, cfg pricing.Config) error {
	return m.Called(snap, cfg).Error(0)
}

func (m *MockService) SubmitOrder(ctx context.Context, snap cart.Snapshot, cfg pricing.Config) (*order.Result, error) {
	args := m.Called(ctx, snap, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Result), args.Error(1)
}

func (m *MockService) CreateCustomer(ctx context.Context, d order.CustomerDraft) (*cart.Customer, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Customer), args.Error(1)
}

type nopSource struct{}

func (nopSource) SearchProducts(context.Context, string) ([]dataapi.Product, error) {
	return nil, nil
}

func (nopSource) SearchCustomers(context.Context, string) ([]dataapi.Customer, error) {
	return nil, nil
}

func ratePtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestRegistry(svc order.Service, opts Options) (*Registry, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	r := NewRegistry(svc, nopSource{}, catalog.NewLimiter(0), opts)
	r.now = clock.now
	return r, clock
}

func TestRegistry_CreateAndGet(t *testing.T) {
	r, _ := newTestRegistry(new(MockService), Options{DefaultTaxRate: ratePtr(11)})

	d := r.Create(false)

	assert.NotEmpty(t, d.ID)
	assert.Equal(t, order.StateIdle, d.Checkout.State())
	assert.True(t, d.Store.Snapshot().IsEmpty())
	assert.False(t, d.Pricing().TaxIncludedInPrice)
	assert.Equal(t, "11", d.Pricing().TaxRatePercent.String())

	got, err := r.Get(d.ID)
	require.NoError(t, err)
	assert.Same(t, d, got)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestRegistry_DefaultTaxRate(t *testing.T) {
	r, _ := newTestRegistry(new(MockService), Options{})

	d := r.Create(true)

	assert.Equal(t, "18", d.Pricing().TaxRatePercent.String())
	assert.True(t, d.Pricing().TaxIncludedInPrice)
}

func TestRegistry_ZeroTaxRateIsKept(t *testing.T) {
	r, _ := newTestRegistry(new(MockService), Options{DefaultTaxRate: ratePtr(0)})

	d := r.Create(false)

	assert.True(t, d.Pricing().TaxRatePercent.IsZero())
}

func TestDraft_SetPricing(t *testing.T) {
	r, _ := newTestRegistry(new(MockService), Options{})
	d := r.Create(true)
	_, err := d.Store.AddCatalogItem(cart.Product{ID: "5", Name: "Kettle", Price: decimal.NewFromInt(100)})
	require.NoError(t, err)

	cfg := pricing.DefaultConfig(false)
	cfg.ShippingFees = decimal.NewFromInt(10)
	require.NoError(t, d.SetPricing(cfg))
	assert.Equal(t, "128", d.Breakdown().Total.String())

	bad := cfg
	bad.Discount = decimal.NewFromInt(-1)
	assert.Error(t, d.SetPricing(bad))
	assert.Equal(t, cfg, d.Pricing())
}

func TestRegistry_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessDiscardsDraft", func(t *testing.T) {
		svc := new(MockService)
		r, _ := newTestRegistry(svc, Options{})
		d := r.Create(true)
		svc.On("Validate", mock.Anything, d.Pricing()).Return(nil)
		svc.On("SubmitOrder", mock.Anything, mock.Anything, d.Pricing()).Return(&order.Result{OrderID: "77"}, nil).Once()

		res, err := r.Submit(ctx, d.ID)

		require.NoError(t, err)
		assert.Equal(t, "77", res.OrderID)
		_, err = r.Get(d.ID)
		assert.ErrorIs(t, err, ErrDraftNotFound)
	})

	t.Run("FailureKeepsDraft", func(t *testing.T) {
		svc := new(MockService)
		r, _ := newTestRegistry(svc, Options{})
		d := r.Create(true)
		svc.On("Validate", mock.Anything, mock.Anything).Return(nil)
		svc.On("SubmitOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("remote down")).Once()

		_, err := r.Submit(ctx, d.ID)

		assert.Error(t, err)
		assert.Equal(t, order.StateIdle, d.Checkout.State())
		assert.Error(t, d.Checkout.LastError())
		_, err = r.Get(d.ID)
		assert.NoError(t, err)
	})

	t.Run("UnknownDraft", func(t *testing.T) {
		r, _ := newTestRegistry(new(MockService), Options{})

		_, err := r.Submit(ctx, "nope")

		assert.ErrorIs(t, err, ErrDraftNotFound)
	})
}

func TestRegistry_Sweep(t *testing.T) {
	r, clock := newTestRegistry(new(MockService), Options{TTL: time.Hour})
	stale := r.Create(true)
	clock.advance(50 * time.Minute)
	fresh := r.Create(true)
	clock.advance(20 * time.Minute)

	removed := r.Sweep()

	assert.Equal(t, 1, removed)
	_, err := r.Get(stale.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	_, err = r.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestRegistry_SweepDisabledWithoutTTL(t *testing.T) {
	r, clock := newTestRegistry(new(MockService), Options{})
	r.Create(true)
	clock.advance(48 * time.Hour)

	assert.Equal(t, 0, r.Sweep())
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_Discard(t *testing.T) {
	r, _ := newTestRegistry(new(MockService), Options{})
	d := r.Create(true)

	assert.True(t, r.Discard(d.ID))
	assert.False(t, r.Discard(d.ID))
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_RunStopsOnCancel(t *testing.T) {
	r, _ := newTestRegistry(new(MockService), Options{TTL: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		r.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
