package order

import (
	"context"
	"errors"
	"testing"

	"orderdesk/internal/apperror"
	"orderdesk/internal/cart"
	"orderdesk/internal/dataapi"
	"orderdesk/internal/logger"
	"orderdesk/internal/pricing"
	"orderdesk/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// MockRemoteAPI is a mock implementation of RemoteAPI
type MockRemoteAPI struct {
	mock.Mock
}

func (m *MockRemoteAPI) CreateCustomer(ctx context.Context, input dataapi.CreateCustomerInput) (*dataapi.Customer, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dataapi.Customer), args.Error(1)
}

func (m *MockRemoteAPI) CreateOrder(ctx context.Context, input dataapi.CreateOrderInput) (*dataapi.CreatedOrder, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dataapi.CreatedOrder), args.Error(1)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func referenceSnapshot() cart.Snapshot {
	return cart.Snapshot{
		Items: []cart.LineItem{
			{ID: "5", ProductID: "5", Name: "Kettle", UnitPrice: dec("100"), Quantity: 2, Source: cart.SourceCatalog},
		},
		Customer: &cart.Customer{ID: "7", Name: "Ana", Phone: "0812", Address: "Jl. Mawar 1"},
		Tags:     []string{"vip"},
		Notes:    "ring twice",
	}
}

func referenceConfig() pricing.Config {
	return pricing.Config{ShippingFees: dec("10"), TaxRatePercent: dec("18")}
}

func TestService_SubmitOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		api := new(MockRemoteAPI)
		svc := NewService(api)

		api.On("CreateOrder", ctx, mock.MatchedBy(func(in dataapi.CreateOrderInput) bool {
			return in.CustomerID == 7 &&
				len(in.OrderItems) == 1 &&
				*in.OrderItems[0].ProductID == 5 &&
				in.OrderItems[0].Quantity == 2 &&
				in.ShippingAddress.Address == "Jl. Mawar 1" &&
				in.BillingAddress == in.ShippingAddress &&
				in.ShippingFees.String() == "10" &&
				in.TaxRate.String() == "18" &&
				*in.Notes == "ring twice" &&
				assert.ObjectsAreEqual([]string{"vip"}, in.Tags)
		})).Return(&dataapi.CreatedOrder{ID: "900", Total: dec("246")}, nil).Once()

		res, err := svc.SubmitOrder(ctx, referenceSnapshot(), referenceConfig())

		require.NoError(t, err)
		assert.Equal(t, "900", res.OrderID)
		assert.True(t, res.Total.Equal(dec("246")))
		assert.True(t, res.Breakdown.Subtotal.Equal(dec("200")))
		assert.True(t, res.Breakdown.TaxAmount.Equal(dec("36")))
		api.AssertExpectations(t)
	})

	t.Run("RemoteTotalIsAuthoritative", func(t *testing.T) {
		api := new(MockRemoteAPI)
		svc := NewService(api)
		api.On("CreateOrder", ctx, mock.Anything).Return(&dataapi.CreatedOrder{ID: "901", Total: dec("250")}, nil)
		core, observed := observer.New(zapcore.WarnLevel)
		defer logger.Replace(zap.New(core))()

		res, err := svc.SubmitOrder(ctx, referenceSnapshot(), referenceConfig())

		require.NoError(t, err)
		assert.True(t, res.Total.Equal(dec("250")))
		assert.True(t, res.Breakdown.Total.Equal(dec("246")))

		logs := observed.FilterMessage("remote total differs from local breakdown").All()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
		assert.Equal(t, "250", logs[0].ContextMap()["remote_total"])
		assert.Equal(t, "246", logs[0].ContextMap()["local_total"])
	})

	t.Run("NoCustomer", func(t *testing.T) {
		api := new(MockRemoteAPI)
		svc := NewService(api)
		snap := referenceSnapshot()
		snap.Customer = nil

		res, err := svc.SubmitOrder(ctx, snap, referenceConfig())

		assert.Nil(t, res)
		assert.ErrorIs(t, err, ErrNoCustomer)
		assert.True(t, apperror.IsValidation(err))
		api.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("UnsavedCustomer", func(t *testing.T) {
		api := new(MockRemoteAPI)
		svc := NewService(api)
		snap := referenceSnapshot()
		snap.Customer = &cart.Customer{Name: "Not yet saved"}

		_, err := svc.SubmitOrder(ctx, snap, referenceConfig())

		assert.ErrorIs(t, err, ErrNoCustomer)
		api.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("EmptyCart", func(t *testing.T) {
		api := new(MockRemoteAPI)
		svc := NewService(api)
		snap := referenceSnapshot()
		snap.Items = nil

		_, err := svc.SubmitOrder(ctx, snap, referenceConfig())

		assert.ErrorIs(t, err, ErrEmptyCart)
		api.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("NegativeFee", func(t *testing.T) {
		api := new(MockRemoteAPI)
		svc := NewService(api)
		cfg := referenceConfig()
		cfg.OtherFees = dec("-1")

		_, err := svc.SubmitOrder(ctx, referenceSnapshot(), cfg)

		assert.True(t, apperror.IsValidation(err))
		api.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("NonNumericCatalogID", func(t *testing.T) {
		api := new(MockRemoteAPI)
		svc := NewService(api)
		snap := referenceSnapshot()
		snap.Items[0].ID, snap.Items[0].ProductID = "sku-abc", "sku-abc"

		_, err := svc.SubmitOrder(ctx, snap, referenceConfig())

		var v *apperror.ValidationError
		require.ErrorAs(t, err, &v)
		assert.Equal(t, "productId", v.Field)
		api.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	t.Run("RemoteFailure", func(t *testing.T) {
		api := new(MockRemoteAPI)
		svc := NewService(api)
		cause := errors.New("timeout")
		api.On("CreateOrder", ctx, mock.Anything).Return(nil, cause).Once()

		res, err := svc.SubmitOrder(ctx, referenceSnapshot(), referenceConfig())

		assert.Nil(t, res)
		var subErr *apperror.SubmissionError
		require.ErrorAs(t, err, &subErr)
		assert.Equal(t, "createOrder", subErr.Op)
		assert.ErrorIs(t, err, cause)
		api.AssertNumberOfCalls(t, "CreateOrder", 1)
	})
}

func TestToCreateOrderInput_CustomItem(t *testing.T) {
	snap := referenceSnapshot()
	snap.Items = append(snap.Items, cart.LineItem{
		ID: "custom-1", Name: "Engraving", UnitPrice: dec("4.25"), Quantity: 3, Source: cart.SourceCustom,
	})
	snap.Notes = "  "
	snap.CollectPaymentLater = true

	in, err := ToCreateOrderInput(snap, referenceConfig())

	require.NoError(t, err)
	require.Len(t, in.OrderItems, 2)
	custom := in.OrderItems[1]
	assert.Nil(t, custom.ProductID)
	assert.Equal(t, 3, custom.Quantity)
	assert.Equal(t, "Engraving", *custom.Name)
	assert.Equal(t, "4.25", custom.Price.String())
	assert.Nil(t, in.Notes)
	assert.True(t, in.CollectPaymentLater)
	assert.Equal(t, "0812", utils.PtrString(in.ShippingAddress.Phone))
	assert.Equal(t, "0", in.Discount.String())
}

func TestToCreateOrderInput_NoCustomer(t *testing.T) {
	snap := referenceSnapshot()
	snap.Customer = nil

	assert.NotPanics(t, func() {
		_, err := ToCreateOrderInput(snap, referenceConfig())
		assert.ErrorIs(t, err, ErrNoCustomer)
	})
}

func TestService_CreateCustomer(t *testing.T) {
	ctx := context.Background()
	draft := CustomerDraft{Name: " Ana ", Email: "ana@example.com", Phone: "0812", Address: "Jl. Mawar 1"}

	t.Run("Success", func(t *testing.T) {
		api := new(MockRemoteAPI)
		svc := NewService(api)
		email := "ana@example.com"
		api.On("CreateCustomer", ctx, dataapi.CreateCustomerInput{
			Name: "Ana", Email: "ana@example.com", Phone: "0812", Address: "Jl. Mawar 1",
		}).Return(&dataapi.Customer{ID: "12", Name: "Ana", Email: &email}, nil).Once()

		got, err := svc.CreateCustomer(ctx, draft)

		require.NoError(t, err)
		assert.Equal(t, "12", got.ID)
		assert.Equal(t, "ana@example.com", got.Email)
		assert.Equal(t, "", got.Phone)
		assert.True(t, got.Persisted())
		api.AssertExpectations(t)
	})

	t.Run("InvalidDraft", func(t *testing.T) {
		api := new(MockRemoteAPI)
		svc := NewService(api)
		bad := draft
		bad.Email = "not-an-email"

		_, err := svc.CreateCustomer(ctx, bad)

		var v *apperror.ValidationError
		require.ErrorAs(t, err, &v)
		assert.Equal(t, "email", v.Field)
		api.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	})

	t.Run("BlankName", func(t *testing.T) {
		api := new(MockRemoteAPI)
		svc := NewService(api)
		bad := draft
		bad.Name = "   "

		_, err := svc.CreateCustomer(ctx, bad)

		var v *apperror.ValidationError
		require.ErrorAs(t, err, &v)
		assert.Equal(t, "name", v.Field)
	})

	t.Run("RemoteFailure", func(t *testing.T) {
		api := new(MockRemoteAPI)
		svc := NewService(api)
		api.On("CreateCustomer", ctx, mock.Anything).Return(nil, errors.New("duplicate email")).Once()

		got, err := svc.CreateCustomer(ctx, draft)

		assert.Nil(t, got)
		assert.True(t, apperror.IsSubmission(err))
		assert.Contains(t, err.Error(), "duplicate email")
	})
}
